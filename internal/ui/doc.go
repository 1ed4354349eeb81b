// Package ui provides the interactive terminal prompter for funcwiz
// wizards.
//
// [Terminal] implements wizard.Prompter on top of Bubble Tea. Each
// question runs as its own short-lived program rendered to stderr, so
// stdout stays clean for command output:
//
//   - Pick shows a fuzzy-filtered list (steps.FilterableListStep)
//   - Input shows a text field validated as the user types, debounced
//     through internal/debounce
//   - Warn shows the message with a button list
//   - Progress shows a spinner (progress.Spinner) while execute steps run
//
// Esc (with nothing to clear) and ctrl+c cancel the current question,
// which surfaces as wizard.ErrCancelled.
package ui
