// Package hooks runs user-defined shell commands after a wizard succeeds.
//
// Hooks are defined in config and run after "funcwiz project create",
// "funcwiz function create" or "funcwiz samples download", for example
// to open an editor or install dependencies.
//
// # Hook Selection
//
//   - Automatic: hooks whose "on" list contains the event (or "all") run
//   - Manual: --hook=name runs only that hook, --no-hook skips all
//
// Example config:
//
//	[hooks.vscode]
//	command = "code {path}"
//	on = ["project", "samples"]
//
//	[hooks.npm]
//	command = "npm install"
//	# no "on" - only runs via --hook=npm
//
// # Placeholder Substitution
//
//   - {path}: absolute project or sample directory
//   - {name}: function or sample name (empty for projects)
//   - {language}: project language (worker runtime for functions), when known
//   - {event}: project, function or samples
//
// Custom variables via --arg key=value:
//
//   - {key}: shell-quoted value
//   - {key:raw}: value as-is
//   - {key:-default}: value with fallback if not provided
//
// Hooks run with the working directory set to {path}. A failing hook is
// reported as a warning; the wizard's work is already done.
package hooks
