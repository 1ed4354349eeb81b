// Package wizard runs step-based interactive workflows.
//
// A [Wizard] has two phases over one shared [Context]:
//
//   - Prompt: pending [PromptStep]s run in queue order. A step whose
//     ShouldPrompt is false is skipped without touching the context. After a
//     step prompts, the [SubWizard] it returns is spliced in: its prompt steps
//     run next, ahead of anything queued after the originating step, and its
//     execute steps join the pool.
//
//   - Execute: the accumulated [ExecuteStep] pool is stable-sorted by
//     ascending priority and each step whose ShouldExecute holds runs in
//     turn. The first failure stops the phase.
//
// A cancelled prompt ([ErrCancelled], or a done context.Context) aborts the
// run before anything executes. Other failures are returned as a
// [*StepError] naming the phase and step.
//
// Steps talk to the user only through the [Prompter] stored on the context,
// so the same workflow runs against the terminal UI or a scripted answer
// file.
package wizard
