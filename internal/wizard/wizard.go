package wizard

import (
	"context"
	"errors"
	"sort"

	"github.com/raphi011/funcwiz/internal/log"
)

var errContextInUse = errors.New("wizard context is already used by a running wizard")

// Options configures a Wizard.
type Options struct {
	// Title is shown above every prompt.
	Title string
	// ExecuteTitle labels the progress display of the execute phase.
	// Defaults to Title.
	ExecuteTitle string
	PromptSteps  []PromptStep
	ExecuteSteps []ExecuteStep
}

// Wizard runs prompt steps, then execute steps, over one Context.
type Wizard struct {
	wctx         *Context
	title        string
	executeTitle string

	queue []PromptStep
	pool  []ExecuteStep
	shown int
}

// New binds a wizard to wctx.
func New(wctx *Context, opts Options) *Wizard {
	w := &Wizard{
		wctx:         wctx,
		title:        opts.Title,
		executeTitle: opts.ExecuteTitle,
		queue:        append([]PromptStep(nil), opts.PromptSteps...),
		pool:         append([]ExecuteStep(nil), opts.ExecuteSteps...),
	}
	if w.executeTitle == "" {
		w.executeTitle = w.title
	}
	return w
}

// Context returns the wizard's context.
func (w *Wizard) Context() *Context {
	return w.wctx
}

// Run prompts, then executes. Nothing executes if prompting fails.
func (w *Wizard) Run(ctx context.Context) error {
	if err := w.Prompt(ctx); err != nil {
		return err
	}
	return w.Execute(ctx)
}

// Prompt runs pending prompt steps until the queue is empty.
func (w *Wizard) Prompt(ctx context.Context) error {
	if !w.wctx.running.CompareAndSwap(false, true) {
		return &InternalError{Err: errContextInUse}
	}
	defer w.wctx.running.Store(false)

	l := log.FromContext(ctx)
	w.wctx.title = w.title

	for len(w.queue) > 0 {
		if ctx.Err() != nil {
			return w.finish(ErrCancelled)
		}

		step := w.queue[0]
		w.queue = w.queue[1:]

		if !step.ShouldPrompt(w.wctx) {
			l.Debug("prompt step skipped", "step", step.ID())
			continue
		}

		if !step.Hidden() {
			w.shown++
		}
		w.wctx.stepID = step.ID()
		w.wctx.step = w.shown
		w.wctx.total = w.shown + w.visiblePending()

		l.Debug("prompt step", "step", step.ID(), "position", w.wctx.step, "total", w.wctx.total)
		if err := step.Prompt(ctx, w.wctx); err != nil {
			return w.finish(w.stepError(ctx, PhasePrompt, step.ID(), err))
		}

		sub, err := step.SubWizard(ctx, w.wctx)
		if err != nil {
			return w.finish(w.stepError(ctx, PhasePrompt, step.ID(), err))
		}
		if sub != nil {
			w.splice(sub)
		}
	}

	w.wctx.stepID = ""
	return nil
}

// splice puts sub's prompt steps at the front of the queue and adds its
// execute steps to the pool.
func (w *Wizard) splice(sub *SubWizard) {
	if len(sub.PromptSteps) > 0 {
		queue := make([]PromptStep, 0, len(sub.PromptSteps)+len(w.queue))
		queue = append(queue, sub.PromptSteps...)
		w.queue = append(queue, w.queue...)
	}
	w.pool = append(w.pool, sub.ExecuteSteps...)
}

func (w *Wizard) visiblePending() int {
	n := 0
	for _, s := range w.queue {
		if !s.Hidden() {
			n++
		}
	}
	return n
}

// ExecuteSteps returns the execute pool in the order Execute will run it.
func (w *Wizard) ExecuteSteps() []ExecuteStep {
	steps := append([]ExecuteStep(nil), w.pool...)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Priority() < steps[j].Priority()
	})
	return steps
}

// Execute runs the pool in ascending priority and stops at the first
// failure.
func (w *Wizard) Execute(ctx context.Context) error {
	if !w.wctx.running.CompareAndSwap(false, true) {
		return &InternalError{Err: errContextInUse}
	}
	defer w.wctx.running.Store(false)

	l := log.FromContext(ctx)

	var progress Progress = nopProgress{}
	if w.wctx.Prompter != nil {
		progress = w.wctx.Prompter.Progress(ctx, w.executeTitle)
	}
	defer progress.Done()

	for _, step := range w.ExecuteSteps() {
		if ctx.Err() != nil {
			return w.finish(ErrCancelled)
		}
		if !step.ShouldExecute(w.wctx) {
			l.Debug("execute step skipped", "step", step.ID(), "priority", step.Priority())
			continue
		}

		if d, ok := step.(Describer); ok {
			progress.Report(d.Description(w.wctx))
		}
		l.Debug("execute step", "step", step.ID(), "priority", step.Priority())
		if err := step.Execute(ctx, w.wctx); err != nil {
			return w.finish(w.stepError(ctx, PhaseExecute, step.ID(), err))
		}
	}
	return nil
}

func (w *Wizard) stepError(ctx context.Context, phase Phase, id string, err error) error {
	if IsCancelled(err) || ctx.Err() != nil {
		return ErrCancelled
	}
	return &StepError{Phase: phase, StepID: id, Err: err}
}

func (w *Wizard) finish(err error) error {
	if err != nil && w.wctx.SuppressErrorDisplay && !errors.Is(err, ErrCancelled) {
		return MarkReported(err)
	}
	return err
}
