package wizard

import (
	"context"

	"github.com/raphi011/funcwiz/internal/log"
)

// PromptStep is one interactive decision point.
type PromptStep interface {
	// ID names the step in errors, logs and scripted answer files.
	ID() string
	// ShouldPrompt is evaluated when the step reaches the front of the
	// queue. Returning false skips the step entirely.
	ShouldPrompt(wctx *Context) bool
	// Prompt asks the user and records the answer on wctx.
	Prompt(ctx context.Context, wctx *Context) error
	// SubWizard returns steps to splice in after Prompt, or nil.
	SubWizard(ctx context.Context, wctx *Context) (*SubWizard, error)
	// Hidden excludes the step from the displayed step count.
	Hidden() bool
}

// ExecuteStep is one side-effecting action of the execute phase.
type ExecuteStep interface {
	ID() string
	// Priority orders the execute phase; lower runs first.
	Priority() int
	ShouldExecute(wctx *Context) bool
	Execute(ctx context.Context, wctx *Context) error
}

// Describer is implemented by execute steps that report a progress
// message while they run.
type Describer interface {
	Description(wctx *Context) string
}

// SubWizard is the set of steps a prompt step contributes once its
// answer is known.
type SubWizard struct {
	PromptSteps  []PromptStep
	ExecuteSteps []ExecuteStep
}

// BasePromptStep provides defaults for PromptStep: always prompt, no
// sub-wizard, counted in the step total.
type BasePromptStep struct{}

func (BasePromptStep) ShouldPrompt(*Context) bool { return true }

func (BasePromptStep) SubWizard(context.Context, *Context) (*SubWizard, error) { return nil, nil }

func (BasePromptStep) Hidden() bool { return false }

// BaseExecuteStep provides an always-true ShouldExecute.
type BaseExecuteStep struct{}

func (BaseExecuteStep) ShouldExecute(*Context) bool { return true }

// FuncStep is an ExecuteStep built from a function.
type FuncStep struct {
	id       string
	priority int
	desc     string
	when     func(*Context) bool
	fn       func(ctx context.Context, wctx *Context) error
}

// NewExecute returns an execute step running fn at the given priority.
func NewExecute(id string, priority int, fn func(ctx context.Context, wctx *Context) error) *FuncStep {
	return &FuncStep{id: id, priority: priority, fn: fn}
}

// When makes the step conditional on pred.
func (s *FuncStep) When(pred func(*Context) bool) *FuncStep {
	s.when = pred
	return s
}

// Describe sets the progress message reported while the step runs.
func (s *FuncStep) Describe(desc string) *FuncStep {
	s.desc = desc
	return s
}

func (s *FuncStep) ID() string    { return s.id }
func (s *FuncStep) Priority() int { return s.priority }

func (s *FuncStep) ShouldExecute(wctx *Context) bool {
	return s.when == nil || s.when(wctx)
}

func (s *FuncStep) Execute(ctx context.Context, wctx *Context) error {
	return s.fn(ctx, wctx)
}

func (s *FuncStep) Description(*Context) string {
	if s.desc == "" {
		return s.id
	}
	return s.desc
}

// BestEffort wraps step so that its failure is logged and swallowed.
// Use it for auxiliary work that must not undo an already successful
// primary outcome. Cancellation still propagates.
func BestEffort(step ExecuteStep) ExecuteStep {
	return &bestEffort{ExecuteStep: step}
}

type bestEffort struct {
	ExecuteStep
}

func (b *bestEffort) Execute(ctx context.Context, wctx *Context) error {
	err := b.ExecuteStep.Execute(ctx, wctx)
	if err == nil || IsCancelled(err) || ctx.Err() != nil {
		return err
	}
	log.FromContext(ctx).Printf("Warning: %s: %v\n", b.ExecuteStep.ID(), err)
	return nil
}

func (b *bestEffort) Description(wctx *Context) string {
	if d, ok := b.ExecuteStep.(Describer); ok {
		return d.Description(wctx)
	}
	return b.ExecuteStep.ID()
}
