package wizard

import "context"

// Header carries the title and step position shown above a prompt.
// Total counts visible steps known so far and can grow as sub-wizards
// are spliced in.
type Header struct {
	Title string
	Step  int
	Total int
}

// Choice is one entry of a pick list.
type Choice struct {
	Label       string
	Description string
	Value       any
	Disabled    bool
}

// PickOptions configures Prompter.Pick.
type PickOptions struct {
	Header
	// ID identifies the question for scripted answers.
	ID          string
	Placeholder string
	Choices     []Choice
}

// InputOptions configures Prompter.Input.
type InputOptions struct {
	Header
	ID          string
	Prompt      string
	Placeholder string
	Value       string
	// Validate returns a user-facing error for an unacceptable value.
	// Interactive prompters debounce it while the user types.
	Validate func(ctx context.Context, value string) error
}

// WarnOptions configures Prompter.Warn.
type WarnOptions struct {
	Header
	ID      string
	Message string
	Buttons []string
}

// Prompter is the user interface capability steps depend on. Every method
// returns ErrCancelled when the user backs out.
type Prompter interface {
	// Pick asks the user to choose one of opts.Choices.
	Pick(ctx context.Context, opts PickOptions) (Choice, error)
	// Input asks for free text.
	Input(ctx context.Context, opts InputOptions) (string, error)
	// Warn shows a blocking message and returns the chosen button label.
	Warn(ctx context.Context, opts WarnOptions) (string, error)
	// Progress starts progress reporting for the execute phase.
	Progress(ctx context.Context, title string) Progress
}

// Progress receives status updates while execute steps run.
type Progress interface {
	Report(message string)
	Done()
}

type nopProgress struct{}

func (nopProgress) Report(string) {}
func (nopProgress) Done()         {}
