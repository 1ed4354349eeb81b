package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/funcwiz/internal/debounce"
	"github.com/raphi011/funcwiz/internal/ui/progress"
	"github.com/raphi011/funcwiz/internal/ui/wizard/framework"
	"github.com/raphi011/funcwiz/internal/ui/wizard/steps"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// Terminal prompts on the terminal. The zero value is not usable; call
// NewTerminal.
type Terminal struct {
	out      io.Writer
	delay    time.Duration
	programs []tea.ProgramOption
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithOutput sets where prompts and progress are drawn (default stderr).
func WithOutput(w io.Writer) TerminalOption {
	return func(t *Terminal) { t.out = w }
}

// WithValidationDelay sets the quiet period before input is validated.
func WithValidationDelay(d time.Duration) TerminalOption {
	return func(t *Terminal) { t.delay = d }
}

// WithProgramOptions passes extra options to every Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) TerminalOption {
	return func(t *Terminal) { t.programs = append(t.programs, opts...) }
}

// NewTerminal returns a terminal prompter.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{out: os.Stderr, delay: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ wizard.Prompter = (*Terminal)(nil)

func (t *Terminal) run(ctx context.Context, h wizard.Header, step framework.Step) (framework.StepValue, error) {
	opts := append([]tea.ProgramOption{tea.WithOutput(t.out)}, t.programs...)
	v, err := framework.Run(ctx, framework.Header(h), step, opts...)
	if errors.Is(err, framework.ErrCancelled) {
		return v, wizard.ErrCancelled
	}
	return v, err
}

// Pick shows a filterable list and returns the chosen entry.
func (t *Terminal) Pick(ctx context.Context, opts wizard.PickOptions) (wizard.Choice, error) {
	if len(opts.Choices) == 0 {
		return wizard.Choice{}, fmt.Errorf("%s: nothing to choose from", opts.ID)
	}

	options := make([]framework.Option, len(opts.Choices))
	for i, c := range opts.Choices {
		options[i] = framework.Option{
			Label:       c.Label,
			Value:       c.Value,
			Description: c.Description,
			Disabled:    c.Disabled,
		}
	}

	step := steps.NewFilterableList(opts.ID, opts.Placeholder, options)
	if _, err := t.run(ctx, opts.Header, step); err != nil {
		return wizard.Choice{}, err
	}
	return opts.Choices[step.SelectedIndex()], nil
}

// Input shows a text field. opts.Validate runs after each pause in
// typing and again on enter.
func (t *Terminal) Input(ctx context.Context, opts wizard.InputOptions) (string, error) {
	step := steps.NewTextInput(opts.ID, opts.Prompt, opts.Placeholder).
		WithDebouncer(debounce.New[struct{}](t.delay))
	if opts.Value != "" {
		step.SetValue(opts.Value)
	}
	if opts.Validate != nil {
		// The validator decides whether an empty value is acceptable.
		step.WithValidate(ctx, opts.Validate).WithAllowEmpty()
	}

	v, err := t.run(ctx, opts.Header, step)
	if err != nil {
		return "", err
	}
	s, _ := v.Raw.(string)
	return s, nil
}

// Warn shows a message with buttons. Without buttons it shows a single
// "OK".
func (t *Terminal) Warn(ctx context.Context, opts wizard.WarnOptions) (string, error) {
	buttons := opts.Buttons
	if len(buttons) == 0 {
		buttons = []string{"OK"}
	}
	options := make([]framework.Option, len(buttons))
	for i, b := range buttons {
		options[i] = framework.Option{Label: b, Value: b}
	}

	step := steps.NewSingleSelect(opts.ID, opts.Message, options).AsWarning()
	v, err := t.run(ctx, opts.Header, step)
	if err != nil {
		return "", err
	}
	return v.Label, nil
}

// Progress starts a spinner titled title. It stops on Done.
func (t *Terminal) Progress(_ context.Context, title string) wizard.Progress {
	s := progress.NewSpinner(t.out, title)
	s.Start()
	return s
}
