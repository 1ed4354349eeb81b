package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/funcwiz/internal/debounce"
	"github.com/raphi011/funcwiz/internal/ui/wizard/framework"
)

// ValidateFunc checks an input value and returns a user-facing error.
type ValidateFunc func(ctx context.Context, value string) error

// validationMsg carries the result of a debounced validation.
type validationMsg struct {
	stepID string
	value  string
	err    error
}

// TextInputStep allows entering free-form text. While the user types,
// the value is validated after a quiet period; enter validates again
// before submitting.
type TextInputStep struct {
	id         string
	prompt     string
	input      textinput.Model
	ctx        context.Context
	validate   ValidateFunc
	debouncer  *debounce.Debouncer[struct{}]
	allowEmpty bool
	runeFilter framework.RuneFilter

	pending         bool
	validationError string
	submitted       bool
	submitValue     string
}

// NewTextInput creates a new text input step.
func NewTextInput(id, prompt, placeholder string) *TextInputStep {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetWidth(60)

	return &TextInputStep{
		id:        id,
		prompt:    prompt,
		input:     ti,
		ctx:       context.Background(),
		debouncer: debounce.New[struct{}](debounce.DefaultDelay),
	}
}

// WithValidate sets the validation function. ctx bounds validations
// started while typing.
func (s *TextInputStep) WithValidate(ctx context.Context, fn ValidateFunc) *TextInputStep {
	s.ctx = ctx
	s.validate = fn
	return s
}

// WithDebouncer replaces the default 250ms debouncer.
func (s *TextInputStep) WithDebouncer(d *debounce.Debouncer[struct{}]) *TextInputStep {
	s.debouncer = d
	return s
}

// WithAllowEmpty lets the step submit an empty value.
func (s *TextInputStep) WithAllowEmpty() *TextInputStep {
	s.allowEmpty = true
	return s
}

// WithRuneFilter drops typed characters the filter rejects.
func (s *TextInputStep) WithRuneFilter(f framework.RuneFilter) *TextInputStep {
	s.runeFilter = f
	return s
}

// SetValue sets the current input value.
func (s *TextInputStep) SetValue(value string) {
	s.input.SetValue(value)
}

func (s *TextInputStep) ID() string { return s.id }

func (s *TextInputStep) Init() tea.Cmd {
	s.input.Focus()
	if s.input.Value() != "" {
		return tea.Batch(textinput.Blink, s.validateCmd(s.input.Value()))
	}
	return textinput.Blink
}

func (s *TextInputStep) Update(msg tea.Msg) (tea.Cmd, framework.StepResult) {
	switch msg := msg.(type) {
	case validationMsg:
		if msg.stepID == s.id && msg.value == s.input.Value() {
			s.pending = false
			s.validationError = ""
			if msg.err != nil {
				s.validationError = msg.err.Error()
			}
		}
		return nil, framework.StepContinue

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return nil, s.submit()
		}
		if msg.Text != "" && s.runeFilter != nil && framework.FilterText(msg.Text, s.runeFilter) != msg.Text {
			return nil, framework.StepContinue
		}

		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		if after := s.input.Value(); after != before {
			s.validationError = ""
			return tea.Batch(cmd, s.validateCmd(after)), framework.StepContinue
		}
		return cmd, framework.StepContinue
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd, framework.StepContinue
}

func (s *TextInputStep) submit() framework.StepResult {
	value := strings.TrimSpace(s.input.Value())
	if value == "" && !s.allowEmpty {
		s.validationError = "Value cannot be empty"
		return framework.StepContinue
	}
	if s.validate != nil {
		if err := s.validate(s.ctx, value); err != nil {
			s.validationError = err.Error()
			return framework.StepContinue
		}
	}
	s.validationError = ""
	s.submitted = true
	s.submitValue = value
	return framework.StepSubmit
}

// validateCmd schedules a debounced validation of value. A newer
// keystroke supersedes it and its result is dropped.
func (s *TextInputStep) validateCmd(value string) tea.Cmd {
	if s.validate == nil {
		return nil
	}
	s.pending = true
	ctx, id, validate, d := s.ctx, s.id, s.validate, s.debouncer
	return func() tea.Msg {
		_, err := d.Do(ctx, id, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, validate(ctx, strings.TrimSpace(value))
		})
		if errors.Is(err, debounce.ErrSuperseded) || ctx.Err() != nil {
			return nil
		}
		return validationMsg{stepID: id, value: value, err: err}
	}
}

func (s *TextInputStep) View() string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	b.WriteString(s.input.View())
	switch {
	case s.validationError != "":
		b.WriteString("\n" + framework.ErrorStyle().Render(s.validationError))
	case s.pending:
		b.WriteString("\n" + framework.PendingStyle().Render("checking..."))
	}
	return b.String()
}

func (s *TextInputStep) Help() string {
	return "type text • enter confirm • esc cancel"
}

func (s *TextInputStep) Value() framework.StepValue {
	return framework.StepValue{Key: s.id, Label: s.submitValue, Raw: s.submitValue}
}

func (s *TextInputStep) HasClearableInput() bool {
	return s.input.Value() != ""
}

func (s *TextInputStep) ClearInput() tea.Cmd {
	s.input.SetValue("")
	s.validationError = ""
	s.pending = false
	return nil
}

// ValidationError returns the message currently shown, if any.
func (s *TextInputStep) ValidationError() string {
	return s.validationError
}

// String implements fmt.Stringer for debugging.
func (s *TextInputStep) String() string {
	return fmt.Sprintf("TextInputStep{id=%s, submitted=%v, value=%q}", s.id, s.submitted, s.submitValue)
}
