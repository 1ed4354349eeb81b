package framework

import tea "charm.land/bubbletea/v2"

// StepResult indicates what to do after a step update.
type StepResult int

const (
	// StepContinue means stay on the current step.
	StepContinue StepResult = iota
	// StepSubmit means the step has an accepted value.
	StepSubmit
)

// StepValue holds the result of a submitted step.
type StepValue struct {
	Key   string // step ID
	Label string // display value
	Raw   any    // actual value
}

// Step is one interactive question rendered by a Model.
type Step interface {
	// ID returns a unique identifier for this step.
	ID() string

	// Init returns an initial command when the step is shown.
	Init() tea.Cmd

	// Update handles key presses and the step's own messages.
	Update(msg tea.Msg) (tea.Cmd, StepResult)

	// View renders the step content.
	View() string

	// Help returns the key hints shown below the step.
	Help() string

	// Value returns the submitted value.
	Value() StepValue

	// HasClearableInput returns true if the step has input that can be cleared.
	// ESC clears input first, then cancels.
	HasClearableInput() bool

	// ClearInput clears any user input (filter, text field).
	ClearInput() tea.Cmd
}

// Option represents a selectable item in list-based steps.
type Option struct {
	Label       string
	Value       any
	Description string // shown below the label, or as the disabled reason
	Disabled    bool
}
