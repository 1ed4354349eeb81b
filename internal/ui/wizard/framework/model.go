// Package framework renders a single wizard question as a Bubble Tea
// program.
//
// Ordering, skipping and sub-wizards are decided by the wizard engine;
// this package only shows one [Step] at a time inside the shared chrome
// (title, step counter, help line) and reports the submitted value or a
// cancellation.
package framework

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
)

// ErrCancelled is returned by Run when the user presses esc or ctrl+c.
var ErrCancelled = errors.New("prompt cancelled")

// Header is the chrome shown above a step.
type Header struct {
	Title string
	Step  int
	Total int
}

// Model is the Bubble Tea model wrapping one Step.
type Model struct {
	header    Header
	step      Step
	done      bool
	cancelled bool
}

// NewModel returns a model showing step below header.
func NewModel(header Header, step Step) *Model {
	return &Model{header: header, step: step}
}

func (m *Model) Init() tea.Cmd {
	return m.step.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc":
			if m.step.HasClearableInput() {
				return m, m.step.ClearInput()
			}
			m.cancelled = true
			return m, tea.Quit
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	cmd, result := m.step.Update(msg)
	if result == StepSubmit {
		m.done = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) View() tea.View {
	if m.done || m.cancelled {
		return tea.NewView("")
	}
	return tea.NewView(m.Render())
}

// Render returns the framed prompt as a string.
func (m *Model) Render() string {
	var b strings.Builder
	if title := m.headerLine(); title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString(m.step.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle().Render(m.step.Help()))
	return BorderStyle().Render(b.String())
}

func (m *Model) headerLine() string {
	if m.header.Title == "" {
		return ""
	}
	line := TitleStyle().Render(m.header.Title)
	if m.header.Step > 0 && m.header.Total > 1 {
		line += " " + StepCounterStyle().Render(fmt.Sprintf("(%d/%d)", m.header.Step, m.header.Total))
	}
	return line
}

// Submitted reports whether the step produced a value.
func (m *Model) Submitted() bool { return m.done }

// Cancelled reports whether the user backed out.
func (m *Model) Cancelled() bool { return m.cancelled }

// Run shows step until it is submitted or cancelled. Output goes to
// stderr so stdout stays clean for piping.
func Run(ctx context.Context, header Header, step Step, opts ...tea.ProgramOption) (StepValue, error) {
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	}, opts...)

	p := tea.NewProgram(NewModel(header, step), opts...)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return StepValue{}, ErrCancelled
		}
		return StepValue{}, err
	}

	m := final.(*Model)
	if m.cancelled || !m.done {
		return StepValue{}, ErrCancelled
	}
	return m.step.Value(), nil
}
