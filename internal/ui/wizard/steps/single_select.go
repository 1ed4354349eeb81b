package steps

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/funcwiz/internal/ui/wizard/framework"
)

// SingleSelectStep picks one of a few fixed options, such as the buttons
// of a warning. It has no filter; j/k and the arrow keys move.
type SingleSelectStep struct {
	id       string
	message  string
	warning  bool
	options  []framework.Option
	cursor   int
	selected int // -1 if nothing selected yet
}

// NewSingleSelect creates a new single-select step.
func NewSingleSelect(id, message string, options []framework.Option) *SingleSelectStep {
	cursor := 0
	for i, opt := range options {
		if !opt.Disabled {
			cursor = i
			break
		}
	}
	return &SingleSelectStep{
		id:       id,
		message:  message,
		options:  options,
		cursor:   cursor,
		selected: -1,
	}
}

// AsWarning renders the message in the warning color.
func (s *SingleSelectStep) AsWarning() *SingleSelectStep {
	s.warning = true
	return s
}

func (s *SingleSelectStep) ID() string { return s.id }

func (s *SingleSelectStep) Init() tea.Cmd { return nil }

func (s *SingleSelectStep) Update(msg tea.Msg) (tea.Cmd, framework.StepResult) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, framework.StepContinue
	}

	switch key.String() {
	case "up", "k", "left", "h", "shift+tab":
		s.move(-1)
	case "down", "j", "right", "l", "tab":
		s.move(1)
	case "enter":
		if len(s.options) > 0 && !s.options[s.cursor].Disabled {
			s.selected = s.cursor
			return nil, framework.StepSubmit
		}
	}
	return nil, framework.StepContinue
}

func (s *SingleSelectStep) move(dir int) {
	for i := s.cursor + dir; i >= 0 && i < len(s.options); i += dir {
		if !s.options[i].Disabled {
			s.cursor = i
			return
		}
	}
}

func (s *SingleSelectStep) View() string {
	var b strings.Builder
	if s.message != "" {
		if s.warning {
			b.WriteString(framework.WarningStyle().Render(s.message))
		} else {
			b.WriteString(s.message)
		}
		b.WriteString("\n\n")
	}

	for i, opt := range s.options {
		if opt.Disabled {
			b.WriteString("  " + framework.OptionDisabledStyle().Render(opt.Label) + "\n")
			continue
		}
		cursor := "  "
		style := framework.OptionNormalStyle()
		if i == s.cursor {
			cursor = "> "
			style = framework.OptionSelectedStyle()
		}
		b.WriteString(cursor + style.Render(opt.Label) + "\n")
		if opt.Description != "" {
			b.WriteString("    " + framework.OptionDescriptionStyle().Render(opt.Description) + "\n")
		}
	}
	return b.String()
}

func (s *SingleSelectStep) Help() string {
	return "↑/↓ select • enter confirm • esc cancel"
}

func (s *SingleSelectStep) Value() framework.StepValue {
	if s.selected < 0 || s.selected >= len(s.options) {
		return framework.StepValue{Key: s.id}
	}
	opt := s.options[s.selected]
	return framework.StepValue{Key: s.id, Label: opt.Label, Raw: opt.Value}
}

func (s *SingleSelectStep) HasClearableInput() bool { return false }

func (s *SingleSelectStep) ClearInput() tea.Cmd { return nil }
