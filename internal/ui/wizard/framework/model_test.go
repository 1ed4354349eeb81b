package framework

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// mockStep is a minimal Step for exercising the Model.
type mockStep struct {
	id       string
	input    string
	submit   bool
	cleared  bool
	received []tea.Msg
}

func (s *mockStep) ID() string    { return s.id }
func (s *mockStep) Init() tea.Cmd { return nil }

func (s *mockStep) Update(msg tea.Msg) (tea.Cmd, StepResult) {
	s.received = append(s.received, msg)
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" && s.submit {
		return nil, StepSubmit
	}
	return nil, StepContinue
}

func (s *mockStep) View() string             { return "question " + s.id }
func (s *mockStep) Help() string             { return "enter confirm" }
func (s *mockStep) Value() StepValue         { return StepValue{Key: s.id, Label: "answer", Raw: 42} }
func (s *mockStep) HasClearableInput() bool { return s.input != "" }

func (s *mockStep) ClearInput() tea.Cmd {
	s.input = ""
	s.cleared = true
	return nil
}

// keyMsg creates a KeyPressMsg for testing.
func keyMsg(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	default:
		r := []rune(key)[0]
		return tea.KeyPressMsg{Code: r, Text: key}
	}
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	step := &mockStep{id: "name", submit: true}
	m := NewModel(Header{Title: "Create"}, step)

	_, cmd := m.Update(keyMsg("a"))
	if m.Submitted() {
		t.Fatal("typing must not submit")
	}
	if cmd != nil {
		t.Error("expected no command while typing")
	}

	_, cmd = m.Update(keyMsg("enter"))
	if !m.Submitted() {
		t.Fatal("enter should submit")
	}
	if cmd == nil {
		t.Error("submit should quit the program")
	}
	if len(step.received) != 2 {
		t.Errorf("step received %d messages, want 2", len(step.received))
	}
}

func TestModel_EscClearsBeforeCancel(t *testing.T) {
	t.Parallel()

	step := &mockStep{id: "filter", input: "abc"}
	m := NewModel(Header{}, step)

	m.Update(keyMsg("esc"))
	if !step.cleared {
		t.Fatal("first esc should clear input")
	}
	if m.Cancelled() {
		t.Fatal("first esc must not cancel")
	}

	_, cmd := m.Update(keyMsg("esc"))
	if !m.Cancelled() {
		t.Fatal("second esc should cancel")
	}
	if cmd == nil {
		t.Error("cancel should quit the program")
	}
}

func TestModel_CtrlCCancels(t *testing.T) {
	t.Parallel()

	step := &mockStep{id: "x", input: "keep"}
	m := NewModel(Header{}, step)

	m.Update(keyMsg("ctrl+c"))
	if !m.Cancelled() {
		t.Fatal("ctrl+c should cancel")
	}
	if step.cleared {
		t.Error("ctrl+c must not clear input")
	}
	if len(step.received) != 0 {
		t.Error("ctrl+c must not reach the step")
	}
}

func TestModel_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      Header
		wantCounter bool
	}{
		{"counter", Header{Title: "Create project", Step: 2, Total: 3}, true},
		{"single step", Header{Title: "Create project", Step: 1, Total: 1}, false},
		{"hidden step", Header{Title: "Create project", Step: 0, Total: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := NewModel(tt.header, &mockStep{id: "lang"}).Render()
			if !strings.Contains(out, "Create project") {
				t.Errorf("render missing title: %q", out)
			}
			if !strings.Contains(out, "question lang") {
				t.Errorf("render missing step view: %q", out)
			}
			counter := strings.Contains(out, "(2/3)")
			if counter != tt.wantCounter {
				t.Errorf("counter shown = %v, want %v", counter, tt.wantCounter)
			}
		})
	}
}

func TestFilterText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text   string
		filter RuneFilter
		want   string
	}{
		{"abc", nil, "abc"},
		{"a b", RuneFilterNoSpaces, "ab"},
		{"\x1b", nil, ""},
	}
	for _, tt := range tests {
		if got := FilterText(tt.text, tt.filter); got != tt.want {
			t.Errorf("FilterText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDeleteHelpers(t *testing.T) {
	t.Parallel()

	if got := DeleteLastWord("hello world"); got != "hello " {
		t.Errorf("DeleteLastWord = %q", got)
	}
	if got := DeleteLastWord("hello"); got != "" {
		t.Errorf("DeleteLastWord single word = %q", got)
	}
	if got := DeleteLastRune("héé"); got != "hé" {
		t.Errorf("DeleteLastRune = %q", got)
	}
	if got := DeleteLastRune(""); got != "" {
		t.Errorf("DeleteLastRune empty = %q", got)
	}
}
