// Package steps provides the question types shown by the terminal
// prompter: a fuzzy-filtered pick list, a text input with debounced
// validation, and a button choice for warnings.
package steps

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/funcwiz/internal/ui/wizard/framework"
)

// maxVisible is the number of list rows shown before scrolling.
const maxVisible = 10

// optionSource implements fuzzy.Source for options.
type optionSource []framework.Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }

// FilterableListStep selects one option from a list narrowed by typing.
// The cursor skips disabled options.
type FilterableListStep struct {
	id       string
	prompt   string
	options  []framework.Option
	filtered []fuzzy.Match // best match first while filtering
	cursor   int           // position in filtered
	selected int           // option index, -1 until submitted
	filter   string

	runeFilter framework.RuneFilter
}

// NewFilterableList creates a new filterable single-select step.
func NewFilterableList(id, prompt string, options []framework.Option) *FilterableListStep {
	s := &FilterableListStep{
		id:       id,
		prompt:   prompt,
		options:  options,
		selected: -1,
	}
	s.applyFilter()
	s.cursor = s.nextEnabled(0, 1)
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s
}

// WithRuneFilter sets a filter for allowed filter characters.
func (s *FilterableListStep) WithRuneFilter(f framework.RuneFilter) *FilterableListStep {
	s.runeFilter = f
	return s
}

func (s *FilterableListStep) ID() string { return s.id }

func (s *FilterableListStep) Init() tea.Cmd { return nil }

func (s *FilterableListStep) Update(msg tea.Msg) (tea.Cmd, framework.StepResult) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil, framework.StepContinue
	}

	switch key.String() {
	case "up", "ctrl+p":
		if prev := s.nextEnabled(s.cursor-1, -1); prev >= 0 {
			s.cursor = prev
		}
	case "down", "ctrl+n":
		if next := s.nextEnabled(s.cursor+1, 1); next >= 0 {
			s.cursor = next
		}
	case "home", "pgup":
		if first := s.nextEnabled(0, 1); first >= 0 {
			s.cursor = first
		}
	case "end", "pgdown":
		if last := s.nextEnabled(len(s.filtered)-1, -1); last >= 0 {
			s.cursor = last
		}
	case "enter":
		if s.cursor < len(s.filtered) {
			idx := s.filtered[s.cursor].Index
			if !s.options[idx].Disabled {
				s.selected = idx
				return nil, framework.StepSubmit
			}
		}
	case "backspace":
		if s.filter != "" {
			s.filter = framework.DeleteLastRune(s.filter)
			s.applyFilter()
		}
	case "alt+backspace", "ctrl+w":
		if s.filter != "" {
			s.filter = framework.DeleteLastWord(s.filter)
			s.applyFilter()
		}
	default:
		if text := framework.FilterText(key.Text, s.runeFilter); text != "" {
			s.filter += text
			s.applyFilter()
		}
	}
	return nil, framework.StepContinue
}

func (s *FilterableListStep) View() string {
	var b strings.Builder
	if s.prompt != "" {
		b.WriteString(s.prompt + ":\n")
	}
	b.WriteString(framework.FilterLabelStyle().Render("Filter: ") + framework.FilterStyle().Render(s.filter) + "\n\n")

	start := 0
	if s.cursor >= maxVisible {
		start = s.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.filtered))

	if start > 0 {
		b.WriteString(framework.OptionNormalStyle().Render("  ↑ more above") + "\n")
	}

	for i := start; i < end; i++ {
		match := s.filtered[i]
		opt := s.options[match.Index]

		if opt.Disabled {
			label := opt.Label
			if opt.Description != "" {
				label += " (" + opt.Description + ")"
			}
			b.WriteString("  " + framework.OptionDisabledStyle().Render(label) + "\n")
			continue
		}

		cursor := "  "
		style := framework.OptionNormalStyle()
		if i == s.cursor {
			cursor = "> "
			style = framework.OptionSelectedStyle()
		}

		label := style.Render(opt.Label)
		if s.filter != "" && len(match.MatchedIndexes) > 0 {
			label = highlightMatches(opt.Label, match.MatchedIndexes, style)
		}
		b.WriteString(cursor + label + "\n")
		if opt.Description != "" {
			b.WriteString("    " + framework.OptionDescriptionStyle().Render(opt.Description) + "\n")
		}
	}

	if end < len(s.filtered) {
		b.WriteString(framework.OptionNormalStyle().Render("  ↓ more below") + "\n")
	}
	if len(s.filtered) == 0 {
		b.WriteString(framework.OptionNormalStyle().Render("  No matching items") + "\n")
	}
	return b.String()
}

func (s *FilterableListStep) Help() string {
	return "↑/↓ select • type to filter • enter confirm • esc cancel"
}

func (s *FilterableListStep) Value() framework.StepValue {
	if s.selected < 0 {
		return framework.StepValue{Key: s.id}
	}
	opt := s.options[s.selected]
	return framework.StepValue{Key: s.id, Label: opt.Label, Raw: s.selected}
}

// SelectedIndex returns the index into the original options, or -1.
func (s *FilterableListStep) SelectedIndex() int {
	return s.selected
}

func (s *FilterableListStep) HasClearableInput() bool {
	return s.filter != ""
}

func (s *FilterableListStep) ClearInput() tea.Cmd {
	s.filter = ""
	s.applyFilter()
	return nil
}

// Filter returns the current filter string.
func (s *FilterableListStep) Filter() string {
	return s.filter
}

// FilteredCount returns the number of options matching the filter.
func (s *FilterableListStep) FilteredCount() int {
	return len(s.filtered)
}

func (s *FilterableListStep) applyFilter() {
	if s.filter == "" {
		s.filtered = make([]fuzzy.Match, len(s.options))
		for i, opt := range s.options {
			s.filtered[i] = fuzzy.Match{Str: opt.Label, Index: i}
		}
	} else {
		s.filtered = fuzzy.FindFrom(s.filter, optionSource(s.options))
	}

	if s.cursor >= len(s.filtered) {
		s.cursor = max(0, len(s.filtered)-1)
	}
	if s.cursor < len(s.filtered) && s.options[s.filtered[s.cursor].Index].Disabled {
		if next := s.nextEnabled(s.cursor, 1); next >= 0 {
			s.cursor = next
		} else if prev := s.nextEnabled(s.cursor, -1); prev >= 0 {
			s.cursor = prev
		}
	}
}

// nextEnabled walks from position from in direction dir (1 or -1) and
// returns the first enabled position, or -1.
func (s *FilterableListStep) nextEnabled(from, dir int) int {
	for i := from; i >= 0 && i < len(s.filtered); i += dir {
		if !s.options[s.filtered[i].Index].Disabled {
			return i
		}
	}
	return -1
}

// highlightMatches renders label with matched characters highlighted.
func highlightMatches(label string, matched []int, base lipgloss.Style) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(label) {
		if set[i] {
			b.WriteString(framework.MatchHighlightStyle().Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// String implements fmt.Stringer for debugging.
func (s *FilterableListStep) String() string {
	return fmt.Sprintf("FilterableListStep{id=%s, cursor=%d, selected=%d, filter=%q}",
		s.id, s.cursor, s.selected, s.filter)
}
