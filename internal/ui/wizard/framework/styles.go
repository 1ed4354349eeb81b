package framework

import (
	"charm.land/lipgloss/v2"

	"github.com/raphi011/funcwiz/internal/ui/styles"
)

// Style functions return styles based on the current theme. They are
// functions instead of variables to pick up theme changes.

// BorderStyle wraps the whole prompt (left border only).
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Primary).
		MarginTop(1).
		PaddingLeft(2).
		PaddingRight(2)
}

// TitleStyle for the wizard title
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Primary)
}

// StepCounterStyle for the "(2/4)" position after the title
func StepCounterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

// OptionSelectedStyle for the cursor-highlighted option
func OptionSelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Accent)
}

// OptionNormalStyle for regular options
func OptionNormalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Normal)
}

// OptionDisabledStyle for disabled options
func OptionDisabledStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

// OptionDescriptionStyle for the second row of an option
func OptionDescriptionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

// HelpStyle for key hints at the bottom
func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginTop(1)
}

// FilterStyle for the filter text being typed
func FilterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
}

// FilterLabelStyle for the "Filter:" label
func FilterLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

// MatchHighlightStyle for fuzzy matched characters
func MatchHighlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true).
		Underline(true)
}

// ErrorStyle for validation messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Error)
}

// PendingStyle for "checking..." while validation runs
func PendingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Info).
		Italic(true)
}

// WarningStyle for the message of a warning prompt
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Warning).
		Bold(true)
}
