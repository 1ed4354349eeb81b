package styles

import (
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/funcwiz/internal/config"
)

func TestSelectTheme(t *testing.T) {
	t.Parallel()

	dark := func() bool { return true }
	light := func() bool { return false }

	tests := []struct {
		name   string
		cfg    config.ThemeConfig
		isDark func() bool
		want   Theme
	}{
		{"empty is default", config.ThemeConfig{}, dark, DefaultTheme},
		{"unknown falls back to default", config.ThemeConfig{Name: "solarized"}, dark, DefaultTheme},
		{"dark-only family in light mode", config.ThemeConfig{Name: "dracula", Mode: "light"}, dark, DraculaTheme},
		{"explicit light", config.ThemeConfig{Name: "nord", Mode: "light"}, dark, NordLightTheme},
		{"explicit dark", config.ThemeConfig{Name: "nord", Mode: "dark"}, light, NordTheme},
		{"auto on light terminal", config.ThemeConfig{Name: "gruvbox", Mode: "auto"}, light, GruvboxLightTheme},
		{"auto on dark terminal", config.ThemeConfig{Name: "catppuccin"}, dark, CatppuccinMochaTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := selectTheme(tt.cfg, tt.isDark); got != tt.want {
				t.Errorf("selectTheme(%+v) = %+v, want %+v", tt.cfg, got, tt.want)
			}
		})
	}
}

// Init mutates package state, so these run sequentially.
func TestInit_Overrides(t *testing.T) {
	defer Init(config.ThemeConfig{Mode: "dark"})

	Init(config.ThemeConfig{Name: "dracula", Mode: "dark", Accent: "#123456", Nerdfont: true})

	got := Current()
	if got.Primary != DraculaTheme.Primary {
		t.Errorf("Primary = %v, want dracula primary", got.Primary)
	}
	if got.Accent != lipgloss.Color("#123456") {
		t.Errorf("Accent = %v, want override", got.Accent)
	}
	if Accent != got.Accent {
		t.Error("package Accent not updated")
	}
	if CurrentSymbols() != nerdfontSymbols {
		t.Error("nerdfont symbols not enabled")
	}
}

func TestPresetNamesHaveFamilies(t *testing.T) {
	t.Parallel()

	for _, name := range PresetNames() {
		if _, ok := themeFamilies[name]; !ok {
			t.Errorf("preset %q has no theme family", name)
		}
	}
}
