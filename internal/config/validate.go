package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	ValidLanguages  = []string{"csharp", "javascript", "typescript", "python", "java", "powershell", "custom"}
	ValidAuthLevels = []string{"anonymous", "function", "admin"}
	ValidThemeNames = []string{"none", "default", "dracula", "nord", "gruvbox", "catppuccin"}
	ValidThemeModes = []string{"auto", "light", "dark"}
	ValidHookEvents = []string{"project", "function", "samples", "all"}
)

// Validate checks enum fields, paths and URLs.
func (c *Config) Validate() error {
	if err := validateEnum(c.DefaultLanguage, "default_language", ValidLanguages); err != nil {
		return err
	}
	if err := validateEnum(c.Function.AuthLevel, "function.auth_level", ValidAuthLevels); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return err
	}
	if strings.ContainsRune(c.FuncPath, '/') {
		if err := ValidatePath(c.FuncPath, "func_path"); err != nil {
			return err
		}
	}
	for name, h := range c.Hooks {
		if h.Command == "" {
			return fmt.Errorf("hook %q has no command", name)
		}
		for _, on := range h.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookEvents); err != nil {
				return err
			}
		}
	}
	for field, raw := range map[string]string{
		"host.url":           c.Host.URL,
		"feed.templates_url": c.Feed.TemplatesURL,
		"feed.samples_url":   c.Feed.SamplesURL,
	} {
		if err := validateURL(raw, field); err != nil {
			return err
		}
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

func validateURL(raw, field string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http(s) URL", field, raw)
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
