package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/ui/styles"
)

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Event identifies the wizard that completed.
type Event string

const (
	EventProject  Event = "project"
	EventFunction Event = "function"
	EventSamples  Event = "samples"
)

// Context holds the values for placeholder substitution.
type Context struct {
	Path     string            // absolute project or sample directory
	Name     string            // function or sample name
	Language string            // project language
	Event    Event             // wizard that triggered the hook
	Env      map[string]string // custom variables from --arg key=value
}

// Match is a hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Select returns the hooks to run for ev. With name set, only that hook
// runs regardless of its "on" list. Matches are sorted by name.
func Select(defined map[string]config.Hook, name string, noHook bool, ev Event) ([]Match, error) {
	if noHook {
		return nil, nil
	}

	if name != "" {
		hook, ok := defined[name]
		if !ok {
			return nil, fmt.Errorf("unknown hook %q", name)
		}
		return []Match{{Name: name, Hook: hook}}, nil
	}

	var matches []Match
	for n, hook := range defined {
		if matchesEvent(hook, ev) {
			matches = append(matches, Match{Name: n, Hook: hook})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return strings.Compare(a.Name, b.Name) })
	return matches, nil
}

// matchesEvent reports whether ev is in the hook's "on" list. "all"
// matches every event; hooks without "on" match none.
func matchesEvent(hook config.Hook, ev Event) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(ev) {
			return true
		}
	}
	return false
}

// Run runs every match in hctx.Path and stops at the first failure.
func Run(ctx context.Context, matches []Match, hctx Context) error {
	for _, m := range matches {
		if err := run(ctx, m, hctx); err != nil {
			return fmt.Errorf("hook %q failed: %w", m.Name, err)
		}
	}
	return nil
}

// RunNonFatal runs every match, logging failures as warnings.
func RunNonFatal(ctx context.Context, matches []Match, hctx Context) {
	l := log.FromContext(ctx)
	for _, m := range matches {
		if err := run(ctx, m, hctx); err != nil {
			l.Println(styles.WarningLine(fmt.Sprintf("hook %q failed: %v", m.Name, err)))
		}
	}
}

func run(ctx context.Context, m Match, hctx Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(m.Hook.Command, hctx)

	l.Printf("Running hook '%s'...\n", m.Name)
	done := l.Command(hctx.Path, "sh", "-c", command)

	// Hook output goes to the log writer so stdout keeps only command results.
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = hctx.Path
	cmd.Stdin = os.Stdin
	cmd.Stdout = l.Writer()
	cmd.Stderr = l.Writer()

	start := time.Now()
	err := cmd.Run()
	done(time.Since(start))
	if err != nil {
		return err
	}

	if m.Hook.Description != "" {
		l.Println("  " + styles.SuccessLine(m.Hook.Description))
	}
	return nil
}

// ParseEnv parses "key=value" strings into a map.
func ParseEnv(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, e := range pairs {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw} and {key:-default}.
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values
// from hctx. Static placeholders are {path}, {name}, {language} and
// {event}; any other {key} is looked up in hctx.Env.
func SubstitutePlaceholders(command string, hctx Context) string {
	replacements := map[string]string{
		"{path}":     shellQuote(hctx.Path),
		"{name}":     shellQuote(hctx.Name),
		"{language}": shellQuote(hctx.Language),
		"{event}":    shellQuote(string(hctx.Event)),
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		sub := envPlaceholderRegex.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		key, isRaw, def := sub[1], sub[2] == ":raw", sub[3]

		val, ok := hctx.Env[key]
		if !ok {
			val = def
		}
		if isRaw {
			return val
		}
		return shellQuote(val)
	})
}
