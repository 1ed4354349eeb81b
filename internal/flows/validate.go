package flows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/raphi011/funcwiz/internal/project"
)

var functionNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

const maxFunctionNameLen = 127

// ValidateFunctionName checks the host's naming rules and that the
// project has no function of that name yet.
func ValidateFunctionName(projectDir string) func(context.Context, string) error {
	return func(_ context.Context, name string) error {
		switch {
		case name == "":
			return errors.New("function name is required")
		case len(name) > maxFunctionNameLen:
			return fmt.Errorf("function name must be at most %d characters", maxFunctionNameLen)
		case !functionNameRe.MatchString(name):
			return errors.New("function name must start with a letter and contain only letters, digits, '_' and '-'")
		}
		if projectDir == "" {
			return nil
		}
		exists, err := project.HasFunction(projectDir, name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("a function named %q already exists", name)
		}
		return nil
	}
}

// ValidateEmptyDir accepts a path that does not exist or is an empty
// directory. Relative paths resolve against base.
func ValidateEmptyDir(base string) func(context.Context, string) error {
	return func(_ context.Context, p string) error {
		if strings.TrimSpace(p) == "" {
			return errors.New("path is required")
		}
		dir := resolvePath(base, p)
		fi, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%s is a file", p)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			return fmt.Errorf("%s is not empty", p)
		}
		return nil
	}
}

// ValidateProjectDir accepts a directory containing host.json.
func ValidateProjectDir(base string) func(context.Context, string) error {
	return func(_ context.Context, p string) error {
		if strings.TrimSpace(p) == "" {
			return errors.New("path is required")
		}
		if !project.IsProject(resolvePath(base, p)) {
			return fmt.Errorf("%s is not a functions project (no %s)", p, project.HostFile)
		}
		return nil
	}
}

// ValidateSchedule checks a six-field NCRONTAB expression
// ("{second} {minute} {hour} {day} {month} {day-of-week}").
func ValidateSchedule(_ context.Context, expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 6 {
		return fmt.Errorf("schedule needs 6 fields (second minute hour day month day-of-week), got %d", len(fields))
	}
	for _, f := range fields {
		if strings.Trim(f, "0123456789*/,-") != "" && !isNamedField(f) {
			return fmt.Errorf("invalid schedule field %q", f)
		}
	}
	return nil
}

// isNamedField allows month and weekday names such as "Jan" or "Mon-Fri".
func isNamedField(f string) bool {
	for _, part := range strings.FieldsFunc(f, func(r rune) bool { return r == ',' || r == '-' }) {
		if len(part) != 3 {
			return false
		}
		for _, r := range part {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
	}
	return true
}

// ValidateRequired rejects empty input.
func ValidateRequired(what string) func(context.Context, string) error {
	return func(_ context.Context, v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// ValidateSettingName accepts app setting names: no spaces, no ':'
// at either end.
func ValidateSettingName(_ context.Context, v string) error {
	switch {
	case v == "":
		return errors.New("setting name is required")
	case strings.ContainsAny(v, " \t"):
		return errors.New("setting name must not contain spaces")
	case strings.HasPrefix(v, ":") || strings.HasSuffix(v, ":"):
		return errors.New("setting name must not start or end with ':'")
	}
	return nil
}

func resolvePath(base, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
