package doctor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/raphi011/funcwiz/internal/cache"
	"github.com/raphi011/funcwiz/internal/cmd"
	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/osrelease"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/ui/styles"
)

// MinFuncMajor is the oldest supported Core Tools major version.
const MinFuncMajor = 4

// Env supplies the environment the checks inspect. Zero fields fall
// back to the real system.
type Env struct {
	Config     *config.Config
	ConfigPath string
	ConfigErr  error
	CacheDir   string
	ProjectDir string

	LookPath  func(name string) (string, error)
	Output    func(ctx context.Context, name string, args ...string) ([]byte, error)
	OSRelease func() (osrelease.Info, error)
	Now       func() time.Time
	GOOS      string
}

func (e *Env) defaults() {
	if e.LookPath == nil {
		e.LookPath = cmd.LookPath
	}
	if e.Output == nil {
		e.Output = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return cmd.OutputContext(ctx, "", name, args...)
		}
	}
	if e.OSRelease == nil {
		e.OSRelease = osrelease.Read
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.GOOS == "" {
		e.GOOS = runtime.GOOS
	}
	if e.Config == nil {
		cfg := config.Default()
		e.Config = &cfg
	}
}

// Run performs every check.
func Run(ctx context.Context, env Env) Report {
	env.defaults()
	l := log.FromContext(ctx)

	var r Report
	if env.GOOS == "linux" {
		if info, err := env.OSRelease(); err == nil {
			r.OS = info.String()
		} else {
			l.Debug("os-release unavailable", "err", err)
		}
	} else {
		r.OS = env.GOOS
	}

	r.Checks = append(r.Checks,
		checkFunc(ctx, env),
		checkBal(ctx, env),
		checkConfig(env),
		checkCache(env),
	)
	if env.ProjectDir != "" {
		r.Checks = append(r.Checks, checkProject(env.ProjectDir)...)
	}
	return r
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// parseVersion extracts the first x.y.z from out.
func parseVersion(out []byte) (string, int, bool) {
	m := versionRe.FindSubmatch(out)
	if m == nil {
		return "", 0, false
	}
	major, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return "", 0, false
	}
	return string(m[0]), major, true
}

func checkFunc(ctx context.Context, env Env) Check {
	c := Check{Name: "func CLI"}
	path, err := env.LookPath(env.Config.FuncPath)
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		c.Hint = "install Azure Functions Core Tools: https://learn.microsoft.com/azure/azure-functions/functions-run-local"
		return c
	}

	out, err := env.Output(ctx, path, "--version")
	if err != nil {
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("%s --version: %v", path, err)
		return c
	}
	version, major, ok := parseVersion(out)
	if !ok {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("%s: unrecognized version %q", path, strings.TrimSpace(string(out)))
		return c
	}
	c.Detail = fmt.Sprintf("%s (%s)", version, path)
	if major < MinFuncMajor {
		c.Status = StatusWarn
		c.Hint = fmt.Sprintf("Core Tools v%d or newer is recommended", MinFuncMajor)
	}
	return c
}

func checkBal(ctx context.Context, env Env) Check {
	c := Check{Name: "bal CLI"}
	path, err := env.LookPath(env.Config.BalPath)
	if err != nil {
		c.Status = StatusWarn
		c.Detail = "not installed"
		c.Hint = "only needed for Ballerina custom handlers"
		return c
	}
	out, err := env.Output(ctx, path, "version")
	if err != nil {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("%s version: %v", path, err)
		return c
	}
	first, _, _ := bytes.Cut(bytes.TrimSpace(out), []byte("\n"))
	c.Detail = fmt.Sprintf("%s (%s)", strings.TrimSpace(string(first)), path)
	return c
}

func checkConfig(env Env) Check {
	c := Check{Name: "config"}
	switch {
	case env.ConfigErr != nil:
		c.Status = StatusFail
		c.Detail = env.ConfigErr.Error()
		c.Hint = "fix the file or regenerate it with 'funcwiz config init --force'"
	case env.ConfigPath == "":
		c.Detail = "defaults"
	default:
		if _, err := os.Stat(env.ConfigPath); errors.Is(err, fs.ErrNotExist) {
			c.Detail = "defaults (no " + env.ConfigPath + ")"
		} else {
			c.Detail = env.ConfigPath
		}
	}
	return c
}

func checkCache(env Env) Check {
	c := Check{Name: "feed cache"}
	if !env.Config.Feed.Persist || env.CacheDir == "" {
		c.Detail = "in memory only"
		return c
	}

	store := cache.NewFileStore(env.CacheDir)
	entries, err := store.List(env.Now())
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		c.Hint = "run 'funcwiz cache clear'"
		return c
	}
	expired := 0
	for _, e := range entries {
		if e.Expired {
			expired++
		}
	}
	c.Detail = fmt.Sprintf("%d entries, %d expired (%s)", len(entries), expired, store.Path())
	return c
}

func checkProject(dir string) []Check {
	host := Check{Name: "host.json"}
	h, err := project.LoadHost(dir)
	if err != nil {
		host.Status = StatusFail
		host.Detail = err.Error()
		return []Check{host}
	}
	host.Detail = dir
	if v, _ := h["version"].(string); v != "2.0" {
		host.Status = StatusWarn
		host.Detail = fmt.Sprintf("version %q", v)
		host.Hint = `the Functions host expects "version": "2.0"`
	}

	settings := Check{Name: "local.settings.json"}
	s, err := project.LoadLocalSettings(dir)
	switch {
	case err != nil:
		settings.Status = StatusFail
		settings.Detail = err.Error()
	case s.Values[project.WorkerRuntimeSetting] == "":
		settings.Status = StatusWarn
		settings.Detail = project.WorkerRuntimeSetting + " is not set"
		settings.Hint = "the host cannot pick a language worker"
	default:
		settings.Detail = project.WorkerRuntimeSetting + "=" + s.Values[project.WorkerRuntimeSetting]
	}
	return []Check{host, settings}
}

// Print renders the report for humans.
func Print(ctx context.Context, r Report) {
	out := output.FromContext(ctx)
	if r.OS != "" {
		out.Printf("%s %s\n\n", styles.MutedStyle.Render("OS:"), r.OS)
	}
	for _, c := range r.Checks {
		line := fmt.Sprintf("%-20s %s", c.Name, c.Detail)
		switch c.Status {
		case StatusOK:
			out.Println(styles.SuccessLine(line))
		case StatusWarn:
			out.Println(styles.WarningLine(line))
		case StatusFail:
			out.Println(styles.FailureLine(line))
		}
		if c.Hint != "" {
			out.Printf("  %s\n", styles.MutedStyle.Render(c.Hint))
		}
	}

	ok, warn, fail := r.Counts()
	out.Printf("\n%d ok, %d warnings, %d failed\n", ok, warn, fail)
}
