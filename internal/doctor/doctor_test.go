package doctor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/funcwiz/internal/cache"
	"github.com/raphi011/funcwiz/internal/cmd"
	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/osrelease"
	"github.com/raphi011/funcwiz/internal/output"
)

// fakeEnv returns an Env where func and bal are installed with the
// given version output.
func fakeEnv(t *testing.T, funcVersion string) Env {
	t.Helper()
	cfg := config.Default()
	return Env{
		Config:   &cfg,
		CacheDir: t.TempDir(),
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Output: func(_ context.Context, name string, args ...string) ([]byte, error) {
			if strings.HasSuffix(name, "bal") {
				return []byte("Ballerina 2201.8.4 (Swan Lake Update 8)\nLanguage specification 2023R1\n"), nil
			}
			return []byte(funcVersion + "\n"), nil
		},
		OSRelease: func() (osrelease.Info, error) {
			return osrelease.Info{Name: "Ubuntu", PrettyName: "Ubuntu 24.04 LTS"}, nil
		},
		Now:  func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		GOOS: "linux",
	}
}

func findCheck(t *testing.T, r Report, name string) Check {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no check named %q in %+v", name, r.Checks)
	return Check{}
}

func TestRun_Healthy(t *testing.T) {
	t.Parallel()

	r := Run(context.Background(), fakeEnv(t, "4.0.5907"))
	if r.Failed() {
		t.Errorf("healthy env failed: %+v", r.Checks)
	}
	if r.OS != "Ubuntu 24.04 LTS" {
		t.Errorf("OS = %q", r.OS)
	}
	fn := findCheck(t, r, "func CLI")
	if fn.Status != StatusOK || !strings.HasPrefix(fn.Detail, "4.0.5907") {
		t.Errorf("func check = %+v", fn)
	}
	bal := findCheck(t, r, "bal CLI")
	if !strings.HasPrefix(bal.Detail, "Ballerina 2201.8.4") {
		t.Errorf("bal detail = %q", bal.Detail)
	}
}

func TestRun_FuncMissing(t *testing.T) {
	t.Parallel()

	env := fakeEnv(t, "")
	env.LookPath = func(name string) (string, error) {
		return "", fmt.Errorf("%s: %w", name, cmd.ErrNotInstalled)
	}
	r := Run(context.Background(), env)
	if !r.Failed() {
		t.Fatal("missing func should fail")
	}
	if c := findCheck(t, r, "func CLI"); c.Hint == "" {
		t.Error("expected an install hint")
	}
	if c := findCheck(t, r, "bal CLI"); c.Status != StatusWarn {
		t.Errorf("missing bal should only warn, got %v", c.Status)
	}
}

func TestRun_FuncVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		out  string
		want Status
	}{
		{"4.0.5907", StatusOK},
		{"3.0.3904", StatusWarn},
		{"garbage", StatusWarn},
	}
	for _, tt := range tests {
		r := Run(context.Background(), fakeEnv(t, tt.out))
		if got := findCheck(t, r, "func CLI").Status; got != tt.want {
			t.Errorf("version %q: status = %v, want %v", tt.out, got, tt.want)
		}
	}
}

func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	env := fakeEnv(t, "4.0.1")
	env.ConfigErr = errors.New("invalid theme mode")
	r := Run(context.Background(), env)
	if c := findCheck(t, r, "config"); c.Status != StatusFail || c.Detail != "invalid theme mode" {
		t.Errorf("config check = %+v", c)
	}
}

func TestRun_Cache(t *testing.T) {
	t.Parallel()

	env := fakeEnv(t, "4.0.1")
	store := cache.NewFileStore(env.CacheDir)
	now := env.Now()
	if err := store.Put("https://a", feed.Entry{Payload: []byte(`[]`), NextRefresh: now.Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("https://b", feed.Entry{Payload: []byte(`[]`), NextRefresh: now.Add(-time.Minute)}); err != nil {
		t.Fatal(err)
	}

	r := Run(context.Background(), env)
	if c := findCheck(t, r, "feed cache"); !strings.HasPrefix(c.Detail, "2 entries, 1 expired") {
		t.Errorf("cache detail = %q", c.Detail)
	}

	env.Config.Feed.Persist = false
	r = Run(context.Background(), env)
	if c := findCheck(t, r, "feed cache"); c.Detail != "in memory only" {
		t.Errorf("cache detail = %q", c.Detail)
	}
}

func TestRun_Project(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "host.json"), []byte(`{"version":"2.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	env := fakeEnv(t, "4.0.1")
	env.ProjectDir = dir
	r := Run(context.Background(), env)
	if c := findCheck(t, r, "host.json"); c.Status != StatusOK {
		t.Errorf("host check = %+v", c)
	}
	if c := findCheck(t, r, "local.settings.json"); c.Status != StatusWarn {
		t.Errorf("settings without runtime should warn: %+v", c)
	}

	settings := `{"IsEncrypted":false,"Values":{"FUNCTIONS_WORKER_RUNTIME":"node"}}`
	if err := os.WriteFile(filepath.Join(dir, "local.settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	r = Run(context.Background(), env)
	if c := findCheck(t, r, "local.settings.json"); c.Status != StatusOK || c.Detail != "FUNCTIONS_WORKER_RUNTIME=node" {
		t.Errorf("settings check = %+v", c)
	}
}

func TestRun_NonLinux(t *testing.T) {
	t.Parallel()

	env := fakeEnv(t, "4.0.1")
	env.GOOS = "darwin"
	env.OSRelease = func() (osrelease.Info, error) {
		t.Error("os-release must not be read on darwin")
		return osrelease.Info{}, nil
	}
	if r := Run(context.Background(), env); r.OS != "darwin" {
		t.Errorf("OS = %q", r.OS)
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := output.WithPrinter(context.Background(), &buf)
	Print(ctx, Report{
		OS: "Fedora Linux 40",
		Checks: []Check{
			{Name: "func CLI", Status: StatusOK, Detail: "4.0.5907"},
			{Name: "bal CLI", Status: StatusWarn, Detail: "not installed", Hint: "only needed for Ballerina"},
			{Name: "config", Status: StatusFail, Detail: "bad"},
		},
	})
	out := buf.String()
	for _, want := range []string{"Fedora Linux 40", "func CLI", "only needed for Ballerina", "1 ok, 1 warnings, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	b, _ := StatusFail.MarshalText()
	if string(b) != "fail" {
		t.Errorf("MarshalText = %q", b)
	}
	if Status(9).String() != "Status(9)" {
		t.Errorf("String = %q", Status(9).String())
	}
}
