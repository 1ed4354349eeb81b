package answers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/wizard"
)

var languages = []wizard.Choice{
	{Label: "C#", Value: "dotnet"},
	{Label: "Python", Value: "python"},
	{Label: "Java", Value: "java", Disabled: true, Description: "JDK not found"},
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`
language: python
python-version: 3.11
template: [HTTP trigger, Timer trigger]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := p.Unused(); !slices.Equal(got, []string{"language", "python-version", "template"}) {
		t.Errorf("Unused = %v", got)
	}
	if got := p.answers["python-version"]; !slices.Equal(got, []string{"3.11"}) {
		t.Errorf("python-version = %v", got)
	}

	if _, err := Parse([]byte("language: {nested: map}")); err == nil {
		t.Error("expected error for a mapping answer")
	}
	if _, err := Parse([]byte("language: [unclosed")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "answers.yaml")
	if err := os.WriteFile(path, []byte("name: HttpExample\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := p.Input(context.Background(), wizard.InputOptions{ID: "name"})
	if err != nil || got != "HttpExample" {
		t.Errorf("Input = %q, %v", got, err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answer  string
		want    string
		wantErr bool
	}{
		{"by label", "Python", "Python", false},
		{"case insensitive", "c#", "C#", false},
		{"by value", "dotnet", "C#", false},
		{"disabled", "Java", "", true},
		{"unknown", "Go", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(map[string][]string{"language": {tt.answer}})
			got, err := p.Pick(context.Background(), wizard.PickOptions{ID: "language", Choices: languages})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pick: %v", err)
			}
			if got.Label != tt.want {
				t.Errorf("Pick = %q, want %q", got.Label, tt.want)
			}
		})
	}
}

func TestPick_NoAnswer(t *testing.T) {
	t.Parallel()

	p := New(nil)
	_, err := p.Pick(context.Background(), wizard.PickOptions{ID: "language", Choices: languages})
	if !errors.Is(err, ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}

func TestRepeatedQuestion(t *testing.T) {
	t.Parallel()

	p := New(map[string][]string{"name": {"first", "second"}})
	ctx := context.Background()

	for _, want := range []string{"first", "second"} {
		got, err := p.Input(ctx, wizard.InputOptions{ID: "name"})
		if err != nil || got != want {
			t.Errorf("Input = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := p.Input(ctx, wizard.InputOptions{ID: "name"}); !errors.Is(err, ErrNoAnswer) {
		t.Errorf("third Input err = %v, want ErrNoAnswer", err)
	}
	if got := p.Asked(); !slices.Equal(got, []string{"name", "name", "name"}) {
		t.Errorf("Asked = %v", got)
	}
}

func TestInput(t *testing.T) {
	t.Parallel()

	validate := func(_ context.Context, v string) error {
		if strings.Contains(v, " ") {
			return errors.New("no spaces")
		}
		return nil
	}
	ctx := context.Background()

	p := New(nil)
	got, err := p.Input(ctx, wizard.InputOptions{ID: "setting", Value: "AzureWebJobsStorage", Validate: validate})
	if err != nil || got != "AzureWebJobsStorage" {
		t.Errorf("default Input = %q, %v", got, err)
	}

	p = New(map[string][]string{"setting": {"  MySetting\n"}})
	got, err = p.Input(ctx, wizard.InputOptions{ID: "setting", Validate: validate})
	if err != nil || got != "MySetting" {
		t.Errorf("padded Input = %q, %v; want trimmed", got, err)
	}

	p = New(map[string][]string{"setting": {"has space"}})
	if _, err := p.Input(ctx, wizard.InputOptions{ID: "setting", Validate: validate}); err == nil || !strings.Contains(err.Error(), "no spaces") {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestWarn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))

	p := New(map[string][]string{"create-function": {"no"}})
	got, err := p.Warn(ctx, wizard.WarnOptions{ID: "create-function", Message: "Create a function now?", Buttons: []string{"Yes", "No"}})
	if err != nil || got != "No" {
		t.Errorf("Warn = %q, %v", got, err)
	}
	if !strings.Contains(buf.String(), "Create a function now?") {
		t.Errorf("warning not logged: %q", buf.String())
	}

	got, err = p.Warn(ctx, wizard.WarnOptions{ID: "notice", Message: "Heads up", Buttons: []string{"Got it"}})
	if err != nil || got != "Got it" {
		t.Errorf("single button Warn = %q, %v", got, err)
	}

	_, err = p.Warn(ctx, wizard.WarnOptions{ID: "overwrite", Message: "Overwrite?", Buttons: []string{"Yes", "No"}})
	if !errors.Is(err, ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(map[string][]string{"language": {"Python"}})
	if _, err := p.Pick(ctx, wizard.PickOptions{ID: "language", Choices: languages}); !errors.Is(err, wizard.ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
	if got := p.Unused(); len(got) != 1 {
		t.Errorf("cancelled pick consumed the answer: Unused = %v", got)
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))

	pr := New(nil).Progress(ctx, "Creating project")
	pr.Report("func init")
	pr.Done()

	if got := buf.String(); got != "Creating project: func init\n" {
		t.Errorf("progress output = %q", got)
	}
}
