package wizard

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type projectAnswers struct {
	ProjectPath string `wizard:"projectPath" validate:"required"`
	Language    string `wizard:"language" validate:"required"`
	Version     string `wizard:"pythonVersion"`
	OpenAfter   bool   `wizard:"openAfter"`
}

func TestContext_Require(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		values      map[string]any
		wantErr     bool
		wantMissing []string
		want        projectAnswers
	}{
		{
			name:   "all required present",
			values: map[string]any{"projectPath": "/src/app", "language": "python", "pythonVersion": "3.11"},
			want:   projectAnswers{ProjectPath: "/src/app", Language: "python", Version: "3.11"},
		},
		{
			name:        "language missing",
			values:      map[string]any{"projectPath": "/src/app"},
			wantErr:     true,
			wantMissing: []string{"language"},
		},
		{
			name:        "nothing set",
			values:      map[string]any{},
			wantErr:     true,
			wantMissing: []string{"projectPath", "language"},
		},
		{
			name:   "weakly typed bool",
			values: map[string]any{"projectPath": "/p", "language": "java", "openAfter": "true"},
			want:   projectAnswers{ProjectPath: "/p", Language: "java", OpenAfter: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wctx := NewContext(nil)
			for k, v := range tt.values {
				wctx.Set(k, v)
			}

			var got projectAnswers
			err := wctx.Require(&got)
			if tt.wantErr {
				var internal *InternalError
				if !errors.As(err, &internal) {
					t.Fatalf("Require() error = %v, want *InternalError", err)
				}
				for _, field := range tt.wantMissing {
					if !strings.Contains(err.Error(), field) {
						t.Errorf("Require() error %q does not name %q", err, field)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Require() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Require() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestContext_Accessors(t *testing.T) {
	t.Parallel()

	wctx := NewContext(nil)
	wctx.Set("language", "typescript")
	wctx.Set("createFunction", true)
	wctx.Set("port", 7071)

	if got := wctx.String("language"); got != "typescript" {
		t.Errorf("String(language) = %q", got)
	}
	if got := wctx.String("port"); got != "" {
		t.Errorf("String(port) = %q, want empty for non-string", got)
	}
	if !wctx.Bool("createFunction") {
		t.Error("Bool(createFunction) = false")
	}
	if !wctx.Has("port") || wctx.Has("missing") {
		t.Error("Has() mismatch")
	}
	if got := wctx.Keys(); !reflect.DeepEqual(got, []string{"createFunction", "language", "port"}) {
		t.Errorf("Keys() = %v", got)
	}

	wctx.Delete("port")
	if wctx.Has("port") {
		t.Error("Delete(port) left the key")
	}
}

// scriptedPrompter answers every question with fixed values.
type scriptedPrompter struct {
	pick   int
	input  string
	button string
	seen   []string
}

func (p *scriptedPrompter) Pick(_ context.Context, opts PickOptions) (Choice, error) {
	p.seen = append(p.seen, opts.ID)
	return opts.Choices[p.pick], nil
}

func (p *scriptedPrompter) Input(ctx context.Context, opts InputOptions) (string, error) {
	p.seen = append(p.seen, opts.ID)
	if opts.Validate != nil {
		if err := opts.Validate(ctx, p.input); err != nil {
			return "", err
		}
	}
	return p.input, nil
}

func (p *scriptedPrompter) Warn(_ context.Context, opts WarnOptions) (string, error) {
	p.seen = append(p.seen, opts.ID)
	return p.button, nil
}

func (p *scriptedPrompter) Progress(context.Context, string) Progress { return nopProgress{} }

type pickLanguage struct{ BasePromptStep }

func (pickLanguage) ID() string { return "language" }

func (pickLanguage) Prompt(ctx context.Context, wctx *Context) error {
	c, err := wctx.Pick(ctx, "Select a language", []Choice{
		{Label: "C#", Value: "dotnet"},
		{Label: "Python", Value: "python"},
	})
	if err != nil {
		return err
	}
	wctx.Set("language", c.Value)
	return nil
}

type inputName struct{ BasePromptStep }

func (inputName) ID() string { return "functionName" }

func (inputName) Prompt(ctx context.Context, wctx *Context) error {
	name, err := wctx.Input(ctx, InputOptions{
		Prompt: "Function name",
		Validate: func(_ context.Context, v string) error {
			if v == "" {
				return errors.New("name is required")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	wctx.Set("functionName", name)
	return nil
}

func TestContext_PromptHelpers(t *testing.T) {
	t.Parallel()

	p := &scriptedPrompter{pick: 1, input: "HttpTrigger1"}
	wctx := NewContext(p)

	w := New(wctx, Options{PromptSteps: []PromptStep{pickLanguage{}, inputName{}}})
	if err := w.Prompt(context.Background()); err != nil {
		t.Fatal(err)
	}

	if wctx.String("language") != "python" || wctx.String("functionName") != "HttpTrigger1" {
		t.Errorf("context = %v", wctx.Snapshot())
	}
	if want := []string{"language", "functionName"}; !reflect.DeepEqual(p.seen, want) {
		t.Errorf("prompt IDs = %v, want %v", p.seen, want)
	}
}

func TestMarkReported(t *testing.T) {
	t.Parallel()

	base := errors.New("func: command not found")
	if IsReported(base) {
		t.Error("plain error reported as reported")
	}

	marked := MarkReported(base)
	if !IsReported(marked) || !errors.Is(marked, base) {
		t.Errorf("MarkReported() = %v", marked)
	}
	if MarkReported(marked) != marked {
		t.Error("MarkReported() should not double-wrap")
	}
	if MarkReported(nil) != nil {
		t.Error("MarkReported(nil) != nil")
	}
}

func TestIsCancelled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{ErrCancelled, true},
		{context.Canceled, true},
		{&StepError{Phase: PhasePrompt, StepID: "x", Err: ErrCancelled}, true},
		{errors.New("other"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsCancelled(tt.err); got != tt.want {
			t.Errorf("IsCancelled(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
