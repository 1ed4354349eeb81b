package flows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/wizard"
)

type projectPathStep struct {
	wizard.BasePromptStep
	cwd string
}

func (projectPathStep) ID() string { return "project-path" }

func (projectPathStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyProjectPath)
}

func (s projectPathStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	p, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Project directory (must be empty or not exist)",
		Placeholder: "./my-functions",
		Validate:    ValidateEmptyDir(s.cwd),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyProjectPath, resolvePath(s.cwd, p))
	return nil
}

type languageStep struct {
	wizard.BasePromptStep
	deps Deps
}

func (languageStep) ID() string { return "language" }

func (s languageStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	c, err := wctx.Pick(ctx, "Select a language", languageChoices(s.deps.Config.DefaultLanguage))
	if err != nil {
		return err
	}
	lang, _ := LanguageByID(c.Value.(string))
	wctx.Set(KeyLanguage, lang.ID)
	wctx.Set(KeyWorkerRuntime, lang.WorkerRuntime)
	return nil
}

func (s languageStep) SubWizard(_ context.Context, wctx *wizard.Context) (*wizard.SubWizard, error) {
	sub := &wizard.SubWizard{}
	switch wctx.String(KeyLanguage) {
	case "python":
		sub.PromptSteps = append(sub.PromptSteps, pickStep{
			id: "python-version", key: KeyPythonVersion,
			placeholder: "Select a Python version for the virtual environment",
			options:     PythonVersions,
		})
		sub.ExecuteSteps = append(sub.ExecuteSteps, wizard.BestEffort(pythonVenv(s.deps)))
	case "csharp":
		sub.PromptSteps = append(sub.PromptSteps, pickStep{
			id: "target-framework", key: KeyTargetFramework,
			placeholder: "Select a target framework",
			options:     TargetFrameworks,
		})
	case "custom":
		sub.PromptSteps = append(sub.PromptSteps, handlerKindStep{deps: s.deps})
	}
	sub.PromptSteps = append(sub.PromptSteps, createFunctionStep{deps: s.deps})
	return sub, nil
}

// pickStep chooses one of a fixed list of strings.
type pickStep struct {
	wizard.BasePromptStep
	id          string
	key         string
	placeholder string
	options     []string
}

func (s pickStep) ID() string { return s.id }

func (s pickStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	choices := make([]wizard.Choice, len(s.options))
	for i, o := range s.options {
		choices[i] = wizard.Choice{Label: o, Value: o}
	}
	c, err := wctx.Pick(ctx, s.placeholder, choices)
	if err != nil {
		return err
	}
	wctx.Set(s.key, c.Value)
	return nil
}

type handlerKindStep struct {
	wizard.BasePromptStep
	deps Deps
}

func (handlerKindStep) ID() string { return "handler-kind" }

func (handlerKindStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	c, err := wctx.Pick(ctx, "Select the custom handler", []wizard.Choice{
		{Label: "Ballerina", Description: "Build with bal and run the generated jar", Value: HandlerBallerina},
		{Label: "Other executable", Description: "Any program serving the custom handler protocol", Value: HandlerOther},
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyHandlerKind, c.Value)
	return nil
}

func (s handlerKindStep) SubWizard(_ context.Context, wctx *wizard.Context) (*wizard.SubWizard, error) {
	if wctx.String(KeyHandlerKind) == HandlerBallerina {
		return &wizard.SubWizard{ExecuteSteps: []wizard.ExecuteStep{balInit(s.deps), balBuild(s.deps)}}, nil
	}
	return &wizard.SubWizard{PromptSteps: []wizard.PromptStep{executablePathStep{}}}, nil
}

type executablePathStep struct {
	wizard.BasePromptStep
}

func (executablePathStep) ID() string { return "custom-executable" }

func (executablePathStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	v, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Handler executable, relative to the project",
		Placeholder: "handler",
		Validate:    ValidateRequired("executable path"),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyCustomExecutable, v)
	return nil
}

const (
	buttonYes = "Yes"
	buttonNo  = "No"
)

type createFunctionStep struct {
	wizard.BasePromptStep
	deps Deps
}

func (createFunctionStep) ID() string { return "create-function" }

func (createFunctionStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	answer, err := wctx.Warn(ctx, "Create a function in the new project now?", buttonYes, buttonNo)
	if err != nil {
		return err
	}
	wctx.Set(KeyCreateFunction, answer == buttonYes)
	return nil
}

func (s createFunctionStep) SubWizard(_ context.Context, wctx *wizard.Context) (*wizard.SubWizard, error) {
	if !wctx.Bool(KeyCreateFunction) {
		return nil, nil
	}
	return FunctionSteps(s.deps), nil
}

type projectParams struct {
	ProjectPath     string `wizard:"projectPath" validate:"required"`
	Language        string `wizard:"language" validate:"required"`
	WorkerRuntime   string `wizard:"workerRuntime" validate:"required"`
	TargetFramework string `wizard:"targetFramework"`
	PythonVersion   string `wizard:"pythonVersion"`
	HandlerKind     string `wizard:"handlerKind"`
	Executable      string `wizard:"customExecutable"`
}

func ensureDir(ctx context.Context, wctx *wizard.Context) error {
	var p projectParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	return os.MkdirAll(p.ProjectPath, 0o755)
}

func funcInit(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("func-init", PriorityFuncInit, func(ctx context.Context, wctx *wizard.Context) error {
		var p projectParams
		if err := wctx.Require(&p); err != nil {
			return err
		}
		lang, ok := LanguageByID(p.Language)
		if !ok {
			return &wizard.InternalError{Err: fmt.Errorf("unknown language %q", p.Language)}
		}
		args := []string{"init", p.ProjectPath, "--worker-runtime", lang.WorkerRuntime}
		args = append(args, lang.InitArgs...)
		if p.TargetFramework != "" {
			args = append(args, "--target-framework", p.TargetFramework)
		}
		return deps.Runner.Run(ctx, "", deps.Config.FuncPath, args...)
	}).Describe("Initializing project")
}

// balPackageName derives the package name bal init uses for dir.
func balPackageName(dir string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return '_'
	}, filepath.Base(dir))
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "app_" + name
	}
	return name
}

func balInit(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("bal-init", PriorityBalInit, func(ctx context.Context, wctx *wizard.Context) error {
		dir := wctx.String(KeyProjectPath)
		if _, err := os.Stat(filepath.Join(dir, "Ballerina.toml")); err == nil {
			return nil
		}
		return deps.Runner.Run(ctx, dir, deps.Config.BalPath, "init", balPackageName(dir))
	}).Describe("Initializing Ballerina package")
}

func balBuild(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("bal-build", PriorityBalBuild, func(ctx context.Context, wctx *wizard.Context) error {
		return deps.Runner.Run(ctx, wctx.String(KeyProjectPath), deps.Config.BalPath, "build")
	}).Describe("Building Ballerina package")
}

func writeHostJSON(ctx context.Context, wctx *wizard.Context) error {
	var p projectParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	return project.UpdateHost(p.ProjectPath, func(h project.Host) error {
		if !strings.HasPrefix(p.WorkerRuntime, "dotnet") {
			h.SetExtensionBundle()
		}
		switch {
		case p.HandlerKind == HandlerBallerina:
			jar := fmt.Sprintf("target/bin/%s.jar", balPackageName(p.ProjectPath))
			h.SetCustomHandler("java", []string{"-jar", jar})
		case p.WorkerRuntime == "custom" && p.Executable != "":
			h.SetCustomHandler(p.Executable, nil)
		}
		return nil
	})
}

func writeLocalSettings(ctx context.Context, wctx *wizard.Context) error {
	var p projectParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	return project.UpdateLocalSettings(p.ProjectPath, func(s *project.LocalSettings) error {
		s.SetValue(project.WorkerRuntimeSetting, p.WorkerRuntime)
		if s.Values[project.StorageSetting] == "" {
			s.SetValue(project.StorageSetting, project.EmulatorConnection)
		}
		return nil
	})
}

// funcIgnore lists paths excluded from deployment packages.
func funcIgnore(language string) string {
	lines := []string{".git*", ".vscode", "local.settings.json", "test"}
	switch language {
	case "python":
		lines = append(lines, ".venv", "__pycache__")
	case "typescript":
		lines = append(lines, "*.ts", "tsconfig.json")
	case "custom":
		lines = append(lines, "target/cache", "*.bal", "Ballerina.toml", "Dependencies.toml")
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeFuncIgnore(ctx context.Context, wctx *wizard.Context) error {
	var p projectParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	path := filepath.Join(p.ProjectPath, ".funcignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(funcIgnore(p.Language)), 0o644)
}

func pythonVenv(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("python-venv", PriorityPythonVenv, func(ctx context.Context, wctx *wizard.Context) error {
		var p projectParams
		if err := wctx.Require(&p); err != nil {
			return err
		}
		python := "python3"
		if p.PythonVersion != "" {
			python = "python" + p.PythonVersion
		}
		return deps.Runner.Run(ctx, p.ProjectPath, python, "-m", "venv", ".venv")
	}).Describe("Creating virtual environment")
}

// NewCreateProject builds "funcwiz project create".
func NewCreateProject(wctx *wizard.Context, deps Deps) *wizard.Wizard {
	deps = deps.Defaults()
	return wizard.New(wctx, wizard.Options{
		Title:        "Create new project",
		ExecuteTitle: "Creating project",
		PromptSteps: []wizard.PromptStep{
			projectPathStep{cwd: deps.Cwd},
			languageStep{deps: deps},
		},
		ExecuteSteps: []wizard.ExecuteStep{
			wizard.NewExecute("ensure-dir", PriorityEnsureDir, ensureDir).Describe("Creating directory"),
			funcInit(deps),
			wizard.NewExecute("host-json", PriorityHostJSON, writeHostJSON).Describe("Writing host.json"),
			wizard.NewExecute("local-settings", PriorityLocalSettings, writeLocalSettings).Describe("Writing local.settings.json"),
			wizard.BestEffort(wizard.NewExecute("funcignore", PriorityFuncIgnore, writeFuncIgnore).Describe("Writing .funcignore")),
		},
	})
}
