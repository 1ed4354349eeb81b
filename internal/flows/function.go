package flows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/storage"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// functionProjectStep asks for the project when the command was not
// started inside one.
type functionProjectStep struct {
	wizard.BasePromptStep
	cwd string
}

func (functionProjectStep) ID() string { return "project" }

func (functionProjectStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyProjectPath)
}

func (s functionProjectStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	p, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Project directory",
		Placeholder: "./my-functions",
		Validate:    ValidateProjectDir(s.cwd),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyProjectPath, resolvePath(s.cwd, p))
	return nil
}

// detectLanguageStep reads the worker runtime of an existing project so
// templates can be filtered. It never asks anything.
type detectLanguageStep struct {
	wizard.BasePromptStep
}

func (detectLanguageStep) ID() string   { return "detect-language" }
func (detectLanguageStep) Hidden() bool { return true }

func (detectLanguageStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyLanguage) && wctx.Has(KeyProjectPath)
}

func (detectLanguageStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	s, err := project.LoadLocalSettings(wctx.String(KeyProjectPath))
	if err != nil {
		log.FromContext(ctx).Debug("cannot detect project language", "err", err)
		return nil
	}
	runtime := s.Values[project.WorkerRuntimeSetting]
	if lang, ok := languageForRuntime(runtime); ok {
		wctx.Set(KeyLanguage, lang.ID)
		wctx.Set(KeyWorkerRuntime, runtime)
	}
	return nil
}

type templateStep struct {
	wizard.BasePromptStep
	deps Deps
}

func (templateStep) ID() string { return "template" }

func (s templateStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	language := wctx.String(KeyLanguage)
	var choices []wizard.Choice
	for _, t := range LoadTemplates(ctx, s.deps.Feed, s.deps.Config.Feed.TemplatesURL) {
		if !t.Supports(language) {
			continue
		}
		choices = append(choices, wizard.Choice{Label: t.Name, Description: t.Description, Value: t})
	}

	c, err := wctx.Pick(ctx, "Select a template for your function", choices)
	if err != nil {
		return err
	}
	t := c.Value.(Template)
	wctx.Set(KeyTemplate, t.Name)
	wctx.Set(KeyTrigger, t.Trigger)
	if kind, ok := connectionKindForTrigger(t.Trigger); ok {
		wctx.Set(KeyConnectionKind, kind)
	}
	return nil
}

func (s templateStep) SubWizard(_ context.Context, wctx *wizard.Context) (*wizard.SubWizard, error) {
	sub := &wizard.SubWizard{}
	switch trigger := wctx.String(KeyTrigger); trigger {
	case TriggerHTTP:
		sub.PromptSteps = append(sub.PromptSteps, authLevelStep{defaultLevel: s.deps.Config.Function.AuthLevel})
	case TriggerTimer:
		sub.PromptSteps = append(sub.PromptSteps, scheduleStep{})
	default:
		if _, ok := connectionKindForTrigger(trigger); ok {
			conn := ConnectionSteps()
			sub.PromptSteps = append(sub.PromptSteps, conn.PromptSteps...)
			sub.PromptSteps = append(sub.PromptSteps, resourceNameStep{})
			sub.ExecuteSteps = append(sub.ExecuteSteps, conn.ExecuteSteps...)
		}
	}
	sub.PromptSteps = append(sub.PromptSteps, functionNameStep{})
	return sub, nil
}

type authLevelStep struct {
	wizard.BasePromptStep
	defaultLevel string
}

func (authLevelStep) ID() string { return "auth-level" }

func (s authLevelStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	descriptions := map[string]string{
		"anonymous": "No key required",
		"function":  "A function or host key is required",
		"admin":     "The master key is required",
	}
	var choices []wizard.Choice
	for _, level := range config.ValidAuthLevels {
		c := wizard.Choice{Label: level, Description: descriptions[level], Value: level}
		if level == s.defaultLevel {
			choices = append([]wizard.Choice{c}, choices...)
		} else {
			choices = append(choices, c)
		}
	}
	c, err := wctx.Pick(ctx, "Select the authorization level", choices)
	if err != nil {
		return err
	}
	wctx.Set(KeyAuthLevel, c.Value)
	return nil
}

// DefaultSchedule runs every five minutes.
const DefaultSchedule = "0 */5 * * * *"

type scheduleStep struct {
	wizard.BasePromptStep
}

func (scheduleStep) ID() string { return "schedule" }

func (scheduleStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	v, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Schedule (NCRONTAB: second minute hour day month day-of-week)",
		Placeholder: DefaultSchedule,
		Value:       DefaultSchedule,
		Validate:    ValidateSchedule,
	})
	if err != nil {
		return err
	}
	wctx.Set(KeySchedule, v)
	return nil
}

// resourceDefaults are the prompt and default per trigger.
var resourceDefaults = map[string]struct{ prompt, value, binding string }{
	TriggerQueue:      {"Queue name", "myqueue-items", "queueName"},
	TriggerBlob:       {"Blob path", "samples-workitems/{name}", "path"},
	TriggerEventHub:   {"Event hub name", "myeventhub", "eventHubName"},
	TriggerServiceBus: {"Service Bus queue name", "myqueue", "queueName"},
	TriggerCosmosDB:   {"Container name", "items", "containerName"},
}

type resourceNameStep struct {
	wizard.BasePromptStep
}

func (resourceNameStep) ID() string { return "resource-name" }

func (resourceNameStep) ShouldPrompt(wctx *wizard.Context) bool {
	_, ok := resourceDefaults[wctx.String(KeyTrigger)]
	return ok
}

func (resourceNameStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	d := resourceDefaults[wctx.String(KeyTrigger)]
	v, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      d.prompt,
		Placeholder: d.value,
		Value:       d.value,
		Validate:    ValidateRequired(strings.ToLower(d.prompt)),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyResourceName, v)
	return nil
}

type functionNameStep struct {
	wizard.BasePromptStep
}

func (functionNameStep) ID() string { return "function-name" }

func (functionNameStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	dir := wctx.String(KeyProjectPath)
	def := defaultFunctionName(dir, wctx.String(KeyTrigger))
	name, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Function name",
		Placeholder: def,
		Value:       def,
		Validate:    ValidateFunctionName(dir),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyFunctionName, name)
	return nil
}

// defaultFunctionName returns e.g. HttpTrigger1, counting up past
// names the project already uses.
func defaultFunctionName(dir, trigger string) string {
	prefix := "Function"
	if trigger != "" {
		prefix = strings.ToUpper(trigger[:1]) + trigger[1:] + "Trigger"
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		if dir == "" {
			return name
		}
		exists, err := project.HasFunction(dir, name)
		if err != nil || !exists {
			return name
		}
	}
}

type funcNewParams struct {
	ProjectPath  string `wizard:"projectPath" validate:"required"`
	Template     string `wizard:"template" validate:"required"`
	FunctionName string `wizard:"functionName" validate:"required"`
	AuthLevel    string `wizard:"authLevel"`
	Language     string `wizard:"language"`
}

func funcNew(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("func-new", PriorityFuncNew, func(ctx context.Context, wctx *wizard.Context) error {
		var p funcNewParams
		if err := wctx.Require(&p); err != nil {
			return err
		}
		args := []string{"new", "--name", p.FunctionName, "--template", p.Template}
		if p.AuthLevel != "" {
			args = append(args, "--authlevel", p.AuthLevel)
		}
		if p.Language == "typescript" {
			args = append(args, "--language", "typescript")
		}
		return deps.Runner.Run(ctx, p.ProjectPath, deps.Config.FuncPath, args...)
	}).Describe("Creating function")
}

type bindingParams struct {
	ProjectPath  string `wizard:"projectPath" validate:"required"`
	FunctionName string `wizard:"functionName" validate:"required"`
	Trigger      string `wizard:"trigger" validate:"required"`
	Schedule     string `wizard:"schedule"`
	Setting      string `wizard:"connectionSetting"`
	Resource     string `wizard:"resourceName"`
}

// writeTriggerBindings copies the trigger answers into function.json.
// Languages without function.json (C#, Python v2) are skipped.
func writeTriggerBindings(ctx context.Context, wctx *wizard.Context) error {
	var p bindingParams
	if err := wctx.Require(&p); err != nil {
		return err
	}
	path := filepath.Join(p.ProjectPath, p.FunctionName, project.FunctionFile)

	var doc map[string]any
	if err := storage.LoadJSON(path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.FromContext(ctx).Debug("no function.json, skipping bindings", "path", path)
			return nil
		}
		return err
	}

	bindings, _ := doc["bindings"].([]any)
	for _, raw := range bindings {
		b, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := b["type"].(string)
		if !strings.HasSuffix(typ, "Trigger") {
			continue
		}
		if p.Schedule != "" {
			b["schedule"] = p.Schedule
		}
		if p.Setting != "" {
			b["connection"] = p.Setting
		}
		if d, ok := resourceDefaults[p.Trigger]; ok && p.Resource != "" {
			b[d.binding] = p.Resource
		}
	}
	return storage.SaveJSON(path, doc)
}

// FunctionSteps returns the create-function steps that follow the
// project choice.
func FunctionSteps(deps Deps) *wizard.SubWizard {
	return &wizard.SubWizard{
		PromptSteps: []wizard.PromptStep{
			detectLanguageStep{},
			templateStep{deps: deps},
		},
		ExecuteSteps: []wizard.ExecuteStep{
			funcNew(deps),
			wizard.BestEffort(wizard.NewExecute("trigger-bindings", PriorityTriggerBindings, writeTriggerBindings).
				Describe("Updating trigger bindings")),
		},
	}
}

// NewCreateFunction builds "funcwiz function create". When deps.Cwd is
// inside a project, the project question is skipped.
func NewCreateFunction(wctx *wizard.Context, deps Deps) *wizard.Wizard {
	deps = deps.Defaults()
	if !wctx.Has(KeyProjectPath) {
		if dir, ok := project.Find(deps.Cwd); ok {
			wctx.Set(KeyProjectPath, dir)
		}
	}

	steps := FunctionSteps(deps)
	return wizard.New(wctx, wizard.Options{
		Title:        "Create new function",
		PromptSteps:  append([]wizard.PromptStep{functionProjectStep{cwd: deps.Cwd}}, steps.PromptSteps...),
		ExecuteSteps: steps.ExecuteSteps,
	})
}
