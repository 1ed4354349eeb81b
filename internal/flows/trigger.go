package flows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// maxResponseBody bounds how much of a response is kept.
const maxResponseBody = 1 << 20

// samplePayloads are the default inputs per trigger binding type.
var samplePayloads = map[string]string{
	"httpTrigger":       `{"name": "Azure"}`,
	"queueTrigger":      "sample queue data",
	"serviceBusTrigger": "sample service bus message",
	"eventHubTrigger":   `{"message": "sample event"}`,
	"blobTrigger":       "samples-workitems/sample.txt",
	"cosmosDBTrigger":   `[{"id": "1", "name": "sample"}]`,
	"timerTrigger":      "",
}

type functionPickStep struct {
	wizard.BasePromptStep
}

func (functionPickStep) ID() string { return "function" }

func (functionPickStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyFunction)
}

func (functionPickStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	fns, err := project.ListFunctions(wctx.String(KeyProjectPath))
	if err != nil {
		return err
	}
	if len(fns) == 0 {
		return fmt.Errorf("no functions found in %s (looked for */%s)", wctx.String(KeyProjectPath), project.FunctionFile)
	}

	choices := make([]wizard.Choice, len(fns))
	for i, f := range fns {
		c := wizard.Choice{Label: f.Name, Value: f}
		if b, ok := f.Trigger(); ok {
			c.Description = b.Type
		}
		choices[i] = c
	}
	c, err := wctx.Pick(ctx, "Select the function to execute", choices)
	if err != nil {
		return err
	}
	wctx.Set(KeyFunction, c.Value)
	return nil
}

type payloadStep struct {
	wizard.BasePromptStep
}

func (payloadStep) ID() string { return "payload" }

func (payloadStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyPayload)
}

func (payloadStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	fn, _ := wctx.Get(KeyFunction)
	f, _ := fn.(project.Function)
	trigger, _ := f.Trigger()
	def := samplePayloads[trigger.Type]

	v, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Request body",
		Placeholder: def,
		Value:       def,
		// Timer functions take no input.
		Validate: func(context.Context, string) error { return nil },
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyPayload, v)
	return nil
}

// buildRequest returns the request that runs f on the local host.
// HTTP functions are called on their route; everything else goes
// through the admin endpoint with {"input": payload}.
func buildRequest(ctx context.Context, hostURL, masterKey string, f project.Function, payload string) (*http.Request, error) {
	base := strings.TrimRight(hostURL, "/")

	if trigger, ok := f.Trigger(); ok && trigger.Type == "httpTrigger" {
		route := f.Name
		if trigger.Route != "" {
			route = strings.TrimLeft(trigger.Route, "/")
		}
		method := http.MethodPost
		if len(trigger.Methods) > 0 && !slices.ContainsFunc(trigger.Methods, func(m string) bool { return strings.EqualFold(m, "post") }) {
			method = strings.ToUpper(trigger.Methods[0])
		}

		var body io.Reader
		if method != http.MethodGet && payload != "" {
			body = strings.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, base+"/api/"+route, body)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", contentType(payload))
		}
		if masterKey != "" {
			req.Header.Set("x-functions-key", masterKey)
		}
		return req, nil
	}

	body, err := json.Marshal(map[string]string{"input": payload})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/admin/functions/"+f.Name, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if masterKey != "" {
		req.Header.Set("x-functions-key", masterKey)
	}
	return req, nil
}

func contentType(payload string) string {
	if json.Valid([]byte(payload)) {
		return "application/json"
	}
	return "text/plain"
}

func invoke(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("invoke", PriorityInvoke, func(ctx context.Context, wctx *wizard.Context) error {
		fn, ok := wctx.Get(KeyFunction)
		f, isFn := fn.(project.Function)
		if !ok || !isFn {
			return &wizard.InternalError{Err: fmt.Errorf("wizard context is missing %s", KeyFunction)}
		}

		req, err := buildRequest(ctx, deps.Config.Host.URL, deps.Config.Host.MasterKey, f, wctx.String(KeyPayload))
		if err != nil {
			return err
		}
		log.FromContext(ctx).Debug("invoke", "method", req.Method, "url", req.URL)

		resp, err := deps.HTTP.Do(req)
		if err != nil {
			return fmt.Errorf("is the host running? start it with 'func start': %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return err
		}
		wctx.Set(KeyResponseStatus, resp.StatusCode)
		wctx.Set(KeyResponseBody, string(body))
		return nil
	}).Describe("Executing function")
}

func copyResponse(deps Deps) wizard.ExecuteStep {
	return wizard.BestEffort(wizard.NewExecute("copy-response", PriorityCopyResponse, func(ctx context.Context, wctx *wizard.Context) error {
		return deps.Clipboard(wctx.String(KeyResponseBody))
	}).When(func(wctx *wizard.Context) bool {
		return wctx.Bool(KeyCopy)
	}).Describe("Copying response"))
}

// TriggerResult is the outcome of "funcwiz trigger".
type TriggerResult struct {
	Function string `json:"function" yaml:"function"`
	Status   int    `json:"status" yaml:"status"`
	Body     string `json:"body" yaml:"body"`
}

// TriggerOutcome reads the response the invoke step stored.
func TriggerOutcome(wctx *wizard.Context) TriggerResult {
	var r TriggerResult
	if f, ok := wctx.Get(KeyFunction); ok {
		if fn, ok := f.(project.Function); ok {
			r.Function = fn.Name
		}
	}
	if v, ok := wctx.Get(KeyResponseStatus); ok {
		r.Status, _ = v.(int)
	}
	r.Body = wctx.String(KeyResponseBody)
	return r
}

// NewTrigger builds "funcwiz trigger" for the project at projectDir.
// Set KeyCopy on wctx to copy the response to the clipboard.
func NewTrigger(wctx *wizard.Context, deps Deps, projectDir string) *wizard.Wizard {
	deps = deps.Defaults()
	wctx.Set(KeyProjectPath, projectDir)
	return wizard.New(wctx, wizard.Options{
		Title:        "Execute function",
		PromptSteps:  []wizard.PromptStep{functionPickStep{}, payloadStep{}},
		ExecuteSteps: []wizard.ExecuteStep{invoke(deps), copyResponse(deps)},
	})
}
