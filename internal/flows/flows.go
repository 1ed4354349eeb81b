package flows

import (
	"context"
	"net/http"
	"os"

	"github.com/atotto/clipboard"

	"github.com/raphi011/funcwiz/internal/cmd"
	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/github"
)

// Context keys shared by the workflows.
const (
	KeyProjectPath      = "projectPath"
	KeyLanguage         = "language"
	KeyWorkerRuntime    = "workerRuntime"
	KeyPythonVersion    = "pythonVersion"
	KeyTargetFramework  = "targetFramework"
	KeyHandlerKind      = "handlerKind"
	KeyCustomExecutable = "customExecutable"
	KeyCreateFunction   = "createFunction"

	KeyTemplate     = "template"
	KeyTrigger      = "trigger"
	KeyAuthLevel    = "authLevel"
	KeySchedule     = "schedule"
	KeyResourceName = "resourceName"
	KeyFunctionName = "functionName"

	KeyConnectionKind    = "connectionKind"
	KeyConnectionSetting = "connectionSetting"
	KeyUseEmulator       = "useEmulator"
	KeyConnectionString  = "connectionString"

	KeyFunction       = "function"
	KeyPayload        = "payload"
	KeyCopy           = "copy"
	KeyResponseStatus = "responseStatus"
	KeyResponseBody   = "responseBody"

	KeySample      = "sample"
	KeyDestination = "destination"
	KeyFileCount   = "fileCount"
)

// Step priorities.
const (
	PriorityEnsureDir       = 10
	PriorityFuncInit        = 100
	PriorityBalInit         = 105
	PriorityBalBuild        = 110
	PriorityFuncNew         = 120
	PriorityDownload        = 150
	PriorityHostJSON        = 200
	PriorityInvoke          = 200
	PriorityLocalSettings   = 210
	PriorityConnection      = 210
	PriorityFuncIgnore      = 300
	PriorityPythonVenv      = 310
	PriorityTriggerBindings = 320
	PriorityCopyResponse    = 300
)

// Runner runs external commands in a directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with internal/cmd.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	return cmd.RunContext(ctx, dir, name, args...)
}

// Deps are the collaborators workflows use. Zero fields get defaults
// from Defaults.
type Deps struct {
	Config *config.Config
	Feed   *feed.Cache
	GitHub *github.Client
	Runner Runner
	HTTP   *http.Client
	// Clipboard copies text; nil uses the system clipboard.
	Clipboard func(string) error
	// Cwd is the directory relative paths resolve against.
	Cwd string
}

// Defaults fills unset fields.
func (d Deps) Defaults() Deps {
	if d.Config == nil {
		cfg := config.Default()
		d.Config = &cfg
	}
	if d.Feed == nil {
		d.Feed = feed.New(feed.WithTTL(d.Config.Feed.TTL.Duration), feed.WithToken(d.Config.Feed.GitHubToken))
	}
	if d.GitHub == nil {
		d.GitHub = github.NewClient(d.Feed, github.WithToken(d.Config.Feed.GitHubToken))
	}
	if d.Runner == nil {
		d.Runner = ExecRunner{}
	}
	if d.HTTP == nil {
		d.HTTP = &http.Client{Timeout: feed.DefaultTimeout * 4}
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.Cwd == "" {
		d.Cwd, _ = os.Getwd()
	}
	return d
}
