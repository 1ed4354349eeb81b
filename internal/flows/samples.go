package flows

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/raphi011/funcwiz/internal/github"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/wizard"
)

type sampleStep struct {
	wizard.BasePromptStep
	deps Deps
}

func (sampleStep) ID() string { return "sample" }

func (sampleStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeySample)
}

func (s sampleStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	dirs, err := s.deps.GitHub.Dirs(ctx, s.deps.Config.Feed.SamplesURL)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no samples found at %s", s.deps.Config.Feed.SamplesURL)
	}

	choices := make([]wizard.Choice, len(dirs))
	for i, d := range dirs {
		choices[i] = wizard.Choice{Label: d.Name, Description: d.Path, Value: d}
	}
	c, err := wctx.Pick(ctx, "Select a sample", choices)
	if err != nil {
		return err
	}
	wctx.Set(KeySample, c.Value)
	return nil
}

type destinationStep struct {
	wizard.BasePromptStep
	cwd string
}

func (destinationStep) ID() string { return "destination" }

func (destinationStep) ShouldPrompt(wctx *wizard.Context) bool {
	return !wctx.Has(KeyDestination)
}

func (s destinationStep) Prompt(ctx context.Context, wctx *wizard.Context) error {
	def := "./" + sampleEntry(wctx).Name
	v, err := wctx.Input(ctx, wizard.InputOptions{
		Prompt:      "Destination directory",
		Placeholder: def,
		Value:       def,
		Validate:    ValidateEmptyDir(s.cwd),
	})
	if err != nil {
		return err
	}
	wctx.Set(KeyDestination, resolvePath(s.cwd, v))
	return nil
}

func sampleEntry(wctx *wizard.Context) github.ContentEntry {
	v, _ := wctx.Get(KeySample)
	e, _ := v.(github.ContentEntry)
	return e
}

func downloadSample(deps Deps) wizard.ExecuteStep {
	return wizard.NewExecute("download", PriorityDownload, func(ctx context.Context, wctx *wizard.Context) error {
		sample := sampleEntry(wctx)
		dest := wctx.String(KeyDestination)
		if sample.Path == "" || dest == "" {
			return &wizard.InternalError{Err: fmt.Errorf("wizard context is missing %s or %s", KeySample, KeyDestination)}
		}

		listing := sample.URL
		if listing == "" {
			listing = github.ContentsURL(deps.Config.Feed.SamplesURL, sample.Path)
		}
		files, err := deps.GitHub.Walk(ctx, listing)
		if err != nil {
			return err
		}

		l := log.FromContext(ctx)
		var mu sync.Mutex
		err = deps.GitHub.Mirror(ctx, files, sample.Path, dest, github.MirrorOptions{
			OnFile: func(done, total int, rel string) {
				mu.Lock()
				defer mu.Unlock()
				l.Debug("downloaded", "file", path.Join(sample.Name, rel), "done", done, "total", total)
			},
		})
		if err != nil {
			return err
		}
		wctx.Set(KeyFileCount, len(files))
		return nil
	}).Describe("Downloading sample")
}

// NewDownloadSample builds "funcwiz samples download".
func NewDownloadSample(wctx *wizard.Context, deps Deps) *wizard.Wizard {
	deps = deps.Defaults()
	return wizard.New(wctx, wizard.Options{
		Title:        "Download sample",
		PromptSteps:  []wizard.PromptStep{sampleStep{deps: deps}, destinationStep{cwd: deps.Cwd}},
		ExecuteSteps: []wizard.ExecuteStep{downloadSample(deps)},
	})
}
