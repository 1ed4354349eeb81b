package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/funcwiz/internal/cache"
	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/github"
	"github.com/raphi011/funcwiz/internal/history"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/storage"
	"github.com/raphi011/funcwiz/internal/ui"
	"github.com/raphi011/funcwiz/internal/ui/answers"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

var errNotInteractive = errors.New("stdin is not a terminal: pass --answers <file> to run without prompts")

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newPrompter picks the scripted prompter when --answers is set and the
// terminal prompter otherwise. The scripted prompter is also returned
// on its own so callers can report unused answers.
func newPrompter() (wizard.Prompter, *answers.Prompter, error) {
	if answersFile != "" {
		p, err := answers.Load(absPath(answersFile))
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stderr) {
		return nil, nil, errNotInteractive
	}
	return ui.NewTerminal(), nil, nil
}

// runWizard builds a wizard over a fresh context and runs it. build may
// preset context values from flags before returning the wizard.
func runWizard(ctx context.Context, build func(*wizard.Context) (*wizard.Wizard, error)) (*wizard.Context, error) {
	p, script, err := newPrompter()
	if err != nil {
		return nil, err
	}

	wctx := wizard.NewContext(p)
	w, err := build(wctx)
	if err != nil {
		return nil, err
	}
	if err := w.Run(ctx); err != nil {
		return wctx, err
	}

	if script != nil {
		if unused := script.Unused(); len(unused) > 0 {
			log.FromContext(ctx).Printf("Warning: unused answers in %s: %s\n", answersFile, strings.Join(unused, ", "))
		}
	}
	return wctx, nil
}

// newFeed returns the feed cache for c, persisted under ~/.funcwiz when
// feed.persist is set.
func newFeed(ctx context.Context, c *config.Config) *feed.Cache {
	opts := []feed.Option{
		feed.WithTTL(c.Feed.TTL.Duration),
		feed.WithToken(c.Feed.GitHubToken),
		feed.WithUserAgent("funcwiz/" + version),
	}
	if c.Feed.Persist {
		if dir, err := storage.AppDir(); err == nil {
			opts = append(opts, feed.WithStore(cache.NewFileStore(dir)))
		} else {
			log.FromContext(ctx).Debug("feed cache not persisted", "err", err)
		}
	}
	return feed.New(opts...)
}

// newDeps wires the workflow collaborators for c.
func newDeps(ctx context.Context, c *config.Config) flows.Deps {
	f := newFeed(ctx, c)
	return flows.Deps{
		Config: c,
		Feed:   f,
		GitHub: github.NewClient(f, github.WithToken(c.Feed.GitHubToken)),
		Cwd:    workDir,
	}
}

// absPath resolves p against the working directory.
func absPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}

// resolveProject returns the project named by flag, the one containing
// the working directory, or the most recently used one, with its
// effective config.
func resolveProject(ctx context.Context, flag string) (string, *config.Config, error) {
	var dir string
	if flag != "" {
		dir = absPath(flag)
		if !project.IsProject(dir) {
			return "", nil, fmt.Errorf("%s is not a Functions project (no %s)", dir, project.HostFile)
		}
	} else if found, ok := project.Find(workDir); ok {
		dir = found
	} else {
		recent, _ := history.GetMostRecent(historyFile)
		if recent == "" || !project.IsProject(recent) {
			return "", nil, fmt.Errorf("not inside a Functions project (no %s found): use --project", project.HostFile)
		}
		log.FromContext(ctx).Println(styles.WarningLine("Not inside a project, using the most recent one: " + recent))
		dir = recent
	}

	c, err := config.ResolverFromContext(ctx).ConfigForProject(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, c, nil
}

// historyFile is where recently used projects are recorded.
var historyFile = history.DefaultPath()

// recordProject remembers dir as the most recently used project.
func recordProject(ctx context.Context, dir, runtime string) {
	if err := history.RecordAccess(dir, runtime, historyFile); err != nil {
		log.FromContext(ctx).Debug("project history not saved", "err", err)
	}
}

// rel shortens p for display when it is below the working directory.
func rel(p string) string {
	if r, err := filepath.Rel(workDir, p); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return p
}
