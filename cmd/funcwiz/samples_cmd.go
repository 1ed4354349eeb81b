package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/github"
	"github.com/raphi011/funcwiz/internal/hooks"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/ui/static"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "samples",
		Short:   "Browse and download sample projects",
		GroupID: GroupRun,
		Long: `Browse and download sample projects.

Samples are the top-level directories of the GitHub contents listing at
feed.samples_url. Listings are cached for feed.ttl.`,
	}
	cmd.AddCommand(newSamplesListCmd())
	cmd.AddCommand(newSamplesDownloadCmd())
	return cmd
}

func newSamplesListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available samples",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps := newDeps(ctx, cfg)

			dirs, err := deps.GitHub.Dirs(ctx, cfg.Feed.SamplesURL)
			if err != nil {
				return err
			}
			out := output.FromContext(ctx)
			if format != "" {
				return out.Encode(format, dirs)
			}
			if len(dirs) == 0 {
				log.FromContext(ctx).Println("No samples found")
				return nil
			}
			rows := make([][]string, len(dirs))
			for i, d := range dirs {
				rows[i] = []string{d.Name, static.Truncate(d.HTMLURL, 80)}
			}
			out.Printf("%s", static.RenderTable([]string{"SAMPLE", "URL"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	return cmd
}

func newSamplesDownloadCmd() *cobra.Command {
	var (
		dest string
		hf   hookFlags
	)

	cmd := &cobra.Command{
		Use:   "download [sample]",
		Short: "Download a sample into a new directory",
		Args:  cobra.MaximumNArgs(1),
		Long: `Download a sample into a new directory.

The whole sample tree is mirrored, a few files at a time. The destination
must be empty or missing and defaults to ./<sample>.`,
		Example: `  funcwiz samples download                  # Pick a sample
  funcwiz samples download http-trigger     # By name
  funcwiz samples download http-trigger --dest ./try-it`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			matches, env, err := hf.selectHooks(cfg, hooks.EventSamples)
			if err != nil {
				return err
			}
			deps := newDeps(ctx, cfg)

			wctx, err := runWizard(ctx, func(wctx *wizard.Context) (*wizard.Wizard, error) {
				if len(args) == 1 {
					sample, err := findSample(cmd, deps.GitHub, args[0])
					if err != nil {
						return nil, err
					}
					wctx.Set(flows.KeySample, sample)
				}
				if dest != "" {
					if err := flows.ValidateEmptyDir(workDir)(ctx, dest); err != nil {
						return nil, err
					}
					wctx.Set(flows.KeyDestination, absPath(dest))
				}
				return flows.NewDownloadSample(wctx, deps), nil
			})
			if err != nil {
				return err
			}

			n, _ := wctx.Get(flows.KeyFileCount)
			dir := wctx.String(flows.KeyDestination)
			log.FromContext(ctx).Println(styles.SuccessLine(fmt.Sprintf("Downloaded %v files to %s", n, rel(dir))))
			var name string
			if v, _ := wctx.Get(flows.KeySample); v != nil {
				if e, ok := v.(github.ContentEntry); ok {
					name = e.Name
				}
			}
			runHooks(ctx, matches, hooks.Context{
				Path:  dir,
				Name:  name,
				Event: hooks.EventSamples,
				Env:   env,
			})
			output.FromContext(ctx).Println(dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory")
	cmd.MarkFlagDirname("dest")
	hf.register(cmd)

	return cmd
}

func findSample(cmd *cobra.Command, gh *github.Client, name string) (github.ContentEntry, error) {
	dirs, err := gh.Dirs(cmd.Context(), cfg.Feed.SamplesURL)
	if err != nil {
		return github.ContentEntry{}, err
	}
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
		names = append(names, d.Name)
	}
	return github.ContentEntry{}, fmt.Errorf("sample %q not found, available: %s", name, strings.Join(names, ", "))
}
