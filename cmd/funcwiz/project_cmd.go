package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/history"
	"github.com/raphi011/funcwiz/internal/hooks"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/ui/static"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Short:   "Create Functions projects",
		GroupID: GroupCreate,
	}
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectRecentCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		language string
		hf       hookFlags
	)

	cmd := &cobra.Command{
		Use:   "create [dir]",
		Short: "Create a new Functions project",
		Args:  cobra.MaximumNArgs(1),
		Long: `Create a new Functions project.

Asks for the directory (empty or missing) and the language, then runs
'func init' and writes host.json, local.settings.json and .funcignore.
Python projects get a virtual environment, .NET projects a target
framework. Custom handler projects can be built with Ballerina, in which
case 'bal init' and 'bal build' run and host.json starts the generated jar.

Optionally continues straight into 'funcwiz function create'.`,
		Example: `  funcwiz project create                   # Ask for everything
  funcwiz project create ./orders          # Create in ./orders
  funcwiz project create -l python         # Offer Python first
  funcwiz project create --answers a.yaml  # Non-interactive
  funcwiz project create --hook vscode     # Open the project afterwards`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			c := *cfg
			if language != "" {
				if !slices.Contains(config.ValidLanguages, language) {
					return fmt.Errorf("invalid language %q: must be one of %v", language, config.ValidLanguages)
				}
				c.DefaultLanguage = language
			}
			matches, env, err := hf.selectHooks(&c, hooks.EventProject)
			if err != nil {
				return err
			}
			deps := newDeps(ctx, &c)

			wctx, err := runWizard(ctx, func(wctx *wizard.Context) (*wizard.Wizard, error) {
				if len(args) == 1 {
					if err := flows.ValidateEmptyDir(workDir)(ctx, args[0]); err != nil {
						return nil, err
					}
					wctx.Set(flows.KeyProjectPath, absPath(args[0]))
				}
				return flows.NewCreateProject(wctx, deps), nil
			})
			if err != nil {
				return err
			}

			dir := wctx.String(flows.KeyProjectPath)
			l.Println(styles.SuccessLine(fmt.Sprintf("Created %s project in %s", wctx.String(flows.KeyLanguage), rel(dir))))
			if name := wctx.String(flows.KeyFunctionName); name != "" {
				l.Println(styles.SuccessLine("Created function " + name))
			}
			recordProject(ctx, dir, wctx.String(flows.KeyWorkerRuntime))
			runHooks(ctx, matches, hooks.Context{
				Path:     dir,
				Name:     wctx.String(flows.KeyFunctionName),
				Language: wctx.String(flows.KeyLanguage),
				Event:    hooks.EventProject,
				Env:      env,
			})
			output.FromContext(ctx).Println(dir)
			l.Printf("\nStart the host with: cd %s && func start\n", rel(dir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Language to offer first")
	cmd.RegisterFlagCompletionFunc("language", cobra.FixedCompletions(config.ValidLanguages, cobra.ShellCompDirectiveNoFileComp))
	hf.register(cmd)

	return cmd
}

func newProjectRecentCmd() *cobra.Command {
	var (
		format string
		prune  bool
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used projects",
		Args:  cobra.NoArgs,
		Long: `List recently used projects, newest first.

Commands that need a project fall back to the most recent one when run
outside of any project. --prune drops projects that no longer exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			h, err := history.Load(historyFile)
			if err != nil {
				return fmt.Errorf("failed to load project history: %w", err)
			}
			if prune {
				if n := h.RemoveStale(); n > 0 {
					if err := h.Save(historyFile); err != nil {
						return err
					}
					log.FromContext(ctx).Printf("Removed %d missing project(s)\n", n)
				}
			}
			h.SortByRecent()

			out := output.FromContext(ctx)
			if format != "" {
				return out.Encode(format, h.Entries)
			}
			if len(h.Entries) == 0 {
				log.FromContext(ctx).Println("No recent projects")
				return nil
			}
			rows := make([][]string, len(h.Entries))
			for i, e := range h.Entries {
				rows[i] = []string{rel(e.Path), e.Runtime, e.LastAccess.Format("2006-01-02 15:04")}
			}
			out.Printf("%s", static.RenderTable([]string{"PROJECT", "RUNTIME", "LAST USED"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	cmd.Flags().BoolVar(&prune, "prune", false, "Drop projects that no longer exist")
	return cmd
}
