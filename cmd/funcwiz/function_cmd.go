package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/hooks"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newFunctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "function",
		Aliases: []string{"fn"},
		Short:   "Create and list functions",
		GroupID: GroupCreate,
	}
	cmd.AddCommand(newFunctionCreateCmd())
	cmd.AddCommand(newFunctionListCmd())
	return cmd
}

func newFunctionCreateCmd() *cobra.Command {
	var (
		projectDir string
		hf         hookFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a function to a project",
		Args:  cobra.NoArgs,
		Long: `Add a function to a Functions project.

The project is the one containing the current directory, or --project.
Outside a project you are asked for it.

Templates come from the built-in list merged with the template feed
(feed.templates_url). Trigger-specific questions follow: the auth level
for HTTP, the schedule for timers and the connection for queue, blob,
Event Hub, Service Bus and Cosmos DB triggers.`,
		Example: `  funcwiz function create                  # Inside a project
  funcwiz function create -p ~/src/orders  # Explicit project`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c := cfg
			var dir string
			if _, inside := project.Find(workDir); projectDir != "" || inside {
				var err error
				if dir, c, err = resolveProject(ctx, projectDir); err != nil {
					return err
				}
			}
			matches, env, err := hf.selectHooks(c, hooks.EventFunction)
			if err != nil {
				return err
			}
			deps := newDeps(ctx, c)

			wctx, err := runWizard(ctx, func(wctx *wizard.Context) (*wizard.Wizard, error) {
				if dir != "" {
					wctx.Set(flows.KeyProjectPath, dir)
				}
				return flows.NewCreateFunction(wctx, deps), nil
			})
			if err != nil {
				return err
			}

			log.FromContext(ctx).Println(styles.SuccessLine(fmt.Sprintf("Created function %s in %s",
				wctx.String(flows.KeyFunctionName), rel(wctx.String(flows.KeyProjectPath)))))
			dir = wctx.String(flows.KeyProjectPath)
			var runtime string
			if settings, err := project.LoadLocalSettings(dir); err == nil {
				runtime = settings.Values[project.WorkerRuntimeSetting]
			}
			recordProject(ctx, dir, runtime)
			runHooks(ctx, matches, hooks.Context{
				Path:     dir,
				Name:     wctx.String(flows.KeyFunctionName),
				Language: runtime,
				Event:    hooks.EventFunction,
				Env:      env,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "Functions project directory")
	cmd.MarkFlagDirname("project")
	hf.register(cmd)

	return cmd
}

func newFunctionListCmd() *cobra.Command {
	var (
		projectDir string
		format     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the functions of a project",
		Args:    cobra.NoArgs,
		Example: `  funcwiz function list
  funcwiz function list -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir, _, err := resolveProject(ctx, projectDir)
			if err != nil {
				return err
			}
			fns, err := project.ListFunctions(dir)
			if err != nil {
				return err
			}
			return printFunctions(ctx, format, fns)
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "Functions project directory")
	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	cmd.MarkFlagDirname("project")

	return cmd
}
