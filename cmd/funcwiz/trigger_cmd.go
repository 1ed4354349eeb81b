package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/ui/static"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newTriggerCmd() *cobra.Command {
	var (
		projectDir string
		data       string
		copyResult bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "trigger [function]",
		Short: "Execute a function on the local host",
		Args:  cobra.MaximumNArgs(1),
		Long: `Execute a function running on the local Functions host ('func start').

HTTP functions are called on their route. Every other trigger is started
through the host's admin endpoint with the payload as input. The response
body is printed to stdout.

The host URL and master key come from [host] in the config, or from
.funcwiz.toml in the project.`,
		Example: `  funcwiz trigger                          # Pick a function
  funcwiz trigger HttpExample -d '{"name":"x"}'
  funcwiz trigger QueueWorker --copy       # Copy the response
  funcwiz trigger HttpExample -o json`,
		ValidArgsFunction: completeFunctions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			dir, c, err := resolveProject(ctx, projectDir)
			if err != nil {
				return err
			}
			deps := newDeps(ctx, c)

			wctx, err := runWizard(ctx, func(wctx *wizard.Context) (*wizard.Wizard, error) {
				if len(args) == 1 {
					fn, err := findFunction(dir, args[0])
					if err != nil {
						return nil, err
					}
					wctx.Set(flows.KeyFunction, fn)
				}
				if cmd.Flags().Changed("data") {
					wctx.Set(flows.KeyPayload, data)
				}
				wctx.Set(flows.KeyCopy, copyResult)
				return flows.NewTrigger(wctx, deps, dir), nil
			})
			if err != nil {
				return err
			}

			res := flows.TriggerOutcome(wctx)
			if format != "" {
				return output.FromContext(ctx).Encode(format, res)
			}

			status := fmt.Sprintf("%s: %d %s", res.Function, res.Status, http.StatusText(res.Status))
			if res.Status >= 400 {
				l.Println(styles.FailureLine(status))
			} else {
				l.Println(styles.SuccessLine(status))
			}
			if res.Body != "" {
				body := res.Body
				if !strings.HasSuffix(body, "\n") {
					body += "\n"
				}
				output.FromContext(ctx).Printf("%s", body)
			}
			if res.Status >= 400 {
				return wizard.MarkReported(fmt.Errorf("%s returned %d", res.Function, res.Status))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "Functions project directory")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Payload to send instead of asking")
	cmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "Copy the response body to the clipboard")
	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	cmd.MarkFlagDirname("project")

	return cmd
}

// findFunction looks a function up by name, ignoring case.
func findFunction(dir, name string) (project.Function, error) {
	fns, err := project.ListFunctions(dir)
	if err != nil {
		return project.Function{}, err
	}
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		if strings.EqualFold(fn.Name, name) {
			return fn, nil
		}
		names = append(names, fn.Name)
	}
	if len(names) == 0 {
		return project.Function{}, fmt.Errorf("function %q not found: the project has no functions", name)
	}
	return project.Function{}, fmt.Errorf("function %q not found, available: %s", name, strings.Join(names, ", "))
}

func completeFunctions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dir, ok := project.Find(workDir)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	fns, err := project.ListFunctions(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, fn := range fns {
		if strings.HasPrefix(strings.ToLower(fn.Name), strings.ToLower(toComplete)) {
			names = append(names, fn.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// printFunctions renders fns as a table, or encoded with format.
func printFunctions(ctx context.Context, format string, fns []project.Function) error {
	out := output.FromContext(ctx)
	if format != "" {
		type entry struct {
			Name    string `json:"name" yaml:"name"`
			Trigger string `json:"trigger" yaml:"trigger"`
			Dir     string `json:"dir" yaml:"dir"`
		}
		entries := make([]entry, len(fns))
		for i, fn := range fns {
			b, _ := fn.Trigger()
			entries[i] = entry{Name: fn.Name, Trigger: b.Type, Dir: fn.Dir}
		}
		return out.Encode(format, entries)
	}

	if len(fns) == 0 {
		log.FromContext(ctx).Println("No functions found")
		return nil
	}
	rows := make([][]string, len(fns))
	for i, fn := range fns {
		b, _ := fn.Trigger()
		detail := b.Route
		switch {
		case b.Schedule != "":
			detail = b.Schedule
		case b.AuthLevel != "":
			detail = strings.TrimSpace(b.AuthLevel + " " + detail)
		}
		rows[i] = []string{fn.Name, b.Type, detail}
	}
	out.Printf("%s", static.RenderTable([]string{"NAME", "TRIGGER", "DETAIL"}, rows))
	return nil
}
