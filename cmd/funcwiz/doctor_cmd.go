package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/doctor"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/storage"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newDoctorCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check the development environment",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Check the development environment.

Checks:
- Azure Functions Core Tools (func) is installed, version 4 or newer
- Ballerina (bal) is installed (optional, for custom handlers)
- The config file parses and validates
- The feed cache file is readable
- Inside a project: host.json and FUNCTIONS_WORKER_RUNTIME

On Linux the distribution from /etc/os-release is shown.`,
		Example: `  funcwiz doctor
  funcwiz doctor -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env := doctor.Env{
				Config:     cfg,
				ConfigPath: configPath,
				ConfigErr:  configErr,
			}
			if dir, err := storage.AppDir(); err == nil {
				env.CacheDir = dir
			}
			if dir, ok := project.Find(workDir); ok {
				env.ProjectDir = dir
			}

			report := doctor.Run(ctx, env)
			if format != "" {
				if err := output.FromContext(ctx).Encode(format, report); err != nil {
					return err
				}
			} else {
				doctor.Print(ctx, report)
			}

			if report.Failed() {
				_, _, fail := report.Counts()
				return wizard.MarkReported(fmt.Errorf("%d checks failed", fail))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	return cmd
}
