package main

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/ui/static"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage funcwiz configuration.

Global config:  ~/.config/funcwiz/config.toml
Project config: .funcwiz.toml (next to host.json)`,
		Example: `  funcwiz config init          # Create default global config
  funcwiz config init --local  # Create project config
  funcwiz config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config at ~/.config/funcwiz/config.toml.
With --local, creates .funcwiz.toml in the current Functions project.`,
		Example: `  funcwiz config init           # Create global config
  funcwiz config init --local   # Create project config
  funcwiz config init -f        # Overwrite existing config
  funcwiz config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if local {
				if stdout {
					out.Printf("%s", config.DefaultLocalConfig())
					return nil
				}
				dir, ok := project.Find(workDir)
				if !ok {
					return fmt.Errorf("not inside a Functions project (no %s found)", project.HostFile)
				}
				path, err := config.InitLocal(dir, force)
				if err != nil {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				l.Printf("Created project config: %s\n", path)
				return nil
			}

			if stdout {
				out.Printf("%s", config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create .funcwiz.toml in the current project instead")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Inside a Functions project the project's .funcwiz.toml is merged over the
global config.`,
		Example: `  funcwiz config show         # TOML
  funcwiz config show --json  # JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			eff := cfg
			sources := []static.KeyValue{{Key: "global", Value: configPath}}
			if dir, ok := project.Find(workDir); ok {
				merged, err := config.ResolverFromContext(ctx).ConfigForProject(dir)
				if err != nil {
					return err
				}
				eff = merged
				sources = append(sources, static.KeyValue{Key: "project", Value: filepath.Join(dir, config.LocalConfigFileName)})
			}

			shown := redact(*eff)
			if jsonOutput {
				return out.Encode("json", shown)
			}

			log.FromContext(ctx).Printf("%s\n", static.RenderKeyValues(sources))
			return toml.NewEncoder(out.Writer()).Encode(shown)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// redact hides secrets in c.
func redact(c config.Config) config.Config {
	const mask = "********"
	if c.Feed.GitHubToken != "" {
		c.Feed.GitHubToken = mask
	}
	if c.Host.MasterKey != "" {
		c.Host.MasterKey = mask
	}
	return c
}
