package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

// exitCancelled is the conventional exit status after SIGINT.
const exitCancelled = 130

var (
	// Global flags
	verbose     bool
	quiet       bool
	answersFile string

	// Shared state injected into commands
	cfg        *config.Config
	configPath string
	configErr  error
	workDir    string
)

// Command group IDs for organizing help output
const (
	GroupCreate  = "create"
	GroupRun     = "run"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "funcwiz",
	Short: "Wizards for Azure Functions projects",
	Long: `funcwiz walks you through Azure Functions development tasks:
creating projects and functions, wiring connections, downloading samples
and executing functions on the local host.

Questions are asked interactively. Pass --answers to read them from a
YAML file instead, e.g. in CI.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed now, so the logger can honor them.
		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
		cmd.SetContext(ctx)

		if configErr != nil {
			log.FromContext(ctx).Printf("Warning: %v (using defaults)\n", configErr)
		}
		styles.Init(cfg.Theme)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	var err error
	configPath, _ = config.Path()
	loadedCfg, err := config.Load()
	configErr = err
	cfg = &loadedCfg

	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "funcwiz: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithResolver(ctx, config.NewResolver(cfg))
	ctx = output.WithPrinter(ctx, os.Stdout)

	os.Exit(exitCode(rootCmd.ExecuteContext(ctx)))
}

// exitCode prints err unless it was already shown and maps it to a
// process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, wizard.ErrCancelled):
		return exitCancelled
	case wizard.IsReported(err):
		return 1
	}
	fmt.Fprintln(os.Stderr, styles.FailureLine(err.Error()))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'funcwiz -h' for help")
	return 1
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands and wizard steps")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&answersFile, "answers", "", "Read answers from a YAML file instead of prompting")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCreate, Title: "Create Commands:"},
		&cobra.Group{ID: GroupRun, Title: "Run Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Create commands
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newFunctionCmd())
	rootCmd.AddCommand(newConnectionCmd())

	// Run commands
	rootCmd.AddCommand(newTriggerCmd())
	rootCmd.AddCommand(newSamplesCmd())

	// Utility commands
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newCacheCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
}
