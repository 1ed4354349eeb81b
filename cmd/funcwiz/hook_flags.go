package main

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/config"
	"github.com/raphi011/funcwiz/internal/hooks"
)

// hookFlags holds --hook, --no-hook and --arg for commands that run
// post-wizard hooks.
type hookFlags struct {
	name   string
	noHook bool
	env    []string
}

func (f *hookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "hook", "", "Run only the named hook")
	cmd.Flags().BoolVar(&f.noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringSliceVarP(&f.env, "arg", "a", nil, "Set hook variable KEY=VALUE")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHooks)
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)
}

// selectHooks validates the flags before the wizard runs so a typo in
// --hook or --arg fails fast.
func (f *hookFlags) selectHooks(c *config.Config, ev hooks.Event) ([]hooks.Match, map[string]string, error) {
	matches, err := hooks.Select(c.Hooks, f.name, f.noHook, ev)
	if err != nil {
		return nil, nil, err
	}
	env, err := hooks.ParseEnv(f.env)
	if err != nil {
		return nil, nil, err
	}
	return matches, env, nil
}

// runHooks runs matches non-fatally; the wizard's work is already done.
func runHooks(ctx context.Context, matches []hooks.Match, hctx hooks.Context) {
	if len(matches) == 0 {
		return
	}
	hooks.RunNonFatal(ctx, matches, hctx)
}

func completeHooks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(cfg.Hooks))
	for name, h := range cfg.Hooks {
		names = append(names, name+"\t"+h.Description)
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}
