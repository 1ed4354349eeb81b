package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/flows"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/project"
	"github.com/raphi011/funcwiz/internal/ui/styles"
	"github.com/raphi011/funcwiz/internal/wizard"
)

func newConnectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connection",
		Aliases: []string{"conn"},
		Short:   "Configure service connections",
		GroupID: GroupCreate,
	}
	cmd.AddCommand(newConnectionSetCmd())
	return cmd
}

func connectionKindIDs() []string {
	ids := make([]string, len(flows.ConnectionKinds))
	for i, k := range flows.ConnectionKinds {
		ids[i] = k.ID
	}
	return ids
}

func newConnectionSetCmd() *cobra.Command {
	var (
		projectDir string
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a connection in local.settings.json",
		Args:  cobra.NoArgs,
		Long: `Store a service connection in local.settings.json.

Asks for the service, the app setting name and the connection string.
Azure Storage connections can point at the local emulator (Azurite)
instead.`,
		Example: `  funcwiz connection set               # Ask for everything
  funcwiz connection set -k servicebus # Service Bus connection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if kind != "" && !slices.Contains(connectionKindIDs(), kind) {
				return fmt.Errorf("invalid kind %q: must be one of %v", kind, connectionKindIDs())
			}
			dir, _, err := resolveProject(ctx, projectDir)
			if err != nil {
				return err
			}

			wctx, err := runWizard(ctx, func(wctx *wizard.Context) (*wizard.Wizard, error) {
				if kind != "" {
					wctx.Set(flows.KeyConnectionKind, kind)
				}
				return flows.NewConnection(wctx, dir), nil
			})
			if err != nil {
				return err
			}

			log.FromContext(ctx).Println(styles.SuccessLine(fmt.Sprintf("Set %s in %s",
				wctx.String(flows.KeyConnectionSetting), project.LocalSettingsFile)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "Functions project directory")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Service to connect to")
	cmd.MarkFlagDirname("project")
	cmd.RegisterFlagCompletionFunc("kind", cobra.FixedCompletions(connectionKindIDs(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
