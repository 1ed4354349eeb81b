package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/funcwiz/internal/cache"
	"github.com/raphi011/funcwiz/internal/log"
	"github.com/raphi011/funcwiz/internal/output"
	"github.com/raphi011/funcwiz/internal/storage"
	"github.com/raphi011/funcwiz/internal/ui/static"
	"github.com/raphi011/funcwiz/internal/ui/styles"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Inspect or clear the feed cache",
		GroupID: GroupUtility,
		Long: `Inspect or clear the feed cache.

Template and sample listings are kept in ~/.funcwiz/feeds.json and
refetched once feed.ttl has passed.`,
	}
	cmd.AddCommand(newCacheShowCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func fileStore() (*cache.FileStore, error) {
	dir, err := storage.AppDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileStore(dir), nil
}

func newCacheShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls"},
		Short:   "List cached feeds",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := fileStore()
			if err != nil {
				return err
			}

			now := time.Now()
			entries, err := store.List(now)
			if err != nil {
				return err
			}
			out := output.FromContext(ctx)
			if format != "" {
				return out.Encode(format, entries)
			}
			if len(entries) == 0 {
				log.FromContext(ctx).Println("No cached feeds")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{static.Truncate(e.URL, 70), static.FormatBytes(e.Size), static.FormatRefresh(e.NextRefresh, now)}
			}
			out.Printf("%s", static.RenderTable([]string{"URL", "SIZE", "REFRESH"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "Output format: json or yaml")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := fileStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Println(styles.SuccessLine("Cleared " + store.Path()))
			return nil
		},
	}
}
