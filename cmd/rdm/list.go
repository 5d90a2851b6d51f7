package main

import (
	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/search"
	"github.com/readmark/readmark/internal/tui"
)

func listCmd() *cobra.Command {
	var kind, author, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all captures sorted by capture time",
		Long:  `Opens a TUI panel showing all captured notes and quotes, newest first. Type to search across capture text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			index.IndexAll(db, cfg.LibraryRoot)

			opts := search.Options{
				Kind:   kind,
				Author: author,
				Since:  since,
				Limit:  limit,
			}

			return tui.RunList(db, opts)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (note/quote)")
	cmd.Flags().StringVar(&author, "author", "", "Filter by quoted author")
	cmd.Flags().StringVar(&since, "since", "", "Filter captures since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
