package main

import (
	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/open"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <itemID>",
		Short: "Open a capture's export file in $EDITOR at its line",
		Args:  cobra.ExactArgs(1),
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

			return open.OpenItem(db, args[0])
		},
	}
}
