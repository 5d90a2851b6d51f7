package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Scan and index Readmark library exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Scanning library...\n")
			fmt.Fprintf(os.Stderr, "  Root: %s\n", cfg.LibraryRoot)

			stats, err := index.IndexAll(db, cfg.LibraryRoot)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
