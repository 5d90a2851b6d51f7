package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/render"
)

func showCmd() *cobra.Command {
	var width int
	var query string

	cmd := &cobra.Command{
		Use:   "show <itemID>",
		Short: "Show the session summary a capture belongs to",
		Long: `Looks up the ambient session that produced a captured note or quote,
either through its direct session link or by capture time, and prints the
full session summary. Captures with no matching session get a plain
fallback view.`,
		Args: cobra.ExactArgs(1),
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

			out, _, err := render.RenderItem(db, args[0], render.Options{
				Width: width,
				Query: query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
