package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/search"
	"github.com/readmark/readmark/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeKind(kind string) string {
	switch kind {
	case "note":
		return sColorBlue + kind + sColorReset
	case "quote":
		return sColorGreen + kind + sColorReset
	default:
		return kind
	}
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func searchCmd() *cobra.Command {
	var kind, author, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across captured notes and quotes",
		Long: `Search indexed captures using FTS5. Output is TSV for fzf integration:
  itemID, capturedAt, kind, author, snippet

Recommended shell function (add to .zshrc):
  rdmf() {
    rdm search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=2.. \
      --preview 'rdm show {1} --query {q}' \
      --preview-window=right:60%:wrap \
      --preview-debounce=150 \
      --bind 'enter:execute(rdm open {1})'
  }`,
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

			// Auto-update index before searching
			index.IndexAll(db, cfg.LibraryRoot)

			opts := search.Options{
				Kind:   kind,
				Author: author,
				Since:  since,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				snippet := strings.ReplaceAll(r.Snippet, "\t", " ")
				snippet = strings.ReplaceAll(snippet, "\n", " ")
				snippet = colorizeSnippet(snippet)
				author := r.Author
				if author == "" {
					author = "-"
				}
				// first field (itemID) stays plain for fzf {1}
				fmt.Printf("%s\t%s%s%s\t%s\t%s\t%s\n",
					r.ItemID,
					sColorDim, r.CapturedAt, sColorReset,
					colorizeKind(r.Kind),
					author,
					snippet,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (note/quote)")
	cmd.Flags().StringVar(&author, "author", "", "Filter by quoted author")
	cmd.Flags().StringVar(&since, "since", "", "Filter captures since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
