package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/capture"
	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify library root, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			// check library root
			fmt.Println("=== Library ===")
			checkDir("Root", cfg.LibraryRoot)

			// scan file counts
			fmt.Println("\n=== File Scan ===")
			files, err := scan.Root(cfg.LibraryRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Export files: %d\n", len(files))
			}

			// check DB
			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'rdm import' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			sessionCount, err := db.SessionCount()
			if err != nil {
				return fmt.Errorf("count sessions: %w", err)
			}

			itemCount, err := db.ItemCount()
			if err != nil {
				return fmt.Errorf("count items: %w", err)
			}

			fmt.Printf("  Sessions: %d\n", sessionCount)
			fmt.Printf("  Captures: %d\n", itemCount)

			// check FTS5
			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM items_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == itemCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (items=%d, fts=%d)\n", itemCount, ftsCount)
				}
			}

			// unattributed captures: no direct link and no session window match
			fmt.Println("\n=== Attribution ===")
			unmatched, err := countUnattributed(db)
			if err != nil {
				fmt.Printf("  error: %v\n", err)
			} else {
				fmt.Printf("  Captures without a session: %d\n", unmatched)
			}

			// check DB file size
			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func countUnattributed(db *index.DB) (int, error) {
	sessions, err := db.SessionsByStart()
	if err != nil {
		return 0, err
	}
	items, err := db.ItemsByTime()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, row := range items {
		if _, ok := capture.Resolve(row.Captured(), sessions); !ok {
			n++
		}
	}
	return n, nil
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
