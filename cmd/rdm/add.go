package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/index"
)

// capturesFile is where CLI-side captures land inside the library root.
// The importer picks it up like any app export.
const capturesFile = "cli-captures.jsonl"

type captureLine struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Text       string `json:"text"`
	Author     string `json:"author,omitempty"`
	CapturedAt string `json:"capturedAt"`
	SessionID  string `json:"sessionId,omitempty"`
}

func addCmd() *cobra.Command {
	var author, sessionID string

	cmd := &cobra.Command{
		Use:   "add <note|quote> <text>",
		Short: "Capture a note or quote from the command line",
		Long: `Appends a capture to the library and reindexes. Without --session the
capture is attributed to a session by its timestamp, exactly like captures
made in the app.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind != "note" && kind != "quote" {
				return fmt.Errorf("kind must be note or quote, got %q", kind)
			}
			text := args[1]
			if text == "" {
				return fmt.Errorf("text must not be empty")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			line := captureLine{
				Type:       kind,
				ID:         uuid.NewString(),
				Text:       text,
				Author:     author,
				CapturedAt: time.Now().UTC().Format(time.RFC3339),
				SessionID:  sessionID,
			}

			if err := appendCapture(cfg.LibraryRoot, line); err != nil {
				return fmt.Errorf("write capture: %w", err)
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			if _, err := index.IndexAll(db, cfg.LibraryRoot); err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Printf("Added %s %s\n", kind, line.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author of the quoted text")
	cmd.Flags().StringVar(&sessionID, "session", "", "Link directly to a session ID")

	return cmd
}

func appendCapture(libraryRoot string, line captureLine) error {
	if err := os.MkdirAll(libraryRoot, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(libraryRoot, capturesFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	_, err = f.Write(data)
	return err
}
