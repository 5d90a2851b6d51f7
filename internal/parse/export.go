package parse

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/readmark/readmark/internal/capture"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB
const maxTextSize = 8 * 1024         // 8KB for FTS index

// exportRecord is one line of a Readmark library export. The app writes
// sessions and captured items interleaved into the same file.
type exportRecord struct {
	Type       string `json:"type"` // "session", "note" or "quote"
	ID         string `json:"id"`
	Title      string `json:"title"`
	StartedAt  string `json:"startedAt"`
	EndedAt    string `json:"endedAt"`
	Text       string `json:"text"`
	Author     string `json:"author"`
	CapturedAt string `json:"capturedAt"`
	SessionID  string `json:"sessionId"`
}

// ParsedItem carries the line number alongside the item so `rdm open` can
// jump to it in the export file.
type ParsedItem struct {
	Item       capture.CapturedItem
	LineNumber int
}

type Result struct {
	Path     string
	Sessions []capture.Session
	Items    []ParsedItem
}

// ParseExport reads a JSONL library export. Parsing is lenient: lines that
// are not valid JSON, records of unknown type and records missing an ID are
// skipped rather than failing the whole file.
func ParseExport(filePath string) (*Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := &Result{Path: filePath}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec exportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.ID == "" {
			continue
		}

		switch rec.Type {
		case "session":
			result.Sessions = append(result.Sessions, capture.Session{
				ID:        rec.ID,
				Title:     rec.Title,
				StartedAt: parseTimestamp(rec.StartedAt),
				EndedAt:   parseTimestamp(rec.EndedAt),
			})

		case "note", "quote":
			if rec.Text == "" {
				continue
			}
			text := rec.Text
			if len(text) > maxTextSize {
				text = text[:maxTextSize]
			}
			result.Items = append(result.Items, ParsedItem{
				Item: capture.CapturedItem{
					ID:         rec.ID,
					Kind:       capture.Kind(rec.Type),
					Text:       text,
					Author:     rec.Author,
					CapturedAt: parseTimestamp(rec.CapturedAt),
					SessionRef: rec.SessionID,
				},
				LineNumber: lineNum,
			})
		}
	}

	return result, scanner.Err()
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// ISO8601 without timezone, seen in older app exports
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
