package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/readmark/readmark/internal/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestParseExport(t *testing.T) {
	path := writeExport(t,
		`{"type":"session","id":"s1","title":"Morning reading","startedAt":"2026-03-14T09:00:00Z","endedAt":"2026-03-14T09:45:00Z"}`,
		`{"type":"quote","id":"q1","text":"Call me Ishmael.","author":"Melville","capturedAt":"2026-03-14T09:05:00Z","sessionId":"s1"}`,
		``,
		`not json at all`,
		`{"type":"note","id":"n1","text":"great opening line","capturedAt":"2026-03-14T09:06:00Z"}`,
		`{"type":"bookmark","id":"b1"}`,
		`{"type":"note","text":"missing id, skipped"}`,
	)

	result, err := ParseExport(path)
	require.NoError(t, err)

	require.Len(t, result.Sessions, 1)
	s := result.Sessions[0]
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "Morning reading", s.Title)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), s.StartedAt)
	assert.Equal(t, 45*time.Minute, s.Duration())

	require.Len(t, result.Items, 2)

	q := result.Items[0]
	assert.Equal(t, capture.KindQuote, q.Item.Kind)
	assert.Equal(t, "Call me Ishmael.", q.Item.Text)
	assert.Equal(t, "Melville", q.Item.Author)
	assert.Equal(t, "s1", q.Item.SessionRef)
	assert.Equal(t, 2, q.LineNumber)

	n := result.Items[1]
	assert.Equal(t, capture.KindNote, n.Item.Kind)
	assert.Empty(t, n.Item.SessionRef)
	assert.Equal(t, 5, n.LineNumber)
}

func TestParseExportTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", maxTextSize+100)
	path := writeExport(t,
		`{"type":"note","id":"n1","text":"`+long+`","capturedAt":"2026-03-14T09:06:00Z"}`,
	)

	result, err := ParseExport(path)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Len(t, result.Items[0].Item.Text, maxTextSize)
}

func TestParseTimestampFormats(t *testing.T) {
	want := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, want, parseTimestamp("2026-03-14T09:00:00Z"))
	assert.Equal(t, want, parseTimestamp("2026-03-14T09:00:00"))
	assert.True(t, parseTimestamp("").IsZero())
	assert.True(t, parseTimestamp("yesterday").IsZero())
}
