package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/readmark/readmark/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedExport = `{"type":"session","id":"s1","title":"Morning reading","startedAt":"2026-03-14T09:00:00Z","endedAt":"2026-03-14T09:45:00Z"}
{"type":"quote","id":"q1","text":"Call me Ishmael.","author":"Melville","capturedAt":"2026-03-14T09:05:00Z","sessionId":"s1"}
{"type":"note","id":"n1","text":"the narrator names himself before anything else","capturedAt":"2026-03-14T09:48:00Z"}
{"type":"note","id":"orphan","text":"random shower thought","capturedAt":"2026-03-20T08:00:00Z"}
`

func seededDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "rdm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "export.jsonl"), []byte(seedExport), 0o644))
	_, err = index.IndexAll(db, root)
	require.NoError(t, err)
	return db
}

func TestRenderItemSessionSummary(t *testing.T) {
	db := seededDB(t)

	// n1 has no session ref; it lands in s1 via the grace window (09:48 is
	// 3 minutes past the end) and the summary shows both captured items.
	out, hitLine, err := RenderItem(db, "n1", Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "Morning reading")
	assert.Contains(t, out, "Call me Ishmael.")
	assert.Contains(t, out, "the narrator names himself")
	assert.Contains(t, out, "Melville")
	assert.Greater(t, hitLine, 0, "hit item comes after the quote")
}

func TestRenderItemFallback(t *testing.T) {
	db := seededDB(t)

	out, hitLine, err := RenderItem(db, "orphan", Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "not captured during a recorded session")
	assert.Contains(t, out, "random shower thought")
	assert.NotContains(t, out, "Morning reading")
	assert.Equal(t, -1, hitLine)
}

func TestRenderItemNotFound(t *testing.T) {
	db := seededDB(t)

	_, _, err := RenderItem(db, "nope", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWrapLine(t *testing.T) {
	lines := wrapLine("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)

	// ANSI escapes must not count toward width
	colored := colorDim + "abcd" + colorReset
	assert.Len(t, wrapLine(colored, 4), 1)

	assert.Equal(t, []string{""}, wrapLine("", 10))
	assert.Equal(t, []string{"no wrap"}, wrapLine("no wrap", 0))
}

func TestHighlightKeywords(t *testing.T) {
	out := highlightKeywords("the lighthouse at night", "lighthouse")
	assert.Contains(t, out, colorBoldRed+"lighthouse"+colorReset)

	// FTS operators are not highlighted
	same := highlightKeywords("to be AND not to be", "AND")
	assert.Equal(t, "to be AND not to be", same)

	assert.Equal(t, "untouched", highlightKeywords("untouched", ""))
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "  a\n  b", indentLines("a\nb", "  "))
}

func TestSessionHeaderShowsDuration(t *testing.T) {
	db := seededDB(t)

	out, _, err := RenderItem(db, "q1", Options{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "45m"), "header shows session duration: %q", out)
}
