package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/readmark/readmark/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedExport = `{"type":"session","id":"s1","title":"Morning reading","startedAt":"2026-03-14T09:00:00Z","endedAt":"2026-03-14T09:45:00Z"}
{"type":"quote","id":"q1","text":"The lighthouse kept its distance all the same.","author":"Woolf","capturedAt":"2026-03-14T09:05:00Z","sessionId":"s1"}
{"type":"note","id":"n1","text":"lighthouse as an unreachable goal, revisit on the next reading","capturedAt":"2026-03-14T09:06:00Z"}
{"type":"note","id":"n2","text":"buy a better reading lamp","capturedAt":"2026-03-15T21:00:00Z"}
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

func TestSearchFTS(t *testing.T) {
	db := seededDB(t)

	results, err := Search(db, Options{Query: "lighthouse"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.Snippet, ">>>")
	}
}

func TestSearchKindFilter(t *testing.T) {
	db := seededDB(t)

	results, err := Search(db, Options{Query: "lighthouse", Kind: "quote"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "q1", results[0].ItemID)
	assert.Equal(t, "Woolf", results[0].Author)
}

func TestSearchSinceFilter(t *testing.T) {
	db := seededDB(t)

	results, err := Search(db, Options{Query: "reading", Since: "2026-03-15"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "n2", results[0].ItemID)
}

func TestListAllNewestFirst(t *testing.T) {
	db := seededDB(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "n2", results[0].ItemID)

	limited, err := ListAll(db, Options{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestContainsCJK(t *testing.T) {
	assert.False(t, containsCJK("lighthouse"))
	assert.True(t, containsCJK("灯塔"))
	assert.True(t, containsCJK("the 灯塔 keeper"))
}

func TestMakeSnippet(t *testing.T) {
	text := "a long meditation on the lighthouse and what it means to the family"

	snip := makeSnippet(text, "lighthouse", 10)
	assert.Contains(t, snip, ">>>lighthouse<<<")
	assert.True(t, len(snip) < len(text)+10)

	// no match falls back to the head
	head := makeSnippet(text, "whale", 5)
	assert.NotContains(t, head, ">>>")

	// empty query is a plain head snippet
	assert.NotContains(t, makeSnippet(text, "", 5), ">>>")
}
