package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/readmark/readmark/internal/index"
)

type Result struct {
	ItemID     string
	Kind       string
	CapturedAt string
	Author     string
	SessionRef string
	Snippet    string
	Rank       float64
}

type Options struct {
	Query  string
	Kind   string // "" = all, "note", "quote"
	Author string // "" = all
	Since  string // "" = no filter, e.g. "2026-01-01"
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	if query == "" {
		return headSnippet(text, contextChars*2)
	}
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		return headSnippet(text, contextChars*2)
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

func headSnippet(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) > maxChars {
		return string(runes[:maxChars]) + "..."
	}
	return text
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

func filterConditions(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.Kind != "" {
		conditions = append(conditions, "i.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Author != "" {
		conditions = append(conditions, "i.author = ?")
		args = append(args, opts.Author)
	}
	if opts.Since != "" {
		conditions = append(conditions, "i.captured_at >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"items_fts MATCH ?"}
	args := []interface{}{opts.Query}

	fc, fa := filterConditions(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			i.id,
			i.kind,
			i.captured_at,
			i.author,
			i.session_ref,
			snippet(items_fts, 0, '>>>', '<<<', '...', 40) as snip,
			bm25(items_fts, 1.0) as rank
		FROM items_fts
		JOIN items i ON items_fts.rowid = i.rowid
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	// LIKE match for CJK substring search
	conditions := []string{"i.text LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	fc, fa := filterConditions(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			i.id,
			i.kind,
			i.captured_at,
			i.author,
			i.session_ref,
			i.text
		FROM items i
		WHERE %s
		ORDER BY i.captured_at DESC
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.ItemID, &r.Kind, &r.CapturedAt,
			&r.Author, &r.SessionRef, &fullText,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		r.Rank = 0
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns items newest-first with the non-query filters applied,
// for browse mode.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	fc, fa := filterConditions(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	limitClause := ""
	if opts.Limit > 0 {
		limitClause = " LIMIT ?"
		args = append(args, opts.Limit)
	}

	query := fmt.Sprintf(`
		SELECT
			i.id,
			i.kind,
			i.captured_at,
			i.author,
			i.session_ref,
			i.text
		FROM items i
		WHERE %s
		ORDER BY i.captured_at DESC, i.id%s
	`, where, limitClause)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.ItemID, &r.Kind, &r.CapturedAt,
			&r.Author, &r.SessionRef, &fullText,
		); err != nil {
			return nil, err
		}
		r.Snippet = headSnippet(fullText, 80)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ItemID, &r.Kind, &r.CapturedAt,
			&r.Author, &r.SessionRef, &r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
