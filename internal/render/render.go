package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/readmark/readmark/internal/capture"
	"github.com/readmark/readmark/internal/index"
)

const (
	colorReset   = "\033[0m"
	colorNote    = "\033[1;34m" // bold blue
	colorQuote   = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Query string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	terms := strings.Fields(query)
	var filtered []string
	for _, t := range terms {
		if !fts5Operators[t] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return text
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// renderMarkdown renders note text through glamour. Falls back to the raw
// text if the renderer cannot be built.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

type lineWriter struct {
	b     strings.Builder
	width int
	count int
}

func (w *lineWriter) writeLine(s string) {
	for _, wl := range wrapLine(s, w.width) {
		w.b.WriteString(wl)
		w.b.WriteString("\n")
		w.count++
	}
}

// RenderItem renders the session summary for a captured item: the session
// header followed by every item attributed to that session, with the given
// item highlighted. When no session matches, it renders the degraded
// fallback view instead. Returns the content and the 0-based line number of
// the highlighted item (-1 when not applicable).
func RenderItem(db *index.DB, itemID string, opts Options) (string, int, error) {
	row, err := db.GetItemByID(itemID)
	if err != nil {
		return "", -1, fmt.Errorf("get item: %w", err)
	}
	if row == nil {
		return "", -1, fmt.Errorf("item not found: %s", itemID)
	}
	item := row.Captured()

	sessions, err := db.SessionsByStart()
	if err != nil {
		return "", -1, fmt.Errorf("get sessions: %w", err)
	}

	sess, ok := capture.Resolve(item, sessions)
	if !ok {
		return renderFallback(item, opts), -1, nil
	}

	rows, err := db.ItemsByTime()
	if err != nil {
		return "", -1, fmt.Errorf("get items: %w", err)
	}

	// the summary lists everything that resolves to the same session
	var attributed []capture.CapturedItem
	for _, r := range rows {
		it := r.Captured()
		if s, ok := capture.Resolve(it, sessions); ok && s.ID == sess.ID {
			attributed = append(attributed, it)
		}
	}

	w := &lineWriter{width: opts.Width}
	hitLine := -1

	w.writeLine(sessionHeader(sess))
	w.writeLine("")

	for i, it := range attributed {
		if i > 0 {
			w.writeLine(colorDim + "--------------------------------------------------" + colorReset)
		}
		if it.ID == item.ID {
			hitLine = w.count
		}
		writeItem(w, it, it.ID == item.ID, opts)
	}

	return w.b.String(), hitLine, nil
}

func renderFallback(item capture.CapturedItem, opts Options) string {
	w := &lineWriter{width: opts.Width}
	w.writeLine(colorDim + "(not captured during a recorded session)" + colorReset)
	w.writeLine("")
	writeItem(w, item, false, opts)
	return w.b.String()
}

func sessionHeader(s capture.Session) string {
	title := s.Title
	if title == "" {
		title = "(untitled session)"
	}
	dur := s.Duration().Round(time.Minute)
	return fmt.Sprintf("%s--- %s | %s - %s (%s) ---%s",
		colorDim,
		title,
		s.StartedAt.Format("2006-01-02 15:04"),
		s.EndedAt.Format("15:04"),
		dur,
		colorReset,
	)
}

func writeItem(w *lineWriter, it capture.CapturedItem, isHit bool, opts Options) {
	var roleColor, label string
	switch it.Kind {
	case capture.KindQuote:
		roleColor = colorQuote
		label = "QUOTE"
	default:
		roleColor = colorNote
		label = "NOTE"
	}

	ts := ""
	if !it.CapturedAt.IsZero() {
		ts = it.CapturedAt.Format("2006-01-02 15:04")
	}

	if isHit {
		w.writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, label, ts, colorReset))
	} else {
		w.writeLine(fmt.Sprintf("%s%s >%s %s%s%s", roleColor, label, colorReset, colorDim, ts, colorReset))
	}

	text := it.Text
	if it.Kind == capture.KindNote && capture.HasMarkdown(text) {
		text = renderMarkdown(text, opts.Width-2)
	} else {
		text = highlightKeywords(text, opts.Query)
	}
	text = indentLines(text, "  ")

	for _, tl := range strings.Split(text, "\n") {
		w.writeLine(tl)
	}

	if it.Author != "" {
		w.writeLine(fmt.Sprintf("  %s- %s%s", colorDim, it.Author, colorReset))
	}
	w.writeLine("") // blank line after item
}
