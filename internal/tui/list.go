package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/readmark/readmark/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No captures")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] kind  date  author
//	line 2:    snippet (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	// Format kind with color
	var kind string
	switch r.Kind {
	case "note":
		kind = styleKindNote.Render("note ")
	case "quote":
		kind = styleKindQuote.Render("quote")
	default:
		kind = r.Kind
	}

	// Extract short date from CapturedAt (e.g. "2026-01-27" -> "01-27")
	date := r.CapturedAt
	if len(date) >= 10 {
		date = date[5:10] // MM-DD
	}

	author := r.Author
	if author == "" {
		author = "-"
	}
	authorMax := width - 2 - 6 - 6 - 2 // prefix + kind + date + padding
	if authorMax < 0 {
		authorMax = 0
	}
	if runewidth.StringWidth(author) > authorMax {
		author = runewidth.Truncate(author, authorMax, "")
	}

	// Line 1: kind date author
	line1 := fmt.Sprintf("%s %s %s", kind, date, author)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: snippet (dimmed, indented)
	snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	snippet = strings.ReplaceAll(snippet, "<<<", "")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
