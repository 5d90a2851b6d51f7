package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/readmark/readmark/internal/index"
	"github.com/readmark/readmark/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	itemID  string
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the session summary for an
// item asynchronously.
func loadPreviewCmd(db *index.DB, itemID, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderItem(db, itemID, render.Options{
			Width: width,
			Query: query,
		})
		return previewRenderedMsg{
			itemID:  itemID,
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
