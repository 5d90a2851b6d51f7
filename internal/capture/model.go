package capture

import "time"

// Kind distinguishes the two things a reader can capture during a session.
type Kind string

const (
	KindNote  Kind = "note"
	KindQuote Kind = "quote"
)

// Session is an ambient recording session. StartedAt and EndedAt are fixed
// when recording stops; the struct is immutable from then on.
type Session struct {
	ID        string
	Title     string
	StartedAt time.Time
	EndedAt   time.Time
}

func (s Session) Duration() time.Duration {
	if s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// CapturedItem is a note or quote taken while reading or listening.
// SessionRef is a weak back-reference to the session that produced it; it is
// empty when the app never recorded the link, in which case attribution falls
// back to the capture timestamp.
type CapturedItem struct {
	ID         string
	Kind       Kind
	Text       string
	Author     string
	CapturedAt time.Time
	SessionRef string
}
