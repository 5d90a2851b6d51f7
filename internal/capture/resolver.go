package capture

import "time"

// GraceWindow is how long after a session ends a captured item is still
// attributed to it. Covers clock drift and notes persisted just after
// recording stops.
const GraceWindow = 5 * time.Minute

// Resolve attributes an item to the session that produced it.
//
// A direct SessionRef wins when it names one of the candidates, regardless of
// timestamps. Otherwise the first candidate whose window contains
// item.CapturedAt matches, where the window is [StartedAt, EndedAt+GraceWindow]
// with inclusive bounds. Candidates must be sorted by StartedAt ascending so
// that overlapping windows resolve to the earliest session.
//
// Resolve is pure: no match is a normal outcome, not an error, and repeated
// calls with the same inputs return the same result.
func Resolve(item CapturedItem, candidates []Session) (Session, bool) {
	if item.SessionRef != "" {
		for _, s := range candidates {
			if s.ID == item.SessionRef {
				return s, true
			}
		}
	}

	for _, s := range candidates {
		// a session that ends before it starts never matches by time
		if s.EndedAt.Before(s.StartedAt) {
			continue
		}
		if item.CapturedAt.Before(s.StartedAt) {
			continue
		}
		if item.CapturedAt.After(s.EndedAt.Add(GraceWindow)) {
			continue
		}
		return s, true
	}

	return Session{}, false
}
