package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func session(id string, start, end time.Duration) Session {
	return Session{ID: id, StartedAt: base.Add(start), EndedAt: base.Add(end)}
}

func TestResolveDirectRefWinsRegardlessOfTimestamp(t *testing.T) {
	candidates := []Session{
		session("s1", 0, 30*time.Minute),
		session("s2", time.Hour, 90*time.Minute),
	}

	// timestamp falls inside s1's window, but the ref points at s2
	item := CapturedItem{
		ID:         "n1",
		Kind:       KindNote,
		CapturedAt: base.Add(10 * time.Minute),
		SessionRef: "s2",
	}

	got, ok := Resolve(item, candidates)
	require.True(t, ok)
	assert.Equal(t, "s2", got.ID)
}

func TestResolveUnresolvableRefFallsBackToWindow(t *testing.T) {
	candidates := []Session{session("s1", 0, 30*time.Minute)}

	item := CapturedItem{
		CapturedAt: base.Add(10 * time.Minute),
		SessionRef: "deleted-session",
	}

	got, ok := Resolve(item, candidates)
	require.True(t, ok)
	assert.Equal(t, "s1", got.ID)
}

func TestResolveGraceWindowBoundary(t *testing.T) {
	candidates := []Session{session("s1", 0, 30*time.Minute)}

	tests := []struct {
		name  string
		at    time.Time
		match bool
	}{
		{"at start", base, true},
		{"mid session", base.Add(15 * time.Minute), true},
		{"at end", base.Add(30 * time.Minute), true},
		{"end plus 300s inclusive", base.Add(30*time.Minute + 300*time.Second), true},
		{"end plus 301s", base.Add(30*time.Minute + 301*time.Second), false},
		{"before start", base.Add(-time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Resolve(CapturedItem{CapturedAt: tt.at}, candidates)
			assert.Equal(t, tt.match, ok)
		})
	}
}

func TestResolveOverlappingWindowsEarliestWins(t *testing.T) {
	// both windows contain the timestamp; candidates are sorted by start
	candidates := []Session{
		session("early", 0, time.Hour),
		session("late", 30*time.Minute, 2*time.Hour),
	}

	item := CapturedItem{CapturedAt: base.Add(45 * time.Minute)}

	got, ok := Resolve(item, candidates)
	require.True(t, ok)
	assert.Equal(t, "early", got.ID)
}

func TestResolveNoCandidates(t *testing.T) {
	_, ok := Resolve(CapturedItem{CapturedAt: base}, nil)
	assert.False(t, ok)
}

func TestResolveMalformedSessionNeverMatchesByTime(t *testing.T) {
	// ends before it starts
	bad := Session{ID: "bad", StartedAt: base.Add(time.Hour), EndedAt: base}

	_, ok := Resolve(CapturedItem{CapturedAt: base.Add(30 * time.Minute)}, []Session{bad})
	assert.False(t, ok)

	// but a direct ref still resolves it
	got, ok := Resolve(CapturedItem{SessionRef: "bad"}, []Session{bad})
	require.True(t, ok)
	assert.Equal(t, "bad", got.ID)
}

func TestResolveDeterministic(t *testing.T) {
	candidates := []Session{
		session("s1", 0, 30*time.Minute),
		session("s2", time.Hour, 90*time.Minute),
	}
	item := CapturedItem{CapturedAt: base.Add(70 * time.Minute)}

	first, ok1 := Resolve(item, candidates)
	second, ok2 := Resolve(item, candidates)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}
