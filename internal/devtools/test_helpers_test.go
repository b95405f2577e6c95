package devtools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
	"github.com/roach88/ducks/internal/store"
)

// createTestLog opens a file-backed log under t.TempDir().
func createTestLog(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// recordSession runs actions through a real store recording into l and
// returns the final state.
func recordSession(t *testing.T, l *Log, session string, actions ...action.Action) state.RootState {
	t.Helper()
	s := store.New(
		store.WithSession(session),
		store.WithRecorder(l),
	)
	final, err := s.DispatchAll(context.Background(), actions...)
	if err != nil {
		t.Fatalf("DispatchAll() failed: %v", err)
	}
	return final
}

// createTestEntry builds an entry whose Next is computed by state.Reduce.
func createTestEntry(session string, seq int64, prev state.RootState, a action.Action) store.Entry {
	return store.Entry{
		Session: session,
		Seq:     seq,
		Action:  a,
		Prev:    prev,
		Next:    state.Reduce(&prev, a),
	}
}
