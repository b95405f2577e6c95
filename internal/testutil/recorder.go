package testutil

import (
	"context"
	"sync"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/store"
)

// MemoryRecorder keeps every recorded entry in memory.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []store.Entry
	err     error
}

var _ store.Recorder = (*MemoryRecorder)(nil)

// NewMemoryRecorder creates an empty recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends e, then returns the configured failure, if any.
func (r *MemoryRecorder) Record(_ context.Context, e store.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

// FailWith makes every later Record return err.
func (r *MemoryRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Entries returns a copy of the recorded entries in record order.
func (r *MemoryRecorder) Entries() []store.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Kinds returns the kinds of the recorded actions in record order.
func (r *MemoryRecorder) Kinds() []action.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]action.Kind, len(r.entries))
	for i, e := range r.entries {
		kinds[i] = e.Action.Kind()
	}
	return kinds
}
