// Package testutil provides deterministic building blocks for store tests.
package testutil

import (
	"testing"

	"github.com/roach88/ducks/internal/store"
)

// NewStore builds a store with a DeterministicClock and a fixed session.
// Later options override the defaults. The store is closed at test cleanup.
func NewStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	defaults := []store.Option{
		store.WithClock(NewDeterministicClock()),
		store.WithSessionGenerator(NewFixedSessionGenerator("")),
	}
	s := store.New(append(defaults, opts...)...)
	t.Cleanup(func() { s.Close() })
	return s
}
