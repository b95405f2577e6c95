// Package state composes the slice reducers into one root reducer.
//
// RootState is a plain value. Every dispatch computes a new RootState from
// the previous one and an action; nothing is mutated in place. Each slice is
// computed from its own previous value only, so the order in which slices are
// reduced does not matter.
package state

import (
	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/ducks/counter"
	"github.com/roach88/ducks/internal/ducks/users"
)

// Slice names, as used in the JSON form of RootState.
const (
	SliceCounter = "counter"
	SliceUser    = "user"
)

// RootState maps each slice name to its state.
type RootState struct {
	Counter counter.State `json:"counter"`
	User    users.State   `json:"user"`
}

// CounterReducer reduces the counter slice. A nil state means "no previous state".
type CounterReducer func(state *counter.State, a action.Action) counter.State

// UserReducer reduces the user slice. A nil state means "no previous state".
type UserReducer func(state *users.State, a action.Action) users.State

// RootReducer reduces the whole state. A nil state means "no previous state".
type RootReducer func(state *RootState, a action.Action) RootState

// Reducers names the reducer for each slice.
type Reducers struct {
	Counter CounterReducer
	User    UserReducer
}

// DefaultReducers returns the reducers of the ducks packages.
func DefaultReducers() Reducers {
	return Reducers{
		Counter: counter.Reduce,
		User:    users.Reduce,
	}
}

// Combine builds a root reducer that hands every action to every slice
// reducer and assembles the results into a new RootState.
//
// A nil slice reducer keeps its slice at the previous value (or the zero
// value when there is none).
func Combine(r Reducers) RootReducer {
	return func(prev *RootState, a action.Action) RootState {
		var (
			prevCounter *counter.State
			prevUser    *users.State
		)
		if prev != nil {
			c, u := prev.Counter, prev.User
			prevCounter, prevUser = &c, &u
		}

		var next RootState
		if r.Counter != nil {
			next.Counter = r.Counter(prevCounter, a)
		} else if prevCounter != nil {
			next.Counter = *prevCounter
		}
		if r.User != nil {
			next.User = r.User(prevUser, a)
		} else if prevUser != nil {
			next.User = *prevUser
		}
		return next
	}
}

// Reduce is the root reducer of the application.
var Reduce = Combine(DefaultReducers())

// Initial returns the state a store starts from: the root reducer applied to
// no previous state and the init action.
func Initial() RootState {
	return Reduce(nil, action.Init())
}

// SelectCounter returns the counter slice.
func SelectCounter(s RootState) counter.State {
	return s.Counter
}

// SelectUser returns the user slice.
func SelectUser(s RootState) users.State {
	return s.User
}
