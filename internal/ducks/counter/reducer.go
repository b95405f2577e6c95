// Package counter is the counter slice: an integer that increment and
// decrement commands move by an arbitrary step.
package counter

import "github.com/roach88/ducks/internal/action"

// State is the counter slice. Count may be negative.
type State struct {
	Count int64 `json:"count"`
}

// Initial returns the state used when no previous state exists.
func Initial() State {
	return State{Count: 0}
}

// Reduce computes the next counter state.
//
// A nil state is replaced by Initial before the action is applied. Actions
// owned by other slices return the state unchanged. Count wraps on int64
// overflow.
func Reduce(state *State, a action.Action) State {
	current := Initial()
	if state != nil {
		current = *state
	}

	switch a := a.(type) {
	case action.Increment:
		return State{Count: current.Count + a.Num}
	case action.Decrement:
		return State{Count: current.Count - a.Num}
	case action.SignIn, action.SignOut, action.Unknown:
		return current
	default:
		return current
	}
}
