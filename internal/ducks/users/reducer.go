// Package users is the mock session slice.
package users

import "github.com/roach88/ducks/internal/action"

// State is the session slice.
// IsLogged == false implies UserName == "".
type State struct {
	IsLogged bool   `json:"isLogged"`
	UserName string `json:"userName"`
}

// Initial returns the signed-out state.
func Initial() State {
	return State{IsLogged: false, UserName: ""}
}

// Valid reports whether s satisfies the slice invariant.
func (s State) Valid() bool {
	return s.IsLogged || s.UserName == ""
}

// Reduce computes the next session state.
//
// SignIn overwrites any current session without checking it. A nil state is
// replaced by Initial. Actions owned by other slices return the state
// unchanged.
func Reduce(state *State, a action.Action) State {
	current := Initial()
	if state != nil {
		current = *state
	}

	switch a := a.(type) {
	case action.SignIn:
		return State{IsLogged: true, UserName: a.UserName}
	case action.SignOut:
		return Initial()
	case action.Increment, action.Decrement, action.Unknown:
		return current
	default:
		return current
	}
}
