package users

import "github.com/roach88/ducks/internal/action"

// SignIn builds a command that starts a session for userName.
// The name is not validated.
func SignIn(userName string) action.Action {
	return action.SignIn{UserName: userName}
}

// SignOut builds a command that ends the current session.
func SignOut() action.Action {
	return action.SignOut{}
}

// Toggle returns SignOut when s is signed in and SignIn(userName) otherwise.
// This is the header button of the demo form.
func Toggle(s State, userName string) action.Action {
	if s.IsLogged {
		return SignOut()
	}
	return SignIn(userName)
}
