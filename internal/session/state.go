// Package session holds the client's authentication state: the explicit
// State value that flows through bootstrap and every sign-in operation, and
// the Store that persists it between runs.
package session

import "github.com/sakif/career-compass/internal/model"

// State is the in-memory view of who is signed in.
//
// Invariant: IsAuthenticated == (User != nil). Build values with Anonymous
// or Authenticated rather than by hand.
type State struct {
	User            *model.User
	AuthMethod      model.AuthMethod
	IsAuthenticated bool
}

// Anonymous is the signed-out state.
func Anonymous() State {
	return State{}
}

// Authenticated returns the signed-in state for user. A nil user yields
// Anonymous.
func Authenticated(user *model.User, method model.AuthMethod) State {
	if user == nil {
		return Anonymous()
	}
	return State{
		User:            user,
		AuthMethod:      method,
		IsAuthenticated: true,
	}
}

// Consistent reports whether the invariant holds.
func (s State) Consistent() bool {
	return s.IsAuthenticated == (s.User != nil)
}
