package testutil

import "github.com/roach88/ducks/internal/store"

// DefaultSession is the token used when a test does not pick one.
const DefaultSession = "test-session-default"

// FixedSessionGenerator returns the same session token every time.
// It never runs out, so any number of stores may share one.
type FixedSessionGenerator struct {
	token string
}

var _ store.SessionGenerator = (*FixedSessionGenerator)(nil)

// NewFixedSessionGenerator creates a generator for token, or DefaultSession
// when token is empty.
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = DefaultSession
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}
