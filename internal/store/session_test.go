package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	token := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, token, UUIDv7Generator{}.Generate())
}

func TestFixedGenerator(t *testing.T) {
	g := newFixedGenerator("s-1", "s-2")
	assert.Equal(t, "s-1", g.Generate())
	assert.Equal(t, "s-2", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

// fixedGenerator returns predetermined tokens in order.
// Panics once the tokens are exhausted.
type fixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

func newFixedGenerator(tokens ...string) *fixedGenerator {
	return &fixedGenerator{tokens: tokens}
}

// Generate returns the next token.
func (g *fixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("fixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
