package store

import "github.com/google/uuid"

// SessionGenerator produces the token that identifies one store lifetime in
// recorded dispatch logs.
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable session tokens.
type UUIDv7Generator struct{}

// Generate returns a hyphenated UUIDv7. Panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
