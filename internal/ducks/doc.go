// Package ducks groups the state slices of the application. Each sub-package
// owns one slice: its state type, the factories for the actions it handles
// and the reducer that applies them.
//
//   - counter: a signed integer moved by increment/decrement commands
//   - users:   a mock sign-in session
//
// A reducer reads and writes only its own slice. Actions owned by another
// slice fall through unchanged.
package ducks
