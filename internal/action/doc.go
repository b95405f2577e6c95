// Package action defines the closed vocabulary of commands that drive the
// application state.
//
// Every command is a value of the sealed Action interface. Only the variants
// declared here implement it:
//
//   - Increment{Num}   kind "counter/increment"
//   - Decrement{Num}   kind "counter/decrement"
//   - SignIn{UserName} kind "users/signIn"
//   - SignOut{}        kind "users/signOut"
//   - Unknown{Type}    any other kind tag
//
// Reducers switch exhaustively over these variants and return their slice
// unchanged for any variant they do not own, so every action can be broadcast
// to every slice.
//
// This package imports nothing internal. The ducks packages build actions,
// the state and store packages route them.
package action
