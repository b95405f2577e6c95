// Package store holds the application state and applies actions to it.
//
// A Store is constructed explicitly by the entry point and passed to whoever
// dispatches or reads. There is no package-level instance.
//
// # Dispatch
//
// Dispatch runs the root reducer once, synchronously, and replaces the
// current RootState with the result before it returns. The previous value is
// never modified. Each dispatch is stamped with the next value of a logical
// clock (seq), starting at 1.
//
// After the state is replaced:
//  1. Recorders see the (seq, action, prev, next) entry, in seq order.
//  2. Listeners are called with the newest state, outside the write lock, so
//     a listener may dispatch again. Notifications are drained by one caller
//     at a time: a dispatch made while listeners run is folded into the
//     running drain, and no listener is ever handed a state older than one
//     it has already seen.
//
// Reducers must not dispatch: the write lock is held while they run.
//
// # Concurrency
//
// Writers are serialized by a mutex. Readers load the current snapshot
// through an atomic pointer and never block. The store starts no goroutines.
package store
