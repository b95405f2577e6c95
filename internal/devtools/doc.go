// Package devtools records every dispatch of a store into an append-only
// SQLite log and replays it.
//
// The log is developer tooling. It is never read back into a live store; the
// default database is in-memory.
//
// # Schema
//
// One table, dispatches, holds one row per applied action:
//
//	id          content-addressed hash of (session, seq, action)
//	session     store lifetime token
//	seq         logical clock value of the dispatch, from 1
//	kind        action kind tag
//	payload     action envelope JSON
//	prev_state  RootState JSON before the action
//	next_state  RootState JSON after the action
//
// UNIQUE(session, seq) rejects two different actions at one position.
// Writing the same row twice is a no-op (ON CONFLICT(id) DO NOTHING).
//
// All reads order by seq ASC so that replays see the dispatch order.
//
// # Database Configuration
//
//   - WAL mode, synchronous=NORMAL, busy_timeout=5000
//   - a single connection (SQLite allows one writer; also keeps :memory: alive)
package devtools
