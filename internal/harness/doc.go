// Package harness runs YAML scenarios against a real store.
//
// # Scenario Format
//
//	name: sign_in_and_count
//	description: "Signing in does not touch the counter"
//	session: "scenario-session-1"   # optional, fixed session token
//	locale: ja                       # optional, locale of input errors
//	steps:
//	  - input: "5"
//	    expect:
//	      num: 5
//	      error: ""
//	  - dispatch: counter/increment  # num defaults to the current input
//	  - dispatch: users/signIn
//	    args: { userName: taro }
//	    expect:
//	      state: { user: { isLogged: true } }
//	assertions:
//	  - type: final_state
//	    expect: { counter: { count: 5 } }
//	  - type: trace_count
//	    kind: counter/increment
//	    count: 1
//	  - type: trace_order
//	    kinds: [counter/increment, users/signIn]
//	  - type: trace_contains
//	    kind: users/signIn
//	    args: { userName: taro }
//
// Files are decoded strictly (unknown YAML fields are errors) and then
// validated against the embedded CUE schema in schema.cue.
//
// # Execution
//
// Each scenario runs on a fresh store with a DeterministicClock and a fixed
// session, recording into a private in-memory dispatch log. After the steps,
// the log is replayed; a replay divergence fails the scenario.
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON trace with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
