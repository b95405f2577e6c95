package harness

import (
	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// Trace event types.
const (
	EventDispatch = "dispatch"
	EventInput    = "input"
)

// TraceEvent is one executed step.
type TraceEvent struct {
	Type string `json:"type"`

	// Dispatch events.
	Seq   int64           `json:"seq,omitempty"`
	Kind  action.Kind     `json:"kind,omitempty"`
	Args  map[string]any  `json:"args,omitempty"`
	State state.RootState `json:"state"`

	// Input events.
	Text  string `json:"text,omitempty"`
	Num   int64  `json:"num,omitempty"`
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	Session string `json:"session"`

	// Trace holds the executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final store state.
	State state.RootState `json:"state"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddDispatchTrace appends a dispatch event.
func (r *Result) AddDispatchTrace(seq int64, a action.Action, next state.RootState) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:  EventDispatch,
		Seq:   seq,
		Kind:  a.Kind(),
		Args:  action.Args(a),
		State: next,
	})
}

// AddInputTrace appends an input event. State is the unchanged store state.
func (r *Result) AddInputTrace(text string, num int64, errMsg string, current state.RootState) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:  EventInput,
		Text:  text,
		Num:   num,
		Error: errMsg,
		State: current,
	})
}

// Dispatches returns only the dispatch events.
func (r *Result) Dispatches() []TraceEvent {
	out := []TraceEvent{}
	for _, e := range r.Trace {
		if e.Type == EventDispatch {
			out = append(out, e)
		}
	}
	return out
}
