package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// AssertionError is a failed assertion with the trace for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == EventDispatch {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Kind, formatArgs(event.Args))
			}
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalState:
			err = assertFinalState(result, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func assertFinalState(result *Result, a Assertion) error {
	if diff := matchState(a.Expect, result.State); diff != "" {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("state matching %v", a.Expect),
			Actual:   diff,
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertTraceCount checks that Kind was dispatched exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventDispatch && event.Kind == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d dispatches of %s", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d dispatches", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that Kinds occur as a subsequence of the
// dispatches. Other dispatches may come in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(a.Kinds) {
			break
		}
		if event.Type == EventDispatch && event.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("dispatches in order: %v", a.Kinds),
			Actual:   fmt.Sprintf("no %s after %v in %v", a.Kinds[next], a.Kinds[:next], kindsOf(trace)),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceContains checks that Kind was dispatched with Args as a
// payload subset.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Type != EventDispatch || event.Kind != a.Kind {
			continue
		}
		if matchSubset(a.Args, event.Args) == "" {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s with args %v", a.Kind, formatArgs(a.Args)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// matchState compares an expected subset with the JSON shape of s.
// It returns "" on match, otherwise a description of the first mismatch.
func matchState(expected map[string]any, s state.RootState) string {
	return matchSubset(expected, stateMap(s))
}

// stateMap renders a RootState with its JSON field names.
func stateMap(s state.RootState) map[string]any {
	return map[string]any{
		state.SliceCounter: map[string]any{
			"count": s.Counter.Count,
		},
		state.SliceUser: map[string]any{
			"isLogged": s.User.IsLogged,
			"userName": s.User.UserName,
		},
	}
}

// matchSubset checks that every field of expected is present in actual with
// an equal value. Nested maps are compared recursively.
func matchSubset(expected, actual map[string]any) string {
	return matchSubsetAt("", expected, actual)
}

func matchSubsetAt(prefix string, expected, actual map[string]any) string {
	for _, key := range sortedKeys(expected) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		want := expected[key]
		got, ok := actual[key]
		if !ok {
			return fmt.Sprintf("%s: missing", path)
		}
		if wantMap, ok := want.(map[string]any); ok {
			gotMap, ok := got.(map[string]any)
			if !ok {
				return fmt.Sprintf("%s: expected object, got %v", path, got)
			}
			if diff := matchSubsetAt(path, wantMap, gotMap); diff != "" {
				return diff
			}
			continue
		}
		if !valuesEqual(want, got) {
			return fmt.Sprintf("%s: expected %v, got %v", path, want, got)
		}
	}
	return ""
}

// valuesEqual compares YAML-decoded values with state values. Integers of
// any width compare by value.
func valuesEqual(want, got any) bool {
	if wi, ok := toInt64(want); ok {
		gi, ok := toInt64(got)
		return ok && wi == gi
	}
	return want == got
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(args))
	for _, k := range sortedKeys(args) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// kindsOf lists the dispatched kinds of a trace in order.
func kindsOf(trace []TraceEvent) []action.Kind {
	kinds := []action.Kind{}
	for _, e := range trace {
		if e.Type == EventDispatch {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}
