package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ducks/internal/action"
)

// GoldenDir is where golden traces live, relative to the test package.
const GoldenDir = "testdata/golden"

// Snapshot renders a result as canonical JSON for golden comparison.
// Sorted keys and NFC strings make the bytes stable across runs.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		m := map[string]any{"type": event.Type}
		switch event.Type {
		case EventDispatch:
			m["seq"] = event.Seq
			m["kind"] = string(event.Kind)
			if len(event.Args) > 0 {
				m["args"] = event.Args
			}
			m["state"] = stateMap(event.State)
		case EventInput:
			m["text"] = event.Text
			m["num"] = event.Num
			if event.Error != "" {
				m["error"] = event.Error
			}
		}
		trace[i] = m
	}

	return action.CanonicalJSON(map[string]any{
		"scenario_name": scenarioName,
		"session":       result.Session,
		"trace":         trace,
		"final_state":   stateMap(result.State),
	})
}

// RunWithGolden runs a scenario and compares its snapshot with
// testdata/golden/<name>.golden. Regenerate with -update.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
