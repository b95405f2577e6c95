package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ducks/internal/action"
)

// Scenario is one scripted session: steps to run against a fresh store and
// assertions over the resulting trace and state.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Session is a fixed session token. Empty uses testutil.DefaultSession.
	Session string `yaml:"session,omitempty"`

	// Locale selects the language of input errors. Empty uses the base locale.
	Locale string `yaml:"locale,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is either a dispatch or a text input.
type Step struct {
	// Dispatch is the action kind to dispatch.
	Dispatch action.Kind `yaml:"dispatch,omitempty"`

	// Args is the action payload. A counter action without num uses the
	// current input value, as the view buttons do.
	Args map[string]any `yaml:"args,omitempty"`

	// Input is text typed into the number field. A pointer so that an empty
	// input is distinguishable from no input.
	Input *string `yaml:"input,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// IsInput reports whether the step types text rather than dispatching.
func (s Step) IsInput() bool {
	return s.Input != nil
}

// Expect checks the outcome of one step. All fields are optional.
type Expect struct {
	// State is a subset of the RootState JSON, e.g. {counter: {count: 5}}.
	State map[string]any `yaml:"state,omitempty"`

	// Num is the expected pending number after an input step.
	Num *int64 `yaml:"num,omitempty"`

	// Error is the expected input error message ("" means no error).
	Error *string `yaml:"error,omitempty"`
}

// Assertion validates the trace or final state after all steps.
type Assertion struct {
	// Type is one of final_state, trace_count, trace_order, trace_contains.
	Type string `yaml:"type"`

	// Kind is the action kind (trace_count, trace_contains).
	Kind action.Kind `yaml:"kind,omitempty"`

	// Count is the exact number of dispatches of Kind (trace_count).
	Count int `yaml:"count,omitempty"`

	// Kinds must appear in this relative order (trace_order).
	Kinds []action.Kind `yaml:"kinds,omitempty"`

	// Args is a payload subset (trace_contains).
	Args map[string]any `yaml:"args,omitempty"`

	// Expect is a RootState JSON subset (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState    = "final_state"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
	AssertTraceContains = "trace_contains"
)

// LoadScenario reads, schema-validates and decodes a scenario file.
// Unknown fields are rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to parse YAML: empty document")
	}
	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks what the schema cannot: that args decode into
// an action of the named kind.
func validateScenario(s *Scenario) error {
	for i, step := range s.Steps {
		if step.IsInput() {
			if step.Expect != nil && step.Expect.State != nil {
				return fmt.Errorf("steps[%d]: input steps expect num/error, not state", i)
			}
			continue
		}
		if _, err := action.FromArgs(step.Dispatch, step.Args); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Expect != nil && (step.Expect.Num != nil || step.Expect.Error != nil) {
			return fmt.Errorf("steps[%d]: dispatch steps expect state, not num/error", i)
		}
	}
	return nil
}

func isCounterKind(k action.Kind) bool {
	return k == action.KindIncrement || k == action.KindDecrement
}
