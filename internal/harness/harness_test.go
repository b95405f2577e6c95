package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/testutil"
)

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestRun_DispatchSteps(t *testing.T) {
	scenario := &Scenario{
		Name:        "dispatch_steps",
		Description: "increment then sign in",
		Steps: []Step{
			{Dispatch: action.KindIncrement, Args: map[string]any{"num": 5}},
			{Dispatch: action.KindSignIn, Args: map[string]any{"userName": "taro"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, testutil.DefaultSession, result.Session)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, action.KindIncrement, result.Trace[0].Kind)
	assert.Equal(t, map[string]any{"num": int64(5)}, result.Trace[0].Args)
	assert.Equal(t, int64(2), result.Trace[1].Seq)

	assert.Equal(t, int64(5), result.State.Counter.Count)
	assert.True(t, result.State.User.IsLogged)
	assert.Equal(t, "taro", result.State.User.UserName)
}

func TestRun_CounterUsesInputValue(t *testing.T) {
	scenario := &Scenario{
		Name:        "input_value",
		Description: "input feeds the counter",
		Steps: []Step{
			{Input: strPtr("7")},
			{Dispatch: action.KindDecrement},
			{Input: strPtr("oops")},
			{Dispatch: action.KindDecrement},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, int64(-14), result.State.Counter.Count)

	input := result.Trace[2]
	assert.Equal(t, EventInput, input.Type)
	assert.Equal(t, int64(7), input.Num)
	assert.Equal(t, "整数値を入力してください", input.Error)
}

func TestRun_DefaultInputIsOne(t *testing.T) {
	scenario := &Scenario{
		Name:        "default_input",
		Description: "no input yet",
		Steps:       []Step{{Dispatch: action.KindIncrement}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.State.Counter.Count)
}

func TestRun_LocaleSelectsErrorLanguage(t *testing.T) {
	scenario := &Scenario{
		Name:        "english",
		Description: "english errors",
		Locale:      "en",
		Steps: []Step{
			{Input: strPtr("abc"), Expect: &Expect{Error: strPtr("please enter an integer value")}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_StepExpectFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "expect_failure",
		Description: "wrong expectations are reported",
		Steps: []Step{
			{
				Dispatch: action.KindIncrement,
				Args:     map[string]any{"num": 2},
				Expect:   &Expect{State: map[string]any{"counter": map[string]any{"count": 3}}},
			},
			{Input: strPtr("4"), Expect: &Expect{Num: int64Ptr(5)}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "counter.count: expected 3, got 2")
	assert.Contains(t, result.Errors[1], "num: expected 5, got 4")
}

func TestRun_AssertionFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertion_failure",
		Description: "failed assertions are reported",
		Steps:       []Step{{Dispatch: action.KindSignOut}},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: action.KindSignOut, Count: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "2 dispatches of users/signOut")
}

func TestRun_Deterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "deterministic",
		Description: "two runs, same trace",
		Session:     "fixed",
		Steps: []Step{
			{Dispatch: action.KindIncrement, Args: map[string]any{"num": 3}},
			{Dispatch: action.KindSignIn, Args: map[string]any{"userName": "taro"}},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_OnlyInputs(t *testing.T) {
	scenario := &Scenario{
		Name:        "only_inputs",
		Description: "no dispatch, nothing to replay",
		Steps:       []Step{{Input: strPtr("9")}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Dispatches())
}
