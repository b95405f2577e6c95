package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/devtools"
	"github.com/roach88/ducks/internal/i18n"
	"github.com/roach88/ducks/internal/numinput"
	"github.com/roach88/ducks/internal/store"
	"github.com/roach88/ducks/internal/testutil"
)

// Harness executes one scenario.
type Harness struct {
	store  *store.Store
	log    *devtools.Log
	clock  *testutil.DeterministicClock
	input  *numinput.Field
	logger *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger for step progress (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a scenario on a fresh store and evaluates its assertions.
//
// The returned error is reserved for infrastructure failures; failed
// expectations and assertions are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	log, err := devtools.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory dispatch log: %w", err)
	}
	defer log.Close()

	clock := testutil.NewDeterministicClock()
	st := store.New(
		store.WithClock(clock),
		store.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
		store.WithRecorder(log),
		store.WithLogger(cfg.logger),
	)
	defer st.Close()

	catalog, err := i18n.Load()
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	h := &Harness{
		store:  st,
		log:    log,
		clock:  clock,
		input:  numinput.New(catalog.Printer(scenario.Locale)),
		logger: cfg.logger,
	}

	ctx := context.Background()
	result := NewResult()
	result.Session = st.Session()

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}
	result.State = st.State()

	if err := h.verifyReplay(ctx, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSteps runs the steps in order and checks each expect clause.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		if step.IsInput() {
			h.input.Set(*step.Input)
			result.AddInputTrace(*step.Input, h.input.Num, h.input.Err, h.store.State())
			h.logger.Info("input step completed",
				"step", i,
				"text", *step.Input,
				"num", h.input.Num,
			)
			checkInputExpect(i, step.Expect, h.input, result)
			continue
		}

		a, err := h.buildAction(step)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		next, err := h.store.Dispatch(ctx, a)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		result.AddDispatchTrace(h.clock.Current(), a, next)

		h.logger.Info("dispatch step completed",
			"step", i,
			"kind", string(a.Kind()),
			"seq", h.clock.Current(),
		)

		if step.Expect != nil && step.Expect.State != nil {
			if diff := matchState(step.Expect.State, next); diff != "" {
				result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, a.Kind(), diff))
			}
		}
	}
	return nil
}

// buildAction decodes the step args. Counter steps without num take the
// current input value.
func (h *Harness) buildAction(step Step) (action.Action, error) {
	args := step.Args
	if isCounterKind(step.Dispatch) {
		if _, ok := args["num"]; !ok {
			args = map[string]any{"num": h.input.Num}
			for k, v := range step.Args {
				args[k] = v
			}
		}
	}
	return action.FromArgs(step.Dispatch, args)
}

func checkInputExpect(i int, expect *Expect, field *numinput.Field, result *Result) {
	if expect == nil {
		return
	}
	if expect.Num != nil && *expect.Num != field.Num {
		result.AddError(fmt.Sprintf("steps[%d] input: num: expected %d, got %d", i, *expect.Num, field.Num))
	}
	if expect.Error != nil && *expect.Error != field.Err {
		result.AddError(fmt.Sprintf("steps[%d] input: error: expected %q, got %q", i, *expect.Error, field.Err))
	}
}

// verifyReplay replays the recorded session and fails the result on any
// divergence.
func (h *Harness) verifyReplay(ctx context.Context, result *Result) error {
	if len(result.Dispatches()) == 0 {
		return nil
	}
	replay, err := h.log.Replay(ctx, h.store.Session(), nil)
	if err != nil {
		return fmt.Errorf("replay session: %w", err)
	}
	for _, d := range replay.Divergences {
		result.AddError(fmt.Sprintf("replay diverged at seq %d (%s %s):\n%s", d.Seq, d.Kind, d.Field, d.Diff))
	}
	if replay.Dispatches != len(result.Dispatches()) {
		result.AddError(fmt.Sprintf("dispatch log has %d rows, trace has %d dispatches",
			replay.Dispatches, len(result.Dispatches())))
	}
	return nil
}
