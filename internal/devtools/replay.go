package devtools

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// Divergence is a recorded state that the reducer no longer reproduces.
type Divergence struct {
	Seq  int64
	Kind action.Kind
	// Field is "prev" when the recorded prev_state does not follow the
	// previous row, "next" when the reducer computes a different next_state.
	Field string
	// Diff is a cmp.Diff of recorded vs. computed state.
	Diff string
}

// ReplayResult summarizes a session replay.
type ReplayResult struct {
	Session     string
	Dispatches  int
	LastSeq     int64
	Final       state.RootState
	Divergences []Divergence
}

// Deterministic reports whether the replay reproduced every recorded state.
func (r ReplayResult) Deterministic() bool {
	return len(r.Divergences) == 0
}

// Replay re-runs every recorded action of a session through reduce,
// starting from the first recorded prev_state, and compares each computed
// state with the recorded one. A nil reduce uses state.Reduce.
//
// Replay continues past divergences from the computed state so that all of
// them are reported.
func (l *Log) Replay(ctx context.Context, session string, reduce state.RootReducer) (ReplayResult, error) {
	if reduce == nil {
		reduce = state.Reduce
	}

	dispatches, err := l.ReadSession(ctx, session)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}
	if len(dispatches) == 0 {
		return ReplayResult{}, fmt.Errorf("replay session %s: %w", session, ErrNotFound)
	}

	result := ReplayResult{
		Session:     session,
		Dispatches:  len(dispatches),
		Divergences: []Divergence{},
	}

	current := dispatches[0].Prev
	for _, d := range dispatches {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("replay: %w", err)
		}

		if diff := cmp.Diff(d.Prev, current); diff != "" {
			result.Divergences = append(result.Divergences, Divergence{
				Seq: d.Seq, Kind: d.Action.Kind(), Field: "prev", Diff: diff,
			})
		}

		current = reduce(&current, d.Action)

		if diff := cmp.Diff(d.Next, current); diff != "" {
			result.Divergences = append(result.Divergences, Divergence{
				Seq: d.Seq, Kind: d.Action.Kind(), Field: "next", Diff: diff,
			})
		}
		result.LastSeq = d.Seq
	}

	result.Final = current
	return result, nil
}

// Jump returns the recorded state of a session right after seq.
// Seq 0 returns the state before the first dispatch.
func (l *Log) Jump(ctx context.Context, session string, seq int64) (state.RootState, error) {
	if seq == 0 {
		dispatches, err := l.ReadSession(ctx, session)
		if err != nil {
			return state.RootState{}, fmt.Errorf("jump: %w", err)
		}
		if len(dispatches) == 0 {
			return state.RootState{}, fmt.Errorf("jump session %s: %w", session, ErrNotFound)
		}
		return dispatches[0].Prev, nil
	}

	d, err := l.ReadDispatch(ctx, session, seq)
	if err != nil {
		return state.RootState{}, fmt.Errorf("jump: %w", err)
	}
	return d.Next, nil
}
