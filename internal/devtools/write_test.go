package devtools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

func TestRecord_WritesRow(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	e := createTestEntry("session-1", 1, state.Initial(), action.Increment{Num: 5})
	require.NoError(t, l.Record(ctx, e))

	d, err := l.ReadDispatch(ctx, "session-1", 1)
	require.NoError(t, err)
	assert.Equal(t, action.Increment{Num: 5}, d.Action)
	assert.Equal(t, int64(0), d.Prev.Counter.Count)
	assert.Equal(t, int64(5), d.Next.Counter.Count)

	wantID, err := DispatchID("session-1", 1, action.Increment{Num: 5})
	require.NoError(t, err)
	assert.Equal(t, wantID, d.ID)
}

func TestRecord_Idempotent(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	e := createTestEntry("session-1", 1, state.Initial(), action.SignIn{UserName: "taro"})
	require.NoError(t, l.Record(ctx, e))
	require.NoError(t, l.Record(ctx, e))

	dispatches, err := l.ReadSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, dispatches, 1)
}

func TestRecord_ConflictAtSameSeq(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, createTestEntry("session-1", 1, state.Initial(), action.Increment{Num: 1})))

	err := l.Record(ctx, createTestEntry("session-1", 1, state.Initial(), action.Decrement{Num: 1}))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRecord_ConflictOnNormalizationVariant(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	composed := action.SignIn{UserName: "caf\u00e9"}
	decomposed := action.SignIn{UserName: "cafe\u0301"}

	idA, err := DispatchID("session-1", 1, composed)
	require.NoError(t, err)
	idB, err := DispatchID("session-1", 1, decomposed)
	require.NoError(t, err)
	require.Equal(t, idA, idB, "ids hash the normalized form")

	require.NoError(t, l.Record(ctx, createTestEntry("session-1", 1, state.Initial(), composed)))
	require.NoError(t, l.Record(ctx, createTestEntry("session-1", 1, state.Initial(), composed)))

	err = l.Record(ctx, createTestEntry("session-1", 1, state.Initial(), decomposed))
	require.ErrorIs(t, err, ErrConflict)

	d, err := l.ReadDispatch(ctx, "session-1", 1)
	require.NoError(t, err)
	assert.Equal(t, composed, d.Action)
}

func TestRecord_SameSeqDifferentSessions(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	a := action.Increment{Num: 1}
	require.NoError(t, l.Record(ctx, createTestEntry("session-a", 1, state.Initial(), a)))
	require.NoError(t, l.Record(ctx, createTestEntry("session-b", 1, state.Initial(), a)))

	sessions, err := l.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestRecord_ThroughStore(t *testing.T) {
	l := createTestLog(t)

	final := recordSession(t, l, "session-1",
		action.Increment{Num: 5},
		action.SignIn{UserName: "taro"},
		action.Decrement{Num: 2},
	)
	assert.Equal(t, int64(3), final.Counter.Count)

	last, err := l.LastSeq(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
}

func TestDispatchID(t *testing.T) {
	a, err := DispatchID("s", 1, action.Increment{Num: 1})
	require.NoError(t, err)
	b, err := DispatchID("s", 1, action.Increment{Num: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := DispatchID("s", 2, action.Increment{Num: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := DispatchID("s", 1, action.Decrement{Num: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, d)

	_, err = DispatchID("s", 1, nil)
	assert.Error(t, err)
}

func TestDispatchID_NFCStable(t *testing.T) {
	composed, err := DispatchID("s", 1, action.SignIn{UserName: "\u304c"})
	require.NoError(t, err)
	decomposed, err := DispatchID("s", 1, action.SignIn{UserName: "\u304b\u3099"})
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}
