package devtools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// Dispatch is one row of the log.
type Dispatch struct {
	ID      string
	Session string
	Seq     int64
	Action  action.Action
	Prev    state.RootState
	Next    state.RootState
}

// SessionSummary describes one recorded session.
type SessionSummary struct {
	Session  string
	Count    int
	FirstSeq int64
	LastSeq  int64
}

const selectDispatch = `
	SELECT id, session, seq, payload, prev_state, next_state
	FROM dispatches
`

// ReadSession returns every dispatch of a session in seq order.
// An unknown session yields an empty slice.
func (l *Log) ReadSession(ctx context.Context, session string) ([]Dispatch, error) {
	rows, err := l.db.QueryContext(ctx, selectDispatch+`
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", session, err)
	}
	defer rows.Close()

	dispatches := []Dispatch{}
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("read session %s: %w", session, err)
		}
		dispatches = append(dispatches, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session %s: %w", session, err)
	}
	return dispatches, nil
}

// ReadDispatch returns the dispatch recorded at (session, seq).
func (l *Log) ReadDispatch(ctx context.Context, session string, seq int64) (Dispatch, error) {
	row := l.db.QueryRowContext(ctx, selectDispatch+`
		WHERE session = ? AND seq = ?
	`, session, seq)
	d, err := scanDispatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dispatch{}, fmt.Errorf("session %s seq %d: %w", session, seq, ErrNotFound)
	}
	if err != nil {
		return Dispatch{}, fmt.Errorf("read session %s seq %d: %w", session, seq, err)
	}
	return d, nil
}

// ListSessions returns every recorded session ordered by token.
func (l *Log) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MIN(seq), MAX(seq)
		FROM dispatches
		GROUP BY session
		ORDER BY session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.Session, &s.Count, &s.FirstSeq, &s.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest seq recorded for a session, or 0 if none.
func (l *Log) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := l.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM dispatches WHERE session = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq %s: %w", session, err)
	}
	return seq.Int64, nil
}

// CountByKind returns the number of recorded dispatches per action kind
// within a session.
func (l *Log) CountByKind(ctx context.Context, session string) (map[action.Kind]int, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM dispatches
		WHERE session = ?
		GROUP BY kind
	`, session)
	if err != nil {
		return nil, fmt.Errorf("count kinds %s: %w", session, err)
	}
	defer rows.Close()

	counts := map[action.Kind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[action.Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDispatch(sc scanner) (Dispatch, error) {
	var (
		d                  Dispatch
		payload, prev, nxt string
	)
	if err := sc.Scan(&d.ID, &d.Session, &d.Seq, &payload, &prev, &nxt); err != nil {
		return Dispatch{}, err
	}

	var err error
	if d.Action, err = unmarshalAction(payload); err != nil {
		return Dispatch{}, fmt.Errorf("seq %d: %w", d.Seq, err)
	}
	if d.Prev, err = unmarshalState(prev); err != nil {
		return Dispatch{}, fmt.Errorf("seq %d prev: %w", d.Seq, err)
	}
	if d.Next, err = unmarshalState(nxt); err != nil {
		return Dispatch{}, fmt.Errorf("seq %d next: %w", d.Seq, err)
	}
	return d, nil
}
