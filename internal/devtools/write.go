package devtools

import (
	"context"
	"fmt"

	"github.com/roach88/ducks/internal/store"
)

// Record writes one applied dispatch. It implements store.Recorder.
//
// Writing the same entry twice is a no-op. A different action at an
// already recorded (session, seq) fails with ErrConflict, including one
// that differs from the stored action only in Unicode normalization.
func (l *Log) Record(ctx context.Context, e store.Entry) error {
	id, err := DispatchID(e.Session, e.Seq, e.Action)
	if err != nil {
		return err
	}
	payload, err := marshalAction(e.Action)
	if err != nil {
		return err
	}
	prev, err := marshalState(e.Prev)
	if err != nil {
		return err
	}
	next, err := marshalState(e.Next)
	if err != nil {
		return err
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO dispatches (id, session, seq, kind, payload, prev_state, next_state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, e.Session, e.Seq, string(e.Action.Kind()), payload, prev, next)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s seq %d: %w", e.Session, e.Seq, ErrConflict)
		}
		return fmt.Errorf("record %s seq %d: %w", e.Session, e.Seq, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record %s seq %d: %w", e.Session, e.Seq, err)
	}
	if n == 0 {
		return l.checkStoredPayload(ctx, id, e, payload)
	}
	return nil
}

// checkStoredPayload runs after an id collision. The id hashes the
// NFC-normalized action, so two user names that differ only in Unicode
// form share an id; the stored payload keeps the raw bytes and tells
// them apart.
func (l *Log) checkStoredPayload(ctx context.Context, id string, e store.Entry, payload string) error {
	var stored string
	err := l.db.QueryRowContext(ctx, `SELECT payload FROM dispatches WHERE id = ?`, id).Scan(&stored)
	if err != nil {
		return fmt.Errorf("record %s seq %d: read existing: %w", e.Session, e.Seq, err)
	}
	if stored != payload {
		return fmt.Errorf("record %s seq %d: %w", e.Session, e.Seq, ErrConflict)
	}
	return nil
}

var _ store.Recorder = (*Log)(nil)
