package session

import (
	"context"
	"fmt"

	"github.com/yinanzhou/closure-templates/data"
)

// WriteSession inserts a session and its full event log in one transaction.
// Uses ON CONFLICT DO NOTHING for idempotency: writing the same session
// twice is a no-op, and a crash between inserts persists nothing.
//
// The event log must be complete; a partially rendered log stored here
// would replay as a truncated session.
func (s *Store) WriteSession(ctx context.Context, sess Session, events []data.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (token, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, sess.Token, sess.Name, sess.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	for i, e := range events {
		row, err := rowFromEvent(i, e)
		if err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events
			(session_token, seq, type, text, log_id, log_name, log_only,
			 call_name, call_args, placeholder, kind, dir)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(session_token, seq) DO NOTHING
		`,
			sess.Token,
			row.seq,
			row.typ,
			row.text,
			row.logID,
			row.logName,
			row.logOnly,
			row.callName,
			row.callArgs,
			row.placeholder,
			row.kind,
			row.dir,
		)
		if err != nil {
			return fmt.Errorf("write session event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
