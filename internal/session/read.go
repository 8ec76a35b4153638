package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yinanzhou/closure-templates/data"
)

// ErrNotFound is returned when a session token does not exist.
var ErrNotFound = errors.New("session not found")

// ReadSession returns a session and its event log in sequence order.
func (s *Store) ReadSession(ctx context.Context, token string) (Session, []data.Event, error) {
	var sess Session
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT token, name, created_at FROM sessions WHERE token = ?
	`, token).Scan(&sess.Token, &sess.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, nil, fmt.Errorf("read session %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
	}
	sess.CreatedAt = time.Unix(created, 0).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, type, text, log_id, log_name, log_only,
		       call_name, call_args, placeholder, kind, dir
		FROM events
		WHERE session_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
	}
	defer rows.Close()

	var events []data.Event
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(
			&row.seq, &row.typ, &row.text, &row.logID, &row.logName, &row.logOnly,
			&row.callName, &row.callArgs, &row.placeholder, &row.kind, &row.dir,
		); err != nil {
			return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
		}
		e, err := row.event()
		if err != nil {
			return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return Session{}, nil, fmt.Errorf("read session %s: %w", token, err)
	}

	return sess, events, nil
}
