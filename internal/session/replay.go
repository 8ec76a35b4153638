package session

import (
	"context"
	"fmt"

	"github.com/yinanzhou/closure-templates/data"
)

// ReplaySession re-emits a stored event log onto a sink, in order. The sink
// observes the identical event sequence the original render produced,
// modulo escaper functions already applied at recording time.
func (s *Store) ReplaySession(ctx context.Context, token string, sink data.Sink) error {
	_, events, err := s.ReadSession(ctx, token)
	if err != nil {
		return err
	}
	for i, e := range events {
		if err := e.Emit(sink); err != nil {
			return fmt.Errorf("replay session %s at event %d: %w", token, i, err)
		}
	}
	return nil
}

// VerifySession replays a stored session twice into fresh buffers and
// compares the results. A well-formed session is deterministic: both
// replays must yield identical event sequences and text.
func (s *Store) VerifySession(ctx context.Context, token string) (bool, error) {
	first := data.NewBuffer()
	if err := s.ReplaySession(ctx, token, first); err != nil {
		return false, err
	}
	second := data.NewBuffer()
	if err := s.ReplaySession(ctx, token, second); err != nil {
		return false, err
	}

	a, b := first.Events(), second.Events()
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Text != b[i].Text {
			return false, nil
		}
	}
	return first.String() == second.String(), nil
}

// RecordBuffer persists a completed buffer's log as a new session and
// returns it.
func (s *Store) RecordBuffer(ctx context.Context, gen TokenGenerator, name string, b *data.Buffer) (Session, error) {
	sess := Session{
		Token:     gen.Generate(),
		Name:      name,
		CreatedAt: now(),
	}
	if err := s.WriteSession(ctx, sess, b.Events()); err != nil {
		return Session{}, err
	}
	return sess, nil
}
