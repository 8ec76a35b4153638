package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinanzhou/closure-templates/data"
)

// twoPartStep renders "a", suspends once, then renders "b" on resumption.
// It writes each part exactly once regardless of how often it is re-invoked
// after completion of a part, mirroring generated rendering code.
func twoPartStep() ContentStep {
	part := 0
	return func(s data.Sink) (Result, error) {
		if part == 0 {
			if err := s.WriteString("a"); err != nil {
				return Result{}, err
			}
			part = 1
			return Detach(ReadySignal()), nil
		}
		if err := s.WriteString("b"); err != nil {
			return Result{}, err
		}
		return Done(), nil
	}
}

func TestContentProvider_SuspendResumeViaPolling(t *testing.T) {
	p := NewContentProvider(twoPartStep())

	res, err := p.Status()
	require.NoError(t, err)
	assert.Equal(t, ResultDetach, res.Type())

	res, err = p.Status()
	require.NoError(t, err)
	assert.True(t, res.Done())

	v, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ab", v.String(), "resumption must not duplicate or drop completed work")
}

func TestContentProvider_SuspendResumeViaPushing(t *testing.T) {
	p := NewContentProvider(twoPartStep())
	down := data.NewBuffer()

	res, err := p.RenderAndResolve(down)
	require.NoError(t, err)
	assert.Equal(t, ResultDetach, res.Type())
	assert.Equal(t, "a", down.String(), "first part reaches the live sink before suspension")

	res, err = p.RenderAndResolve(down)
	require.NoError(t, err)
	assert.True(t, res.Done())
	assert.Equal(t, "ab", down.String())
}

func TestContentProvider_DoneIsIdempotent(t *testing.T) {
	p := NewContentProvider(twoPartStep())
	require.NoError(t, Await(context.Background(), p))

	for i := 0; i < 3; i++ {
		res, err := p.Status()
		require.NoError(t, err)
		assert.True(t, res.Done())
	}

	first, err := p.Resolve(context.Background())
	require.NoError(t, err)
	second, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "ab", first.String())
}

func TestContentProvider_DoneReplayAfterPolling(t *testing.T) {
	// Replay equivalence: a provider resolved by polling renders the same
	// bytes onto a later sink as one resolved by pushing.
	polled := NewContentProvider(twoPartStep())
	require.NoError(t, Await(context.Background(), polled))

	replayed := data.NewBuffer()
	res, err := polled.RenderAndResolve(replayed)
	require.NoError(t, err)
	assert.True(t, res.Done())

	pushed := NewContentProvider(twoPartStep())
	direct := data.NewBuffer()
	for {
		res, err := pushed.RenderAndResolve(direct)
		require.NoError(t, err)
		if res.Done() {
			break
		}
	}

	assert.Equal(t, direct.String(), replayed.String())
}

func TestContentProvider_DoneReplayIncludesLogEvents(t *testing.T) {
	step := func(s data.Sink) (Result, error) {
		if err := s.EnterLog(data.LogStatement{ID: 9, Name: "el"}); err != nil {
			return Result{}, err
		}
		if err := s.WriteString("x"); err != nil {
			return Result{}, err
		}
		if err := s.ExitLog(); err != nil {
			return Result{}, err
		}
		return Done(), nil
	}
	p := NewContentProvider(step)
	first := data.NewBuffer()
	res, err := p.RenderAndResolve(first)
	require.NoError(t, err)
	require.True(t, res.Done())

	second := data.NewBuffer()
	res, err = p.RenderAndResolve(second)
	require.NoError(t, err)
	require.True(t, res.Done())

	require.Len(t, second.Events(), len(first.Events()))
	for i, e := range first.Events() {
		assert.Equal(t, e.Type, second.Events()[i].Type, "event %d", i)
	}
}

func TestContentProvider_ModeConflictPollingThenPushing(t *testing.T) {
	p := NewContentProvider(twoPartStep())

	res, err := p.Status()
	require.NoError(t, err)
	require.False(t, res.Done())

	down := data.NewBuffer()
	_, err = p.RenderAndResolve(down)
	require.Error(t, err)
	assert.True(t, IsModeConflict(err))
	assert.Empty(t, down.String(), "a mode conflict must not leak partial output")
}

func TestContentProvider_ModeConflictPushingThenPolling(t *testing.T) {
	p := NewContentProvider(twoPartStep())

	res, err := p.RenderAndResolve(data.NewBuffer())
	require.NoError(t, err)
	require.False(t, res.Done())

	_, err = p.Status()
	require.Error(t, err)
	assert.True(t, IsModeConflict(err))
}

func TestContentProvider_ModeFreesUpAfterCompletion(t *testing.T) {
	p := NewContentProvider(twoPartStep())
	require.NoError(t, Await(context.Background(), p))

	// Once done both operations are legal and equivalent.
	down := data.NewBuffer()
	res, err := p.RenderAndResolve(down)
	require.NoError(t, err)
	assert.True(t, res.Done())
	assert.Equal(t, "ab", down.String())
}

type failingSink struct {
	data.Buffer
	fail bool
}

func (s *failingSink) WriteString(text string) error {
	if s.fail {
		return errors.New("stream closed")
	}
	return s.Buffer.WriteString(text)
}

func TestContentProvider_DownstreamErrorLeavesStateRetryable(t *testing.T) {
	p := NewContentProvider(twoPartStep())
	down := &failingSink{fail: true}

	_, err := p.RenderAndResolve(down)
	require.Error(t, err)

	// The caller decides to retry the same resumption step.
	down.fail = false
	res, err := p.RenderAndResolve(down)
	require.NoError(t, err)
	assert.Equal(t, ResultDetach, res.Type())

	res, err = p.RenderAndResolve(down)
	require.NoError(t, err)
	assert.True(t, res.Done())
	assert.Equal(t, "ab", down.String())
}

func TestContentProvider_ResolveMaterializesSanitizedContent(t *testing.T) {
	step := func(s data.Sink) (Result, error) {
		if err := s.SetContentInfo(data.KindHTML, data.DirNeutral); err != nil {
			return Result{}, err
		}
		if err := s.WriteString("<b>hi</b>"); err != nil {
			return Result{}, err
		}
		return Done(), nil
	}
	p := NewContentProvider(step)

	v, err := p.Resolve(context.Background())
	require.NoError(t, err)
	sc, ok := v.(data.SanitizedContent)
	require.True(t, ok)
	assert.Equal(t, data.KindHTML, sc.Kind)
	assert.Equal(t, data.DirLTR, sc.Dir)
	assert.Equal(t, "<b>hi</b>", sc.Content)
}

func TestAwait_BlocksOnUnfiredTrigger(t *testing.T) {
	trigger := NewTrigger()
	calls := 0
	p := NewContentProvider(func(s data.Sink) (Result, error) {
		calls++
		if !trigger.Fired() {
			return Detach(trigger), nil
		}
		if err := s.WriteString("late"); err != nil {
			return Result{}, err
		}
		return Done(), nil
	})

	res, err := p.Status()
	require.NoError(t, err)
	require.Equal(t, ResultDetach, res.Type())

	trigger.Fire()

	v, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", v.String())
	assert.Equal(t, 2, calls)
}

func TestAwait_HonorsContextCancellation(t *testing.T) {
	trigger := NewTrigger() // never fired
	p := NewContentProvider(func(s data.Sink) (Result, error) {
		return Detach(trigger), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Resolve(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
