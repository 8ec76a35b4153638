package render

import (
	"context"
	"fmt"

	"github.com/yinanzhou/closure-templates/data"
)

// ContentStep is a resumable render step for a lazy content block. It must
// be safe to re-invoke after returning a not-done result and must reuse the
// same sink instance across resumptions without duplicating output already
// written.
type ContentStep func(s data.Sink) (Result, error)

type contentMode int8

const (
	modeUnset contentMode = iota
	modePolling
	modePushing
)

func (m contentMode) String() string {
	switch m {
	case modePolling:
		return "polling"
	case modePushing:
		return "pushing"
	default:
		return "unset"
	}
}

// ContentProvider is a lazily rendered text block: the runtime
// representation of a let-content or call-param-content binding.
//
// The first non-terminal call fixes the resolution mode for the provider's
// lifetime: Status resolves through a private buffer (polling), while
// RenderAndResolve tees output through the caller's sink (pushing). Mixing
// the two before completion is a contract violation reported as a
// *ProtocolError, never a silent miscast or duplicated output.
type ContentProvider struct {
	step ContentStep
	mode contentMode

	// builder is the sink the step renders into while in progress: the
	// private buffer in polling mode, the tee's view in pushing mode.
	buffer *data.Buffer
	tee    *data.Tee

	// log is the finished event log; non-nil exactly when the provider is
	// done. value memoizes its materialization.
	log   *data.Buffer
	value data.Value
}

// NewContentProvider returns an unstarted provider around the given step.
func NewContentProvider(step ContentStep) *ContentProvider {
	return &ContentProvider{step: step}
}

// Status performs one polling-mode unit of work. On the first call it
// creates the private buffer the step renders into; on completion it keeps
// the buffer as the finished log and releases the step.
func (p *ContentProvider) Status() (Result, error) {
	if p.log != nil {
		return Done(), nil
	}
	if p.mode == modePushing {
		return Result{}, newModeConflictError(modePushing.String(), modePolling.String())
	}
	if p.buffer == nil {
		p.mode = modePolling
		p.buffer = data.NewBuffer()
	}
	res, err := p.step(p.buffer)
	if err != nil {
		return Result{}, err
	}
	if res.Done() {
		p.finish(p.buffer)
	}
	return res, nil
}

// RenderAndResolve performs one pushing-mode unit of work against the given
// sink. Once done it replays the finished log, so output is identical
// whether the value was produced by polling or pushing. While in progress
// it renders through a tee over the sink; the same sink instance must be
// supplied on every resumption.
//
// A downstream write failure propagates unchanged and leaves the provider's
// state untouched, so the caller may retry the same resumption step.
func (p *ContentProvider) RenderAndResolve(s data.Sink) (Result, error) {
	if p.log != nil {
		if err := p.log.ReplayOn(s); err != nil {
			return Result{}, err
		}
		return Done(), nil
	}
	if p.mode == modePolling {
		return Result{}, newModeConflictError(modePolling.String(), modePushing.String())
	}
	if p.tee == nil {
		p.mode = modePushing
		p.tee = data.NewTee(s)
	}
	res, err := p.step(p.tee)
	if err != nil {
		return Result{}, err
	}
	if res.Done() {
		p.finish(p.tee.Buffer())
	}
	return res, nil
}

// Resolve drives the provider to completion and materializes the buffered
// log into the final value. Structured logging events are dropped on this
// path; callers that need them must resolve via RenderAndResolve.
func (p *ContentProvider) Resolve(ctx context.Context) (data.Value, error) {
	if err := Await(ctx, p); err != nil {
		return nil, fmt.Errorf("resolve content: %w", err)
	}
	if p.value == nil {
		p.value = p.log.Materialize()
	}
	return p.value, nil
}

func (p *ContentProvider) finish(log *data.Buffer) {
	p.log = log
	p.buffer = nil
	p.tee = nil
	p.step = nil
	p.mode = modeUnset
}
