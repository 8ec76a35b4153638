package render

import (
	"context"

	"github.com/yinanzhou/closure-templates/data"
)

// ForwardStep is a resumable computation whose true value is itself another
// provider. It returns either a not-done result (the provider is ignored)
// or a done result together with the inner provider, which must then be
// non-nil. The step must be safe to re-invoke after returning not-done.
type ForwardStep func() (Result, ValueProvider, error)

// ForwardingProvider is a lazily computed provider-of-a-provider. Once the
// computation yields the inner provider the state flips permanently to
// forwarding: every operation delegates, recursively, to the inner
// provider's own state machine and this wrapper keeps no state of its own.
type ForwardingProvider struct {
	step  ForwardStep
	inner ValueProvider
}

// NewForwardingProvider returns a pending provider around the given step.
func NewForwardingProvider(step ForwardStep) *ForwardingProvider {
	return &ForwardingProvider{step: step}
}

// advance runs the computation if still pending. It returns the inner
// provider once known, or the not-done result of the computation.
func (p *ForwardingProvider) advance() (ValueProvider, Result, error) {
	if p.inner != nil {
		return p.inner, Result{}, nil
	}
	res, inner, err := p.step()
	if err != nil {
		return nil, Result{}, err
	}
	if !res.Done() {
		return nil, res, nil
	}
	if inner == nil {
		panic("render: forward step reported done without an inner provider")
	}
	p.inner = inner
	p.step = nil
	return inner, Result{}, nil
}

// Status delegates to the inner provider once forwarding; before that it
// runs the computation, short-circuiting on suspension.
func (p *ForwardingProvider) Status() (Result, error) {
	inner, res, err := p.advance()
	if err != nil || inner == nil {
		return res, err
	}
	return inner.Status()
}

// RenderAndResolve delegates to the inner provider once forwarding; before
// that it runs the computation, short-circuiting on suspension.
func (p *ForwardingProvider) RenderAndResolve(s data.Sink) (Result, error) {
	inner, res, err := p.advance()
	if err != nil || inner == nil {
		return res, err
	}
	return inner.RenderAndResolve(s)
}

// Resolve blocks until the computation yields the inner provider and the
// inner provider in turn resolves.
func (p *ForwardingProvider) Resolve(ctx context.Context) (data.Value, error) {
	if err := Await(ctx, p); err != nil {
		return nil, err
	}
	return p.inner.Resolve(ctx)
}
