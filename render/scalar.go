package render

import (
	"context"
	"fmt"

	"github.com/yinanzhou/closure-templates/data"
)

// ScalarStep is a resumable computation for a lazy scalar. It returns
// either a not-done result (the value is ignored) or a done result together
// with the final value. A nil final value means the absent value and is
// stored as data.NullData. The step must be safe to re-invoke after
// returning not-done.
type ScalarStep func() (Result, data.Value, error)

// ScalarProvider is a lazily computed scalar: the runtime representation of
// a let-value or call-param-value binding. Its lifecycle is one-way,
// pending to resolved.
type ScalarProvider struct {
	step     ScalarStep
	resolved bool
	value    data.Value
}

// NewScalarProvider returns a pending provider around the given step.
func NewScalarProvider(step ScalarStep) *ScalarProvider {
	return &ScalarProvider{step: step}
}

// Status invokes the computation once. A not-done result is returned
// unchanged and the provider stays pending; a final value transitions it to
// resolved.
func (p *ScalarProvider) Status() (Result, error) {
	if p.resolved {
		return Done(), nil
	}
	res, val, err := p.step()
	if err != nil {
		return Result{}, err
	}
	if !res.Done() {
		return res, nil
	}
	if val == nil {
		val = data.NullData{}
	}
	p.value = val
	p.resolved = true
	p.step = nil
	return Done(), nil
}

// RenderAndResolve polls once and, if the value resolved, renders it onto
// the sink. The absent value renders as the literal text "null".
func (p *ScalarProvider) RenderAndResolve(s data.Sink) (Result, error) {
	res, err := p.Status()
	if err != nil {
		return Result{}, err
	}
	if res.Done() {
		if err := p.value.RenderTo(s); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// Resolve blocks until the computation produces its value.
func (p *ScalarProvider) Resolve(ctx context.Context) (data.Value, error) {
	if err := Await(ctx, p); err != nil {
		return nil, fmt.Errorf("resolve scalar: %w", err)
	}
	return p.value, nil
}
