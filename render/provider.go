package render

import (
	"context"

	"github.com/yinanzhou/closure-templates/data"
)

// ValueProvider is a lazily computed template value. Implementations
// memoize their result exactly once; after any operation reports done,
// every later call returns done / the same value with no further side
// effects.
//
// A provider is driven by exactly one logical render loop at a time.
// Concurrent calls on the same instance are undefined.
type ValueProvider interface {
	// Status performs one bounded unit of work without a live output
	// destination and reports whether the value is resolved.
	Status() (Result, error)

	// RenderAndResolve performs one bounded unit of work against the
	// given sink. Once the provider is done, the resolved value has been
	// rendered onto the sink in full, exactly once across all calls.
	RenderAndResolve(s data.Sink) (Result, error)

	// Resolve blocks until the value is resolved and returns it. This is
	// the protocol's only blocking operation.
	Resolve(ctx context.Context) (data.Value, error)
}

// Resolved returns a provider that is already done, wrapping an existing
// value. Useful for generated code paths where the value is known eagerly.
func Resolved(v data.Value) ValueProvider {
	if v == nil {
		v = data.NullData{}
	}
	return resolvedProvider{v: v}
}

type resolvedProvider struct {
	v data.Value
}

func (p resolvedProvider) Status() (Result, error) { return Done(), nil }

func (p resolvedProvider) RenderAndResolve(s data.Sink) (Result, error) {
	if err := p.v.RenderTo(s); err != nil {
		return Result{}, err
	}
	return Done(), nil
}

func (p resolvedProvider) Resolve(ctx context.Context) (data.Value, error) {
	return p.v, nil
}
