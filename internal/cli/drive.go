package cli

import (
	"context"

	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/render"
)

// driveProvider renders a provider to completion against a sink, waiting on
// detach signals and re-invoking after soft limits. It returns the sequence
// of non-error statuses observed, one per invocation.
func driveProvider(ctx context.Context, p render.ValueProvider, sink data.Sink) ([]string, error) {
	var statuses []string
	for {
		res, err := p.RenderAndResolve(sink)
		if err != nil {
			return statuses, err
		}
		statuses = append(statuses, res.String())
		switch res.Type() {
		case render.ResultDone:
			return statuses, nil
		case render.ResultDetach:
			select {
			case <-ctx.Done():
				return statuses, ctx.Err()
			case <-res.Signal().Ready():
			}
		case render.ResultLimited:
			// Sink reported a soft limit; invoke again immediately.
		}
	}
}
