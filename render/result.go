// Package render implements the detachable-provider protocol: lazy values
// whose production can suspend partway through and resume later without
// redoing completed work or corrupting already-emitted output.
//
// Generated rendering code obtains a provider and repeatedly calls either
// Status (polling) or RenderAndResolve (pushing) until the Result reports
// done, then reads the resolved value. There are no native coroutines
// underneath: suspension is modeled as a resumable step function invoked
// repeatedly by a caller-controlled loop.
package render

import "context"

// ResultType discriminates the states of a Result.
type ResultType int

const (
	// ResultDone means the computation finished.
	ResultDone ResultType = iota + 1
	// ResultDetach means the computation is waiting on an async input and
	// carries the signal that becomes ready when it arrives.
	ResultDetach
	// ResultLimited means the downstream sink reported its soft output
	// limit; resume once the caller has drained output.
	ResultLimited
)

// Result is the two-state outcome of one resumable step: done, or not-done
// carrying an opaque wait condition. Results are immutable.
type Result struct {
	typ    ResultType
	signal Signal
}

var done = Result{typ: ResultDone}

// Done returns the singleton terminal result.
func Done() Result { return done }

// Detach returns a not-done result waiting on the given signal.
func Detach(s Signal) Result { return Result{typ: ResultDetach, signal: s} }

// Limited returns a not-done result caused by downstream backpressure.
func Limited() Result { return Result{typ: ResultLimited} }

// Type returns the result's discriminant.
func (r Result) Type() ResultType { return r.typ }

// Done reports whether the computation finished.
func (r Result) Done() bool { return r.typ == ResultDone }

// Signal returns the wait condition of a detached result, nil otherwise.
// The condition is opaque to this protocol beyond its readiness.
func (r Result) Signal() Signal { return r.signal }

// String returns the lowercase name used in transcripts.
func (r Result) String() string {
	switch r.typ {
	case ResultDone:
		return "done"
	case ResultDetach:
		return "detach"
	case ResultLimited:
		return "limited"
	default:
		return "unknown"
	}
}

// Signal is an opaque wait condition carried by a detached result. Ready
// returns a channel that is closed once the awaited input is available.
type Signal interface {
	Ready() <-chan struct{}
}

var closedReady = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

type readySignal struct{}

func (readySignal) Ready() <-chan struct{} { return closedReady }

// ReadySignal returns a signal that is already ready. Detaching on it yields
// control to the driver loop exactly once and resumes immediately.
func ReadySignal() Signal { return readySignal{} }

// Trigger is a Signal fired exactly once by the producer of an async input.
// The zero value is not usable; construct with NewTrigger.
type Trigger struct {
	ch chan struct{}
}

// NewTrigger returns an unfired trigger.
func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{})}
}

// Ready returns the channel closed by Fire.
func (t *Trigger) Ready() <-chan struct{} { return t.ch }

// Fire marks the input available. Firing twice panics; an input becomes
// available once.
func (t *Trigger) Fire() {
	close(t.ch)
}

// Fired reports whether Fire has been called.
func (t *Trigger) Fired() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

// Await drives a provider's polling loop to completion, blocking the calling
// goroutine. This is the protocol's sole blocking point, used only when a
// caller needs an immediate resolved value.
//
// Detached results block on their signal; limited results re-poll after
// yielding the processor, since a polling-mode buffer never exerts
// backpressure and a pushing-mode caller is responsible for draining its own
// sink.
func Await(ctx context.Context, p ValueProvider) error {
	for {
		res, err := p.Status()
		if err != nil {
			return err
		}
		switch res.Type() {
		case ResultDone:
			return nil
		case ResultDetach:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-res.Signal().Ready():
			}
		case ResultLimited:
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
}
