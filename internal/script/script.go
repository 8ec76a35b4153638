// Package script loads render scripts: CUE documents describing a resumable
// rendering as an ordered list of steps with explicit suspension points.
// Scripts are the reference resumable computation used by the harness, the
// CLI, and recorded sessions; they stand in for the code a template compiler
// would generate.
package script

import (
	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/render"
)

// Op identifies a script step kind.
type Op int

const (
	// OpText emits a run of text.
	OpText Op = iota + 1
	// OpDetach suspends the rendering once, resuming at the next step.
	OpDetach
	// OpEnterLog opens a loggable element.
	OpEnterLog
	// OpExitLog closes the most recent loggable element.
	OpExitLog
	// OpLogCall emits a logging function invocation result.
	OpLogCall
	// OpValue renders a scalar value inline.
	OpValue
)

// Step is one instruction of a render script.
type Step struct {
	Op        Op
	Text      string
	Statement data.LogStatement
	Call      data.LoggingCall
	Value     data.Value
}

// Script is a compiled render script. A script either renders a content
// block (Steps) or computes a single scalar (Value), never both.
type Script struct {
	Name string

	// HasKind marks scripts that declare their content kind up front.
	HasKind bool
	Kind    data.ContentKind
	Dir     data.Dir

	Steps []Step

	// Value is the result of a scalar script (nil Steps).
	Value data.Value

	// Detaches counts the suspension points, for reporting.
	Detaches int
}

// Scalar reports whether the script computes a single value rather than a
// content block.
func (s *Script) Scalar() bool {
	return s.Steps == nil
}

// Run is one resumable execution of a content script. It keeps a cursor
// into the step list so a resumption continues exactly where the previous
// invocation suspended, against the same sink, without repeating output.
type Run struct {
	script   *Script
	next     int
	sentInfo bool
}

// NewRun returns a fresh execution positioned at the first step.
func (s *Script) NewRun() *Run {
	return &Run{script: s}
}

// Step performs one bounded unit of work against the sink: it emits steps
// until the next suspension point, the sink's soft limit, or the end of the
// script. Suspension points carry an already-ready signal; standalone runs
// resume immediately while drivers still observe the not-done result.
func (r *Run) Step(sink data.Sink) (render.Result, error) {
	if !r.sentInfo {
		if r.script.HasKind {
			if err := sink.SetContentInfo(r.script.Kind, r.script.Dir); err != nil {
				return render.Result{}, err
			}
		}
		r.sentInfo = true
	}
	progressed := false
	for r.next < len(r.script.Steps) {
		if progressed && sink.SoftLimitReached() {
			return render.Limited(), nil
		}
		step := r.script.Steps[r.next]
		r.next++
		var err error
		switch step.Op {
		case OpText:
			err = sink.WriteString(step.Text)
		case OpDetach:
			return render.Detach(render.ReadySignal()), nil
		case OpEnterLog:
			err = sink.EnterLog(step.Statement)
		case OpExitLog:
			err = sink.ExitLog()
		case OpLogCall:
			err = sink.WriteLogCall(step.Call, nil)
		case OpValue:
			err = step.Value.RenderTo(sink)
		}
		if err != nil {
			// Rewind so the caller may retry the failed step.
			r.next--
			return render.Result{}, err
		}
		progressed = true
	}
	return render.Done(), nil
}

// Provider returns a value provider for the script: a content provider over
// a fresh run, or a scalar provider for scalar scripts.
func (s *Script) Provider() render.ValueProvider {
	if s.Scalar() {
		v := s.Value
		return render.NewScalarProvider(func() (render.Result, data.Value, error) {
			return render.Done(), v, nil
		})
	}
	return render.NewContentProvider(s.NewRun().Step)
}
