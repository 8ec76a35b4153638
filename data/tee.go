package data

// Tee is a Sink that forwards every event to a real downstream sink while
// simultaneously recording it into a private Buffer, in the manner of the
// unix tee command. It backs pushing-mode content providers: output reaches
// the live stream immediately and the buffer keeps a replayable copy for
// memoization.
//
// The downstream sink is owned by the caller and must outlive the tee. The
// private buffer is owned exclusively by the tee.
type Tee struct {
	downstream Sink
	buffer     *Buffer
}

// NewTee returns a tee over the given downstream sink.
func NewTee(downstream Sink) *Tee {
	return &Tee{downstream: downstream, buffer: NewBuffer()}
}

// Buffer returns the private buffer holding the recorded copy of everything
// forwarded so far.
func (t *Tee) Buffer() *Buffer {
	return t.buffer
}

// WriteString forwards text to the downstream sink and the buffer.
func (t *Tee) WriteString(s string) error {
	if err := t.downstream.WriteString(s); err != nil {
		return err
	}
	return t.buffer.WriteString(s)
}

// EnterLog forwards the marker to the downstream sink and the buffer.
func (t *Tee) EnterLog(stmt LogStatement) error {
	if err := t.downstream.EnterLog(stmt); err != nil {
		return err
	}
	return t.buffer.EnterLog(stmt)
}

// ExitLog forwards the marker to the downstream sink and the buffer.
func (t *Tee) ExitLog() error {
	if err := t.downstream.ExitLog(); err != nil {
		return err
	}
	return t.buffer.ExitLog()
}

// WriteLogCall forwards the invocation to the downstream sink and the buffer.
func (t *Tee) WriteLogCall(call LoggingCall, escapers []func(string) string) error {
	if err := t.downstream.WriteLogCall(call, escapers); err != nil {
		return err
	}
	return t.buffer.WriteLogCall(call, escapers)
}

// SetContentInfo forwards the declaration to the downstream sink and the
// buffer.
func (t *Tee) SetContentInfo(kind ContentKind, dir Dir) error {
	if err := t.downstream.SetContentInfo(kind, dir); err != nil {
		return err
	}
	return t.buffer.SetContentInfo(kind, dir)
}

// SoftLimitReached delegates solely to the downstream sink; the buffer never
// exerts backpressure.
func (t *Tee) SoftLimitReached() bool {
	return t.downstream.SoftLimitReached()
}

// Flush panics. A tee is always the root sink of a suspended computation;
// no enclosing sink may flush through it.
func (t *Tee) Flush(depth int) error {
	panic("data: a tee is a root sink and must never be flushed through")
}
