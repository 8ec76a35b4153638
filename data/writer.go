package data

import "io"

// WriterSink adapts an io.Writer into a Sink for log-unaware destinations
// such as files and terminals. Text is written through; logging markers are
// dropped and logging calls render their escaped placeholder, the standard
// behavior for destinations that cannot interpret structured events.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink returns a sink writing text to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteString writes the text to the underlying writer.
func (s *WriterSink) WriteString(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

// EnterLog drops the marker.
func (s *WriterSink) EnterLog(stmt LogStatement) error { return nil }

// ExitLog drops the marker.
func (s *WriterSink) ExitLog() error { return nil }

// WriteLogCall writes the escaped placeholder text.
func (s *WriterSink) WriteLogCall(call LoggingCall, escapers []func(string) string) error {
	return s.WriteString(call.PlaceholderText(escapers))
}

// SetContentInfo drops the declaration; a plain writer has no use for it.
func (s *WriterSink) SetContentInfo(kind ContentKind, dir Dir) error { return nil }

// SoftLimitReached always reports false; backpressure for plain writers is
// the operating system's problem.
func (s *WriterSink) SoftLimitReached() bool { return false }

// Flush is a no-op; writes go through immediately.
func (s *WriterSink) Flush(depth int) error { return nil }
