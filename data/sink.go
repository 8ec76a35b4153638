// Package data defines the output side of the rendering runtime: the Sink
// contract that rendered text and structured logging events flow through,
// the replayable event log behind buffered output, and the value types that
// resolved template expressions produce.
package data

// Sink is the destination for rendered output.
//
// Besides plain text, templates produce structured events: loggable element
// markers (EnterLog/ExitLog), the post-escaping result of a logging function
// call (WriteLogCall), and a one-time declaration of the content kind and
// directionality of the whole stream (SetContentInfo).
//
// Implementations are driven by exactly one logical render loop at a time;
// no method may be called concurrently with another on the same instance.
type Sink interface {
	// WriteString appends text to the output.
	WriteString(s string) error

	// EnterLog marks the start of a loggable element. Every EnterLog must
	// eventually be balanced by an ExitLog.
	EnterLog(stmt LogStatement) error

	// ExitLog marks the end of the most recently entered loggable element.
	ExitLog() error

	// WriteLogCall appends the result of a logging function invocation.
	// The escapers are applied to whatever text the invocation ultimately
	// renders as; the placeholder in the call is already escaped.
	WriteLogCall(call LoggingCall, escapers []func(string) string) error

	// SetContentInfo declares the content kind and directionality of the
	// stream. The first call wins; later calls are ignored. A first call
	// arriving after text has been written is an internal-consistency
	// defect and panics.
	SetContentInfo(kind ContentKind, dir Dir) error

	// SoftLimitReached reports whether the sink would prefer the producer
	// to suspend. It is advisory: writes after a true return must still
	// succeed.
	SoftLimitReached() bool

	// Flush asks the sink to push buffered events through to its
	// destination, unwinding depth levels of nesting. Sinks that are the
	// root of a suspended computation must never be flushed through.
	Flush(depth int) error
}

// LogStatement identifies a loggable element.
type LogStatement struct {
	// ID is the stable numeric identifier of the element.
	ID int64

	// Name is the element name as written in the template.
	Name string

	// LogOnly marks elements that produce log records but no output.
	LogOnly bool
}

// LoggingCall is the post-escaping record of a logging function invocation.
// Sinks that do not understand the function render the Placeholder instead.
type LoggingCall struct {
	// Name is the logging function name.
	Name string

	// Args holds the evaluated arguments, stringified.
	Args []string

	// Placeholder is the escaped fallback text.
	Placeholder string
}

// PlaceholderText returns the text a log-unaware sink should emit for the
// call: the placeholder run through each escaper in order.
func (c LoggingCall) PlaceholderText(escapers []func(string) string) string {
	out := c.Placeholder
	for _, esc := range escapers {
		out = esc(out)
	}
	return out
}
