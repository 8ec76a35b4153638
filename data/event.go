package data

// EventType distinguishes the kinds of records in a buffered event log.
type EventType int

const (
	// EventText is a run of plain output text.
	EventText EventType = iota + 1
	// EventEnterLog marks the start of a loggable element.
	EventEnterLog
	// EventExitLog marks the end of the most recent loggable element.
	EventExitLog
	// EventLogCall records a logging function invocation result.
	EventLogCall
	// EventContentInfo records the one-time kind/directionality declaration.
	EventContentInfo
)

// String returns the lowercase name used for persistence and transcripts.
func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventEnterLog:
		return "enter_log"
	case EventExitLog:
		return "exit_log"
	case EventLogCall:
		return "log_call"
	case EventContentInfo:
		return "content_info"
	default:
		return "unknown"
	}
}

// Event is one record of a buffered event log. Exactly the fields relevant
// to its Type are populated.
//
// Invariants of a well-formed log:
//   - at most one EventContentInfo, and it precedes every EventText
//   - EnterLog/ExitLog events are balanced
//
// Replaying a log onto any sink reproduces the identical event sequence.
type Event struct {
	Type EventType

	// Text is the payload of an EventText record.
	Text string

	// Statement is the payload of an EventEnterLog record.
	Statement LogStatement

	// Call and Escapers are the payload of an EventLogCall record.
	Call     LoggingCall
	Escapers []func(string) string

	// Kind and Dir are the payload of an EventContentInfo record.
	Kind ContentKind
	Dir  Dir
}

// Emit applies the event to a sink, dispatching on its type.
func (e Event) Emit(s Sink) error {
	switch e.Type {
	case EventText:
		return s.WriteString(e.Text)
	case EventEnterLog:
		return s.EnterLog(e.Statement)
	case EventExitLog:
		return s.ExitLog()
	case EventLogCall:
		return s.WriteLogCall(e.Call, e.Escapers)
	case EventContentInfo:
		return s.SetContentInfo(e.Kind, e.Dir)
	default:
		panic("data: emit of malformed event")
	}
}
