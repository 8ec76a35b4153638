package data

import "strings"

// Buffer is a Sink that records every event into a replayable log instead of
// producing output. It backs polling-mode content providers and the private
// half of a Tee.
//
// A Buffer never blocks and never reports a soft limit: there is nothing
// downstream to exert backpressure.
type Buffer struct {
	events  []Event
	sawText bool
	hasInfo bool
	kind    ContentKind
	dir     Dir
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// WriteString appends text to the log. Consecutive text is coalesced into a
// single record; replay output is byte-identical either way.
func (b *Buffer) WriteString(s string) error {
	if s == "" {
		return nil
	}
	b.sawText = true
	if n := len(b.events); n > 0 && b.events[n-1].Type == EventText {
		b.events[n-1].Text += s
		return nil
	}
	b.events = append(b.events, Event{Type: EventText, Text: s})
	return nil
}

// EnterLog records the start of a loggable element.
func (b *Buffer) EnterLog(stmt LogStatement) error {
	b.events = append(b.events, Event{Type: EventEnterLog, Statement: stmt})
	return nil
}

// ExitLog records the end of the most recent loggable element.
func (b *Buffer) ExitLog() error {
	b.events = append(b.events, Event{Type: EventExitLog})
	return nil
}

// WriteLogCall records a logging function invocation result.
func (b *Buffer) WriteLogCall(call LoggingCall, escapers []func(string) string) error {
	b.events = append(b.events, Event{Type: EventLogCall, Call: call, Escapers: escapers})
	return nil
}

// SetContentInfo records the kind/directionality declaration. The first call
// wins and later calls are ignored, so replaying a log onto a sink that has
// already been notified is harmless. A first call after text has been
// written violates the log invariant and panics.
func (b *Buffer) SetContentInfo(kind ContentKind, dir Dir) error {
	if b.hasInfo {
		return nil
	}
	if b.sawText {
		panic("data: SetContentInfo after text was written")
	}
	b.hasInfo = true
	b.kind = kind
	b.dir = dir
	b.events = append(b.events, Event{Type: EventContentInfo, Kind: kind, Dir: dir})
	return nil
}

// SoftLimitReached always reports false.
func (b *Buffer) SoftLimitReached() bool { return false }

// Flush is a no-op: a buffer has no downstream to push events to.
func (b *Buffer) Flush(depth int) error { return nil }

// ReplayOn re-emits the full log onto another sink, in order.
func (b *Buffer) ReplayOn(s Sink) error {
	for _, e := range b.events {
		if err := e.Emit(s); err != nil {
			return err
		}
	}
	return nil
}

// Events returns the recorded log. The returned slice is owned by the buffer
// and must not be modified.
func (b *Buffer) Events() []Event {
	return b.events
}

// String returns the concatenation of all buffered text, ignoring
// structured events.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, e := range b.events {
		if e.Type == EventText {
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

// Materialize converts the log into an immutable value. Structured logging
// events are deliberately dropped: only text survives. The caller must know
// the log to be complete; materializing a partial log would freeze a
// half-rendered value.
//
// If a content kind was declared the result is SanitizedContent, estimating
// directionality from the text when none was declared. Otherwise it is
// plain StringData.
func (b *Buffer) Materialize() Value {
	text := b.String()
	if !b.hasInfo {
		return StringData(text)
	}
	dir := b.dir
	if dir == DirNeutral {
		dir = EstimateDir(text)
	}
	return SanitizedContent{Content: text, Kind: b.kind, Dir: dir}
}
