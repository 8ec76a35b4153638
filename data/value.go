package data

import "strconv"

// Value is a resolved template value. Values are immutable and freely
// shareable once produced.
type Value interface {
	// RenderTo writes the value's text representation to a sink.
	RenderTo(s Sink) error

	// String returns the text representation.
	String() string
}

// NullData is the absent value. It renders as the literal text "null"; a
// missing value is a data condition, not an error.
type NullData struct{}

// RenderTo writes the literal text "null".
func (NullData) RenderTo(s Sink) error { return s.WriteString("null") }

func (NullData) String() string { return "null" }

// StringData is plain, unsanitized text.
type StringData string

// RenderTo writes the text as-is.
func (v StringData) RenderTo(s Sink) error { return s.WriteString(string(v)) }

func (v StringData) String() string { return string(v) }

// IntData is an integer value.
type IntData int64

// RenderTo writes the decimal representation.
func (v IntData) RenderTo(s Sink) error { return s.WriteString(v.String()) }

func (v IntData) String() string { return strconv.FormatInt(int64(v), 10) }

// FloatData is a floating point value.
type FloatData float64

// RenderTo writes the shortest representation that round-trips.
func (v FloatData) RenderTo(s Sink) error { return s.WriteString(v.String()) }

func (v FloatData) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// BoolData is a boolean value.
type BoolData bool

// RenderTo writes "true" or "false".
func (v BoolData) RenderTo(s Sink) error { return s.WriteString(v.String()) }

func (v BoolData) String() string { return strconv.FormatBool(bool(v)) }

// SanitizedContent is text already safe for a particular sanitization
// context, together with its directionality.
type SanitizedContent struct {
	Content string
	Kind    ContentKind
	Dir     Dir
}

// RenderTo writes the content text. The kind and directionality describe the
// value itself; they are not re-declared on the target sink, whose stream
// has its own content info.
func (v SanitizedContent) RenderTo(s Sink) error { return s.WriteString(v.Content) }

func (v SanitizedContent) String() string { return v.Content }
