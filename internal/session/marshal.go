package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yinanzhou/closure-templates/data"
)

// eventRow is the flat storage form of a data.Event. Exactly the columns
// relevant to the event type are populated; the rest keep their defaults.
//
// Escaper functions are not persistable. A stored log-call row keeps only
// the already-escaped placeholder, so a session replayed from storage emits
// the call with no escapers attached. Documented lossy, like materializing.
type eventRow struct {
	seq         int64
	typ         string
	text        string
	logID       int64
	logName     string
	logOnly     bool
	callName    string
	callArgs    string
	placeholder string
	kind        string
	dir         string
}

func rowFromEvent(seq int, e data.Event) (eventRow, error) {
	row := eventRow{seq: int64(seq), typ: e.Type.String()}
	switch e.Type {
	case data.EventText:
		row.text = e.Text
	case data.EventEnterLog:
		row.logID = e.Statement.ID
		row.logName = e.Statement.Name
		row.logOnly = e.Statement.LogOnly
	case data.EventExitLog:
		// no payload
	case data.EventLogCall:
		args, err := marshalArgs(e.Call.Args)
		if err != nil {
			return eventRow{}, err
		}
		row.callName = e.Call.Name
		row.callArgs = args
		row.placeholder = e.Call.PlaceholderText(e.Escapers)
	case data.EventContentInfo:
		row.kind = e.Kind.String()
		row.dir = e.Dir.String()
	default:
		return eventRow{}, fmt.Errorf("marshal event: unknown type %d", e.Type)
	}
	return row, nil
}

func (r eventRow) event() (data.Event, error) {
	switch r.typ {
	case "text":
		return data.Event{Type: data.EventText, Text: r.text}, nil
	case "enter_log":
		return data.Event{Type: data.EventEnterLog, Statement: data.LogStatement{
			ID:      r.logID,
			Name:    r.logName,
			LogOnly: r.logOnly,
		}}, nil
	case "exit_log":
		return data.Event{Type: data.EventExitLog}, nil
	case "log_call":
		args, err := unmarshalArgs(r.callArgs)
		if err != nil {
			return data.Event{}, err
		}
		return data.Event{Type: data.EventLogCall, Call: data.LoggingCall{
			Name:        r.callName,
			Args:        args,
			Placeholder: r.placeholder,
		}}, nil
	case "content_info":
		kind, ok := data.ParseContentKind(r.kind)
		if !ok {
			return data.Event{}, fmt.Errorf("unmarshal event %d: unknown kind %q", r.seq, r.kind)
		}
		dir, ok := data.ParseDir(r.dir)
		if !ok {
			return data.Event{}, fmt.Errorf("unmarshal event %d: unknown dir %q", r.seq, r.dir)
		}
		return data.Event{Type: data.EventContentInfo, Kind: kind, Dir: dir}, nil
	default:
		return data.Event{}, fmt.Errorf("unmarshal event %d: unknown type %q", r.seq, r.typ)
	}
}

// marshalArgs converts logging call arguments to JSON TEXT for storage.
// Uses json.Encoder with HTML escaping disabled so stored text matches what
// was rendered byte for byte.
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(args); err != nil {
		return "", fmt.Errorf("marshal call args: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalArgs(text string) ([]string, error) {
	if text == "" || text == "[]" {
		return nil, nil
	}
	var args []string
	if err := json.Unmarshal([]byte(text), &args); err != nil {
		return nil, fmt.Errorf("unmarshal call args: %w", err)
	}
	return args, nil
}
