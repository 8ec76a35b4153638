package script

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/yinanzhou/closure-templates/data"
)

// Compile parses a CUE value into a Script.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the script struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`render: { name: "greeting", steps: [...] }`)
//	s, err := script.Compile(v.LookupPath(cue.ParsePath("render")))
func Compile(v cue.Value) (*Script, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &Script{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	s.Name = name

	if kindVal := v.LookupPath(cue.ParsePath("kind")); kindVal.Exists() {
		kindName, err := kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		kind, ok := data.ParseContentKind(kindName)
		if !ok {
			return nil, &CompileError{
				Field:   "kind",
				Message: fmt.Sprintf("unknown content kind %q", kindName),
				Pos:     kindVal.Pos(),
			}
		}
		s.HasKind = true
		s.Kind = kind
	}

	if dirVal := v.LookupPath(cue.ParsePath("dir")); dirVal.Exists() {
		dirName, err := dirVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		dir, ok := data.ParseDir(dirName)
		if !ok {
			return nil, &CompileError{
				Field:   "dir",
				Message: fmt.Sprintf("unknown direction %q", dirName),
				Pos:     dirVal.Pos(),
			}
		}
		s.Dir = dir
	}

	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	valueVal := v.LookupPath(cue.ParsePath("value"))
	switch {
	case stepsVal.Exists() && valueVal.Exists():
		return nil, &CompileError{
			Field:   "steps",
			Message: "a script declares either steps or value, not both",
			Pos:     v.Pos(),
		}
	case valueVal.Exists():
		val, err := parseValue(valueVal)
		if err != nil {
			return nil, err
		}
		s.Value = val
		return s, nil
	case !stepsVal.Exists():
		return nil, &CompileError{
			Field:   "steps",
			Message: "steps (or value) is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stepsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		step, err := parseStep(iter.Value())
		if err != nil {
			return nil, err
		}
		if step.Op == OpDetach {
			s.Detaches++
		}
		s.Steps = append(s.Steps, step)
	}
	if len(s.Steps) == 0 {
		return nil, &CompileError{
			Field:   "steps",
			Message: "at least one step is required",
			Pos:     stepsVal.Pos(),
		}
	}

	return s, nil
}

// LoadFile reads and compiles a single script file. The script struct must
// be declared under the top-level "render" field.
func LoadFile(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileString(string(src), cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	rv := v.LookupPath(cue.ParsePath("render"))
	if !rv.Exists() {
		return nil, &CompileError{
			Field:   "render",
			Message: "top-level render struct is required",
			Pos:     v.Pos(),
		}
	}
	return Compile(rv)
}

// parseStep parses one step struct. Exactly one of the step fields must be
// present.
func parseStep(v cue.Value) (Step, error) {
	if tv := v.LookupPath(cue.ParsePath("text")); tv.Exists() {
		text, err := tv.String()
		if err != nil {
			return Step{}, formatCUEError(err)
		}
		return Step{Op: OpText, Text: text}, nil
	}

	if dv := v.LookupPath(cue.ParsePath("detach")); dv.Exists() {
		return Step{Op: OpDetach}, nil
	}

	if ev := v.LookupPath(cue.ParsePath("enter_log")); ev.Exists() {
		stmt := data.LogStatement{}
		if idVal := ev.LookupPath(cue.ParsePath("id")); idVal.Exists() {
			id, err := idVal.Int64()
			if err != nil {
				return Step{}, formatCUEError(err)
			}
			stmt.ID = id
		}
		if nameVal := ev.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
			name, err := nameVal.String()
			if err != nil {
				return Step{}, formatCUEError(err)
			}
			stmt.Name = name
		}
		if loVal := ev.LookupPath(cue.ParsePath("log_only")); loVal.Exists() {
			logOnly, err := loVal.Bool()
			if err != nil {
				return Step{}, formatCUEError(err)
			}
			stmt.LogOnly = logOnly
		}
		return Step{Op: OpEnterLog, Statement: stmt}, nil
	}

	if xv := v.LookupPath(cue.ParsePath("exit_log")); xv.Exists() {
		return Step{Op: OpExitLog}, nil
	}

	if cv := v.LookupPath(cue.ParsePath("log_call")); cv.Exists() {
		call := data.LoggingCall{}
		nameVal := cv.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return Step{}, &CompileError{
				Field:   "log_call.name",
				Message: "logging function name is required",
				Pos:     cv.Pos(),
			}
		}
		name, err := nameVal.String()
		if err != nil {
			return Step{}, formatCUEError(err)
		}
		call.Name = name
		if argsVal := cv.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
			argIter, err := argsVal.List()
			if err != nil {
				return Step{}, formatCUEError(err)
			}
			for argIter.Next() {
				arg, err := argIter.Value().String()
				if err != nil {
					return Step{}, formatCUEError(err)
				}
				call.Args = append(call.Args, arg)
			}
		}
		if phVal := cv.LookupPath(cue.ParsePath("placeholder")); phVal.Exists() {
			ph, err := phVal.String()
			if err != nil {
				return Step{}, formatCUEError(err)
			}
			call.Placeholder = ph
		}
		return Step{Op: OpLogCall, Call: call}, nil
	}

	if vv := v.LookupPath(cue.ParsePath("value")); vv.Exists() {
		val, err := parseValue(vv)
		if err != nil {
			return Step{}, err
		}
		return Step{Op: OpValue, Value: val}, nil
	}

	return Step{}, &CompileError{
		Field:   "steps",
		Message: "step must declare one of text, detach, enter_log, exit_log, log_call, value",
		Pos:     v.Pos(),
	}
}

// parseValue parses a scalar CUE value into its runtime representation.
// CUE null compiles to the absent value, which renders as "null".
func parseValue(v cue.Value) (data.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return data.NullData{}, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return data.StringData(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return data.IntData(i), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return data.FloatData(f), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return data.BoolData(b), nil
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a script compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
