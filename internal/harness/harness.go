package harness

import (
	"fmt"
	"strings"

	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/internal/script"
	"github.com/yinanzhou/closure-templates/render"
)

// maxSteps bounds a driver loop. A scenario needing more resumptions than
// this is misconfigured, not patient.
const maxSteps = 10000

// Transcript captures everything observed while driving a scenario: the
// sequence of result states and the full event log that reached the output
// side.
type Transcript struct {
	Scenario string
	Script   string
	Mode     DriveMode
	Statuses []string
	Events   []data.Event
	Output   string
}

// Render formats the transcript as the stable line-oriented text stored in
// golden files.
func (tr *Transcript) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", tr.Scenario)
	fmt.Fprintf(&b, "script: %s\n", tr.Script)
	fmt.Fprintf(&b, "mode: %s\n", tr.Mode)
	fmt.Fprintf(&b, "statuses: %s\n", strings.Join(tr.Statuses, " "))
	for _, e := range tr.Events {
		fmt.Fprintf(&b, "event: %s\n", formatEvent(e))
	}
	fmt.Fprintf(&b, "output: %q\n", tr.Output)
	return b.String()
}

func formatEvent(e data.Event) string {
	switch e.Type {
	case data.EventText:
		return fmt.Sprintf("text %q", e.Text)
	case data.EventEnterLog:
		return fmt.Sprintf("enter_log id=%d name=%q log_only=%t",
			e.Statement.ID, e.Statement.Name, e.Statement.LogOnly)
	case data.EventExitLog:
		return "exit_log"
	case data.EventLogCall:
		return fmt.Sprintf("log_call name=%q args=%d placeholder=%q",
			e.Call.Name, len(e.Call.Args), e.Call.Placeholder)
	case data.EventContentInfo:
		return fmt.Sprintf("content_info kind=%s dir=%s", e.Kind, e.Dir)
	default:
		return "unknown"
	}
}

// Run executes a scenario: it compiles the script, drives a fresh provider
// in the scenario's mode, and returns the transcript. Expectation clauses
// are validated here; golden comparison happens in RunWithGolden.
func Run(sc *Scenario) (*Transcript, error) {
	compiled, err := script.LoadFile(sc.ScriptPath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	tr := &Transcript{
		Scenario: sc.Name,
		Script:   compiled.Name,
		Mode:     sc.Mode,
	}
	p := compiled.Provider()

	sink := data.NewBuffer()
	switch sc.Mode {
	case ModePoll:
		if err := drive(tr, p.Status); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		// The provider is done; this single call replays the finished
		// log (or renders the resolved scalar) onto the sink.
		if _, err := p.RenderAndResolve(sink); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	case ModePush:
		if err := drive(tr, func() (render.Result, error) {
			return p.RenderAndResolve(sink)
		}); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	default:
		return nil, fmt.Errorf("scenario %s: unknown mode %q", sc.Name, sc.Mode)
	}

	tr.Events = sink.Events()
	tr.Output = sink.String()

	if err := checkExpectations(sc, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// drive invokes one resumption operation until it reports done, recording
// each observed state.
func drive(tr *Transcript, op func() (render.Result, error)) error {
	for i := 0; i < maxSteps; i++ {
		res, err := op()
		if err != nil {
			return err
		}
		tr.Statuses = append(tr.Statuses, res.String())
		if res.Done() {
			return nil
		}
		if sig := res.Signal(); sig != nil {
			<-sig.Ready()
		}
	}
	return fmt.Errorf("no completion after %d steps", maxSteps)
}

func checkExpectations(sc *Scenario, tr *Transcript) error {
	if sc.Expect == nil {
		return nil
	}
	if len(sc.Expect.Statuses) > 0 {
		got := strings.Join(tr.Statuses, " ")
		want := strings.Join(sc.Expect.Statuses, " ")
		if got != want {
			return fmt.Errorf("scenario %s: statuses %q, want %q", sc.Name, got, want)
		}
	}
	if sc.Expect.Output != nil && tr.Output != *sc.Expect.Output {
		return fmt.Errorf("scenario %s: output %q, want %q", sc.Name, tr.Output, *sc.Expect.Output)
	}
	return nil
}
