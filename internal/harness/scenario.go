// Package harness drives render scripts through the provider protocol the
// way generated rendering code would, records a transcript of everything
// observed, and compares transcripts against golden files. Scenarios are
// declared in YAML next to the scripts they exercise.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DriveMode selects how a scenario resolves its provider.
type DriveMode string

const (
	// ModePoll drives via Status against a private buffer.
	ModePoll DriveMode = "poll"
	// ModePush drives via RenderAndResolve against a collecting sink.
	ModePush DriveMode = "push"
)

// Scenario defines one harness run.
type Scenario struct {
	// Name uniquely identifies the scenario; golden transcripts are
	// stored as testdata/golden/{Name}.golden.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Script is the path to the CUE render script, relative to the
	// scenario file location.
	Script string `yaml:"script"`

	// Mode is poll or push. Defaults to poll.
	Mode DriveMode `yaml:"mode,omitempty"`

	// Expect optionally validates the run beyond the golden comparison.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// dir is the directory the scenario file was loaded from, for
	// resolving the script path.
	dir string
}

// ExpectClause specifies expected run behavior.
type ExpectClause struct {
	// Statuses is the exact sequence of result states observed while
	// driving, e.g. [detach, done].
	Statuses []string `yaml:"statuses,omitempty"`

	// Output is the exact final text.
	Output *string `yaml:"output,omitempty"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("load scenario %s: name is required", path)
	}
	if sc.Script == "" {
		return nil, fmt.Errorf("load scenario %s: script is required", path)
	}
	if sc.Mode == "" {
		sc.Mode = ModePoll
	}
	if sc.Mode != ModePoll && sc.Mode != ModePush {
		return nil, fmt.Errorf("load scenario %s: unknown mode %q", path, sc.Mode)
	}
	sc.dir = filepath.Dir(path)
	return &sc, nil
}

// ScriptPath returns the path of the scenario's script, resolved against
// the scenario file location.
func (s *Scenario) ScriptPath() string {
	if filepath.IsAbs(s.Script) || s.dir == "" {
		return s.Script
	}
	return filepath.Join(s.dir, s.Script)
}
