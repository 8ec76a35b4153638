package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinanzhou/closure-templates/data"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return sc
}

func TestGoldenScenarios(t *testing.T) {
	names := []string{
		"greeting-poll.yaml",
		"greeting-push.yaml",
		"logged-push.yaml",
		"answer-poll.yaml",
		"missing-poll.yaml",
	}
	for _, name := range names {
		sc := loadTestScenario(t, name)
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, sc))
		})
	}
}

func TestRun_PollAndPushTranscriptsMatch(t *testing.T) {
	poll, err := Run(loadTestScenario(t, "greeting-poll.yaml"))
	require.NoError(t, err)
	push, err := Run(loadTestScenario(t, "greeting-push.yaml"))
	require.NoError(t, err)

	assert.Equal(t, poll.Output, push.Output)
	require.Len(t, push.Events, len(poll.Events))
	for i, e := range poll.Events {
		assert.Equal(t, e.Type, push.Events[i].Type, "event %d", i)
		assert.Equal(t, e.Text, push.Events[i].Text, "event %d", i)
	}
}

func TestRun_LoggingEventsInProductionOrder(t *testing.T) {
	tr, err := Run(loadTestScenario(t, "logged-push.yaml"))
	require.NoError(t, err)

	var types []data.EventType
	for _, e := range tr.Events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []data.EventType{
		data.EventEnterLog,
		data.EventText,
		data.EventLogCall,
		data.EventExitLog,
	}, types)
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	sc := loadTestScenario(t, "greeting-poll.yaml")
	wrong := "something else"
	sc.Expect = &ExpectClause{Output: &wrong}

	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestLoadScenario_Validation(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "absent.yaml"))
	require.Error(t, err)
}

func TestTranscript_RenderIsStable(t *testing.T) {
	tr := &Transcript{
		Scenario: "s",
		Script:   "x",
		Mode:     ModePoll,
		Statuses: []string{"detach", "done"},
		Events: []data.Event{
			{Type: data.EventText, Text: "ab"},
		},
		Output: "ab",
	}
	want := "scenario: s\nscript: x\nmode: poll\nstatuses: detach done\nevent: text \"ab\"\noutput: \"ab\"\n"
	assert.Equal(t, want, tr.Render())
}
