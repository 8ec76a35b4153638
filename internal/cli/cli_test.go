package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetingScript = `render: {
	name: "greeting"
	kind: "html"
	steps: [
		{text: "<b>Hello"},
		{detach: true},
		{text: " world</b>"},
	]
}
`

// execute runs the root command with the given arguments and returns the
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "sessions", "--db", "ignored.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRunCommand_Text(t *testing.T) {
	path := writeScript(t, greetingScript)

	out, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "<b>Hello world</b>", out)
}

func TestRunCommand_JSON(t *testing.T) {
	path := writeScript(t, greetingScript)

	out, err := execute(t, "run", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "greeting", resp.Data.Script)
	assert.Equal(t, []string{"detach", "done"}, resp.Data.Statuses)
	assert.Equal(t, "<b>Hello world</b>", resp.Data.Output)
}

func TestRunCommand_MissingScript(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecordThenReplay(t *testing.T) {
	path := writeScript(t, greetingScript)
	db := filepath.Join(t.TempDir(), "sessions.db")

	out, err := execute(t, "record", path, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded session")
	assert.Contains(t, out, `"greeting"`)

	out, err = execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "All sessions verified deterministic")

	out, err = execute(t, "sessions", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 session(s)")
	assert.Contains(t, out, "greeting")
}

func TestRecordCommand_JSON(t *testing.T) {
	path := writeScript(t, greetingScript)
	db := filepath.Join(t.TempDir(), "sessions.db")

	out, err := execute(t, "record", path, "--db", db, "--name", "smoke", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RecordResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "smoke", resp.Data.Name)
	assert.Equal(t, "<b>Hello world</b>", resp.Data.Output)
	// content_info plus one text event: the runs on either side of the
	// suspension coalesce in the buffer.
	assert.Equal(t, 2, resp.Data.Events)
}

func TestReplayCommand_SpecificSessionJSON(t *testing.T) {
	path := writeScript(t, greetingScript)
	db := filepath.Join(t.TempDir(), "sessions.db")

	out, err := execute(t, "record", path, "--db", db, "--format", "json")
	require.NoError(t, err)
	var recorded struct {
		Data RecordResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &recorded))

	out, err = execute(t, "replay", "--db", db, "--session", recorded.Data.Token, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllDeterministic)
	require.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, recorded.Data.Token, resp.Data.Sessions[0].Token)
	assert.True(t, resp.Data.Sessions[0].Deterministic)
}

func TestReplayCommand_EmptyDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sessions.db")

	out, err := execute(t, "sessions", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")

	out, err = execute(t, "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestReplayCommand_UnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sessions.db")
	// Create the database first so the failure is the missing session.
	_, err := execute(t, "sessions", "--db", db)
	require.NoError(t, err)

	_, err = execute(t, "replay", "--db", db, "--session", "no-such-token")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
