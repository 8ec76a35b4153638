package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/internal/session"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database     string
	SessionToken string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Token         string `json:"token"`
	Name          string `json:"name"`
	Events        int    `json:"events"`
	Output        string `json:"output"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded sessions and verify determinism",
		Long: `Replay recorded sessions and verify determinism.

Each session's event log is replayed twice into fresh buffers and the two
results are compared. A session is deterministic when both replays yield the
same event sequence and text.

Exit codes:
  0 - All sessions are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  soyrt replay --db ./sessions.db
  soyrt replay --db ./sessions.db --session 0198d3c0-1111-7000-8000-000000000001
  soyrt replay --db ./sessions.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionToken, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := session.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var sessions []session.Session
	if opts.SessionToken != "" {
		sess, _, err := st.ReadSession(ctx, opts.SessionToken)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", opts.SessionToken), err)
		}
		sessions = []session.Session{sess}
	} else {
		sessions, err = st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	if len(sessions) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, ReplayResult{
				Sessions:         []ReplaySessionResult{},
				TotalSessions:    0,
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}

	for _, sess := range sessions {
		sessResult, err := replayAndVerifySession(ctx, st, sess)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", sess.Token), err)
		}

		result.Sessions = append(result.Sessions, sessResult)
		if !sessResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// replayAndVerifySession replays a single session and verifies determinism.
func replayAndVerifySession(ctx context.Context, st *session.Store, sess session.Session) (ReplaySessionResult, error) {
	deterministic, err := st.VerifySession(ctx, sess.Token)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	buf := data.NewBuffer()
	if err := st.ReplaySession(ctx, sess.Token, buf); err != nil {
		return ReplaySessionResult{}, err
	}

	return ReplaySessionResult{
		Token:         sess.Token,
		Name:          sess.Name,
		Events:        len(buf.Events()),
		Output:        buf.String(),
		Deterministic: deterministic,
	}, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	if err := encodeResponse(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, sess := range result.Sessions {
		status := "✓"
		if !sess.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, sess.Token)
		fmt.Fprintf(w, "  Name: %s\n", sess.Name)
		fmt.Fprintf(w, "  Events: %d\n", sess.Events)
		if verbose {
			fmt.Fprintf(w, "  Output: %q\n", sess.Output)
		}

		if !sess.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
