package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yinanzhou/closure-templates/internal/session"
)

// SessionsOptions holds flags for the sessions command.
type SessionsOptions struct {
	*RootOptions
	Database string
}

// SessionInfo holds one session listing for JSON output.
type SessionInfo struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Long: `List the sessions recorded in a database, oldest first.

Examples:
  soyrt sessions --db ./sessions.db
  soyrt sessions --db ./sessions.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSessions(opts *SessionsOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := session.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if opts.Format == "json" {
		infos := make([]SessionInfo, 0, len(sessions))
		for _, s := range sessions {
			infos = append(infos, SessionInfo{
				Token:     s.Token,
				Name:      s.Name,
				CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return encodeResponse(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: infos})
	}

	w := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}
	fmt.Fprintf(w, "%d session(s)\n", len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			s.Token, s.CreatedAt.UTC().Format(time.RFC3339), s.Name)
	}
	return nil
}
