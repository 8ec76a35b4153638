package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/internal/script"
	"github.com/yinanzhou/closure-templates/internal/session"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Database string
	Name     string

	// TokenGenerator allows overriding the session token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator session.TokenGenerator
}

// RecordResult holds the record command result for JSON output.
type RecordResult struct {
	Token  string `json:"token"`
	Name   string `json:"name"`
	Events int    `json:"events"`
	Output string `json:"output"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <script.cue>",
		Short: "Render a script and persist the session",
		Long: `Render a script to completion and persist its event log as a session.

The database is created if it does not exist. The recorded session can later
be replayed and verified with the replay command.

Examples:
  soyrt record ./greeting.cue --db ./sessions.db
  soyrt record ./greeting.cue --db ./sessions.db --name smoke-test`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Name, "name", "", "session name (defaults to the script name)")

	return cmd
}

func runRecord(opts *RecordOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()

	sc, err := script.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	buf := data.NewBuffer()
	if _, err := driveProvider(ctx, sc.Provider(), buf); err != nil {
		return WrapExitError(ExitCommandError, "render failed", err)
	}

	st, err := session.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	gen := opts.TokenGenerator
	if gen == nil {
		gen = session.UUIDv7Generator{}
	}
	name := opts.Name
	if name == "" {
		name = sc.Name
	}

	sess, err := st.RecordBuffer(ctx, gen, name, buf)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to record session", err)
	}

	if opts.Format == "json" {
		return encodeResponse(cmd.OutOrStdout(), CLIResponse{
			Status: "ok",
			Data: RecordResult{
				Token:  sess.Token,
				Name:   sess.Name,
				Events: len(buf.Events()),
				Output: buf.String(),
			},
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded session %s (%q, %d events)\n",
		sess.Token, sess.Name, len(buf.Events()))
	return nil
}
