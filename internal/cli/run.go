package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yinanzhou/closure-templates/data"
	"github.com/yinanzhou/closure-templates/internal/script"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
}

// RunResult holds the run command result for JSON output.
type RunResult struct {
	Script   string   `json:"script"`
	Statuses []string `json:"statuses"`
	Events   int      `json:"events"`
	Output   string   `json:"output"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.cue>",
		Short: "Render a script to stdout",
		Long: `Render a script to completion and write its output to stdout.

The script is driven in pushing mode: every invocation streams directly to
the output, suspension points wait for their signal, and the final output is
the concatenation of all invocations.

Examples:
  soyrt run ./greeting.cue
  soyrt run ./greeting.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	return cmd
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	sc, err := script.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}

	f := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	f.VerboseLog("script %s: %d step(s), %d suspension(s)", sc.Name, len(sc.Steps), sc.Detaches)

	// Render into a buffer so JSON output can report the event log; the
	// buffer is also what a recording would persist.
	buf := data.NewBuffer()
	statuses, err := driveProvider(context.Background(), sc.Provider(), buf)
	if err != nil {
		return WrapExitError(ExitCommandError, "render failed", err)
	}

	if opts.Format == "json" {
		return encodeResponse(cmd.OutOrStdout(), CLIResponse{
			Status: "ok",
			Data: RunResult{
				Script:   sc.Name,
				Statuses: statuses,
				Events:   len(buf.Events()),
				Output:   buf.String(),
			},
		})
	}

	f.VerboseLog("statuses: %s", strings.Join(statuses, " "))
	return buf.ReplayOn(data.NewWriterSink(cmd.OutOrStdout()))
}
