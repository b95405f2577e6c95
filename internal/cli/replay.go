package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/devtools"
	"github.com/roach88/ducks/internal/state"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplayDivergence is one recorded state the reducers no longer reproduce.
type ReplayDivergence struct {
	Seq   int64       `json:"seq"`
	Kind  action.Kind `json:"kind"`
	Field string      `json:"field"`
	Diff  string      `json:"diff"`
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session       string             `json:"session"`
	Dispatches    int                `json:"dispatches"`
	LastSeq       int64              `json:"last_seq"`
	Deterministic bool               `json:"deterministic"`
	Divergences   []ReplayDivergence `json:"divergences,omitempty"`
	FinalState    state.RootState    `json:"final_state"`
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
		Short: "Replay the dispatch log and verify determinism",
		Long: `Replay recorded sessions through the current reducers.

Each session starts from its first recorded prev_state. Every recorded
action is reduced again and the computed state is compared with the
recorded one. Divergences are reported with a diff.

Exit codes:
  0 - All sessions are deterministic
  1 - At least one recorded state was not reproduced
  2 - Command error (database not found, unknown session, etc.)

Examples:
  ducks replay --db ./ducks.db
  ducks replay --db ./ducks.db --session demo
  ducks replay --db ./ducks.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(cmd, opts.RootOptions)

	log, err := openExistingLog(opts.Database)
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer log.Close()

	// Get sessions to process
	var sessions []string
	if opts.Session != "" {
		sessions = []string{opts.Session}
	} else {
		summaries, err := log.ListSessions(ctx)
		if err != nil {
			_ = formatter.Error(CodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range summaries {
			sessions = append(sessions, s.Session)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}

	for _, session := range sessions {
		opts.Logger().Debug("replaying session", "session", session)
		replayed, err := log.Replay(ctx, session, nil)
		if errors.Is(err, devtools.ErrNotFound) {
			_ = formatter.Error(CodeSessionNotFound, fmt.Sprintf("no dispatches recorded for session %q", session), nil)
			return WrapExitError(ExitCommandError, "session not found", err)
		}
		if err != nil {
			_ = formatter.Error(CodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", session), err)
		}

		sessionResult := toReplaySessionResult(replayed)
		result.Sessions = append(result.Sessions, sessionResult)
		if !sessionResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
}

func toReplaySessionResult(r devtools.ReplayResult) ReplaySessionResult {
	out := ReplaySessionResult{
		Session:       r.Session,
		Dispatches:    r.Dispatches,
		LastSeq:       r.LastSeq,
		Deterministic: r.Deterministic(),
		FinalState:    r.Final,
	}
	for _, d := range r.Divergences {
		out.Divergences = append(out.Divergences, ReplayDivergence{
			Seq:   d.Seq,
			Kind:  d.Kind,
			Field: d.Field,
			Diff:  d.Diff,
		})
	}
	return out
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    CodeReplayDiverged,
			Message: "determinism verification failed",
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	if result.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, session := range result.Sessions {
		status := "✓"
		if !session.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, session.Session)
		fmt.Fprintf(w, "  Dispatches: %d (last seq %d)\n", session.Dispatches, session.LastSeq)
		if verbose {
			fmt.Fprintf(w, "  Final: %s\n", formatState(session.FinalState))
		}

		for _, d := range session.Divergences {
			fmt.Fprintf(w, "  Divergence at [%d] %s (%s state):\n", d.Seq, d.Kind, d.Field)
			fmt.Fprint(w, indent(d.Diff, "    "))
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
