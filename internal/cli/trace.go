package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/devtools"
	"github.com/roach88/ducks/internal/state"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Kind     string // optional - filter to a specific action kind
	At       int64  // with --at: print only the state right after this seq
}

// TraceAtResult is the state of a session at one seq.
type TraceAtResult struct {
	Session string          `json:"session"`
	Seq     int64           `json:"seq"`
	State   state.RootState `json:"state"`
}

// TraceEvent represents a single dispatch in the trace timeline.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	ID      string         `json:"id"`
	Kind    action.Kind    `json:"kind"`
	Args    map[string]any `json:"args,omitempty"`
	Changes []StateChange  `json:"changes"`
}

// StateChange is one state field that a dispatch changed.
type StateChange struct {
	Path string `json:"path"`
	From any    `json:"from"`
	To   any    `json:"to"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  string          `json:"session"`
	Timeline []TraceEvent    `json:"timeline"`
	Final    state.RootState `json:"final_state"`
	Stats    TraceStats      `json:"stats"`
}

// TraceStats holds summary statistics for the session.
type TraceStats struct {
	Dispatches int            `json:"dispatches"`
	LastSeq    int64          `json:"last_seq"`
	ByKind     map[string]int `json:"by_kind"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the recorded dispatches of a session",
		Long: `Show the dispatch timeline of a recorded session.

The output includes:
- Timeline: every dispatch in seq order with the state fields it changed
- Stats: dispatch counts per action kind

Examples:
  ducks trace --db ./ducks.db --session demo
  ducks trace --db ./ducks.db --session demo --kind counter/increment
  ducks trace --db ./ducks.db --session demo --at 2
  ducks trace --db ./ducks.db --session demo --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to trace (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to a specific action kind")
	cmd.Flags().Int64Var(&opts.At, "at", 0, "print the state right after this seq (0 = before the first dispatch)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(cmd, opts.RootOptions)

	log, err := openExistingLog(opts.Database)
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer log.Close()

	if cmd.Flags().Changed("at") {
		return runTraceAt(opts, cmd, log, formatter)
	}

	dispatches, err := log.ReadSession(ctx, opts.Session)
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	if len(dispatches) == 0 {
		if opts.Format == "json" {
			return formatter.JSON(CLIResponse{
				Status:  "ok",
				Session: opts.Session,
				Data: TraceResult{
					Session:  opts.Session,
					Timeline: []TraceEvent{},
					Final:    state.Initial(),
					Stats:    TraceStats{ByKind: map[string]int{}},
				},
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "No dispatches found for session: %s\n", opts.Session)
		return nil
	}

	counts, err := log.CountByKind(ctx, opts.Session)
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count dispatches", err)
	}

	last := dispatches[len(dispatches)-1]
	result := TraceResult{
		Session:  opts.Session,
		Timeline: buildTimeline(dispatches, action.Kind(opts.Kind)),
		Final:    last.Next,
		Stats: TraceStats{
			Dispatches: len(dispatches),
			LastSeq:    last.Seq,
			ByKind:     make(map[string]int, len(counts)),
		},
	}
	for kind, n := range counts {
		result.Stats.ByKind[string(kind)] = n
	}

	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, Session: opts.Session})
	}
	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

// runTraceAt prints the recorded state of the session at opts.At.
func runTraceAt(opts *TraceOptions, cmd *cobra.Command, log *devtools.Log, formatter *OutputFormatter) error {
	if opts.At < 0 {
		_ = formatter.Error(CodeInvalidArgs, fmt.Sprintf("--at must be >= 0, got %d", opts.At), nil)
		return NewExitError(ExitCommandError, "invalid --at")
	}

	st, err := log.Jump(cmd.Context(), opts.Session, opts.At)
	if errors.Is(err, devtools.ErrNotFound) {
		_ = formatter.Error(CodeSessionNotFound,
			fmt.Sprintf("no dispatch at seq %d in session %s", opts.At, opts.Session),
			map[string]any{"session": opts.Session, "seq": opts.At})
		return WrapExitError(ExitCommandError, "seq not found", err)
	}
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read state", err)
	}

	result := TraceAtResult{Session: opts.Session, Seq: opts.At, State: st}
	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, Session: opts.Session})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "State of %s at seq %d: %s\n", result.Session, result.Seq, formatState(result.State))
	return nil
}

// buildTimeline converts logged dispatches to timeline events.
// When kindFilter is set, only dispatches of that kind are included.
func buildTimeline(dispatches []devtools.Dispatch, kindFilter action.Kind) []TraceEvent {
	timeline := []TraceEvent{}
	for _, d := range dispatches {
		if kindFilter != "" && d.Action.Kind() != kindFilter {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:     d.Seq,
			ID:      d.ID,
			Kind:    d.Action.Kind(),
			Args:    action.Args(d.Action),
			Changes: diffState(d.Prev, d.Next),
		})
	}
	return timeline
}

// diffState lists the fields that differ between prev and next, in a fixed
// order.
func diffState(prev, next state.RootState) []StateChange {
	changes := []StateChange{}
	if prev.Counter.Count != next.Counter.Count {
		changes = append(changes, StateChange{Path: "counter.count", From: prev.Counter.Count, To: next.Counter.Count})
	}
	if prev.User.IsLogged != next.User.IsLogged {
		changes = append(changes, StateChange{Path: "user.isLogged", From: prev.User.IsLogged, To: next.User.IsLogged})
	}
	if prev.User.UserName != next.User.UserName {
		changes = append(changes, StateChange{Path: "user.userName", From: prev.User.UserName, To: next.User.UserName})
	}
	return changes
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session)
	fmt.Fprintln(w)

	// Timeline section
	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no dispatches)")
	} else {
		for _, event := range result.Timeline {
			formatTimelineEvent(w, event, verbose)
		}
	}
	fmt.Fprintln(w)

	// Stats section
	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Dispatches: %d\n", result.Stats.Dispatches)
	fmt.Fprintf(w, "  Last Seq:   %d\n", result.Stats.LastSeq)
	kinds := make([]string, 0, len(result.Stats.ByKind))
	for k := range result.Stats.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, result.Stats.ByKind[k])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Final: %s\n", formatState(result.Final))

	return nil
}

// formatTimelineEvent formats a single timeline event for text output.
func formatTimelineEvent(w io.Writer, event TraceEvent, verbose bool) {
	fmt.Fprintf(w, "  [%d] %s %s\n", event.Seq, event.Kind, formatArgs(event.Args))
	if len(event.Changes) == 0 {
		fmt.Fprintln(w, "       (no change)")
	}
	for _, c := range event.Changes {
		fmt.Fprintf(w, "       %s: %s -> %s\n", c.Path, formatValue(c.From), formatValue(c.To))
	}
	if verbose {
		fmt.Fprintf(w, "       ID: %s\n", truncateID(event.ID))
	}
}

// formatArgs formats a map of args for display.
// Uses sorted keys to ensure deterministic output.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(args[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatState renders a state on one line.
func formatState(s state.RootState) string {
	return fmt.Sprintf("counter.count=%d user.isLogged=%t user.userName=%s",
		s.Counter.Count, s.User.IsLogged, strconv.Quote(s.User.UserName))
}

// truncateID shortens a dispatch ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:16] + "..."
}

func indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
