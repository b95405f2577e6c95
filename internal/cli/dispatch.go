package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/devtools"
	"github.com/roach88/ducks/internal/state"
	"github.com/roach88/ducks/internal/store"
)

// DispatchOptions holds flags for the dispatch command.
type DispatchOptions struct {
	*RootOptions
	Num      int64
	User     string
	Actions  string // JSON array of action envelopes
	Database string
	Session  string
}

// DispatchResult is the state after the dispatched actions.
type DispatchResult struct {
	Session string          `json:"session"`
	Seq     int64           `json:"seq"`
	State   state.RootState `json:"state"`
}

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DispatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dispatch [kind]",
		Short: "Dispatch actions to a fresh store and print the state",
		Long: `Dispatch one action, or a JSON list of actions, to a fresh store and print
the resulting state.

Known kinds: counter/increment, counter/decrement, users/signIn, users/signOut.

When --db is set every dispatch is recorded to the log under the session.

Examples:
  ducks dispatch counter/increment --num 5
  ducks dispatch users/signIn --user hanako
  ducks dispatch --actions '[{"type":"counter/increment","payload":{"num":3}}]'
  ducks dispatch counter/decrement --db ./ducks.db --session demo --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(opts, cmd, args)
		},
	}

	cmd.Flags().Int64Var(&opts.Num, "num", action.DefaultNum, "step for counter actions")
	cmd.Flags().StringVar(&opts.User, "user", "", "user name for users/signIn (default $DUCKS_DEMO_USER)")
	cmd.Flags().StringVar(&opts.Actions, "actions", "", "JSON array of actions to dispatch in order")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record dispatches to this SQLite database")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token (default $DUCKS_SESSION or a new UUIDv7)")

	return cmd
}

func runDispatch(opts *DispatchOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := newFormatter(cmd, opts.RootOptions)

	actions, err := dispatchActions(opts, cmd, args)
	if err != nil {
		_ = formatter.Error(CodeInvalidArgs, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid actions", err)
	}

	storeOpts := []store.Option{store.WithLogger(opts.Logger())}
	if session := firstNonEmpty(opts.Session, opts.Config.Session); session != "" {
		storeOpts = append(storeOpts, store.WithSession(session))
	}
	if opts.Database != "" {
		log, err := devtools.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(CodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer log.Close()
		storeOpts = append(storeOpts, store.WithRecorder(log))
	}

	s := store.New(storeOpts...)
	defer s.Close()

	formatter.VerboseLog("session %s: dispatching %d action(s)", s.Session(), len(actions))
	final, err := s.DispatchAll(ctx, actions...)
	if err != nil {
		_ = formatter.Error(CodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "dispatch failed", err)
	}

	result := DispatchResult{Session: s.Session(), Seq: s.Seq(), State: final}
	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, Session: result.Session})
	}
	writeDispatchText(cmd.OutOrStdout(), result)
	return nil
}

// dispatchActions builds the action list from either the positional kind
// or --actions.
func dispatchActions(opts *DispatchOptions, cmd *cobra.Command, args []string) ([]action.Action, error) {
	if opts.Actions != "" {
		if len(args) > 0 {
			return nil, errors.New("give either a kind or --actions, not both")
		}
		actions, err := action.UnmarshalList([]byte(opts.Actions))
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			if !a.Kind().Known() {
				return nil, unknownKindError(a.Kind())
			}
		}
		return actions, nil
	}

	if len(args) == 0 {
		return nil, errors.New("missing action kind")
	}
	kind := action.Kind(args[0])
	if !kind.Known() {
		return nil, unknownKindError(kind)
	}

	fields := map[string]any{}
	switch kind {
	case action.KindIncrement, action.KindDecrement:
		fields["num"] = opts.Num
	case action.KindSignIn:
		fields["userName"] = firstNonEmpty(opts.User, opts.Config.DemoUser)
	default:
		if cmd.Flags().Changed("num") || cmd.Flags().Changed("user") {
			return nil, fmt.Errorf("%s takes no payload", kind)
		}
	}

	a, err := action.FromArgs(kind, fields)
	if err != nil {
		return nil, err
	}
	return []action.Action{a}, nil
}

func unknownKindError(kind action.Kind) error {
	known := make([]string, len(action.Kinds))
	for i, k := range action.Kinds {
		known[i] = string(k)
	}
	return fmt.Errorf("unknown action kind %q (known: %s)", kind, strings.Join(known, ", "))
}

func writeDispatchText(w io.Writer, result DispatchResult) {
	fmt.Fprintf(w, "Session: %s\n", result.Session)
	fmt.Fprintf(w, "Seq:     %d\n", result.Seq)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  counter.count:  %d\n", result.State.Counter.Count)
	fmt.Fprintf(w, "  user.isLogged:  %t\n", result.State.User.IsLogged)
	fmt.Fprintf(w, "  user.userName:  %q\n", result.State.User.UserName)
}

// openExistingLog opens a dispatch log that must already exist on disk.
func openExistingLog(path string) (*devtools.Log, error) {
	if path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database not found: %w", err)
		}
	}
	return devtools.Open(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
