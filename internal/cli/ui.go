package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ducks/internal/devtools"
	"github.com/roach88/ducks/internal/i18n"
	"github.com/roach88/ducks/internal/logging"
	"github.com/roach88/ducks/internal/store"
	"github.com/roach88/ducks/internal/tui"
)

// UIOptions holds flags for the ui command.
type UIOptions struct {
	*RootOptions
	Database string
	Locale   string
	User     string
	Session  string
	LogFile  string
}

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the interactive counter and sign-in screen",
		Long: `Run the terminal UI: a sign-in toggle, the counter with a step input,
and increment/decrement buttons.

Keys: tab/shift+tab move focus, enter presses the focused control,
+ and - increment and decrement while the input is not focused,
esc or ctrl+c quits.

Every dispatch is recorded to --db. The default ":memory:" keeps nothing
after exit. The terminal belongs to the UI, so logs go to --log-file or
nowhere.

Examples:
  ducks ui
  ducks ui --locale en --user hanako
  ducks ui --db ./ducks.db --session demo --log-file ./ducks.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(opts, cmd)
		},
	}

	cfg := rootOpts.Config
	cmd.Flags().StringVar(&opts.Database, "db", cfg.DB, "record dispatches to this SQLite database")
	cmd.Flags().StringVar(&opts.Locale, "locale", cfg.Locale, "message locale (ja|en)")
	cmd.Flags().StringVar(&opts.User, "user", cfg.DemoUser, "user name used by the sign-in button")
	cmd.Flags().StringVar(&opts.Session, "session", cfg.Session, "session token (default a new UUIDv7)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", cfg.LogFile, "write logs to this file")

	return cmd
}

func runUI(opts *UIOptions, cmd *cobra.Command) error {
	logger, closeLog, err := uiLogger(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	defer closeLog()

	s, closeStore, err := newUIStore(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog, err := i18n.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load messages", err)
	}

	m := tui.New(s, catalog.Printer(opts.Locale), opts.User, tui.WithLogger(logger))
	logger.Info("ui started", "session", s.Session(), "locale", opts.Locale, "db", opts.Database)
	if err := tui.Run(cmd.Context(), m); err != nil {
		return err
	}
	logger.Info("ui stopped", "session", s.Session(), "seq", s.Seq())
	return nil
}

// newUIStore builds the store behind the UI, recording to opts.Database.
func newUIStore(opts *UIOptions, logger *slog.Logger) (*store.Store, func(), error) {
	log, err := devtools.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	storeOpts := []store.Option{
		store.WithRecorder(log),
		store.WithLogger(logger),
	}
	if opts.Session != "" {
		storeOpts = append(storeOpts, store.WithSession(opts.Session))
	}
	s := store.New(storeOpts...)

	return s, func() {
		_ = s.Close()
		if err := log.Close(); err != nil {
			logger.Warn("close dispatch log", "error", err)
		}
	}, nil
}

func uiLogger(opts *UIOptions) (*slog.Logger, func(), error) {
	if opts.LogFile == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", opts.LogFile, err)
	}
	level, err := opts.Config.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(f, level, opts.Verbose), func() { _ = f.Close() }, nil
}
