package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("store closed")

// Entry describes one applied dispatch.
type Entry struct {
	Session string
	Seq     int64
	Action  action.Action
	Prev    state.RootState
	Next    state.RootState
}

// Recorder observes every applied dispatch, in seq order.
// The dispatch log in internal/devtools is the production implementation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, e Entry) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, e Entry) error {
	return f(ctx, e)
}

// Listener is called with the new state after each dispatch.
type Listener func(s state.RootState)

// snapshot pairs a state with the seq of the dispatch that produced it.
type snapshot struct {
	state state.RootState
	seq   int64
}

// subscriber is a registered listener. last is the seq it was last called
// with; only the notifying drain loop reads or writes it.
type subscriber struct {
	fn   Listener
	last int64
}

// Store is the single state container of the application.
type Store struct {
	mu        sync.Mutex // serializes writers
	current   atomic.Pointer[snapshot]
	reducer   state.RootReducer
	clock     Clock
	session   string
	recorders []Recorder
	logger    *slog.Logger
	closed    bool

	subMu     sync.Mutex
	listeners map[uint64]*subscriber
	nextSubID uint64
	notifying bool // a drain loop is running
	dirty     bool // state changed while draining
}

// Option configures a Store.
type Option func(*config)

type config struct {
	reducer   state.RootReducer
	initial   *state.RootState
	clock     Clock
	sessions  SessionGenerator
	session   string
	recorders []Recorder
	logger    *slog.Logger
}

// WithReducer replaces the root reducer (default state.Reduce).
func WithReducer(r state.RootReducer) Option {
	return func(c *config) { c.reducer = r }
}

// WithInitialState starts the store from s instead of reducing the init action.
func WithInitialState(s state.RootState) Option {
	return func(c *config) { c.initial = &s }
}

// WithClock sets the dispatch sequence clock (default NewClock()).
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithSessionGenerator sets how the session token is created (default UUIDv7Generator).
func WithSessionGenerator(g SessionGenerator) Option {
	return func(c *config) { c.sessions = g }
}

// WithSession fixes the session token. Takes precedence over WithSessionGenerator.
func WithSession(token string) Option {
	return func(c *config) { c.session = token }
}

// WithRecorder adds a recorder. Recorders run in the order they were added.
func WithRecorder(r Recorder) Option {
	return func(c *config) { c.recorders = append(c.recorders, r) }
}

// WithLogger sets the logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New creates a store. Without WithInitialState the starting state is the
// root reducer applied to no previous state and the init action.
//
// Defaults, each replaceable by an Option:
//   - reducer: state.Reduce
//   - clock: a fresh logical clock starting at 0
//   - session: a UUIDv7 token
//   - logger: discards everything
//   - no recorders
func New(opts ...Option) *Store {
	cfg := config{
		reducer:  state.Reduce,
		clock:    NewClock(),
		sessions: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.session == "" {
		cfg.session = cfg.sessions.Generate()
	}

	var initial state.RootState
	if cfg.initial != nil {
		initial = *cfg.initial
	} else {
		initial = cfg.reducer(nil, action.Init())
	}

	s := &Store{
		reducer:   cfg.reducer,
		clock:     cfg.clock,
		session:   cfg.session,
		recorders: cfg.recorders,
		logger:    cfg.logger,
		listeners: make(map[uint64]*subscriber),
	}
	s.current.Store(&snapshot{state: initial, seq: cfg.clock.Current()})
	return s
}

// State returns the current snapshot. Never blocks.
func (s *Store) State() state.RootState {
	return s.current.Load().state
}

// Session returns the session token of this store.
func (s *Store) Session() string {
	return s.session
}

// Seq returns the sequence number of the last applied dispatch (0 if none).
func (s *Store) Seq() int64 {
	return s.clock.Current()
}

// Dispatch applies a to the current state and returns the new state.
//
// Ordering:
//   - the reducer and every recorder run under the writer lock, so recorded
//     seqs are gap-free and in apply order
//   - listeners run after the lock is released and may dispatch themselves
//
// The state is replaced even if a recorder fails; the recorder error is
// logged and returned. Dispatch fails without applying a only after Close
// or for a nil action.
func (s *Store) Dispatch(ctx context.Context, a action.Action) (state.RootState, error) {
	if a == nil {
		return s.State(), fmt.Errorf("dispatch: nil action")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.State(), fmt.Errorf("dispatch %s: %w", a.Kind(), ErrClosed)
	}

	prev := s.current.Load().state
	next := s.reducer(&prev, a)
	seq := s.clock.Next()
	s.current.Store(&snapshot{state: next, seq: seq})

	s.logger.Debug("action dispatched",
		"session", s.session,
		"seq", seq,
		"kind", string(a.Kind()),
	)

	entry := Entry{Session: s.session, Seq: seq, Action: a, Prev: prev, Next: next}
	var errs []error
	for _, r := range s.recorders {
		if err := r.Record(ctx, entry); err != nil {
			s.logger.Error("record dispatch failed",
				"session", s.session,
				"seq", seq,
				"kind", string(a.Kind()),
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	s.mu.Unlock()

	s.notify()

	if len(errs) > 0 {
		return next, fmt.Errorf("dispatch %s: record: %w", a.Kind(), errors.Join(errs...))
	}
	return next, nil
}

// DispatchAll dispatches actions in order and stops at the first error.
func (s *Store) DispatchAll(ctx context.Context, actions ...action.Action) (state.RootState, error) {
	current := s.State()
	for i, a := range actions {
		next, err := s.Dispatch(ctx, a)
		if err != nil {
			return next, fmt.Errorf("action[%d]: %w", i, err)
		}
		current = next
	}
	return current, nil
}

// Subscribe registers fn to be called after every dispatch.
// The returned function removes the listener; calling it twice is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = &subscriber{fn: fn, last: s.current.Load().seq}
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

// Close rejects further dispatches. The last state stays readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// notify delivers the newest state to every listener, in subscription
// order.
//
// Only one drain loop runs at a time. A dispatch made while it runs, from a
// listener or from another goroutine, marks the loop dirty instead of
// notifying on its own; the loop then makes another pass. Each listener is
// handed the snapshot current at the moment it is called and is skipped when
// it has already seen that seq, so a listener never goes back in time and the
// last state it sees is the store's final state.
func (s *Store) notify() {
	s.subMu.Lock()
	if s.notifying {
		s.dirty = true
		s.subMu.Unlock()
		return
	}
	s.notifying = true
	s.subMu.Unlock()

	for {
		s.subMu.Lock()
		ids := make([]uint64, 0, len(s.listeners))
		for id := range s.listeners {
			ids = append(ids, id)
		}
		s.dirty = false
		s.subMu.Unlock()

		slices.Sort(ids)
		for _, id := range ids {
			s.subMu.Lock()
			sub, ok := s.listeners[id]
			s.subMu.Unlock()
			if !ok {
				continue
			}
			snap := s.current.Load()
			if snap.seq <= sub.last {
				continue
			}
			sub.last = snap.seq
			sub.fn(snap.state)
		}

		s.subMu.Lock()
		if !s.dirty {
			s.notifying = false
			s.subMu.Unlock()
			return
		}
		s.subMu.Unlock()
	}
}
