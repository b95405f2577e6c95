// Package tui is the terminal view of the store: a sign-in toggle, the
// counter, a number input and the +/- buttons.
package tui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/ducks/counter"
	"github.com/roach88/ducks/internal/ducks/users"
	"github.com/roach88/ducks/internal/i18n"
	"github.com/roach88/ducks/internal/numinput"
	"github.com/roach88/ducks/internal/state"
	"github.com/roach88/ducks/internal/store"
)

// Focus identifies the focused control.
type Focus int

const (
	FocusAuth Focus = iota
	FocusInput
	FocusIncrement
	FocusDecrement
	focusCount
)

// StateMsg carries a store state published by a subscription.
type StateMsg state.RootState

// Model is the bubbletea model of the view.
type Model struct {
	store    *store.Store
	printer  *i18n.Printer
	demoUser string
	logger   *slog.Logger

	input textinput.Model
	field *numinput.Field

	state state.RootState
	focus Focus
	// dispatchErr is the last failed dispatch, shown below the buttons.
	dispatchErr error

	updates     chan state.RootState
	done        chan struct{}
	unsubscribe func()

	styles Styles
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithStyles overrides the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates a view over s. demoUser is the name the sign-in button uses.
// The model subscribes to s; call Close when the program exits.
func New(s *store.Store, p *i18n.Printer, demoUser string, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = p.Sprintf(i18n.KeyPlaceholder)
	ti.CharLimit = 24
	ti.Width = 20

	m := &Model{
		store:    s,
		printer:  p,
		demoUser: demoUser,
		logger:   slog.New(slog.DiscardHandler),
		input:    ti,
		field:    numinput.New(p),
		state:    s.State(),
		focus:    FocusIncrement,
		updates:  make(chan state.RootState, 1),
		done:     make(chan struct{}),
		styles:   DefaultStyles(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribe = s.Subscribe(m.publish)
	return m
}

// publish forwards a state to the program, keeping only the newest.
// It never blocks the dispatching goroutine.
func (m *Model) publish(s state.RootState) {
	for {
		select {
		case m.updates <- s:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

// waitForState delivers the next published state as a StateMsg.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return StateMsg(s)
		case <-m.done:
			return nil
		}
	}
}

// Close unsubscribes from the store and stops the pending state wait.
func (m *Model) Close() {
	m.unsubscribe()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Init starts listening for store updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForState()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.state = state.RootState(msg)
		return m, m.waitForState()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case "enter":
			m.press(m.focus)
			return m, nil
		case "+":
			if m.focus != FocusInput {
				m.press(FocusIncrement)
				return m, nil
			}
		case "-":
			if m.focus != FocusInput {
				m.press(FocusDecrement)
				return m, nil
			}
		}
	}

	if m.focus != FocusInput {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.field.Set(m.input.Value())
	return m, cmd
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// press activates a control. The input has no action.
func (m *Model) press(f Focus) {
	var a action.Action
	switch f {
	case FocusAuth:
		a = users.Toggle(m.state.User, m.demoUser)
	case FocusIncrement:
		a = counter.Increment(m.field.Num)
	case FocusDecrement:
		a = counter.Decrement(m.field.Num)
	default:
		return
	}
	m.dispatch(a)
}

func (m *Model) dispatch(a action.Action) {
	next, err := m.store.Dispatch(context.Background(), a)
	m.state = next
	m.dispatchErr = err
	if err != nil {
		m.logger.Error("dispatch failed", "kind", string(a.Kind()), "error", err)
	}
}

// State returns the state the view renders.
func (m *Model) State() state.RootState {
	return m.state
}

// Field returns the number input state.
func (m *Model) Field() *numinput.Field {
	return m.field
}

// Focused returns the focused control.
func (m *Model) Focused() Focus {
	return m.focus
}

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder

	authLabel := m.printer.Sprintf(i18n.KeySignIn)
	if m.state.User.IsLogged {
		authLabel = m.printer.Sprintf(i18n.KeySignOut)
	}
	b.WriteString(m.styles.Header.Render(m.button(authLabel, FocusAuth)))
	b.WriteString("\n")

	b.WriteString(m.styles.Title.Render(m.printer.Sprintf(i18n.KeyCounter, m.state.Counter.Count)))
	b.WriteString("\n")

	inputStyle := m.styles.Input
	if m.focus == FocusInput {
		inputStyle = m.styles.FocusedInput
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.styles.Pending.Render(strconv.FormatInt(m.field.Num, 10)))
	b.WriteString("\n")

	if m.field.Err != "" {
		b.WriteString(m.styles.Error.Render(m.field.Err))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.button("+", FocusIncrement),
		" ",
		m.button("-", FocusDecrement),
	))
	b.WriteString("\n")

	if m.dispatchErr != nil {
		b.WriteString(m.styles.Error.Render(m.dispatchErr.Error()))
		b.WriteString("\n")
	}

	if m.state.User.IsLogged {
		b.WriteString(m.styles.Greeting.Render(m.printer.Sprintf(i18n.KeyGreeting, m.state.User.UserName)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.printer.Sprintf(i18n.KeyHelp)))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) button(label string, f Focus) string {
	if m.focus == f {
		return m.styles.FocusedButton.Render(label)
	}
	return m.styles.Button.Render(label)
}
