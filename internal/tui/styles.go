package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent      = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	Muted       = lipgloss.AdaptiveColor{Light: "#6a737d", Dark: "#8b949e"}
	Border      = lipgloss.AdaptiveColor{Light: "#dce0e5", Dark: "#2a3850"}
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
)

// Styles holds the lipgloss styles of the view.
type Styles struct {
	Header        lipgloss.Style
	Title         lipgloss.Style
	Button        lipgloss.Style
	FocusedButton lipgloss.Style
	Input         lipgloss.Style
	FocusedInput  lipgloss.Style
	Pending       lipgloss.Style
	Error         lipgloss.Style
	Greeting      lipgloss.Style
	Help          lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	input := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder()).
		BorderForeground(Border)

	return Styles{
		Header: lipgloss.NewStyle().
			MarginBottom(1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1),
		Button: button,
		FocusedButton: button.
			BorderForeground(Accent).
			Bold(true),
		Input: input,
		FocusedInput: input.
			BorderForeground(Accent),
		Pending: lipgloss.NewStyle().
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(Destructive),
		Greeting: lipgloss.NewStyle().
			Bold(true).
			Foreground(Success).
			MarginTop(1),
		Help: lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1),
	}
}
