package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary     = lipgloss.Color("#101F38")
	colorAccent      = lipgloss.Color("#8BC34A")
	colorMuted       = lipgloss.Color("#8a94a6")
	colorBorder      = lipgloss.Color("#dce0e5")
	colorDestructive = lipgloss.Color("#e53935")
	colorButton      = lipgloss.Color("#6b7280")
	colorButtonEdit  = lipgloss.Color("#3b82f6")
)

// Styles holds the styled components of the dashboard screen.
type Styles struct {
	Title        lipgloss.Style
	Banner       lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Button       lipgloss.Style
	EditButton   lipgloss.Style
	Disabled     lipgloss.Style
	Error        lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
	Panel        lipgloss.Style
	Table        table.Styles
}

func DefaultStyles() Styles {
	t := table.DefaultStyles()
	t.Header = t.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	t.Selected = t.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(colorPrimary)

	button := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(colorButton).
		Padding(0, 2)

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1),
		Banner:       lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Label:        lipgloss.NewStyle().Foreground(colorMuted).Width(20),
		FocusedLabel: lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Width(20),
		Button:       button,
		EditButton:   button.Background(colorButtonEdit),
		Disabled:     button.Faint(true),
		Error:        lipgloss.NewStyle().Foreground(colorDestructive).Bold(true),
		Status:       lipgloss.NewStyle().Foreground(colorAccent),
		Help:         lipgloss.NewStyle().Foreground(colorMuted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Table: t,
	}
}
