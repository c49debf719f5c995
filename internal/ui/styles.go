package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor    = lipgloss.Color("#2E7D6B")
	highlightColor = lipgloss.Color("#5FB49C")
	mutedColor     = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	CheckedStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	FocusedPaneStyle = PaneStyle.
				BorderForeground(accentColor)
)
