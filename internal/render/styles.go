package render

import "github.com/charmbracelet/lipgloss"

// Terminal palette.
const (
	colorAccent  = lipgloss.Color("39")
	colorSubtle  = lipgloss.Color("245")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorValue   = lipgloss.Color("255")
	colorBorder  = lipgloss.Color("240")
)

// Shared lipgloss styles for terminal output.
//
//nolint:gochecknoglobals // Style definitions are immutable after init.
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle   = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorValue)
	InfoStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	SubtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	MediaStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorBorder).Padding(0, 1)
	ChipStyle    = lipgloss.NewStyle().Foreground(colorError).Border(lipgloss.NormalBorder()).BorderForeground(colorError).Padding(0, 1)
)
