package styles

import (
	"github.com/allbin/servo-panel/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusBusyStyle = lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true)

	// Slider styles
	SliderEmptyStyle = lipgloss.NewStyle().
				Foreground(colors.Surface2)

	SliderFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colors.Mauve).
				Padding(0, 1)

	SliderBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colors.Surface1).
				Padding(0, 1)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Log line styles
	LogTimeStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)

	LogFieldStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)
)

// ChannelStyle returns the accent style for a channel label or fill
func ChannelStyle(channel string) lipgloss.Style {
	if channel == "B" {
		return lipgloss.NewStyle().Foreground(colors.ChannelB)
	}
	return lipgloss.NewStyle().Foreground(colors.ChannelA)
}

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusDisconnected
	StatusBusy
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusBusy:
		return StatusBusyStyle
	default:
		return StatusDisconnectedStyle
	}
}
