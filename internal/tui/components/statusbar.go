package components

import (
	"fmt"

	"github.com/allbin/servo-panel/internal/serial"
	"github.com/allbin/servo-panel/internal/tui/colors"
	"github.com/allbin/servo-panel/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// LinkInfo describes the fixed framing of the servo link
type LinkInfo struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   serial.Parity
}

func (li LinkInfo) String() string {
	return fmt.Sprintf("%d baud %d%s%d", li.BaudRate, li.DataBits, li.Parity, li.StopBits)
}

type StatusBar struct {
	title    string
	portPath string
	status   string
	state    styles.StatusType
	err      error
	width    int
	link     LinkInfo
}

func NewStatusBar(title string, link LinkInfo) *StatusBar {
	return &StatusBar{
		title:  title,
		status: "Disconnected",
		state:  styles.StatusDisconnected,
		link:   link,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func (sb *StatusBar) Err() error {
	return sb.err
}

func (sb *StatusBar) SetBusy(status string) {
	sb.status = status
	sb.state = styles.StatusBusy
	sb.err = nil
}

func (sb *StatusBar) SetConnected(portPath string) {
	sb.portPath = portPath
	sb.status = "Connected"
	sb.state = styles.StatusConnected
	sb.err = nil
}

// SetInfo shows a message while keeping the connection indicator
func (sb *StatusBar) SetInfo(status string) {
	sb.status = status
	if sb.state == styles.StatusBusy {
		sb.state = styles.StatusConnected
	}
	sb.err = nil
}

// SetDisconnected shows a plain disconnect, or the reason when err is set
func (sb *StatusBar) SetDisconnected(status string, err error) {
	sb.portPath = ""
	sb.status = status
	sb.state = styles.StatusDisconnected
	sb.err = err
	if err != nil {
		sb.state = styles.StatusError
	}
}

// SetError reports a failure that left the connection state unchanged
func (sb *StatusBar) SetError(status string, err error, connected bool) {
	sb.status = status
	sb.err = err
	if connected {
		sb.state = styles.StatusConnected
	} else {
		sb.state = styles.StatusDisconnected
	}
}

func (sb *StatusBar) View(spinner string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	title := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.title)

	indicator := "○"
	switch sb.state {
	case styles.StatusConnected:
		indicator = "●"
	case styles.StatusBusy:
		indicator = spinner
	case styles.StatusError:
		indicator = "✗"
	}
	indicator = styles.GetStatusStyle(sb.state).Padding(0, 1).Render(indicator)

	message := sb.status
	if sb.err != nil {
		message = fmt.Sprintf("%s: %v", sb.status, sb.err)
	}
	messageStyle := lipgloss.NewStyle().Foreground(colors.Text).Padding(0, 1)
	if sb.err != nil {
		messageStyle = messageStyle.Foreground(colors.Red)
	}

	left := lipgloss.JoinHorizontal(lipgloss.Left, title, indicator, messageStyle.Render(message))

	right := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("%s │ %s", orNone(sb.portPath), sb.link))

	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}

func orNone(s string) string {
	if s == "" {
		return "no port"
	}
	return s
}
