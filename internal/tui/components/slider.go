package components

import (
	"fmt"
	"strings"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

const minTrackWidth = 10

// Slider selects an angle for one servo channel. The value only reaches
// the device when the panel sends it.
type Slider struct {
	channel servo.Channel
	value   int
	sent    int
	hasSent bool
	focused bool
	width   int
}

func NewSlider(channel servo.Channel) *Slider {
	return &Slider{
		channel: channel,
		width:   40,
	}
}

func (s *Slider) Channel() servo.Channel {
	return s.channel
}

func (s *Slider) Value() int {
	return s.value
}

// SetValue moves the knob, clamped to the servo range
func (s *Slider) SetValue(angle int) {
	s.value = servo.ClampAngle(angle)
}

// Step moves the knob by delta degrees, clamped to the servo range
func (s *Slider) Step(delta int) {
	s.SetValue(s.value + delta)
}

// MarkSent records the angle last transmitted for this channel
func (s *Slider) MarkSent(angle int) {
	s.sent = angle
	s.hasSent = true
}

func (s *Slider) Focus() {
	s.focused = true
}

func (s *Slider) Blur() {
	s.focused = false
}

func (s *Slider) Focused() bool {
	return s.focused
}

// SetWidth sets the total rendered width including border and labels
func (s *Slider) SetWidth(width int) {
	s.width = width
}

func (s *Slider) trackWidth() int {
	// label (8) + value (5) + sent note (12) + border/padding (4)
	w := s.width - 29
	if w < minTrackWidth {
		w = minTrackWidth
	}
	return w
}

func (s *Slider) View() string {
	accent := styles.ChannelStyle(s.channel.String())
	track := s.trackWidth()
	filled := s.value * track / servo.MaxAngle

	bar := accent.Render(strings.Repeat("━", filled)) +
		accent.Bold(true).Render("●") +
		styles.SliderEmptyStyle.Render(strings.Repeat("─", track-filled))

	label := accent.Bold(true).Render(fmt.Sprintf("Servo %s", s.channel))
	value := fmt.Sprintf("%4d°", s.value)

	note := styles.LabelStyle.Render("not sent")
	if s.hasSent {
		note = styles.LabelStyle.Render(fmt.Sprintf("sent %d°", s.sent))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Width(8).Render(label),
		bar,
		value,
		lipgloss.NewStyle().Width(12).PaddingLeft(2).Render(note),
	)

	if s.focused {
		return styles.SliderFocusedStyle.Render(row)
	}
	return styles.SliderBlurredStyle.Render(row)
}
