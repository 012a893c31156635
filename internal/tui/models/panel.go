package models

import (
	"errors"
	"fmt"

	servo "github.com/allbin/servo-panel"
	"github.com/allbin/servo-panel/internal/tui/components"
	"github.com/allbin/servo-panel/internal/tui/keys"
	"github.com/allbin/servo-panel/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of servo.Controller the panel drives
type Controller interface {
	ListPorts() ([]string, error)
	Connect(port string) error
	Disconnect()
	Send(ch servo.Channel, angle int) (string, error)
}

var _ Controller = (*servo.Controller)(nil)

type portsMsg struct {
	ports []string
	err   error
}

type connectMsg struct {
	port string
	err  error
}

type disconnectMsg struct{}

type sendMsg struct {
	channel  servo.Channel
	angle    int
	response string
	err      error
}

// PanelModel is the bubbletea model of the control panel.
//
// Controller calls run inside tea.Cmds. While one is in flight the panel
// is busy and refuses to start another, so the controller only ever sees
// one operation at a time. Connection state is tracked from the results
// rather than read from the controller.
type PanelModel struct {
	ctrl      Controller
	wantPort  string
	autoConn  bool
	connected bool
	busy      bool
	quitting  bool
	ready     bool
	width     int
	sliders   []*components.Slider
	focus     int
	picker    *components.PortPicker
	log       *components.ResponseLog
	statusBar *components.StatusBar
	spinner   spinner.Model
	help      help.Model
	keys      keys.PanelKeys
}

// PanelOption configures a PanelModel
type PanelOption func(*PanelModel)

// WithPort preselects port and connects to it on start
func WithPort(port string) PanelOption {
	return func(m *PanelModel) {
		m.wantPort = port
		m.autoConn = port != ""
	}
}

func NewPanelModel(ctrl Controller, link components.LinkInfo, opts ...PanelOption) *PanelModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusBusyStyle

	m := &PanelModel{
		ctrl:      ctrl,
		picker:    components.NewPortPicker(),
		log:       components.NewResponseLog(80, 8),
		statusBar: components.NewStatusBar("SERVO", link),
		spinner:   sp,
		help:      help.New(),
		keys:      keys.NewPanelKeys(),
	}
	for _, ch := range servo.Channels {
		m.sliders = append(m.sliders, components.NewSlider(ch))
	}
	m.sliders[0].Focus()

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *PanelModel) Init() tea.Cmd {
	return m.start("Scanning ports...", m.listPorts())
}

// Connected reports the panel's view of the connection
func (m *PanelModel) Connected() bool {
	return m.connected
}

// Busy reports whether a controller call is in flight
func (m *PanelModel) Busy() bool {
	return m.busy
}

// Slider returns the slider for ch
func (m *PanelModel) Slider(ch servo.Channel) *components.Slider {
	for _, s := range m.sliders {
		if s.Channel() == ch {
			return s
		}
	}
	return nil
}

// Focused returns the channel whose slider has focus
func (m *PanelModel) Focused() servo.Channel {
	return m.sliders[m.focus].Channel()
}

func (m *PanelModel) Picker() *components.PortPicker {
	return m.picker
}

func (m *PanelModel) StatusBar() *components.StatusBar {
	return m.statusBar
}

func (m *PanelModel) Log() *components.ResponseLog {
	return m.log
}

// start marks the panel busy and runs cmd alongside the spinner
func (m *PanelModel) start(status string, cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.statusBar.SetBusy(status)
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *PanelModel) listPorts() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ports, err := ctrl.ListPorts()
		return portsMsg{ports: ports, err: err}
	}
}

func (m *PanelModel) connect(port string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return connectMsg{port: port, err: ctrl.Connect(port)}
	}
}

func (m *PanelModel) disconnect() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Disconnect()
		return disconnectMsg{}
	}
}

func (m *PanelModel) send(ch servo.Channel, angle int) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		response, err := ctrl.Send(ch, angle)
		return sendMsg{channel: ch, angle: angle, response: response, err: err}
	}
}

// finish clears the busy flag; it quits if a quit was requested meanwhile
func (m *PanelModel) finish() tea.Cmd {
	m.busy = false
	if m.quitting {
		return tea.Quit
	}
	return nil
}

func (m *PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.LogMsg:
		m.log.Add(msg)
		return m, nil

	case portsMsg:
		return m, m.handlePorts(msg)

	case connectMsg:
		return m, m.handleConnect(msg)

	case disconnectMsg:
		m.connected = false
		m.statusBar.SetDisconnected("Disconnected", nil)
		return m, m.finish()

	case sendMsg:
		return m, m.handleSend(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.log.Update(msg)
	}

	return m, nil
}

func (m *PanelModel) handlePorts(msg portsMsg) tea.Cmd {
	if msg.err != nil {
		m.statusBar.SetError("Port scan failed", msg.err, m.connected)
		m.autoConn = false
		return m.finish()
	}

	m.picker.SetPorts(msg.ports)
	if m.wantPort != "" {
		m.picker.Select(m.wantPort)
	}

	if m.autoConn && !m.connected && !m.quitting {
		m.autoConn = false
		port := m.wantPort
		return m.start(fmt.Sprintf("Connecting to %s...", port), m.connect(port))
	}

	if m.connected {
		m.statusBar.SetInfo(fmt.Sprintf("Found %d port(s)", m.picker.Len()))
	} else {
		m.statusBar.SetDisconnected(fmt.Sprintf("Found %d port(s), press c to connect", m.picker.Len()), nil)
	}
	return m.finish()
}

func (m *PanelModel) handleConnect(msg connectMsg) tea.Cmd {
	if msg.err != nil {
		m.connected = false
		m.statusBar.SetDisconnected("Failed to connect", msg.err)
		return m.finish()
	}

	m.connected = true
	m.wantPort = msg.port
	m.statusBar.SetConnected(msg.port)
	return m.finish()
}

func (m *PanelModel) handleSend(msg sendMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, servo.ErrTransportFailure):
		m.connected = false
		m.statusBar.SetDisconnected("Connection lost, press c to reconnect", msg.err)
	case errors.Is(msg.err, servo.ErrNotConnected):
		m.connected = false
		m.statusBar.SetDisconnected("No connection", msg.err)
	case msg.err != nil:
		m.statusBar.SetError("Send failed", msg.err, m.connected)
	default:
		m.Slider(msg.channel).MarkSent(servo.ClampAngle(msg.angle))
		reply := msg.response
		if reply == "" {
			reply = "(no reply)"
		}
		m.statusBar.SetInfo(fmt.Sprintf("Servo %s → %d°: %s", msg.channel, servo.ClampAngle(msg.angle), reply))
	}
	return m.finish()
}

func (m *PanelModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.busy {
			m.quitting = true
			return nil
		}
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextChannel):
		m.sliders[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.sliders)
		m.sliders[m.focus].Focus()

	case key.Matches(msg, m.keys.Decrease):
		m.sliders[m.focus].Step(-1)
	case key.Matches(msg, m.keys.Increase):
		m.sliders[m.focus].Step(1)
	case key.Matches(msg, m.keys.DecreaseBig):
		m.sliders[m.focus].Step(-10)
	case key.Matches(msg, m.keys.IncreaseBig):
		m.sliders[m.focus].Step(10)

	case key.Matches(msg, m.keys.Send):
		if m.busy {
			return nil
		}
		if !m.connected {
			m.statusBar.SetDisconnected("No connection", servo.ErrNotConnected)
			return nil
		}
		s := m.sliders[m.focus]
		return m.start(fmt.Sprintf("Setting servo %s to %d°...", s.Channel(), s.Value()), m.send(s.Channel(), s.Value()))

	case key.Matches(msg, m.keys.Connect):
		if m.busy {
			return nil
		}
		if m.connected {
			return m.start("Disconnecting...", m.disconnect())
		}
		port := m.picker.Selected()
		if port == "" {
			m.statusBar.SetDisconnected("No port selected", servo.ErrInvalidPort)
			return nil
		}
		return m.start(fmt.Sprintf("Connecting to %s...", port), m.connect(port))

	case key.Matches(msg, m.keys.PrevPort):
		if !m.connected {
			m.picker.Prev()
			m.wantPort = m.picker.Selected()
		}
	case key.Matches(msg, m.keys.NextPort):
		if !m.connected {
			m.picker.Next()
			m.wantPort = m.picker.Selected()
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return nil
		}
		return m.start("Scanning ports...", m.listPorts())
	}
	return nil
}

func (m *PanelModel) resize(width, height int) {
	m.width = width
	m.ready = true
	for _, s := range m.sliders {
		s.SetWidth(width)
	}
	m.statusBar.SetWidth(width)
	m.help.Width = width

	// title, picker, blank, two sliders of 3 rows, log border, status, help
	logHeight := height - 13
	if logHeight < 3 {
		logHeight = 3
	}
	m.log.SetSize(width, logHeight)
}

func (m *PanelModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := styles.TitleStyle.Render("SERVO CONTROLLER TEST")

	sliders := make([]string, 0, len(m.sliders))
	for _, s := range m.sliders {
		sliders = append(sliders, s.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.picker.View(),
		"",
		lipgloss.JoinVertical(lipgloss.Left, sliders...),
		styles.ContentBorderStyle.Width(m.width).Render(m.log.View()),
		m.statusBar.View(m.spinner.View()),
		m.help.View(m.keys),
	)
}
