package components

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/allbin/servo-panel/internal/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// maxLogLines bounds the log history kept in memory
const maxLogLines = 500

// LogMsg carries one controller diagnostic into the panel
type LogMsg struct {
	Time    time.Time
	Level   logrus.Level
	Message string
	Fields  logrus.Fields
}

// NewLogMsg copies a logrus entry into a message safe to hand to the program
func NewLogMsg(entry *logrus.Entry) LogMsg {
	fields := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}
	return LogMsg{
		Time:    entry.Time,
		Level:   entry.Level,
		Message: entry.Message,
		Fields:  fields,
	}
}

// ResponseLog shows device replies and lifecycle events, newest at the bottom
type ResponseLog struct {
	viewport viewport.Model
	lines    []string
}

func NewResponseLog(width, height int) *ResponseLog {
	return &ResponseLog{
		viewport: viewport.New(width, height),
	}
}

func (l *ResponseLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
}

// Add appends a formatted entry and scrolls to it
func (l *ResponseLog) Add(msg LogMsg) {
	l.lines = append(l.lines, FormatLogMsg(msg))
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
	l.refresh()
}

func (l *ResponseLog) Lines() []string {
	return l.lines
}

func (l *ResponseLog) refresh() {
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	l.viewport.GotoBottom()
}

func (l *ResponseLog) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

func (l *ResponseLog) View() string {
	return l.viewport.View()
}

// FormatLogMsg renders "15:04:05 INFO message key=value ..." with keys sorted
func FormatLogMsg(msg LogMsg) string {
	var b strings.Builder
	b.WriteString(styles.LogTimeStyle.Render(msg.Time.Format("15:04:05")))
	b.WriteByte(' ')

	level := strings.ToUpper(msg.Level.String())
	switch {
	case msg.Level <= logrus.ErrorLevel:
		level = styles.ErrorStyle.Render(level)
	case msg.Level == logrus.WarnLevel:
		level = styles.StatusBusyStyle.Render(level)
	default:
		level = styles.StatusConnectedStyle.Render(level)
	}
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg.Message)

	keys := make([]string, 0, len(msg.Fields))
	for k := range msg.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(styles.LogFieldStyle.Render(fmt.Sprintf("%s=%v", k, msg.Fields[k])))
	}
	return b.String()
}
