package servo

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort records writes and serves queued reply bytes. An empty queue
// behaves like an expired read timeout: (0, nil).
type fakePort struct {
	written  bytes.Buffer
	pending  []byte
	respond  func(command string) string
	writeErr error
	readErr  error
	short    bool
	closed   int
	flushed  int
	reads    int
}

func (p *fakePort) Write(data []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.short {
		p.written.Write(data[:1])
		return 1, nil
	}
	p.written.Write(data)
	if p.respond != nil {
		p.pending = append(p.pending, p.respond(string(data))...)
	}
	return len(data), nil
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.reads++
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.pending) == 0 {
		return 0, nil
	}
	n := copy(buf, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakePort) Close() error {
	p.closed++
	return nil
}

func (p *fakePort) FlushInput() error {
	p.flushed++
	p.pending = nil
	return nil
}

func echo(command string) string {
	return "OK " + command
}

type openCall struct {
	port    string
	baud    int
	timeout time.Duration
}

// newTestController wires a controller to fp and returns the open calls and log hook
func newTestController(t *testing.T, fp *fakePort, ports ...string) (*Controller, *[]openCall, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var calls []openCall
	c := NewController(
		WithLogger(logger),
		WithLister(func() ([]string, error) { return ports, nil }),
		WithOpener(func(port string, baud int, timeout time.Duration) (Port, error) {
			calls = append(calls, openCall{port, baud, timeout})
			return fp, nil
		}),
	)
	return c, &calls, hook
}

func TestNewControllerStartsDisconnected(t *testing.T) {
	c := NewController()
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, c.Port())
	assert.Equal(t, 0, c.Angle(ChannelA))
	assert.Equal(t, 0, c.Angle(ChannelB))
}

func TestListPorts(t *testing.T) {
	c, _, _ := newTestController(t, &fakePort{}, "/dev/ttyACM0", "/dev/ttyUSB0")
	ports, err := c.ListPorts()
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyUSB0"}, ports)

	empty, _, _ := newTestController(t, &fakePort{})
	ports, err = empty.ListPorts()
	require.NoError(t, err)
	assert.Empty(t, ports)
}

func TestListPortsError(t *testing.T) {
	boom := errors.New("no /dev")
	c := NewController(WithLister(func() ([]string, error) { return nil, boom }))
	_, err := c.ListPorts()
	assert.ErrorIs(t, err, boom)
}

func TestConnectUsesFixedLinkParameters(t *testing.T) {
	c, calls, _ := newTestController(t, &fakePort{})
	require.NoError(t, c.Connect("/dev/ttyACM0"))

	require.Len(t, *calls, 1)
	assert.Equal(t, openCall{"/dev/ttyACM0", 9600, time.Second}, (*calls)[0])
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, "/dev/ttyACM0", c.Port())
}

func TestConnectRejectsEmptyPort(t *testing.T) {
	for _, port := range []string{"", "   "} {
		c, calls, _ := newTestController(t, &fakePort{})
		err := c.Connect(port)

		var connErr *ConnectError
		require.ErrorAs(t, err, &connErr)
		assert.ErrorIs(t, err, ErrInvalidPort)
		assert.Empty(t, *calls, "opener must not be called")
		assert.Equal(t, Disconnected, c.State())
	}
}

func TestConnectFailure(t *testing.T) {
	busy := errors.New("serial device already in use")
	c := NewController(
		WithLogger(logrus.New()),
		WithOpener(func(string, int, time.Duration) (Port, error) { return nil, busy }),
	)

	err := c.Connect("/dev/ttyUSB0")
	var connErr *ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "/dev/ttyUSB0", connErr.Port)
	assert.ErrorIs(t, err, busy)
	assert.Equal(t, Disconnected, c.State())
}

func TestConnectWhileConnected(t *testing.T) {
	fp := &fakePort{}
	c, calls, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	err := c.Connect("/dev/ttyUSB1")
	assert.ErrorIs(t, err, ErrAlreadyConnected)
	assert.Len(t, *calls, 1)
	assert.Equal(t, "/dev/ttyUSB0", c.Port())
	assert.Zero(t, fp.closed)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	fp := &fakePort{}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
	assert.Empty(t, c.Port())

	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
	assert.Equal(t, 1, fp.closed, "handle closed exactly once")
}

func TestDisconnectWhenNeverConnected(t *testing.T) {
	c := NewController()
	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
}

func TestSendNotConnected(t *testing.T) {
	fp := &fakePort{respond: echo}
	c, calls, _ := newTestController(t, fp)

	_, err := c.Send(ChannelA, 90)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, *calls)
	assert.Zero(t, fp.written.Len())
	assert.Zero(t, fp.reads)
}

func TestSendInvalidChannel(t *testing.T) {
	fp := &fakePort{respond: echo}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	_, err := c.Send(Channel('C'), 90)
	assert.ErrorIs(t, err, ErrInvalidChannel)
	assert.Zero(t, fp.written.Len())
	assert.Equal(t, Connected, c.State())
}

func TestSendClampsAngle(t *testing.T) {
	tests := []struct {
		channel Channel
		angle   int
		wire    string
		stored  int
	}{
		{ChannelA, -30, "SA:0\n", 0},
		{ChannelB, 181, "SB:180\n", 180},
		{ChannelA, 45, "SA:45\n", 45},
	}

	for _, tt := range tests {
		fp := &fakePort{respond: echo}
		c, _, _ := newTestController(t, fp)
		require.NoError(t, c.Connect("/dev/ttyUSB0"))

		_, err := c.Send(tt.channel, tt.angle)
		require.NoError(t, err)
		assert.Equal(t, tt.wire, fp.written.String())
		assert.Equal(t, tt.stored, c.Angle(tt.channel))
	}
}

func TestSendReturnsReplyAndLogsIt(t *testing.T) {
	fp := &fakePort{respond: func(string) string { return "Servo A -> 90\r\nextra\n" }}
	c, _, hook := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	reply, err := c.Send(ChannelA, 90)
	require.NoError(t, err)
	assert.Equal(t, "Servo A -> 90", reply)
	assert.Equal(t, 1, fp.flushed)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "device response", entry.Message)
	assert.Equal(t, "Servo A -> 90", entry.Data["response"])
	assert.Equal(t, "A", entry.Data["channel"])
	assert.Equal(t, 90, entry.Data["angle"])
}

func TestSendTimeoutReturnsPartialReply(t *testing.T) {
	fp := &fakePort{respond: func(string) string { return "OK" }}
	c, _, hook := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	reply, err := c.Send(ChannelB, 10)
	require.NoError(t, err)
	assert.Equal(t, "OK", reply)
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSendSilentDevice(t *testing.T) {
	fp := &fakePort{}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	reply, err := c.Send(ChannelA, 90)
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, Connected, c.State())
}

// A device streaming bytes without a newline is cut off by the response window
func TestSendResponseWindow(t *testing.T) {
	fp := &fakePort{respond: func(string) string { return "xxxxxxxxxx" }}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	now := time.Unix(0, 0)
	c.now = func() time.Time {
		now = now.Add(300 * time.Millisecond)
		return now
	}

	reply, err := c.Send(ChannelA, 1)
	require.NoError(t, err)
	assert.Equal(t, "xxxx", reply)
}

func TestSendBoundsReplyLength(t *testing.T) {
	fp := &fakePort{respond: func(string) string { return string(bytes.Repeat([]byte("y"), 1000)) }}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	reply, err := c.Send(ChannelA, 1)
	require.NoError(t, err)
	assert.Len(t, reply, maxResponseLen)
}

func TestSendEOFEndsReply(t *testing.T) {
	fp := &fakePort{}
	c, _, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))
	fp.readErr = io.EOF

	reply, err := c.Send(ChannelA, 1)
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, Connected, c.State())
}

func TestSendTransportFailureDemotes(t *testing.T) {
	tests := []struct {
		name string
		port *fakePort
		op   string
	}{
		{"write error", &fakePort{writeErr: errors.New("input/output error")}, "write"},
		{"short write", &fakePort{short: true}, "write"},
		{"read error", &fakePort{readErr: errors.New("device disconnected")}, "read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, tt.port)
			require.NoError(t, c.Connect("/dev/ttyUSB0"))

			_, err := c.Send(ChannelA, 90)
			require.ErrorIs(t, err, ErrTransportFailure)

			var transportErr *TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, tt.op, transportErr.Op)

			assert.Equal(t, Disconnected, c.State())
			assert.Equal(t, 1, tt.port.closed)

			_, err = c.Send(ChannelA, 90)
			assert.ErrorIs(t, err, ErrNotConnected)
		})
	}
}

func TestShortWriteWrapsErrShortWrite(t *testing.T) {
	c, _, _ := newTestController(t, &fakePort{short: true})
	require.NoError(t, c.Connect("/dev/ttyUSB0"))

	_, err := c.Send(ChannelB, 0)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

// Reconnecting after a transport failure restores normal operation
func TestReconnectAfterFailure(t *testing.T) {
	fp := &fakePort{readErr: errors.New("device disconnected")}
	c, calls, _ := newTestController(t, fp)
	require.NoError(t, c.Connect("/dev/ttyUSB0"))
	_, err := c.Send(ChannelA, 90)
	require.Error(t, err)

	fp.readErr = nil
	fp.respond = echo
	require.NoError(t, c.Connect("/dev/ttyUSB0"))
	reply, err := c.Send(ChannelB, 45)
	require.NoError(t, err)
	assert.Equal(t, "OK SB:45", reply)
	assert.Len(t, *calls, 2)
}

func TestScenarioDiscoverConnectSendDisconnect(t *testing.T) {
	fp := &fakePort{respond: func(command string) string { return command }}
	c, _, _ := newTestController(t, fp, "COM1", "COM3")

	ports, err := c.ListPorts()
	require.NoError(t, err)
	require.Contains(t, ports, "COM3")

	require.NoError(t, c.Connect("COM3"))

	reply, err := c.Send(ChannelA, 90)
	require.NoError(t, err)
	assert.Equal(t, "SA:90\n", fp.written.String())
	assert.Equal(t, "SA:90", reply)
	assert.Equal(t, 90, c.Angle(ChannelA))

	c.Disconnect()
	assert.Equal(t, Disconnected, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "disconnected", Disconnected.String())
}
