package servo

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/allbin/servo-panel/internal/serial"
)

// Link parameters. They are fixed for the life of the process.
const (
	BaudRate    = 9600
	ReadTimeout = time.Second
)

// maxResponseLen bounds a reply from a device that never sends a newline
const maxResponseLen = 256

// State is the connection state of a Controller
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Port is the transport a Controller drives. serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
}

// inputFlusher is implemented by ports that can drop unread input
type inputFlusher interface {
	FlushInput() error
}

// Opener opens a port at the given baud rate and per-read timeout
type Opener func(port string, baudRate int, readTimeout time.Duration) (Port, error)

// Lister enumerates the ports currently attached to the host
type Lister func() ([]string, error)

// Option is a functional option for configuring a Controller
type Option func(*Controller)

// WithOpener replaces the serial device opener
func WithOpener(open Opener) Option {
	return func(c *Controller) {
		c.open = open
	}
}

// WithLister replaces the port enumerator
func WithLister(list Lister) Option {
	return func(c *Controller) {
		c.list = list
	}
}

// WithLogger sets the diagnostic sink for replies and lifecycle events
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// openSerial opens a termios serial port for the servo link
func openSerial(port string, baudRate int, readTimeout time.Duration) (Port, error) {
	return serial.Open(port,
		serial.WithBaudRate(baudRate),
		serial.WithReadTimeout(readTimeout),
	)
}

// Controller owns the one serial handle used to command the servos.
// It is not safe for concurrent use; callers issue one operation at a time.
type Controller struct {
	open Opener
	list Lister
	log  logrus.FieldLogger
	now  func() time.Time

	port     Port
	portName string
	angles   map[Channel]int
}

// NewController returns a disconnected Controller
func NewController(opts ...Option) *Controller {
	c := &Controller{
		open:   openSerial,
		list:   serial.ListPorts,
		log:    logrus.StandardLogger(),
		now:    time.Now,
		angles: make(map[Channel]int, len(Channels)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPorts returns the currently attached serial ports. The result may be
// empty and can change between calls.
func (c *Controller) ListPorts() ([]string, error) {
	ports, err := c.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	return ports, nil
}

// State returns Connected while a handle is held
func (c *Controller) State() State {
	if c.port == nil {
		return Disconnected
	}
	return Connected
}

// Port returns the connected port identifier, or "" when disconnected
func (c *Controller) Port() string {
	return c.portName
}

// Angle returns the last angle transmitted on ch
func (c *Controller) Angle(ch Channel) int {
	return c.angles[ch]
}

// Connect opens port at 9600 baud with a one second read timeout.
func (c *Controller) Connect(port string) error {
	if c.port != nil {
		return ErrAlreadyConnected
	}
	if strings.TrimSpace(port) == "" {
		return &ConnectError{Port: port, Err: ErrInvalidPort}
	}

	p, err := c.open(port, BaudRate, ReadTimeout)
	if err != nil {
		c.log.WithError(err).WithField("port", port).Warn("connect failed")
		return &ConnectError{Port: port, Err: err}
	}

	c.port = p
	c.portName = port
	c.log.WithField("port", port).Info("connected")
	return nil
}

// Disconnect releases the handle. Calling it while disconnected does nothing.
func (c *Controller) Disconnect() {
	if c.port == nil {
		return
	}
	c.release()
	c.log.Info("disconnected")
}

// release closes and forgets the current handle
func (c *Controller) release() {
	if err := c.port.Close(); err != nil {
		c.log.WithError(err).WithField("port", c.portName).Warn("close failed")
	}
	c.port = nil
	c.portName = ""
}

// Send moves ch to angle and returns the device's reply line.
//
// The angle is clamped to [MinAngle, MaxAngle]. A reply that does not
// arrive within ReadTimeout is returned as whatever was received, possibly
// "". A write or read error closes the connection and returns a
// *TransportError; the caller must Connect again before the next Send.
func (c *Controller) Send(ch Channel, angle int) (string, error) {
	if c.port == nil {
		return "", ErrNotConnected
	}
	if !ch.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, ch)
	}

	angle = ClampAngle(angle)
	command := FormatCommand(ch, angle)
	log := c.log.WithFields(logrus.Fields{
		"port":    c.portName,
		"channel": ch.String(),
		"angle":   angle,
	})

	// A late reply to an earlier command must not be read as this one's
	if f, ok := c.port.(inputFlusher); ok {
		if err := f.FlushInput(); err != nil {
			log.WithError(err).Debug("flush input failed")
		}
	}

	n, err := c.port.Write([]byte(command))
	if err == nil && n < len(command) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return "", c.fail(log, "write", err)
	}
	c.angles[ch] = angle

	response, complete, err := c.readLine()
	if err != nil {
		return "", c.fail(log, "read", err)
	}
	if !complete {
		log.WithField("response", response).Warn("no complete response before timeout")
		return response, nil
	}

	log.WithField("response", response).Info("device response")
	return response, nil
}

// fail demotes the controller to Disconnected after a transport error
func (c *Controller) fail(log logrus.FieldLogger, op string, err error) error {
	log.WithError(err).Errorf("%s failed, connection closed", op)
	c.release()
	return &TransportError{Op: op, Err: err}
}

// readLine reads one newline-terminated reply a byte at a time so nothing
// after the newline is consumed. complete is false when the read timeout or
// response window ran out first.
func (c *Controller) readLine() (string, bool, error) {
	var (
		data     []byte
		buf      = make([]byte, 1)
		deadline = c.now().Add(ReadTimeout)
	)

	for len(data) < maxResponseLen {
		n, err := c.port.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return decodeResponse(data), true, nil
			}
			data = append(data, buf[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", false, err
		}
		if n == 0 || !c.now().Before(deadline) {
			break
		}
	}
	return decodeResponse(data), false, nil
}

// decodeResponse turns raw reply bytes into display text
func decodeResponse(data []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(data), "\uFFFD"))
}
