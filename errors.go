package servo

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrNotConnected     = errors.New("no serial connection")
	ErrAlreadyConnected = errors.New("already connected, disconnect first")
	ErrInvalidPort      = errors.New("invalid port identifier")
	ErrInvalidChannel   = errors.New("invalid servo channel")
	ErrTransportFailure = errors.New("serial transport failure")
)

// ConnectError reports a failed attempt to open a port
type ConnectError struct {
	Port string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %q: %v", e.Port, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// TransportError reports a write or read that failed mid-command.
// The connection it happened on has already been closed.
type TransportError struct {
	Op  string // "write" or "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s command: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes every TransportError match ErrTransportFailure
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}
