// Package servo drives a two-channel servo board over a serial link.
//
// A Controller owns at most one open port. Commands are single text lines
// of the form S<channel>:<angle>\n and each is answered by one text line
// from the device, which is passed through untouched.
//
// # Basic Usage
//
//	ctrl := servo.NewController()
//	ports, err := ctrl.ListPorts()
//	if err != nil || len(ports) == 0 {
//	    log.Fatal("no serial ports")
//	}
//	if err := ctrl.Connect(ports[0]); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Disconnect()
//
//	reply, err := ctrl.Send(servo.ChannelA, 90) // writes "SA:90\n"
//
// # Link Parameters
//
// The link always runs at 9600 baud, 8N1, with a one second read timeout.
// A reply that does not arrive in time is returned as whatever was read,
// possibly empty, without an error.
//
// # Error Handling
//
//	var (
//	    ErrNotConnected     // Send without an open connection
//	    ErrAlreadyConnected // Connect while connected
//	    ErrInvalidPort      // empty port identifier
//	    ErrInvalidChannel   // channel other than A or B
//	    ErrTransportFailure // write or read failed; the connection is closed
//	)
//
// Connect failures are returned as *ConnectError and wrap the transport's
// reason (device missing, busy, or permission denied). Use errors.Is:
//
//	if errors.Is(err, servo.ErrTransportFailure) {
//	    // prompt the operator to reconnect
//	}
//
// No operation is retried automatically.
package servo
