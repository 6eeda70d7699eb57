package modem

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDialer is returned when a Sender is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNoPortName is returned by SerialDialer when no port is named.
	ErrNoPortName = errors.New("serial port name is required")

	// ErrNotInitialized is returned when the Dialer hands back no Transport.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrNoMessages is returned when Send is called without messages.
	ErrNoMessages = errors.New("no messages to send")

	// ErrInvalidMessage is returned when Send is given a nil message.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrModem is the root of all errors reported by the modem itself.
	//
	// A send is aborted on the first such error. Parts submitted before it
	// are not rolled back.
	ErrModem = errors.New("modem error")

	// ErrLinkClosed is returned when the link stops delivering data while a
	// step still waits for its reply.
	ErrLinkClosed = errors.New("link closed")
)

// ProtocolError reports an error marker in a modem reply.
type ProtocolError struct {
	// Step names the command that was rejected.
	Step string
	// Part and Total locate the message in a multi-part send. Both are
	// zero for the PDU mode command.
	Part, Total int
	// Line is the modem's error line, e.g. "+CMS ERROR: 304".
	Line string
	// Response is everything read in reply to the command.
	Response string
}

func (e *ProtocolError) Error() string {
	if e.Total > 0 {
		return fmt.Sprintf("%s: part %d/%d: %s", e.Step, e.Part, e.Total, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Line)
}

func (e *ProtocolError) Unwrap() error {
	return ErrModem
}
