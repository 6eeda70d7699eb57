package modem

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/warthog618/modem/trace"
	"go.bug.st/serial"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=modem

// Transport represents an established, bidirectional byte stream to a GSM modem.
//
// A Transport is assumed to be already connected and ready for use. It provides
// the low-level I/O primitives required to send AT commands and receive responses.
// Typical implementations include serial ports, TCP connections to emulators,
// or in-memory fakes used for testing.
//
// Close must unblock a pending Read.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport to a GSM modem.
//
// Dialer abstracts how the modem connection is created (for example, via a
// serial port, TCP-based emulator, or test double). A Sender dials once per
// Send and closes the Transport when the send is over.
type Dialer interface {
	// Dial is responsible for creating and returning a connected Transport. It may
	// perform blocking operations and should respect cancellation and deadlines
	// provided by the context. Dial returns an error if the transport cannot be
	// established.
	Dial(ctx context.Context) (Transport, error)
}

// Validator is implemented by Dialers that can check their settings before
// the first Dial. NewSender and ConfigBuilder.Build call it.
type Validator interface {
	Validate() error
}

const (
	// DefaultBaudRate is used when SerialDialer names neither a baud rate
	// nor a mode.
	DefaultBaudRate = 115200

	// DefaultSettle is how long SerialDialer waits after opening the port
	// before handing it out. Modems commonly need time after the port and
	// DTR are asserted.
	DefaultSettle = 500 * time.Millisecond
)

// SerialDialer opens a GSM modem over a serial port using go.bug.st/serial.
type SerialDialer struct {
	// PortName is the device, e.g. "/dev/ttyUSB0" or "COM3".
	PortName string
	// BaudRate defaults to DefaultBaudRate. Ignored when Mode is set.
	BaudRate int
	// Mode overrides the default 8N1 line settings.
	Mode *serial.Mode
	// Settle defaults to DefaultSettle. A negative value disables it.
	Settle time.Duration
	// Trace, when set, receives every byte read from and written to the
	// port.
	Trace *log.Logger
}

func (d SerialDialer) mode() *serial.Mode {
	if d.Mode != nil {
		return d.Mode
	}
	baud := d.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
}

func (d SerialDialer) settle() time.Duration {
	if d.Settle == 0 {
		return DefaultSettle
	}
	return max(d.Settle, 0)
}

// Validate reports ErrNoPortName when no port is named.
func (d SerialDialer) Validate() error {
	if d.PortName == "" {
		return ErrNoPortName
	}
	return nil
}

// Dial opens the port and waits for the modem to settle.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := serial.Open(d.PortName, d.mode())
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}

	if wait := d.settle(); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			port.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if d.Trace != nil {
		return tracedPort{
			ReadWriter: trace.New(port, trace.WithLogger(d.Trace)),
			Closer:     port,
		}, nil
	}
	return port, nil
}

// tracedPort logs traffic through the tracer and closes the port beneath.
type tracedPort struct {
	io.ReadWriter
	io.Closer
}
