package modem

import (
	"context"
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking transport using channels.
// Reads block until data is queued, like a real serial port would, and
// Close unblocks them with io.EOF.
//
// When Reply is set, every write is recorded and answered with the chunks
// it returns.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	done     chan struct{}
	closed   bool
	writes   []string

	Reply func(write string) []string
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport(reply func(write string) []string) *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 64),
		done:     make(chan struct{}),
		Reply:    reply,
	}
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	t.writes = append(t.writes, string(p))
	t.mu.Unlock()

	if t.Reply != nil {
		for _, chunk := range t.Reply(string(p)) {
			t.SendData(chunk)
		}
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	select {
	case <-t.done:
		return 0, io.EOF
	default:
	}
	select {
	case data := <-t.readChan:
		return copy(p, data), nil
	case <-t.done:
		return 0, io.EOF
	}
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates receiving data from the modem. It blocks while the queue
// is full and gives up once the transport is closed.
func (t *TestTransport) SendData(data string) {
	select {
	case t.readChan <- []byte(data):
	case <-t.done:
	}
}

// Writes returns everything written so far, one entry per Write.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

// Closed reports whether Close was called.
func (t *TestTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Dial returns t itself, so a TestTransport doubles as its own Dialer.
func (t *TestTransport) Dial(ctx context.Context) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
