package modem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"i4.energy/across/smspdu/at"
)

const readBufferSize = 256

// link owns a Transport for the duration of one send. A single reader
// goroutine hands inbound chunks to the one waiting command.
type link struct {
	transport Transport
	chunks    chan []byte
	readErr   chan error
	done      chan struct{}
	wg        sync.WaitGroup
	err       error
}

func newLink(t Transport) *link {
	l := &link{
		transport: t,
		chunks:    make(chan []byte),
		readErr:   make(chan error, 1),
		done:      make(chan struct{}),
	}
	l.wg.Add(1)
	go l.readLoop()
	return l
}

func (l *link) readLoop() {
	defer l.wg.Done()
	buf := make([]byte, readBufferSize)
	for {
		n, err := l.transport.Read(buf)
		if n > 0 {
			select {
			case l.chunks <- bytes.Clone(buf[:n]):
			case <-l.done:
				return
			}
		}
		if err != nil {
			select {
			case l.readErr <- err:
			case <-l.done:
			}
			return
		}
	}
}

func (l *link) write(s string) error {
	_, err := io.WriteString(l.transport, s)
	return err
}

// await reads until the response carries expect or an error marker. trace
// sees the accumulated response after every chunk.
func (l *link) await(ctx context.Context, expect string, trace func(string, at.Result)) (string, at.Result, error) {
	var resp strings.Builder
	for {
		if l.err != nil {
			return resp.String(), at.Pending, l.err
		}
		select {
		case <-ctx.Done():
			return resp.String(), at.Pending, ctx.Err()
		case err := <-l.readErr:
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("%w: %w", ErrLinkClosed, err)
			}
			l.err = err
		case chunk := <-l.chunks:
			resp.Write(chunk)
			r := at.Match(resp.String(), expect)
			trace(resp.String(), r)
			if r != at.Pending {
				return resp.String(), r, nil
			}
		}
	}
}

// close releases the Transport and waits for the reader to stop.
func (l *link) close() error {
	close(l.done)
	err := l.transport.Close()
	l.wg.Wait()
	return err
}
