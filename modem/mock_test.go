package modem_test

import (
	"fmt"
	"io"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/smspdu/modem"
	"i4.energy/across/smspdu/pdu"
)

// MockSequenceBuilder scripts one send on a MockTransport. Each expected
// write queues the modem's reply; the Read expectation hands queued replies
// to the reader goroutine and reports io.EOF once the transport is closed.
type MockSequenceBuilder struct {
	transport *modem.MockTransport
	replies   chan string
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	b := &MockSequenceBuilder{
		transport: transport,
		replies:   make(chan string, 16),
		calls:     []any{},
	}
	transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		resp, ok := <-b.replies
		if !ok {
			return 0, io.EOF
		}
		return copy(p, resp), nil
	}).AnyTimes()
	return b
}

func (b *MockSequenceBuilder) expectWrite(wire, reply string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(wire)).DoAndReturn(func(p []byte) (int, error) {
			b.replies <- reply
			return len(p), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) PDUMode(reply string) *MockSequenceBuilder {
	return b.expectWrite("AT+CMGF=0\r\n", reply)
}

func (b *MockSequenceBuilder) Size(m pdu.Message, reply string) *MockSequenceBuilder {
	return b.expectWrite(fmt.Sprintf("AT+CMGS=%d\r\n", m.Length()), reply)
}

func (b *MockSequenceBuilder) Content(m pdu.Message, reply string) *MockSequenceBuilder {
	return b.expectWrite(m.String()+"\x1A", reply)
}

// Submit scripts a part the modem accepts.
func (b *MockSequenceBuilder) Submit(m pdu.Message) *MockSequenceBuilder {
	return b.Size(m, "\r\n> ").Content(m, "\r\n+CMGS: 12\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Close(err error) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Close().DoAndReturn(func() error {
			close(b.replies)
			return err
		}),
	)
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
