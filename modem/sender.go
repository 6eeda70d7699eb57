package modem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"i4.energy/across/smspdu/at"
	"i4.energy/across/smspdu/pdu"
)

// State is the position of a Sender in the submission protocol.
type State int32

const (
	StateClosed State = iota
	StateOpening
	StateModeSet
	StateSendingSize
	StateSendingContent
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateModeSet:
		return "mode-set"
	case StateSendingSize:
		return "sending-size"
	case StateSendingContent:
		return "sending-content"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Step names used in errors and logs.
const (
	stepPDUMode = "set PDU mode"
	stepSize    = "set size"
	stepContent = "set content"
)

// Sender submits PDU messages through a modem in PDU mode.
//
// Every Send opens the link, switches the modem to PDU mode and then, for
// each message in order, announces the length with AT+CMGS and writes the
// PDU once the modem prompts for it. The first error marker in a reply
// aborts the send; nothing is retried. The link is closed when Send
// returns.
//
// Sends on one Sender are serialized.
type Sender struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger
	state  atomic.Int32
}

// NewSender creates a Sender. The link is not opened until Send.
func NewSender(config Config) (*Sender, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()
	return &Sender{
		config: config,
		logger: config.logger,
	}, nil
}

// State returns the current protocol state.
func (s *Sender) State() State {
	return State(s.state.Load())
}

func (s *Sender) setState(st State) {
	if prev := State(s.state.Swap(int32(st))); prev != st {
		s.logger.Debug("state change", "from", prev, "to", st)
	}
}

// step is one command and the marker its reply must carry.
type step struct {
	name        string
	state       State
	wire        string
	expect      string
	part, total int
}

// Send submits msgs in order and returns once the modem has confirmed the
// last one, or on the first failure.
//
// Send blocks until each reply arrives; ctx and the configured step timeout
// bound the wait. Errors reported by the modem are *ProtocolError values
// wrapping ErrModem.
func (s *Sender) Send(ctx context.Context, msgs ...pdu.Message) (err error) {
	if len(msgs) == 0 {
		return ErrNoMessages
	}
	for i, m := range msgs {
		if m == nil {
			return fmt.Errorf("message %d: %w", i+1, ErrInvalidMessage)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(StateOpening)
	transport, err := s.config.dialer.Dial(ctx)
	if err != nil {
		s.setState(StateClosed)
		return fmt.Errorf("open link: %w", err)
	}
	if transport == nil {
		s.setState(StateClosed)
		return ErrNotInitialized
	}

	l := newLink(transport)
	defer func() {
		cerr := l.close()
		s.setState(StateClosed)
		if err == nil && cerr != nil {
			err = fmt.Errorf("close link: %w", cerr)
		}
	}()

	if err := s.exec(ctx, l, step{
		name:   stepPDUMode,
		state:  StateModeSet,
		wire:   at.CmdPDUMode + at.CRLF,
		expect: at.MarkerOK,
	}); err != nil {
		return err
	}

	total := len(msgs)
	for i, m := range msgs {
		part := i + 1
		if err := s.exec(ctx, l, step{
			name:   stepSize,
			state:  StateSendingSize,
			wire:   fmt.Sprintf(at.CmdSendPDU, m.Length()) + at.CRLF,
			expect: at.MarkerPrompt,
			part:   part,
			total:  total,
		}); err != nil {
			return err
		}
		if err := s.exec(ctx, l, step{
			name:   stepContent,
			state:  StateSendingContent,
			wire:   m.String() + at.CtrlZ,
			expect: at.MarkerSubmitted,
			part:   part,
			total:  total,
		}); err != nil {
			return err
		}
		s.logger.Info("message part submitted", "number", m.Number(), "part", part, "total", total, "length", m.Length())
	}
	return nil
}

// exec writes one command and waits for its reply.
func (s *Sender) exec(ctx context.Context, l *link, st step) error {
	s.setState(st.state)

	if s.config.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.stepTimeout)
		defer cancel()
	}

	log := s.logger.With("step", st.name)
	if st.total > 0 {
		log = log.With("part", st.part, "total", st.total)
	}

	if err := l.write(st.wire); err != nil {
		return s.wrap(st, fmt.Errorf("write: %w", err))
	}

	resp, result, err := l.await(ctx, st.expect, func(resp string, r at.Result) {
		log.Debug("modem response", "expect", st.expect, "result", r, "response", strings.TrimSpace(resp))
	})
	if err != nil {
		return s.wrap(st, err)
	}
	if result == at.Rejected {
		perr := &ProtocolError{
			Step:     st.name,
			Part:     st.part,
			Total:    st.total,
			Line:     at.ErrorLine(resp),
			Response: resp,
		}
		log.Warn("modem rejected command", "error", perr.Line)
		return perr
	}
	return nil
}

func (s *Sender) wrap(st step, err error) error {
	if st.total > 0 {
		return fmt.Errorf("%s: part %d/%d: %w", st.name, st.part, st.total, err)
	}
	return fmt.Errorf("%s: %w", st.name, err)
}
