// Package pdu encodes short text messages into the SMS-SUBMIT PDU hex
// format accepted by GSM modems in PDU mode (AT+CMGF=0).
//
// Only the GSM-7 default alphabet is supported. Text longer than one
// message is split into concatenated parts with an 8-bit reference user
// data header.
package pdu

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// MaxSimpleLength is the number of characters one simple message holds.
	MaxSimpleLength = 160
	// MaxPartLength is the number of characters one concatenated part
	// holds; seven septets are taken by the user data header.
	MaxPartLength = 153
	// MaxParts is the largest number of parts for one concatenated message.
	MaxParts = 255
)

// Fixed octets of every PDU produced by this package.
const (
	smscLength       = 0x00 // use the SMSC stored in the modem
	messageReference = 0x00 // assigned by the modem
	protocolID       = 0x00
	dataCodingGSM7   = 0x00

	headerSubmit     = 0x01 // SMS-SUBMIT
	headerSubmitUDHI = 0x41 // SMS-SUBMIT with user data header

	udhSeptets   = 7 // 6 header octets plus one fill bit
	udhFillBits  = 1
	udhConcat8   = "050003"
	headerLength = 1 // the SMSC length octet is not counted by AT+CMGS
)

// Kind tells simple messages apart from concatenated parts.
type Kind int

const (
	Simple Kind = iota + 1
	ConcatenatedPart
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case ConcatenatedPart:
		return "concatenated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Concat is the concatenation metadata of one part.
type Concat struct {
	// Reference is shared by all parts of one logical message.
	Reference byte
	// Part is the 1-based index of this part.
	Part int
	// Total is the number of parts.
	Total int
}

func (c Concat) validate() error {
	if c.Total < 1 || c.Total > MaxParts {
		return fmt.Errorf("%w: total %d not in [1, %d]", ErrInvalidPart, c.Total, MaxParts)
	}
	if c.Part < 1 || c.Part > c.Total {
		return fmt.Errorf("%w: part %d not in [1, %d]", ErrInvalidPart, c.Part, c.Total)
	}
	return nil
}

// Message is one wire-ready SMS-SUBMIT unit: either a simple message or
// one part of a concatenated message, as told by Kind. Messages are
// immutable and only this package implements Message; use NewMessage,
// NewPart, Split or Encode to create one.
type Message interface {
	// Kind returns the message kind.
	Kind() Kind
	// Number returns the destination digits without a leading '+'.
	Number() string
	// Text returns the message text.
	Text() string
	// EncodedNumber returns the destination address field in hex.
	EncodedNumber() string
	// EncodedText returns the packed GSM-7 text in hex, without the user
	// data header.
	EncodedText() string
	// Concatenation returns the concatenation metadata, or
	// ErrNotConcatenated for a simple message.
	Concatenation() (Concat, error)
	// UserDataLength is the TP-UDL value: the number of septets, including
	// the seven taken by the user data header of a concatenated part.
	UserDataLength() int
	// String renders the PDU as the uppercase hex string written after the
	// AT+CMGS prompt.
	String() string
	// MarshalBinary returns the PDU octets, SMSC length octet included.
	MarshalBinary() ([]byte, error)
	// Length is the octet count announced with AT+CMGS. It excludes the
	// SMSC length octet.
	Length() int

	header() byte
	userDataHeader() string
}

// body holds what simple messages and parts have in common.
type body struct {
	number        string
	text          string
	encodedNumber string
	encodedText   string
	septets       int
}

func (b body) Number() string { return b.number }
func (b body) Text() string { return b.text }
func (b body) EncodedNumber() string { return b.encodedNumber }
func (b body) EncodedText() string { return b.encodedText }

type simple struct {
	body
}

func (simple) Kind() Kind { return Simple }
func (simple) header() byte { return headerSubmit }
func (simple) userDataHeader() string { return "" }
func (simple) Concatenation() (Concat, error) { return Concat{}, ErrNotConcatenated }
func (m simple) UserDataLength() int { return m.septets }
func (m simple) String() string { return render(m) }
func (m simple) MarshalBinary() ([]byte, error) { return hex.DecodeString(render(m)) }
func (m simple) Length() int { return length(m) }

type part struct {
	body
	concat Concat
}

func (part) Kind() Kind { return ConcatenatedPart }
func (part) header() byte { return headerSubmitUDHI }
func (m part) Concatenation() (Concat, error) { return m.concat, nil }
func (m part) UserDataLength() int { return m.septets + udhSeptets }
func (m part) String() string { return render(m) }
func (m part) MarshalBinary() ([]byte, error) { return hex.DecodeString(render(m)) }
func (m part) Length() int { return length(m) }

func (m part) userDataHeader() string {
	return fmt.Sprintf("%s%02X%02X%02X", udhConcat8, m.concat.Reference, m.concat.Total, m.concat.Part)
}

// NewMessage creates a simple message of at most MaxSimpleLength
// characters.
func NewMessage(number, text string) (Message, error) {
	b, err := newBody(number, text, MaxSimpleLength, 0)
	if err != nil {
		return nil, err
	}
	return simple{b}, nil
}

// NewPart creates one part of a concatenated message. The text holds at
// most MaxPartLength characters.
func NewPart(number, text string, c Concat) (Message, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	b, err := newBody(number, text, MaxPartLength, udhFillBits)
	if err != nil {
		return nil, err
	}
	return part{body: b, concat: c}, nil
}

func newBody(number, text string, limit, fillBits int) (body, error) {
	digits, err := normalizeNumber(number)
	if err != nil {
		return body{}, err
	}
	if text == "" {
		return body{}, ErrEmptyText
	}
	septets, err := Septets(text)
	if err != nil {
		return body{}, err
	}
	if len(septets) > limit {
		return body{}, fmt.Errorf("%w: %d characters, %s holds %d", ErrTextTooLong, len(septets), holder(limit), limit)
	}
	encodedNumber, err := encodeDigits(digits)
	if err != nil {
		return body{}, err
	}
	return body{
		number:        digits,
		text:          text,
		encodedNumber: encodedNumber,
		encodedText:   strings.ToUpper(hex.EncodeToString(Pack(septets, fillBits))),
		septets:       len(septets),
	}, nil
}

func holder(limit int) string {
	if limit == MaxPartLength {
		return "concatenated part"
	}
	return "simple message"
}

func render(m Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02X%02X%02X", smscLength, m.header(), messageReference)
	b.WriteString(m.EncodedNumber())
	fmt.Fprintf(&b, "%02X%02X%02X", protocolID, dataCodingGSM7, m.UserDataLength())
	b.WriteString(m.userDataHeader())
	b.WriteString(m.EncodedText())
	return b.String()
}

func length(m Message) int {
	return len(render(m))/2 - headerLength
}
