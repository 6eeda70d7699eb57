package pdu_test

import (
	"errors"
	"strings"
	"testing"

	"i4.energy/across/smspdu/pdu"
)

func TestNewMessage(t *testing.T) {
	t.Run("Hello World", func(t *testing.T) {
		m, err := pdu.NewMessage("13052345678", "Hello World!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Kind() != pdu.Simple {
			t.Errorf("expected simple message, got %v", m.Kind())
		}
		if m.UserDataLength() != 12 {
			t.Errorf("expected septet count 12, got %d", m.UserDataLength())
		}
		if !strings.HasPrefix(m.EncodedNumber(), "0B91") {
			t.Errorf("expected number field to start with 0B91, got %s", m.EncodedNumber())
		}

		expected := "0001000B913150325476F800000CC8329BFD065DDF72363904"
		if m.String() != expected {
			t.Errorf("expected %s, got %s", expected, m.String())
		}
		if m.Length() != 24 {
			t.Errorf("expected length 24, got %d", m.Length())
		}

		raw, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("unexpected marshal error: %v", err)
		}
		if len(raw) != m.Length()+1 {
			t.Errorf("expected %d octets, got %d", m.Length()+1, len(raw))
		}
	})

	t.Run("Exactly 160 characters", func(t *testing.T) {
		m, err := pdu.NewMessage("13052345678", strings.Repeat("a", 160))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.UserDataLength() != 160 {
			t.Errorf("expected septet count 160, got %d", m.UserDataLength())
		}
		// 160 septets pack into 140 octets
		if m.Length() != 13+140 {
			t.Errorf("expected length %d, got %d", 13+140, m.Length())
		}
	})

	t.Run("Concatenation fields are an error on simple messages", func(t *testing.T) {
		m, err := pdu.NewMessage("13052345678", "hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := m.Concatenation(); !errors.Is(err, pdu.ErrNotConcatenated) {
			t.Errorf("expected ErrNotConcatenated, got: %v", err)
		}
	})

	errorTests := []struct {
		name     string
		number   string
		text     string
		expected error
	}{
		{name: "Empty text", number: "13052345678", text: "", expected: pdu.ErrEmptyText},
		{name: "161 characters", number: "13052345678", text: strings.Repeat("a", 161), expected: pdu.ErrTextTooLong},
		{name: "CJK character", number: "13052345678", text: "你好", expected: pdu.ErrUnsupportedChar},
		{name: "Bad number", number: "0800-FLOWERS", text: "hi", expected: pdu.ErrInvalidNumber},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := pdu.NewMessage(tt.number, tt.text)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got: %v", tt.expected, err)
			}
			if !pdu.IsInputError(err) {
				t.Errorf("expected an input error, got: %v", err)
			}
			if m != nil {
				t.Errorf("expected no message on error, got %v", m)
			}
		})
	}
}

func TestNewPart(t *testing.T) {
	t.Run("Wire format", func(t *testing.T) {
		m, err := pdu.NewPart("13052345678", "Hi", pdu.Concat{Reference: 0x2A, Part: 1, Total: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := "0041000B913150325476F80000090500032A02019069"
		if m.String() != expected {
			t.Errorf("expected %s, got %s", expected, m.String())
		}
		if m.UserDataLength() != 9 {
			t.Errorf("expected user data length 9, got %d", m.UserDataLength())
		}
		if m.Length() != 21 {
			t.Errorf("expected length 21, got %d", m.Length())
		}
		c, err := m.Concatenation()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != (pdu.Concat{Reference: 0x2A, Part: 1, Total: 2}) {
			t.Errorf("unexpected concatenation metadata: %+v", c)
		}
	})

	t.Run("153 characters fit", func(t *testing.T) {
		m, err := pdu.NewPart("13052345678", strings.Repeat("b", 153), pdu.Concat{Reference: 1, Part: 1, Total: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.UserDataLength() != 160 {
			t.Errorf("expected user data length 160, got %d", m.UserDataLength())
		}
		// 6 header octets plus 153 septets behind one fill bit
		if m.Length() != 13+6+134 {
			t.Errorf("expected length %d, got %d", 13+6+134, m.Length())
		}
	})

	errorTests := []struct {
		name     string
		text     string
		concat   pdu.Concat
		expected error
	}{
		{name: "154 characters", text: strings.Repeat("b", 154), concat: pdu.Concat{Part: 1, Total: 1}, expected: pdu.ErrTextTooLong},
		{name: "Part zero", text: "b", concat: pdu.Concat{Part: 0, Total: 2}, expected: pdu.ErrInvalidPart},
		{name: "Part beyond total", text: "b", concat: pdu.Concat{Part: 3, Total: 2}, expected: pdu.ErrInvalidPart},
		{name: "Total beyond 255", text: "b", concat: pdu.Concat{Part: 1, Total: 256}, expected: pdu.ErrInvalidPart},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pdu.NewPart("13052345678", tt.text, tt.concat)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got: %v", tt.expected, err)
			}
		})
	}
}

func TestMessageKinds(t *testing.T) {
	simple, err := pdu.NewMessage("13052345678", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	part, err := pdu.NewPart("13052345678", "hi", pdu.Concat{Reference: 9, Part: 2, Total: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		message pdu.Message
		kind    pdu.Kind
		header  string
	}{
		{message: simple, kind: pdu.Simple, header: "0001"},
		{message: part, kind: pdu.ConcatenatedPart, header: "0041"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.message.Kind() != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.message.Kind())
			}
			if !strings.HasPrefix(tt.message.String(), tt.header) {
				t.Errorf("expected PDU to start with %s, got %s", tt.header, tt.message.String())
			}
			if !strings.HasSuffix(tt.message.String(), tt.message.EncodedText()) {
				t.Errorf("expected PDU to end with the packed text")
			}
		})
	}

	if _, err := pdu.NewPart("13052345678", "", pdu.Concat{Part: 1, Total: 1}); !errors.Is(err, pdu.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText for an empty part, got: %v", err)
	}
}
