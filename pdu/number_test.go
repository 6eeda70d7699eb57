package pdu_test

import (
	"errors"
	"testing"

	"i4.energy/across/smspdu/pdu"
)

func TestEncodeNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Odd digit count is padded", input: "13052345678", expected: "0B913150325476F8"},
		{name: "Leading plus is ignored", input: "+13052345678", expected: "0B913150325476F8"},
		{name: "Even digit count", input: "491234567890", expected: "0C91942143658709"},
		{name: "Seven digits", input: "4912345", expected: "0791942143F5"},
		{name: "Single digit", input: "1", expected: "0191F1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pdu.EncodeNumber(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	invalid := []string{"", "+", "12-34", "+1 305", "abc", "123456789012345678901"}
	for _, input := range invalid {
		t.Run("Rejects "+input, func(t *testing.T) {
			if _, err := pdu.EncodeNumber(input); !errors.Is(err, pdu.ErrInvalidNumber) {
				t.Errorf("expected ErrInvalidNumber for %q, got: %v", input, err)
			}
		})
	}
}

func TestNumberRoundTrip(t *testing.T) {
	numbers := []string{"1", "12", "13052345678", "491234567890", "12345678901234567890"}
	for _, number := range numbers {
		encoded, err := pdu.EncodeNumber(number)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", number, err)
		}
		decoded, err := pdu.DecodeNumber(encoded)
		if err != nil {
			t.Fatalf("unexpected decode error for %s: %v", encoded, err)
		}
		if decoded != number {
			t.Errorf("expected %s, got %s", number, decoded)
		}
	}
}

func TestDecodeNumberErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Too short", input: "0B"},
		{name: "Wrong type of address", input: "0B813150325476F8"},
		{name: "Length mismatch", input: "0C913150325476F8"},
		{name: "Missing padding", input: "0B91315032547648"},
		{name: "Not hex", input: "ZZ91"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := pdu.DecodeNumber(tt.input); !errors.Is(err, pdu.ErrMalformed) {
				t.Errorf("expected ErrMalformed, got: %v", err)
			}
		})
	}
}
