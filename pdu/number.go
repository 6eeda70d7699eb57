package pdu

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/warthog618/sms/encoding/tpdu"
)

const (
	// internationalNumber is the type-of-address octet: international
	// number, ISDN numbering plan.
	internationalNumber = 0x91

	maxNumberDigits = 20
)

// normalizeNumber strips an optional leading '+' and checks that only
// digits remain.
func normalizeNumber(number string) (string, error) {
	digits := strings.TrimPrefix(number, "+")
	if digits == "" || len(digits) > maxNumberDigits {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidNumber, number)
		}
	}
	return digits, nil
}

// EncodeNumber renders a destination address: the digit count, the
// international type-of-address octet and the digits in swapped-nibble
// order, padded with F when the count is odd.
//
//	EncodeNumber("13052345678") == "0B913150325476F8"
func EncodeNumber(number string) (string, error) {
	digits, err := normalizeNumber(number)
	if err != nil {
		return "", err
	}
	return encodeDigits(digits)
}

func encodeDigits(digits string) (string, error) {
	addr := tpdu.Address{TOA: internationalNumber, Addr: digits}
	raw, err := addr.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNumber, err)
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// DecodeNumber is the inverse of EncodeNumber.
func DecodeNumber(encoded string) (string, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil || len(raw) < 2 {
		return "", fmt.Errorf("%w: address %q", ErrMalformed, encoded)
	}
	if raw[1] != internationalNumber {
		return "", fmt.Errorf("%w: address type %02X", ErrMalformed, raw[1])
	}
	count := int(raw[0])
	if len(raw) != 2+(count+1)/2 {
		return "", fmt.Errorf("%w: address %q carries %d digits", ErrMalformed, encoded, count)
	}
	if count%2 != 0 && raw[len(raw)-1]>>4 != 0x0F {
		return "", fmt.Errorf("%w: address %q lacks padding", ErrMalformed, encoded)
	}

	var a tpdu.Address
	if _, err := a.UnmarshalBinary(raw); err != nil {
		return "", fmt.Errorf("%w: address %q: %w", ErrMalformed, encoded, err)
	}
	digits := strings.TrimPrefix(a.Addr, "+")
	if len(digits) != count {
		return "", fmt.Errorf("%w: address %q carries %d digits", ErrMalformed, encoded, count)
	}
	if _, err := normalizeNumber(digits); err != nil {
		return "", fmt.Errorf("%w: address %q", ErrMalformed, encoded)
	}
	return digits, nil
}
