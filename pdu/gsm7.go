package pdu

import (
	"fmt"

	"github.com/warthog618/sms/encoding/gsm7"
)

// escape is the position of the extension-table escape. It has no glyph of
// its own and is never produced from text.
const escape = 0x1B

// Septets maps text onto GSM-7 septet values, one per character.
//
// Only the default alphabet is accepted. Characters that need the
// extension table, and so two septets, are unsupported like any other
// character outside the alphabet. The first offending character is
// reported with its position, wrapped around ErrUnsupportedChar.
func Septets(text string) ([]byte, error) {
	enc := gsm7.NewEncoder()
	out := make([]byte, 0, len(text))
	pos := 0
	for _, r := range text {
		s, err := enc.Encode([]byte(string(r)))
		if err != nil || len(s) != 1 || s[0] == escape {
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnsupportedChar, r, pos)
		}
		out = append(out, s[0])
		pos++
	}
	return out, nil
}

// Decode maps septet values back onto text.
func Decode(septets []byte) (string, error) {
	for i, s := range septets {
		if s > 0x7F || s == escape {
			return "", fmt.Errorf("%w: septet %#02x at position %d", ErrMalformed, s, i)
		}
	}
	dec := gsm7.NewDecoder()
	text, err := dec.Decode(septets)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return string(text), nil
}

// Pack packs septets into octets, least significant bit first. fillBits
// zero bits are placed before the first septet, which aligns the text on
// a septet boundary when it follows a user data header.
//
// The result is ceil((len(septets)*7 + fillBits) / 8) bytes long.
func Pack(septets []byte, fillBits int) []byte {
	return gsm7.Pack7Bit(septets, fillBits)
}

// Unpack is the inverse of Pack. count is the number of septets to extract,
// since trailing bits of the last octet are ambiguous.
func Unpack(packed []byte, fillBits, count int) ([]byte, error) {
	if count < 0 || fillBits < 0 || count*7+fillBits > len(packed)*8 {
		return nil, fmt.Errorf("%w: %d septets do not fit %d octets", ErrMalformed, count, len(packed))
	}
	out := gsm7.Unpack7Bit(packed, fillBits)
	// The bits for count septets are present; any the library leaves out
	// are trailing zero septets it took for padding.
	for len(out) < count {
		out = append(out, 0)
	}
	return out[:count], nil
}
