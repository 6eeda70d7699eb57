package pdu

import "errors"

var (
	// ErrEmptyText is returned when a message is constructed without text.
	ErrEmptyText = errors.New("message text is empty")

	// ErrTextTooLong is returned when the text exceeds the limit of the
	// requested message kind: 160 septets for a simple message, 153 for a
	// concatenated part.
	ErrTextTooLong = errors.New("message text too long")

	// ErrTextTooShort is returned by Split when the text fits into a single
	// simple message. Such text must never be sent concatenated.
	ErrTextTooShort = errors.New("message text fits a single message")

	// ErrTooManyParts is returned when the text would need more than 255
	// concatenated parts. Reference, part count and part index are one
	// byte each on the wire.
	ErrTooManyParts = errors.New("message text needs too many parts")

	// ErrUnsupportedChar is returned when the text contains a character
	// outside the GSM-7 default alphabet.
	ErrUnsupportedChar = errors.New("character not in GSM-7 alphabet")

	// ErrInvalidNumber is returned when the destination number is empty,
	// too long or contains something other than digits.
	ErrInvalidNumber = errors.New("invalid destination number")

	// ErrInvalidPart is returned when concatenation metadata is out of range.
	ErrInvalidPart = errors.New("invalid concatenation part")

	// ErrNotConcatenated is returned when concatenation metadata is read
	// from a simple message.
	ErrNotConcatenated = errors.New("message is not concatenated")

	// ErrMalformed is returned by the decoding helpers on input that was
	// not produced by this package.
	ErrMalformed = errors.New("malformed encoding")
)

// IsInputError reports whether err was caused by caller input, i.e. it can
// be fixed by changing the number or the text.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrEmptyText,
		ErrTextTooLong,
		ErrTextTooShort,
		ErrTooManyParts,
		ErrUnsupportedChar,
		ErrInvalidNumber,
		ErrInvalidPart,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
