package pdu

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"unicode/utf8"
)

// MaxSplitLength is the longest text Split accepts.
const MaxSplitLength = MaxParts * MaxPartLength

// Option configures Split and Encode.
type Option func(*options)

type options struct {
	reference func() byte
}

// WithReference sets the concatenation reference shared by all parts.
// Callers that send several long messages close in time should supply
// distinct references. The default is a random byte, which may collide.
func WithReference(ref byte) Option {
	return func(o *options) {
		o.reference = func() byte { return ref }
	}
}

func randomReference() byte {
	return byte(rand.IntN(256))
}

// Split validates text longer than MaxSimpleLength and returns the
// sequence of concatenated parts carrying it, in order. Parts are built on
// iteration. Every iteration of the returned sequence yields the same
// parts with the same reference; call Split again for a new reference.
func Split(number, text string, opts ...Option) (iter.Seq[Message], error) {
	o := options{reference: randomReference}
	for _, opt := range opts {
		opt(&o)
	}

	digits, err := normalizeNumber(number)
	if err != nil {
		return nil, err
	}
	n := utf8.RuneCountInString(text)
	switch {
	case n == 0:
		return nil, ErrEmptyText
	case n <= MaxSimpleLength:
		return nil, fmt.Errorf("%w: %d characters", ErrTextTooShort, n)
	case n > MaxSplitLength:
		return nil, fmt.Errorf("%w: %d characters need more than %d parts", ErrTooManyParts, n, MaxParts)
	}
	if _, err := Septets(text); err != nil {
		return nil, err
	}

	runes := []rune(text)
	total := (n + MaxPartLength - 1) / MaxPartLength
	ref := o.reference()

	return func(yield func(Message) bool) {
		for i := range total {
			chunk := runes[i*MaxPartLength : min((i+1)*MaxPartLength, n)]
			m, err := NewPart(digits, string(chunk), Concat{
				Reference: ref,
				Part:      i + 1,
				Total:     total,
			})
			if err != nil {
				// input was validated in full above
				panic(fmt.Sprintf("pdu: building part %d/%d: %v", i+1, total, err))
			}
			if !yield(m) {
				return
			}
		}
	}, nil
}

// Encode returns the messages carrying text to number: one simple message
// when the text fits, otherwise the concatenated parts from Split.
func Encode(number, text string, opts ...Option) ([]Message, error) {
	if utf8.RuneCountInString(text) <= MaxSimpleLength {
		m, err := NewMessage(number, text)
		if err != nil {
			return nil, err
		}
		return []Message{m}, nil
	}
	parts, err := Split(number, text, opts...)
	if err != nil {
		return nil, err
	}
	return slices.Collect(parts), nil
}
