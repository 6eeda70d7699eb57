package pdu_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/gsm7"
	"github.com/warthog618/sms/encoding/pdumode"
	"github.com/warthog618/sms/encoding/tpdu"

	"i4.energy/across/smspdu/pdu"
)

// These tests decode our output with an independent PDU implementation.

func TestPackMatchesReference(t *testing.T) {
	for _, input := range []string{"A", "hellohello", "12345678", strings.Repeat("Zoot ", 30)} {
		septets, err := pdu.Septets(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, fill := range []int{0, 1} {
			want := gsm7.Pack7Bit(septets, fill)
			got := pdu.Pack(septets, fill)
			if !bytes.Equal(got, want) {
				t.Errorf("%q with %d fill bits: expected %X, got %X", input, fill, want, got)
			}
		}
	}
}

func TestMessagesDecodeAsSubmit(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 8)
	messages, err := pdu.Encode("+13052345678", text, pdu.WithReference(0x42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	short, err := pdu.NewMessage("13052345678", "Hello World!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rebuilt strings.Builder
	for i, m := range append(messages, short) {
		raw, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("message %d: unexpected marshal error: %v", i, err)
		}
		p, err := pdumode.UnmarshalBinary(raw)
		if err != nil {
			t.Fatalf("message %d: unexpected pdumode error: %v", i, err)
		}
		if len(p.TPDU) != m.Length() {
			t.Errorf("message %d: expected TPDU of %d octets, got %d", i, m.Length(), len(p.TPDU))
		}

		tp, err := sms.Unmarshal(p.TPDU, sms.AsMO)
		if err != nil {
			t.Fatalf("message %d: unexpected TPDU error: %v", i, err)
		}
		if tp.SmsType() != tpdu.SmsSubmit {
			t.Errorf("message %d: expected SMS-SUBMIT, got %v", i, tp.SmsType())
		}
		if n := strings.TrimPrefix(tp.DA.Number(), "+"); n != "13052345678" {
			t.Errorf("message %d: expected destination 13052345678, got %s", i, n)
		}

		alpha, err := tp.Alphabet()
		if err != nil {
			t.Fatalf("message %d: unexpected alphabet error: %v", i, err)
		}
		ud, err := tpdu.DecodeUserData(tp.UD, tp.UDH, alpha)
		if err != nil {
			t.Fatalf("message %d: unexpected user data error: %v", i, err)
		}
		if string(ud) != m.Text() {
			t.Errorf("message %d: expected text %q, got %q", i, m.Text(), ud)
		}

		if m.Kind() == pdu.ConcatenatedPart {
			total, seq, ref, ok := tp.ConcatInfo()
			if !ok {
				t.Fatalf("message %d: expected concatenation info", i)
			}
			if total != len(messages) || seq != i+1 || ref != 0x42 {
				t.Errorf("message %d: expected %d/%d ref 0x42, got %d/%d ref %#x", i, i+1, len(messages), seq, total, ref)
			}
			rebuilt.Write(ud)
		}
	}
	if rebuilt.String() != text {
		t.Error("decoded parts do not rebuild the text")
	}
}
