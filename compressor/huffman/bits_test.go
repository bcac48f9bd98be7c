package huffman

import (
	"bytes"
	"errors"
	"testing"
)

func TestBitString_AsByteSlice(t *testing.T) {
	type testRow struct {
		input    bitString
		expect   []byte
		tailBits uint8
	}

	testData := [...]testRow{
		{input: "", expect: []byte{}, tailBits: 8},
		{input: "1", expect: []byte{0b10000000}, tailBits: 1},
		{input: "10010110", expect: []byte{0b10010110}, tailBits: 8},
		{input: "10010110010", expect: []byte{0b10010110, 0b01000000}, tailBits: 3},
		{input: "1001011010010110", expect: []byte{0b10010110, 0b10010110}, tailBits: 8},
	}
	for _, row := range testData {
		t.Run(string(row.input), func(t *testing.T) {
			actual, tailBits := row.input.asByteSlice()
			if !bytes.Equal(row.expect, actual) {
				t.Errorf("wrong bytes:\n\texpect: %08b\n\tactual: %08b", row.expect, actual)
			}
			if tailBits != row.tailBits {
				t.Errorf("wrong tail bits: expect %d, actual %d", row.tailBits, tailBits)
			}
		})
	}
}

func TestBitStringFromBytes(t *testing.T) {
	type testRow struct {
		input    []byte
		tailBits uint8
		expect   bitString
	}

	testData := [...]testRow{
		{input: nil, tailBits: 8, expect: ""},
		{input: []byte{0b10010110, 0b01000000}, tailBits: 3, expect: "10010110010"},
		{input: []byte{0b10010110}, tailBits: 8, expect: "10010110"},
		{input: []byte{0b10000000}, tailBits: 1, expect: "1"},
	}
	for _, row := range testData {
		t.Run(string(row.expect), func(t *testing.T) {
			actual, err := bitStringFromBytes(row.input, row.tailBits)
			if err != nil {
				t.Fatalf("bitStringFromBytes: %v", err)
			}
			if actual != row.expect {
				t.Errorf("wrong bits: expect %q, actual %q", row.expect, actual)
			}
		})
	}
}

func TestBitStringFromBytes_BadTail(t *testing.T) {
	cases := []struct {
		name     string
		input    []byte
		tailBits uint8
	}{
		{"zero tail", []byte{0xff}, 0},
		{"tail above eight", []byte{0xff}, 9},
		{"empty payload short tail", nil, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := bitStringFromBytes(c.input, c.tailBits)
			if !errors.Is(err, ErrMalformedContainer) {
				t.Errorf("expected ErrMalformedContainer, got %v", err)
			}
		})
	}
}

func TestBitString_Decode(t *testing.T) {
	table := CodeTable{'a': "0", 'b': "10", 'c': "11"}
	inverted := table.Invert()

	text, err := bitString("010110").decode(inverted, table.maxCodeLength())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "abca" {
		t.Errorf("wrong text: expect %q, actual %q", "abca", text)
	}

	_, err = bitString("0101").decode(inverted, table.maxCodeLength())
	if !errors.Is(err, ErrUndecodableSequence) {
		t.Errorf("expected ErrUndecodableSequence for trailing partial code, got %v", err)
	}

	_, err = bitString("0").decode(map[string]rune{}, 0)
	if !errors.Is(err, ErrUndecodableSequence) {
		t.Errorf("expected ErrUndecodableSequence for empty table, got %v", err)
	}
}

func TestBitString_DecodeIncompleteCode(t *testing.T) {
	// "11" is not a code and no code is longer than two bits.
	table := CodeTable{'a': "0", 'b': "10"}
	_, err := bitString("0110").decode(table.Invert(), table.maxCodeLength())
	if !errors.Is(err, ErrUndecodableSequence) {
		t.Errorf("expected ErrUndecodableSequence, got %v", err)
	}
}
