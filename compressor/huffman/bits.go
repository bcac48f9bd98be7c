package huffman

import (
	"fmt"
	"strings"
)

type bitString string

// asByteSlice packs the bits eight to a byte, first bit in the most
// significant position. The last byte is zero padded and tailBits reports how
// many of its bits are meaningful, 8 when the length is a multiple of eight
// or the bit string is empty.
func (b bitString) asByteSlice() (output []byte, tailBits uint8) {
	output = make([]byte, 0, (len(b)+7)/8)
	var current byte
	filled := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '1' {
			current |= 1 << (7 - filled)
		}
		filled++
		if filled == 8 {
			output = append(output, current)
			current, filled = 0, 0
		}
	}
	if filled == 0 {
		return output, 8
	}
	return append(output, current), uint8(filled)
}

// bitStringFromBytes is the inverse of asByteSlice: every byte but the last
// contributes all eight bits, the last only its top tailBits bits.
func bitStringFromBytes(payload []byte, tailBits uint8) (bitString, error) {
	if tailBits < 1 || tailBits > 8 {
		return "", fmt.Errorf("%w: tail bit count %d outside 1..8", ErrMalformedContainer, tailBits)
	}
	if len(payload) == 0 {
		if tailBits != 8 {
			return "", fmt.Errorf("%w: empty payload with tail bit count %d", ErrMalformedContainer, tailBits)
		}
		return "", nil
	}
	var output strings.Builder
	output.Grow(len(payload)*8 - 8 + int(tailBits))
	for i, chunk := range payload {
		bits := uint8(8)
		if i == len(payload)-1 {
			bits = tailBits
		}
		for j := uint8(0); j < bits; j++ {
			if chunk&(1<<(7-j)) != 0 {
				output.WriteByte('1')
			} else {
				output.WriteByte('0')
			}
		}
	}
	return bitString(output.String()), nil
}

// decode walks the bits with a growing window, emitting a symbol whenever the
// window matches a code and restarting the window after it.
func (b bitString) decode(inverted map[string]rune, maxCodeLength int) (string, error) {
	var output strings.Builder
	start := 0
	for end := 1; end <= len(b); end++ {
		if symbol, ok := inverted[string(b[start:end])]; ok {
			output.WriteRune(symbol)
			start = end
			continue
		}
		if end-start >= maxCodeLength {
			return "", fmt.Errorf("%w: no code matches %d bits at offset %d", ErrUndecodableSequence, end-start, start)
		}
	}
	if start != len(b) {
		return "", fmt.Errorf("%w: %d trailing bits at offset %d do not form a code", ErrUndecodableSequence, len(b)-start, start)
	}
	return output.String(), nil
}
