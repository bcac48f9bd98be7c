package huffman

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

var roundTripInputs = map[string]string{
	"empty":       "",
	"single":      "x",
	"repeated":    strings.Repeat("q", 1000),
	"two symbols": "abababababbbbbba",
	"newlines":    "line one\nline two\r\n\tindented\n",
	"unicode":     "ünïcödé ✓ 日本語テキスト 🙂🙂🙂 \u0000 \U0010FFFF",
	"pangram":     "The quick brown fox jumps over the lazy dog. 0123456789",
	"uneven":      repeatSymbols(map[rune]int{'C': 32, 'D': 42, 'E': 120, 'K': 7, 'L': 42, 'M': 24, 'U': 37, 'Z': 2}),
	"exact byte":  "aaaaaaab",
	"long prose":  strings.Repeat("It was the best of times, it was the worst of times. ", 200),
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	for name, input := range roundTripInputs {
		t.Run(name, func(t *testing.T) {
			compressed, err := Compress([]byte(input))
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if string(decompressed) != input {
				t.Errorf("round trip mismatch:\n\texpect: %q\n\tactual: %q", input, decompressed)
			}
		})
	}
}

func TestCompress_Deterministic(t *testing.T) {
	for name, input := range roundTripInputs {
		t.Run(name, func(t *testing.T) {
			first, err := Compress([]byte(input))
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			second, err := Compress([]byte(input))
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Errorf("containers differ:\n\tfirst:  % x\n\tsecond: % x", first, second)
			}
		})
	}
}

func TestCompressDecompress_ManyDistinctSymbols(t *testing.T) {
	if testing.Short() {
		t.Skip("large alphabet")
	}
	// Starting above the BMP keeps the run clear of the surrogate range.
	const distinct = 140000
	var b strings.Builder
	for r := rune(0x10000); r < 0x10000+distinct; r++ {
		b.WriteRune(r)
	}
	input := b.String()

	compressed, err := Compress([]byte(input))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress of %d distinct symbols: %v", distinct, err)
	}
	if string(decompressed) != input {
		t.Errorf("round trip mismatch for %d distinct symbols", distinct)
	}
}

func TestCompress_InvalidText(t *testing.T) {
	_, err := Compress([]byte{'a', 0xff, 'b'})
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected ErrInvalidText, got %v", err)
	}
}

func TestDecompress_TruncatedPayload(t *testing.T) {
	// Codes are a=0, b=10, c=11 and the payload is 10111011 000, so dropping
	// the last payload byte leaves "101" under a tail count of 3. The container
	// holds no symbol count: a cut that lands on a code boundary decodes to a
	// shorter text, and only a cut inside a code is detected.
	compressed, err := Compress([]byte("bcbcaaa"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	tail := compressed[len(compressed)-1]
	if tail != 3 {
		t.Fatalf("unexpected tail bit count %d", tail)
	}
	truncated := append(bytes.Clone(compressed[:len(compressed)-2]), tail)

	_, err = Decompress(truncated)
	if !errors.Is(err, ErrUndecodableSequence) {
		t.Errorf("expected ErrUndecodableSequence, got %v", err)
	}
}

func TestDecompress_MissingTailByte(t *testing.T) {
	compressed, err := Compress([]byte(""))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	_, err = Decompress(compressed[:len(compressed)-1])
	if !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("expected ErrMalformedContainer, got %v", err)
	}
}

func TestCompressionWriter(t *testing.T) {
	input := roundTripInputs["pangram"]
	var compressed bytes.Buffer
	w := NewCompressionWriter(&compressed)
	for _, word := range strings.SplitAfter(input, " ") {
		if _, err := io.WriteString(w, word); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if compressed.Len() != 0 {
		t.Errorf("expected no output before Close, got %d bytes", compressed.Len())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	expect, err := Compress([]byte(input))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(expect, compressed.Bytes()) {
		t.Errorf("writer output differs from Compress")
	}
	if _, err := w.Write([]byte("more")); err == nil {
		t.Errorf("expected error writing after Close")
	}
}

func TestCompressionWriter_Progress(t *testing.T) {
	input := strings.Repeat("abc", 5000)
	total := 0
	w := NewCompressionWriter(io.Discard, WithProgress(func(n int) { total += n }))
	if _, err := io.WriteString(w, input); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if total != len(input) {
		t.Errorf("progress total: expect %d, actual %d", len(input), total)
	}
}

func TestDecompressionReaderAndWriter(t *testing.T) {
	input := roundTripInputs["unicode"]
	compressed, err := Compress([]byte(input))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	r, w := NewDecompressionReaderAndWriter()
	if _, err := r.Read(make([]byte, 1)); err == nil {
		t.Errorf("expected error reading before the writer is closed")
	}
	if _, err := w.Write(compressed); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	actual, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(actual) != input {
		t.Errorf("wrong text:\n\texpect: %q\n\tactual: %q", input, actual)
	}
	if err := r.Close(); err != nil {
		t.Errorf("reader Close: %v", err)
	}
}

func TestDecompressionWriter_CorruptInput(t *testing.T) {
	r, w := NewDecompressionReaderAndWriter()
	if _, err := w.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrMalformedContainer) {
		t.Errorf("expected ErrMalformedContainer, got %v", err)
	}
	if _, err := r.Read(make([]byte, 1)); err == nil {
		t.Errorf("expected error reading after a failed decode")
	}
}
