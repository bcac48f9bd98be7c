package huffman

import "errors"

var (
	// ErrMissingCode is returned when a symbol being encoded has no entry in
	// the code table it is encoded against.
	ErrMissingCode = errors.New("huffman: symbol has no code")
	// ErrUndecodableSequence is returned when the payload bits do not resolve
	// to a complete sequence of known codes.
	ErrUndecodableSequence = errors.New("huffman: undecodable bit sequence")
	// ErrMalformedContainer is returned when the container envelope is
	// inconsistent: short length prefix, a table running past the end of the
	// data, or a missing or out of range tail-bit count.
	ErrMalformedContainer = errors.New("huffman: malformed container")
	// ErrCorruptTable is returned when the serialized code table cannot be
	// turned back into a valid prefix-free code table.
	ErrCorruptTable = errors.New("huffman: corrupt code table")
	// ErrInvalidText is returned when the content to compress is not UTF-8.
	ErrInvalidText = errors.New("huffman: content is not valid UTF-8 text")

	errInternalDefect = errors.New("huffman: internal defect in tree construction")
)
