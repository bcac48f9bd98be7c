// Package huffman compresses UTF-8 text with a per-character Huffman code and
// stores the code table next to the packed bits in a self-describing
// container.
package huffman

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"unicode/utf8"
)

type options struct {
	progress func(symbols int)
}

type Option func(*options)

// WithProgress reports the number of symbols encoded since the last call.
func WithProgress(progress func(symbols int)) Option {
	return func(o *options) {
		o.progress = progress
	}
}

// Compress encodes content, which must be valid UTF-8, into a container.
func Compress(content []byte, opts ...Option) ([]byte, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidText
	}
	contentString := string(content)
	table, err := BuildCodeTable(CountFrequencies(contentString))
	if err != nil {
		return nil, err
	}
	encoded, err := table.Encode(contentString, o.progress)
	if err != nil {
		return nil, err
	}
	payload, tailBits := encoded.asByteSlice()
	c := Container{
		Table:    table,
		Payload:  payload,
		TailBits: tailBits,
	}
	return c.MarshalBinary()
}

// Decompress reverses Compress.
func Decompress(content []byte) ([]byte, error) {
	var c Container
	if err := c.UnmarshalBinary(content); err != nil {
		return nil, err
	}
	bits, err := bitStringFromBytes(c.Payload, c.TailBits)
	if err != nil {
		return nil, err
	}
	text, err := bits.decode(c.Table.Invert(), c.Table.maxCodeLength())
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// CompressionWriter buffers everything written to it and writes the
// compressed container to the underlying writer on Close.
type CompressionWriter struct {
	lock     sync.Mutex
	w        io.Writer
	opts     []Option
	original bytes.Buffer
	closed   bool
}

func NewCompressionWriter(writer io.Writer, opts ...Option) io.WriteCloser {
	return &CompressionWriter{
		w:    writer,
		opts: opts,
	}
}

func (cw *CompressionWriter) Write(data []byte) (int, error) {
	cw.lock.Lock()
	defer cw.lock.Unlock()
	if cw.closed {
		return 0, errors.New("huffman: write to closed compression writer")
	}
	return cw.original.Write(data)
}

func (cw *CompressionWriter) Close() error {
	cw.lock.Lock()
	defer cw.lock.Unlock()
	if cw.closed {
		return nil
	}
	cw.closed = true
	compressed, err := Compress(cw.original.Bytes(), cw.opts...)
	if err != nil {
		return err
	}
	cw.original.Reset()
	_, err = cw.w.Write(compressed)
	return err
}

type decompressionCore struct {
	isInputBufferClosed bool
	lock                sync.Mutex
	inputBuffer         bytes.Buffer
	outputBuffer        bytes.Buffer
}

type DecompressionWriter struct {
	core *decompressionCore
}

type DecompressionReader struct {
	core *decompressionCore
}

func (dr *DecompressionReader) Read(data []byte) (int, error) {
	dr.core.lock.Lock()
	defer dr.core.lock.Unlock()
	if !dr.core.isInputBufferClosed {
		return 0, errors.New("huffman: decompression input has not been closed")
	}
	return dr.core.outputBuffer.Read(data)
}

func (dr *DecompressionReader) Close() error {
	dr.core.lock.Lock()
	defer dr.core.lock.Unlock()
	dr.core.outputBuffer.Reset()
	return nil
}

func (dw *DecompressionWriter) Write(data []byte) (int, error) {
	dw.core.lock.Lock()
	defer dw.core.lock.Unlock()
	if dw.core.isInputBufferClosed {
		return 0, errors.New("huffman: write to closed decompression writer")
	}
	return dw.core.inputBuffer.Write(data)
}

// Close decodes the buffered container. The text becomes readable from the
// paired reader only if Close returns nil.
func (dw *DecompressionWriter) Close() error {
	dw.core.lock.Lock()
	defer dw.core.lock.Unlock()
	if dw.core.isInputBufferClosed {
		return nil
	}
	decompressedData, err := Decompress(dw.core.inputBuffer.Bytes())
	dw.core.inputBuffer.Reset()
	if err != nil {
		return err
	}
	dw.core.isInputBufferClosed = true
	_, err = dw.core.outputBuffer.Write(decompressedData)
	return err
}

// NewDecompressionReaderAndWriter returns a writer that accepts a container
// and a reader that yields the decoded text once the writer is closed.
func NewDecompressionReaderAndWriter() (io.ReadCloser, io.WriteCloser) {
	core := new(decompressionCore)
	return &DecompressionReader{core: core}, &DecompressionWriter{core: core}
}
