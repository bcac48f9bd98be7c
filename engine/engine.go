// Package engine runs the Huffman compressor over files.
package engine

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/FitrahHaque/huffpack/compressor/huffman"
	pb "github.com/cheggaaa/pb/v3"
	"github.com/zeebo/blake3"
)

// ErrVerifyMismatch is returned when a freshly encoded container does not
// decode back to the source text.
var ErrVerifyMismatch = errors.New("engine: decoded container does not match the source")

// IOError reports a failed file operation together with the file it was
// working on.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Progress draws a progress bar over the symbols being encoded.
	Progress bool
	// ProgressOutput receives the progress bar. Defaults to os.Stderr.
	ProgressOutput io.Writer
	// Verify decodes each new container in memory before it is written.
	Verify bool
	Logger *slog.Logger
}

type Engine struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.ProgressOutput == nil {
		opts.ProgressOutput = os.Stderr
	}
	return &Engine{opts: opts, logger: logger}
}

// Report describes one finished encode or decode. Digest is the BLAKE3 hash
// of the plain text on either side.
type Report struct {
	Source         string
	Destination    string
	OriginalSize   int
	CompressedSize int
	Digest         [32]byte
}

// Ratio is the compressed size as a percentage of the original size.
func (r Report) Ratio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.CompressedSize) / float64(r.OriginalSize) * 100
}

func (r Report) DigestHex() string {
	return hex.EncodeToString(r.Digest[:])
}

// Encode compresses the text file at source into a container at destination
// using default options.
func Encode(source, destination string) error {
	_, err := New(Options{}).Encode(source, destination)
	return err
}

// Decode restores the text file at destination from the container at source
// using default options.
func Decode(source, destination string) error {
	_, err := New(Options{}).Decode(source, destination)
	return err
}

func (e *Engine) Encode(source, destination string) (*Report, error) {
	content, err := readFile(source)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("encoding", "source", source, "bytes", len(content))

	var opts []huffman.Option
	if e.opts.Progress && utf8.Valid(content) {
		bar := pb.New(utf8.RuneCount(content))
		bar.SetWriter(e.opts.ProgressOutput)
		bar.Start()
		defer bar.Finish()
		opts = append(opts, huffman.WithProgress(func(symbols int) {
			bar.Add(symbols)
		}))
	}

	var compressed bytes.Buffer
	w := huffman.NewCompressionWriter(&compressed, opts...)
	if _, err := w.Write(content); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", source, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", source, err)
	}

	report := &Report{
		Source:         source,
		Destination:    destination,
		OriginalSize:   len(content),
		CompressedSize: compressed.Len(),
		Digest:         blake3.Sum256(content),
	}
	if e.opts.Verify {
		if err := verify(compressed.Bytes(), report.Digest); err != nil {
			return nil, fmt.Errorf("verifying %s: %w", source, err)
		}
		e.logger.Debug("verified", "source", source, "digest", report.DigestHex())
	}

	if err := writeFile(destination, func(w io.Writer) error {
		_, err := w.Write(compressed.Bytes())
		return err
	}); err != nil {
		return nil, err
	}
	e.logger.Debug("encoded", "destination", destination, "bytes", report.CompressedSize)
	return report, nil
}

func (e *Engine) Decode(source, destination string) (*Report, error) {
	content, err := readFile(source)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("decoding", "source", source, "bytes", len(content))

	r, w := huffman.NewDecompressionReaderAndWriter()
	defer r.Close()
	if _, err := w.Write(content); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}

	hasher := blake3.New()
	var written int64
	if err := writeFile(destination, func(out io.Writer) error {
		written, err = io.Copy(io.MultiWriter(out, hasher), r)
		return err
	}); err != nil {
		return nil, err
	}

	report := &Report{
		Source:         source,
		Destination:    destination,
		OriginalSize:   int(written),
		CompressedSize: len(content),
	}
	copy(report.Digest[:], hasher.Sum(nil))
	e.logger.Debug("decoded", "destination", destination, "bytes", written)
	return report, nil
}

// CompressFiles encodes every file to the same path with fileExtension
// appended. It stops at the first failure and returns the reports of the
// files done so far.
func (e *Engine) CompressFiles(files []string, fileExtension string) ([]Report, error) {
	reports := make([]Report, 0, len(files))
	for _, file := range files {
		report, err := e.Encode(file, file+fileExtension)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// Inspect reads the container at path and describes it.
func (e *Engine) Inspect(path string) (*huffman.ContainerInfo, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, err
	}
	info, err := huffman.Inspect(content)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return info, nil
}

func verify(compressed []byte, digest [32]byte) error {
	decoded, err := huffman.Decompress(compressed)
	if err != nil {
		return err
	}
	if blake3.Sum256(decoded) != digest {
		return ErrVerifyMismatch
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return content, nil
}

// writeFile creates path and hands it to write. The file is closed on every
// path and a failed close is reported like a failed write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: closeErr}
		}
	}()
	if err := write(file); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
