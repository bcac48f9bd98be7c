package huffman

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
)

const (
	// tableLengthSize is the size of the little-endian table length prefix.
	tableLengthSize = 8
	// maxSymbols bounds a code table at one entry per Unicode code point.
	maxSymbols = utf8.MaxRune + 1
)

// Core Deterministic Encoding sorts map keys, so the same table always
// serializes to the same bytes.
var (
	tableEncMode cbor.EncMode
	tableDecMode cbor.DecMode
)

func init() {
	var err error
	tableEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("huffman: CBOR encoder initialization failed: " + err.Error())
	}
	tableDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		MaxMapPairs: maxSymbols,
	}.DecMode()
	if err != nil {
		panic("huffman: CBOR decoder initialization failed: " + err.Error())
	}
}

// Container is the binary envelope produced by Compress:
//
//	[u64 table length][CBOR code table][packed payload][tail bit count]
//
// All integers are little-endian. The tail byte is present even when the
// payload is empty, in which case it is 8.
type Container struct {
	Table    CodeTable
	Payload  []byte
	TailBits uint8
}

func (ct CodeTable) MarshalBinary() ([]byte, error) {
	if ct == nil {
		ct = CodeTable{}
	}
	data, err := tableEncMode.Marshal(map[rune]string(ct))
	if err != nil {
		return nil, fmt.Errorf("serializing code table: %w", err)
	}
	return data, nil
}

func (ct *CodeTable) UnmarshalBinary(data []byte) error {
	var table map[rune]string
	if err := tableDecMode.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptTable, err)
	}
	if table == nil {
		table = make(map[rune]string)
	}
	decoded := CodeTable(table)
	if err := decoded.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptTable, err)
	}
	*ct = decoded
	return nil
}

// WriteTo writes the container to w. Write errors are returned as they come,
// wrapped with the section that failed, and are never retried.
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	table, err := c.Table.MarshalBinary()
	if err != nil {
		return 0, err
	}
	var written int64
	var prefix [tableLengthSize]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(table)))
	sections := []struct {
		name string
		data []byte
	}{
		{"table length", prefix[:]},
		{"code table", table},
		{"payload", c.Payload},
		{"tail bit count", []byte{c.TailBits}},
	}
	for _, section := range sections {
		n, err := w.Write(section.data)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("writing %s: %w", section.name, err)
		}
		if n != len(section.data) {
			return written, fmt.Errorf("writing %s: %w", section.name, io.ErrShortWrite)
		}
	}
	return written, nil
}

func (c *Container) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	if _, err := c.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalBinary parses a container. The payload aliases data.
func (c *Container) UnmarshalBinary(data []byte) error {
	if len(data) < tableLengthSize {
		return fmt.Errorf("%w: %d bytes is too short for the table length", ErrMalformedContainer, len(data))
	}
	tableLength := binary.LittleEndian.Uint64(data[:tableLengthSize])
	rest := data[tableLengthSize:]
	if tableLength > uint64(len(rest)) {
		return fmt.Errorf("%w: table length %d exceeds the %d remaining bytes", ErrMalformedContainer, tableLength, len(rest))
	}
	var table CodeTable
	if err := table.UnmarshalBinary(rest[:tableLength]); err != nil {
		return err
	}
	rest = rest[tableLength:]
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing tail bit count", ErrMalformedContainer)
	}
	tailBits := rest[len(rest)-1]
	payload := rest[:len(rest)-1]
	if tailBits < 1 || tailBits > 8 {
		return fmt.Errorf("%w: tail bit count %d outside 1..8", ErrMalformedContainer, tailBits)
	}
	if len(payload) == 0 && tailBits != 8 {
		return fmt.Errorf("%w: empty payload with tail bit count %d", ErrMalformedContainer, tailBits)
	}
	c.Table, c.Payload, c.TailBits = table, payload, tailBits
	return nil
}

// ContainerInfo describes a container without decoding its payload.
type ContainerInfo struct {
	TableLength   int
	Symbols       int
	Table         CodeTable
	PayloadLength int
	TailBits      uint8
	BitLength     int
	MaxCodeLength int
}

// Inspect validates the container envelope and code table and reports their
// sizes.
func Inspect(content []byte) (*ContainerInfo, error) {
	var c Container
	if err := c.UnmarshalBinary(content); err != nil {
		return nil, err
	}
	bitLength := 0
	if len(c.Payload) > 0 {
		bitLength = (len(c.Payload)-1)*8 + int(c.TailBits)
	}
	return &ContainerInfo{
		TableLength:   int(binary.LittleEndian.Uint64(content[:tableLengthSize])),
		Symbols:       len(c.Table),
		Table:         c.Table,
		PayloadLength: len(c.Payload),
		TailBits:      c.TailBits,
		BitLength:     bitLength,
		MaxCodeLength: c.Table.maxCodeLength(),
	}, nil
}
