package huffman

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// CodeTable maps each symbol to its code, written as a string of '0' and '1'.
type CodeTable map[rune]string

// progressStep is how many symbols are encoded between progress callbacks.
const progressStep = 4096

// BuildCodeTable derives the code table for the given frequencies. An empty
// frequency table yields an empty code table. A single distinct symbol is
// given the one-bit code "0".
func BuildCodeTable(symbolFreq FrequencyTable) (CodeTable, error) {
	table := make(CodeTable, len(symbolFreq))
	if len(symbolFreq) == 0 {
		return table, nil
	}
	root := buildTree(symbolFreq)
	if root.isLeaf() {
		table[root.symbol] = "0"
		return table, nil
	}
	if err := assignCodes(root, table, ""); err != nil {
		return nil, err
	}
	return table, nil
}

func assignCodes(n *treeNode, table CodeTable, prefix string) error {
	if n.isLeaf() {
		table[n.symbol] = prefix
		return nil
	}
	if n.left == nil || n.right == nil {
		return fmt.Errorf("%w: node %d has a missing child", errInternalDefect, n.seq)
	}
	if err := assignCodes(n.left, table, prefix+"0"); err != nil {
		return err
	}
	return assignCodes(n.right, table, prefix+"1")
}

// Encode concatenates the code of every symbol of content in order. progress,
// when not nil, is called with the number of symbols encoded since the
// previous call.
func (ct CodeTable) Encode(content string, progress func(symbols int)) (bitString, error) {
	var output strings.Builder
	pending := 0
	for _, symbol := range content {
		code, ok := ct[symbol]
		if !ok {
			return "", fmt.Errorf("%w: %q (U+%04X)", ErrMissingCode, symbol, symbol)
		}
		output.WriteString(code)
		pending++
		if progress != nil && pending == progressStep {
			progress(pending)
			pending = 0
		}
	}
	if progress != nil && pending > 0 {
		progress(pending)
	}
	return bitString(output.String()), nil
}

// Invert returns the code to symbol view used for decoding.
func (ct CodeTable) Invert() map[string]rune {
	inverted := make(map[string]rune, len(ct))
	for symbol, code := range ct {
		inverted[code] = symbol
	}
	return inverted
}

func (ct CodeTable) maxCodeLength() int {
	longest := 0
	for _, code := range ct {
		longest = max(longest, len(code))
	}
	return longest
}

// Symbols returns the symbols of the table in ascending order.
func (ct CodeTable) Symbols() []rune {
	keys := make([]rune, 0, len(ct))
	for r := range ct {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	return keys
}

// validate checks that every key is a Unicode scalar value and that the codes
// are non-empty, made of '0' and '1' only, unique and prefix-free.
func (ct CodeTable) validate() error {
	codes := make([]string, 0, len(ct))
	for symbol, code := range ct {
		if !utf8.ValidRune(symbol) {
			return fmt.Errorf("symbol %d is not a Unicode scalar value", symbol)
		}
		if code == "" {
			return fmt.Errorf("symbol %q has an empty code", symbol)
		}
		if strings.Trim(code, "01") != "" {
			return fmt.Errorf("symbol %q has code %q with non-binary digits", symbol, code)
		}
		codes = append(codes, code)
	}
	// In lexical order a code that prefixes another sorts directly before
	// some code it prefixes, so checking neighbours is enough.
	slices.Sort(codes)
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return fmt.Errorf("code %q is a prefix of %q", codes[i-1], codes[i])
		}
	}
	return nil
}
