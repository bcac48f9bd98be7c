package huffman

import "slices"

// FrequencyTable counts how often each symbol occurs in a text.
type FrequencyTable map[rune]int

func CountFrequencies(content string) FrequencyTable {
	symbolFreq := make(FrequencyTable)
	for _, c := range content {
		symbolFreq[c]++
	}
	return symbolFreq
}

// Symbols returns the distinct symbols in ascending order.
func (ft FrequencyTable) Symbols() []rune {
	keys := make([]rune, 0, len(ft))
	for r := range ft {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	return keys
}
