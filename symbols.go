package ar

import (
	"sort"
)

// symbolEntry ties a symbol to the index of the member that defines it.
type symbolEntry struct {
	name   string
	member int
}

// symbolIndex is the archive's symbol map, in member order and sorted by name. It is computed
// once from the input and never changed afterwards.
type symbolIndex struct {
	inOrder   []symbolEntry
	sorted    []symbolEntry
	nameBytes int64 // total length of all names, including one NUL terminator each
}

// collectSymbols gathers every member's symbols, rejecting any symbol defined twice.
func collectSymbols(members []Member) (*symbolIndex, error) {
	idx := &symbolIndex{}
	seen := map[string]int{}
	for i, m := range members {
		for _, sym := range m.Symbols {
			if first, present := seen[sym]; present {
				return nil, &DuplicateSymbolError{Symbol: sym, First: first, Second: i}
			}
			seen[sym] = i
			idx.inOrder = append(idx.inOrder, symbolEntry{name: sym, member: i})
			idx.nameBytes += int64(len(sym)) + 1
		}
	}
	idx.sorted = make([]symbolEntry, len(idx.inOrder))
	copy(idx.sorted, idx.inOrder)
	// Names are unique, so the sort is total and the result deterministic.
	sort.Slice(idx.sorted, func(i, j int) bool {
		return idx.sorted[i].name < idx.sorted[j].name
	})
	return idx, nil
}

func (idx *symbolIndex) len() int64 {
	return int64(len(idx.inOrder))
}
