package ar

import (
	"math"
	"strconv"
)

// sym64Threshold is the header offset at or beyond which a GNU archive needs the 64-bit symbol
// table. Tests lower it to exercise the switch without writing gigabytes.
var sym64Threshold int64 = 1 << 32

// maxOffset32 is the largest header offset a 32-bit symbol table can record. BSD and COFF archives
// have no wider table to fall back on. Tests lower it like sym64Threshold.
var maxOffset32 int64 = math.MaxUint32

// layout is a fully sized archive: every member is encoded and every offset is final.
type layout struct {
	variant  Variant
	thin     bool
	names    *nameTable
	symtab   *symbolTable
	members  []*encodedMember
	offsets  []int64
	preamble int64
}

// planLayout sizes every part of the archive and fixes the absolute offset of each member header.
// All input errors are reported from here, before anything is written.
//
// Member offsets depend on how large the symbol table is, and the symbol table holds those offsets.
// Because each offset occupies a fixed number of bytes whatever its value, the table can be sized
// from the symbol count and name lengths alone, so one pass over the members is enough.
func planLayout(v Variant, thin bool, members []Member) (*layout, error) {
	if thin && v != GNU {
		return nil, ErrThinVariant
	}
	names, err := buildNameTable(v, thin, members)
	if err != nil {
		return nil, err
	}
	syms, err := collectSymbols(members)
	if err != nil {
		return nil, err
	}

	l := &layout{
		variant: v,
		thin:    thin,
		names:   names,
		symtab:  &symbolTable{variant: v, syms: syms, numMembers: len(members)},
		members: make([]*encodedMember, len(members)),
		offsets: make([]int64, len(members)),
	}
	// Offsets relative to the end of the preamble first.
	var pos int64
	for i, m := range members {
		em, err := encodeMember(i, m, names.names[i], thin)
		if err != nil {
			return nil, err
		}
		l.members[i] = em
		l.offsets[i] = pos
		pos += em.size()
	}

	var lastHeader int64
	if len(members) > 0 {
		lastHeader = l.offsets[len(members)-1]
	}
	if v == GNU && l.preambleSize()+lastHeader >= sym64Threshold {
		l.symtab.wide = true
	}
	if err := l.symtab.checkCounts(); err != nil {
		return nil, err
	}

	l.preamble = l.preambleSize()
	for i := range l.offsets {
		l.offsets[i] += l.preamble
	}
	if !l.symtab.wide && len(members) > 0 && l.preamble+lastHeader > maxOffset32 {
		last := len(members) - 1
		return nil, &FieldOverflowError{
			Field:  "symbol table offset",
			Value:  strconv.FormatInt(l.offsets[last], 10),
			Member: last,
			Name:   members[last].Name,
		}
	}
	return l, nil
}

// preambleSize is the number of bytes before the first regular member: the magic string, the
// symbol table and the long name table.
func (l *layout) preambleSize() int64 {
	return int64(len(GLOBAL_HEADER)) + l.symtab.size() + l.names.size()
}

// size returns the total length of the archive.
func (l *layout) size() int64 {
	n := l.preamble
	for _, em := range l.members {
		n += em.size()
	}
	return n
}

func (l *layout) magic() string {
	if l.thin {
		return THIN_HEADER
	}
	return GLOBAL_HEADER
}
