package ar

import (
	"encoding/binary"
	"math"
	"strconv"
)

const (
	gnuSymtabName   = "/"
	gnuSymtab64Name = "/SYM64/"
	coffLinkerName  = "/"
	bsdSymtabName   = "__.SYMDEF SORTED"
)

// symbolTable is the index that precedes the regular members. Its size depends only on how many
// symbols and members there are and how long the symbol names are, never on the offsets it
// records, so it can be measured before the offsets are known.
type symbolTable struct {
	variant Variant
	// wide selects the GNU "/SYM64/" table with 8-byte counts and offsets.
	wide       bool
	syms       *symbolIndex
	numMembers int
}

// contentSizes returns the size of the data section of each symbol table member, in the order the
// members are written.
func (st *symbolTable) contentSizes() []int64 {
	n := st.syms.len()
	switch st.variant {
	case BSD:
		return []int64{4 + 8*n + 4 + alignTo(st.syms.nameBytes, 2)}
	case COFF:
		return []int64{
			4 + 4*int64(st.numMembers),
			alignTo(4+2*n+st.syms.nameBytes, 2),
		}
	default:
		w := int64(4)
		if st.wide {
			w = 8
		}
		return []int64{alignTo(w+n*w+st.syms.nameBytes, 2)}
	}
}

// size returns the number of bytes all symbol table members occupy in the archive.
func (st *symbolTable) size() int64 {
	var total int64
	for _, n := range st.contentSizes() {
		total += HEADER_BYTE_SIZE + n
	}
	if st.variant == BSD {
		total += int64(len(bsdSymtabName))
	}
	return total
}

// encode renders the symbol table members. offsets holds the absolute header offset of every
// regular member.
func (st *symbolTable) encode(offsets []int64) ([]*encodedMember, error) {
	sizes := st.contentSizes()
	var contents [][]byte
	switch st.variant {
	case BSD:
		contents = [][]byte{st.bsd(offsets, sizes[0])}
	case COFF:
		m1, m2 := st.coff(offsets, sizes[0], sizes[1])
		contents = [][]byte{m1, m2}
	default:
		contents = [][]byte{st.gnu(offsets, sizes[0])}
	}

	ret := make([]*encodedMember, len(contents))
	for i, data := range contents {
		hdr := &memberHeader{Name: st.name(), Size: int64(len(data))}
		var prefix []byte
		if st.variant == BSD {
			prefix = []byte(bsdSymtabName)
			hdr.Name = bsdNamePrefix + strconv.Itoa(len(prefix))
			hdr.Size += int64(len(prefix))
		}
		header, err := hdr.encode()
		if err != nil {
			return nil, err
		}
		ret[i] = &encodedMember{header: header, prefix: prefix, data: data}
	}
	return ret, nil
}

func (st *symbolTable) name() string {
	switch {
	case st.variant == COFF:
		return coffLinkerName
	case st.wide:
		return gnuSymtab64Name
	}
	return gnuSymtabName
}

// gnu lays out a big-endian count, one member offset per symbol in member order, then the names.
func (st *symbolTable) gnu(offsets []int64, size int64) []byte {
	b := make([]byte, 0, size)
	put := func(v int64) {
		if st.wide {
			b = binary.BigEndian.AppendUint64(b, uint64(v))
		} else {
			b = binary.BigEndian.AppendUint32(b, uint32(v))
		}
	}
	put(st.syms.len())
	for _, e := range st.syms.inOrder {
		put(offsets[e.member])
	}
	for _, e := range st.syms.inOrder {
		b = append(b, e.name...)
		b = append(b, 0)
	}
	return pad(b, size)
}

// bsd lays out little-endian (string offset, member offset) pairs sorted by symbol name, followed
// by the length of the string table and the string table itself.
func (st *symbolTable) bsd(offsets []int64, size int64) []byte {
	b := make([]byte, 0, size)
	b = binary.LittleEndian.AppendUint32(b, uint32(st.syms.len()))
	var strx uint32
	for _, e := range st.syms.sorted {
		b = binary.LittleEndian.AppendUint32(b, strx)
		b = binary.LittleEndian.AppendUint32(b, uint32(offsets[e.member]))
		strx += uint32(len(e.name)) + 1
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(alignTo(st.syms.nameBytes, 2)))
	for _, e := range st.syms.sorted {
		b = append(b, e.name...)
		b = append(b, 0)
	}
	return pad(b, size)
}

// coff lays out the two linker members of a Microsoft import or static library. The first lists
// every member's offset, big-endian; the second maps each symbol, sorted by name, to a 1-based
// index into that list.
func (st *symbolTable) coff(offsets []int64, size1, size2 int64) ([]byte, []byte) {
	m1 := make([]byte, 0, size1)
	m1 = binary.BigEndian.AppendUint32(m1, uint32(st.numMembers))
	for _, off := range offsets {
		m1 = binary.BigEndian.AppendUint32(m1, uint32(off))
	}

	m2 := make([]byte, 0, size2)
	m2 = binary.LittleEndian.AppendUint32(m2, uint32(st.syms.len()))
	for _, e := range st.syms.sorted {
		m2 = binary.LittleEndian.AppendUint16(m2, uint16(e.member+1))
	}
	for _, e := range st.syms.sorted {
		m2 = append(m2, e.name...)
		m2 = append(m2, 0)
	}
	return m1, pad(m2, size2)
}

// checkCounts reports counts that cannot be stored in the table's fixed-width fields.
func (st *symbolTable) checkCounts() error {
	if st.variant == COFF && st.numMembers > math.MaxUint16 {
		return &FieldOverflowError{Field: "linker member index", Value: strconv.Itoa(st.numMembers), Member: -1}
	}
	if !st.wide && st.syms.len() > math.MaxUint32 {
		return &FieldOverflowError{Field: "symbol count", Value: strconv.FormatInt(st.syms.len(), 10), Member: -1}
	}
	return nil
}

// pad extends b with NUL bytes up to size.
func pad(b []byte, size int64) []byte {
	for int64(len(b)) < size {
		b = append(b, 0)
	}
	return b
}

func alignTo(val, align int64) int64 {
	return (val + align - 1) / align * align
}
