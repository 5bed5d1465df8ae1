/*
Copyright (c) 2013 Blake Smith <blakesmith0@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package ar

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scannedMember is one member of an archive as found by scanArchive.
type scannedMember struct {
	// Offset is the position of the member's header in the archive.
	Offset int64

	// Field is the raw, space-trimmed name field; Name is the resolved file name.
	Field string
	Name  string

	ModTime string
	Uid     string
	Gid     string
	Mode    string

	// Size is the value of the header's size field.
	Size int64

	// Data is the member's data, without any BSD name prefix.
	Data []byte
}

// scannedArchive is the result of re-reading an archive produced by Build. It exists so that tests
// can check the writer's output against an independent reading of it.
type scannedArchive struct {
	Thin        bool
	Symtabs     []scannedMember
	StringTable []byte
	Members     []scannedMember
}

type symbolRef struct {
	Name   string
	Offset int64
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " ")
}

// scanArchive walks every header in b. It fails the test on any structural problem.
func scanArchive(t *testing.T, b []byte, v Variant) *scannedArchive {
	t.Helper()
	require.GreaterOrEqual(t, len(b), len(GLOBAL_HEADER), "missing global header")
	arch := &scannedArchive{}
	switch string(b[:len(GLOBAL_HEADER)]) {
	case GLOBAL_HEADER:
	case THIN_HEADER:
		arch.Thin = true
	default:
		t.Fatalf("invalid global header %q", b[:len(GLOBAL_HEADER)])
	}

	pos := int64(len(GLOBAL_HEADER))
	for pos < int64(len(b)) {
		require.Zero(t, pos%2, "member at odd offset %d", pos)
		require.LessOrEqual(t, pos+HEADER_BYTE_SIZE, int64(len(b)), "truncated header at %d", pos)
		s := slicer(b[pos : pos+HEADER_BYTE_SIZE])
		m := scannedMember{Offset: pos}
		m.Field = trimField(s.next(16))
		m.ModTime = trimField(s.next(12))
		m.Uid = trimField(s.next(6))
		m.Gid = trimField(s.next(6))
		m.Mode = trimField(s.next(8))
		size, err := strconv.ParseInt(trimField(s.next(10)), 10, 64)
		require.NoError(t, err, "size field at %d", pos)
		m.Size = size
		require.Equal(t, headerTerminator, string(s.next(2)), "header terminator at %d", pos)

		body := pos + HEADER_BYTE_SIZE
		special := m.Field == "/" || m.Field == "//" || m.Field == "/SYM64/"
		if arch.Thin && !special {
			// Thin members record a size but carry no data.
			pos = body
		} else {
			require.LessOrEqual(t, body+size, int64(len(b)), "truncated data for member at %d", pos)
			m.Data = b[body : body+size]
			pos = body + size + size%2
		}

		switch {
		case m.Field == "/" || m.Field == "/SYM64/":
			arch.Symtabs = append(arch.Symtabs, m)
			continue
		case m.Field == "//":
			arch.StringTable = m.Data
			continue
		case strings.HasPrefix(m.Field, bsdNamePrefix):
			n, err := strconv.Atoi(m.Field[len(bsdNamePrefix):])
			require.NoError(t, err, "invalid long file name length at %d", m.Offset)
			m.Name = string(bytes.TrimRight(m.Data[:n], "\x00"))
			m.Data = m.Data[n:]
			if strings.HasPrefix(m.Name, "__.SYMDEF") {
				arch.Symtabs = append(arch.Symtabs, m)
				continue
			}
		case strings.HasPrefix(m.Field, "/"):
			require.NotNil(t, arch.StringTable, "missing string table")
			start, err := strconv.Atoi(m.Field[1:])
			require.NoError(t, err, "invalid string table offset %q", m.Field)
			require.Less(t, start, len(arch.StringTable))
			end := bytes.Index(arch.StringTable[start:], []byte("/\n"))
			require.NotEqual(t, -1, end, "string table entry missing trailing '/\\n'")
			m.Name = string(arch.StringTable[start : start+end])
		default:
			require.True(t, strings.HasSuffix(m.Field, "/"), "file name %q is missing trailing '/'", m.Field)
			m.Name = strings.TrimSuffix(m.Field, "/")
		}
		arch.Members = append(arch.Members, m)
	}
	require.Equal(t, int64(len(b)), pos, "archive length")
	return arch
}

// symbols decodes the archive's symbol table into (name, header offset) pairs in the order they
// are stored.
func (arch *scannedArchive) symbols(t *testing.T, v Variant) []symbolRef {
	t.Helper()
	switch v {
	case BSD:
		require.Len(t, arch.Symtabs, 1)
		return bsdSymbols(t, arch.Symtabs[0].Data)
	case COFF:
		require.Len(t, arch.Symtabs, 2)
		return coffSymbols(t, arch.Symtabs[0].Data, arch.Symtabs[1].Data)
	default:
		require.Len(t, arch.Symtabs, 1)
		return gnuSymbols(t, arch.Symtabs[0].Data, arch.Symtabs[0].Field == "/SYM64/")
	}
}

func cstrings(b []byte, n int) []string {
	var ret []string
	for i := 0; i < n; i++ {
		end := bytes.IndexByte(b, 0)
		if end == -1 {
			break
		}
		ret = append(ret, string(b[:end]))
		b = b[end+1:]
	}
	return ret
}

func gnuSymbols(t *testing.T, data []byte, wide bool) []symbolRef {
	w := 4
	word := func(b []byte) int64 { return int64(binary.BigEndian.Uint32(b)) }
	if wide {
		w = 8
		word = func(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }
	}
	n := int(word(data))
	require.LessOrEqual(t, w+n*w, len(data))
	names := cstrings(data[w+n*w:], n)
	require.Len(t, names, n)
	ret := make([]symbolRef, n)
	for i := range ret {
		ret[i] = symbolRef{Name: names[i], Offset: word(data[w+i*w:])}
	}
	return ret
}

func bsdSymbols(t *testing.T, data []byte) []symbolRef {
	n := int(binary.LittleEndian.Uint32(data))
	require.LessOrEqual(t, 4+8*n+4, len(data))
	strtab := data[4+8*n+4:]
	require.Equal(t, int(binary.LittleEndian.Uint32(data[4+8*n:])), len(strtab))
	ret := make([]symbolRef, n)
	for i := range ret {
		pair := data[4+8*i:]
		strx := binary.LittleEndian.Uint32(pair)
		names := cstrings(strtab[strx:], 1)
		require.Len(t, names, 1)
		ret[i] = symbolRef{Name: names[0], Offset: int64(binary.LittleEndian.Uint32(pair[4:]))}
	}
	return ret
}

func coffSymbols(t *testing.T, first, second []byte) []symbolRef {
	numMembers := int(binary.BigEndian.Uint32(first))
	require.Equal(t, 4+4*numMembers, len(first))
	n := int(binary.LittleEndian.Uint32(second))
	require.LessOrEqual(t, 4+2*n, len(second))
	names := cstrings(second[4+2*n:], n)
	require.Len(t, names, n)
	ret := make([]symbolRef, n)
	for i := range ret {
		index := int(binary.LittleEndian.Uint16(second[4+2*i:]))
		require.True(t, index >= 1 && index <= numMembers, "member index %d out of range", index)
		ret[i] = symbolRef{Name: names[i], Offset: int64(binary.BigEndian.Uint32(first[4*index:]))}
	}
	return ret
}
