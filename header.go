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
	"strconv"
)

const (
	// regularMode is the mode recorded for every ordinary archive member.
	regularMode = 0100644

	headerTerminator = "`\n"
)

// memberHeader holds the variable fields of a member header. The modification time, owner and
// group are always written as 0 so that archives are reproducible.
type memberHeader struct {
	Name string
	Mode int64
	Size int64

	// blank leaves the date, owner, group and mode fields empty, as GNU ar does for the "//" member.
	blank bool
}

// encode renders the header into its fixed 60-byte form. A field that is too wide results in a
// *FieldOverflowError with Member set to -1; the caller fills in which member it was.
func (hdr *memberHeader) encode() ([]byte, error) {
	header := make([]byte, HEADER_BYTE_SIZE)
	s := slicer(header)

	date, uid, gid, mode := "0", "0", "0", strconv.FormatInt(hdr.Mode, 8)
	if hdr.blank {
		date, uid, gid, mode = "", "", "", ""
	}
	for _, f := range []struct {
		width int
		name  string
		value string
	}{
		{16, "name", hdr.Name},
		{12, "modification time", date},
		{6, "owner id", uid},
		{6, "group id", gid},
		{8, "mode", mode},
		{10, "size", strconv.FormatInt(hdr.Size, 10)},
		{2, "terminator", headerTerminator},
	} {
		if err := field(s.next(f.width), f.name, f.value); err != nil {
			return nil, err
		}
	}
	return header, nil
}

// field writes str left-justified into b and pads the remainder with spaces.
func field(b []byte, name, str string) error {
	if len(str) > len(b) {
		return &FieldOverflowError{Field: name, Value: str, Member: -1}
	}
	n := copy(b, str)
	for i := n; i < len(b); i++ {
		b[i] = ' '
	}
	return nil
}
