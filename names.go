package ar

import (
	"strconv"
	"strings"
)

// maxInlineName is the longest name that fits in the 16-byte name field alongside GNU's trailing '/'.
const maxInlineName = 15

const (
	stringTableName = "//"
	bsdNamePrefix   = "#1/"
)

// memberName is the decision about how one member's name appears in the archive.
type memberName struct {
	// field is the text of the header's name field.
	field string
	// prefix holds bytes written between the header and the data. Only BSD archives use it, to
	// store the full name.
	prefix []byte
}

// nameTable holds the name decision for every member, and the contents of the "//" member that
// long GNU and COFF names spill into. data is nil if no name spilled.
type nameTable struct {
	names []memberName
	data  []byte
}

// buildNameTable decides how each member's name is written. Offsets recorded in "/<offset>" name
// fields are relative to the first byte of the table's data.
func buildNameTable(v Variant, thin bool, members []Member) (*nameTable, error) {
	nt := &nameTable{names: make([]memberName, len(members))}
	// Identical long names share an entry, which matters for import libraries where every member
	// tends to carry the DLL's name.
	longNames := map[string]int{}
	for i, m := range members {
		if err := checkName(v, m.Name); err != nil {
			return nil, &NameEncodingError{Index: i, Name: m.Name, Err: err}
		}
		switch v {
		case BSD:
			nt.names[i] = memberName{
				field:  bsdNamePrefix + strconv.Itoa(len(m.Name)),
				prefix: []byte(m.Name),
			}
		case GNU, COFF:
			// A '/' inside an inline name would be taken for the terminator, so such names always
			// go to the table, where the entry ends at "/\n".
			if !thin && len(m.Name) <= maxInlineName && !strings.Contains(m.Name, "/") {
				nt.names[i] = memberName{field: m.Name + "/"}
				continue
			}
			off, present := longNames[m.Name]
			if !present || thin {
				off = len(nt.data)
				longNames[m.Name] = off
				nt.data = append(nt.data, m.Name...)
				nt.data = append(nt.data, '/', '\n')
			}
			nt.names[i] = memberName{field: "/" + strconv.Itoa(off)}
		}
		if len(nt.names[i].field) > 16 {
			return nil, &FieldOverflowError{Field: "name", Value: nt.names[i].field, Member: i, Name: m.Name}
		}
	}
	if len(nt.data)%2 != 0 {
		nt.data = append(nt.data, '\n')
	}
	return nt, nil
}

// checkName rejects names that a reader of variant v could not recover unambiguously. GNU and
// COFF readers strip the trailing '/' that terminates every name, so a name of their own may not
// end in one. BSD names are stored verbatim and have no such restriction.
func checkName(v Variant, name string) error {
	switch {
	case name == "":
		return errEmptyName
	case strings.ContainsAny(name, "\n\x00"):
		return errCtrlInName
	case v != BSD && strings.HasSuffix(name, "/"):
		return errSlashInName
	}
	return nil
}

// size returns the number of bytes the "//" member occupies in the archive, header included.
func (nt *nameTable) size() int64 {
	if nt.data == nil {
		return 0
	}
	return HEADER_BYTE_SIZE + int64(len(nt.data))
}

// member returns the "//" member ready for writing, or nil if the archive does not need one.
func (nt *nameTable) member() (*encodedMember, error) {
	if nt.data == nil {
		return nil, nil
	}
	hdr := &memberHeader{Name: stringTableName, Size: int64(len(nt.data)), blank: true}
	header, err := hdr.encode()
	if err != nil {
		return nil, err
	}
	return &encodedMember{header: header, data: nt.data}, nil
}
