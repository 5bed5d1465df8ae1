package ar

import (
	"errors"
	"io"
)

// padByte follows any member whose header and payload add up to an odd number of bytes.
const padByte = '\n'

// encodedMember is a member in its final on-disk form, apart from its position in the archive.
type encodedMember struct {
	header []byte
	prefix []byte
	data   []byte
	pad    bool
}

// encodeMember builds the header for m using the name decided by the name table. In a thin archive
// the header records the length of the data, but the data itself is left out.
func encodeMember(index int, m Member, name memberName, thin bool) (*encodedMember, error) {
	payload := int64(len(name.prefix)) + int64(len(m.Data))
	hdr := &memberHeader{Name: name.field, Mode: regularMode, Size: payload}
	header, err := hdr.encode()
	if err != nil {
		return nil, annotateOverflow(err, index, m.Name)
	}
	em := &encodedMember{header: header, prefix: name.prefix}
	if !thin {
		em.data = m.Data
		em.pad = payload%2 != 0
	}
	return em, nil
}

// size returns the number of bytes the member occupies in the archive, header and padding included.
func (em *encodedMember) size() int64 {
	n := int64(len(em.header) + len(em.prefix) + len(em.data))
	if em.pad {
		n++
	}
	return n
}

func (em *encodedMember) writeTo(w io.Writer) error {
	for _, b := range [][]byte{em.header, em.prefix, em.data} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	if em.pad {
		if _, err := w.Write([]byte{padByte}); err != nil {
			return err
		}
	}
	return nil
}

func annotateOverflow(err error, index int, name string) error {
	var fe *FieldOverflowError
	if errors.As(err, &fe) {
		fe.Member = index
		fe.Name = name
	}
	return err
}
