package ar

import (
	"fmt"
	"strings"
)

const (
	HEADER_BYTE_SIZE = 60
	GLOBAL_HEADER    = "!<arch>\n"
	THIN_HEADER      = "!<thin>\n"

	// MAX_MEMBER_SIZE is the largest value the 10-digit size field can hold.
	MAX_MEMBER_SIZE = 9999999999
)

// Variant selects the flavour of the ar format to write. It is fixed for a whole archive.
type Variant int

const (
	// BSD represents the variant of the ar file format used by BSD ar and the Darwin toolchain.
	BSD Variant = iota

	// GNU represents the System V variant of the ar file format used by GNU ar.
	GNU

	// COFF represents the variant of the ar file format used for Microsoft .lib files.
	COFF
)

func (v Variant) String() string {
	switch v {
	case BSD:
		return "bsd"
	case GNU:
		return "gnu"
	case COFF:
		return "coff"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant returns the Variant named by s. "darwin" is accepted as an alias for BSD.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "bsd", "darwin":
		return BSD, nil
	case "gnu", "sysv":
		return GNU, nil
	case "coff", "lib":
		return COFF, nil
	}
	return 0, fmt.Errorf("ar: unknown archive variant %q", s)
}

// Member is a single file to be placed in an archive, along with the symbols it defines.
// The archive writer never modifies a Member.
type Member struct {
	Name    string
	Data    []byte
	Symbols []string
}

type slicer []byte

func (sp *slicer) next(n int) (b []byte) {
	s := *sp
	b, *sp = s[0:n], s[n:]
	return
}
