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
	"io"

	"github.com/pkg/errors"
)

type options struct {
	thin bool
}

// Option changes how an archive is written.
type Option func(*options)

// WithThin writes a thin archive, whose members record their names and sizes but not their data.
// Only the GNU variant supports thin archives.
func WithThin() Option {
	return func(o *options) {
		o.thin = true
	}
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build returns the complete contents of an archive holding members, in the order given, preceded
// by a symbol table in the format of variant v. The result depends only on its arguments, so the
// same input always produces the same bytes.
func Build(v Variant, members []Member, opts ...Option) ([]byte, error) {
	o := collectOptions(opts)
	l, err := planLayout(v, o.thin, members)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(int(l.size()))
	if err := l.writeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeTo writes the archive to w. Every header is rendered before the first write, so a failure
// to encode never leaves a truncated archive behind.
func (l *layout) writeTo(w io.Writer) error {
	preamble, err := l.symtab.encode(l.offsets)
	if err != nil {
		return err
	}
	names, err := l.names.member()
	if err != nil {
		return err
	}
	if names != nil {
		preamble = append(preamble, names)
	}

	if _, err := io.WriteString(w, l.magic()); err != nil {
		return err
	}
	for _, em := range preamble {
		if err := em.writeTo(w); err != nil {
			return err
		}
	}
	for _, em := range l.members {
		if err := em.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}

// Writer collects the members of an ar archive and writes the archive when it is closed. The
// symbol table at the front of an archive records where every member starts, so nothing can be
// written until all members are known.
//
// Example:
// archive := ar.NewWriter(writer, ar.GNU)
// if err := archive.Add(ar.Member{Name: "hello.o", Data: data, Symbols: []string{"hello"}}); err != nil {
// 	return err
// }
// return archive.Close()
type Writer struct {
	// w is the underlying io.Writer to which the archive file is written.
	w io.Writer

	// variant is the variant of the ar file format to write.
	variant Variant

	opts options

	// closed is true if Close has been called on this Writer, or false if it has not.
	closed bool

	// members holds the members added so far, in order. Their data is not copied, so callers must
	// not modify it before Close returns.
	members []Member
}

// NewWriter creates a new Writer that writes an ar archive of the given variant to an underlying
// io.Writer.
func NewWriter(w io.Writer, v Variant, opts ...Option) *Writer {
	return &Writer{
		w:       w,
		variant: v,
		opts:    collectOptions(opts),
	}
}

// Add appends a member to the archive.
func (aw *Writer) Add(m Member) error {
	if aw.closed {
		return ErrWriterClosed
	}
	aw.members = append(aw.members, m)
	return nil
}

// Close lays out the archive and writes it to the underlying io.Writer. Nothing is written if the
// members cannot be encoded. It does not close the underlying io.Writer.
func (aw *Writer) Close() error {
	if aw.closed {
		return ErrWriterClosed
	}
	aw.closed = true
	l, err := planLayout(aw.variant, aw.opts.thin, aw.members)
	if err != nil {
		return err
	}
	if err := l.writeTo(aw.w); err != nil {
		return errors.Wrapf(err, "ar: write %s archive", aw.variant)
	}
	return nil
}
