// mkar builds an ar archive from a YAML manifest listing its members and their symbols.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"

	ar "github.com/please-build/arlib"
	"github.com/please-build/arlib/internal/manifest"
)

func main() {
	manifestPath := flag.String("manifest", "", "YAML manifest describing the archive members")
	out := flag.String("o", "", "path of the archive to write")
	format := flag.String("format", "", "archive variant (gnu, bsd, darwin, coff); overrides the manifest")
	thin := flag.Bool("thin", false, "write a thin archive (GNU only)")

	flag.Parse()
	if *manifestPath == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*manifestPath, *out, *format, *thin); err != nil {
		log.Fatalf("mkar: %v", err)
	}
}

func run(manifestPath, out, format string, thin bool) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if format != "" {
		m.Format = format
	}
	v, err := m.Variant()
	if err != nil {
		return err
	}
	m.Thin = m.Thin || thin
	members, err := m.ArchiveMembers(out)
	if err != nil {
		return err
	}

	var opts []ar.Option
	if m.Thin {
		opts = append(opts, ar.WithThin())
	}
	b, err := ar.Build(v, members, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, b, 0644); err != nil {
		return errors.Wrap(err, "write archive")
	}
	log.Printf("Wrote %s archive %s: %d members, %d bytes", v, out, len(members), len(b))
	return nil
}
