// Package manifest loads the YAML description of an archive that mkar builds.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	ar "github.com/please-build/arlib"
)

// Manifest lists the members of an archive and the symbols each one defines.
type Manifest struct {
	Format  string   `yaml:"format"`
	Thin    bool     `yaml:"thin"`
	Members []Member `yaml:"members"`

	// dir is the directory member paths are relative to.
	dir string
}

// Member is one entry of a manifest. Name defaults to the base name of Path, or for a thin archive
// to Path relative to the archive, since that is where a linker will look for the file.
type Member struct {
	Name    string   `yaml:"name"`
	Path    string   `yaml:"path"`
	Symbols []string `yaml:"symbols"`
}

// Load reads the manifest at path. Relative member paths are resolved against its directory.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes a manifest. Unknown keys are an error, so typos don't silently drop settings.
func Parse(b []byte) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	if m.Format == "" {
		m.Format = ar.GNU.String()
	}
	for i, mem := range m.Members {
		if mem.Path == "" {
			return nil, errors.Errorf("member %d: missing path", i)
		}
	}
	return m, nil
}

// Variant returns the archive variant named by the manifest's format key.
func (m *Manifest) Variant() (ar.Variant, error) {
	return ar.ParseVariant(m.Format)
}

// ArchiveMembers reads every member's file and returns the members in manifest order.
// archivePath is where the archive will be written.
func (m *Manifest) ArchiveMembers(archivePath string) ([]ar.Member, error) {
	members := make([]ar.Member, len(m.Members))
	for i, mem := range m.Members {
		path := mem.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		name, err := m.memberName(mem, path, archivePath)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", name)
		}
		members[i] = ar.Member{Name: name, Data: data, Symbols: mem.Symbols}
	}
	return members, nil
}

func (m *Manifest) memberName(mem Member, path, archivePath string) (string, error) {
	if mem.Name != "" {
		return mem.Name, nil
	}
	if !m.Thin {
		return filepath.Base(path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "member %s", mem.Path)
	}
	archiveDir, err := filepath.Abs(filepath.Dir(archivePath))
	if err != nil {
		return "", errors.Wrap(err, "archive path")
	}
	rel, err := filepath.Rel(archiveDir, abs)
	if err != nil {
		return "", errors.Wrapf(err, "member %s", mem.Path)
	}
	return filepath.ToSlash(rel), nil
}
