// Package pkginstall tracks installed StreamLib packages across
// restarts: a name-level manifest of what is installed, and a per-(runtime, processor) SQLite index of
// where each processor's extracted files live on disk.
package pkginstall

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tatolab/streamlib/streamerr"
)

// Entry is one installed package's manifest record.
type Entry struct {
	Name          string `yaml:"name"`
	Version       string `yaml:"version"`
	Description   string `yaml:"description,omitempty"`
	InstalledFrom string `yaml:"installed_from"`
	InstalledAt   string `yaml:"installed_at"`
	CacheDir      string `yaml:"cache_dir"`
}

// Manifest is the name-level record of every package installed under
// one STREAMLIB_HOME, persisted at packages.yaml.
type Manifest struct {
	Packages []Entry `yaml:"packages"`
}

// DefaultManifestPath returns <streamlibHome>/packages.yaml.
func DefaultManifestPath(streamlibHome string) string {
	return filepath.Join(streamlibHome, "packages.yaml")
}

// LoadManifest reads the manifest at path, returning an empty
// Manifest if the file does not exist yet.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to read %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to parse %s", path)
	}
	return &m, nil
}

// Save writes the manifest to path, creating parent directories as
// needed.
func (m *Manifest) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create directory %s", dir)
		}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to serialize manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to write %s", path)
	}
	return nil
}

// FindByName returns the entry for name, if installed.
func (m *Manifest) FindByName(name string) (Entry, bool) {
	for _, e := range m.Packages {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Add inserts entry, replacing any existing entry with the same name.
func (m *Manifest) Add(entry Entry) {
	kept := m.Packages[:0]
	for _, e := range m.Packages {
		if e.Name != entry.Name {
			kept = append(kept, e)
		}
	}
	m.Packages = append(kept, entry)
}

// RemoveByName removes the entry for name, reporting whether one was
// found.
func (m *Manifest) RemoveByName(name string) (Entry, bool) {
	for i, e := range m.Packages {
		if e.Name == name {
			m.Packages = append(m.Packages[:i], m.Packages[i+1:]...)
			return e, true
		}
	}
	return Entry{}, false
}

// NewEntry builds an Entry stamped with the current time in RFC3339,
// the form the manifest persists installation times in.
func NewEntry(name, version, description, installedFrom, cacheDir string, now time.Time) Entry {
	return Entry{
		Name:          name,
		Version:       version,
		Description:   description,
		InstalledFrom: installedFrom,
		InstalledAt:   now.UTC().Format(time.RFC3339),
		CacheDir:      cacheDir,
	}
}
