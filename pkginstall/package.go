package pkginstall

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tatolab/streamlib/streamerr"
)

// ProcessorRuntime is which language host executes a package's
// processor entrypoint.
type ProcessorRuntime string

const (
	RuntimeRust       ProcessorRuntime = "rust"
	RuntimePython     ProcessorRuntime = "python"
	RuntimeTypeScript ProcessorRuntime = "typescript"
)

// ProcessorSpec is one streamlib.yaml processor-list entry.
type ProcessorSpec struct {
	Name       string           `yaml:"name"`
	Runtime    ProcessorRuntime `yaml:"runtime"`
	Entrypoint string           `yaml:"entrypoint,omitempty"`
}

// PackageManifest is the parsed contents of a package's streamlib.yaml.
type PackageManifest struct {
	Name       string          `yaml:"name"`
	Version    string          `yaml:"version"`
	Processors []ProcessorSpec `yaml:"processors"`
}

// ParsePackageManifest parses a streamlib.yaml document.
func ParsePackageManifest(data []byte) (*PackageManifest, error) {
	var m PackageManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to parse streamlib.yaml")
	}
	if m.Name == "" {
		return nil, streamerr.New(streamerr.Configuration, "pkginstall: streamlib.yaml missing required field \"name\"")
	}
	if m.Version == "" {
		return nil, streamerr.New(streamerr.Configuration, "pkginstall: streamlib.yaml missing required field \"version\"")
	}
	for _, p := range m.Processors {
		switch p.Runtime {
		case RuntimeRust, RuntimePython, RuntimeTypeScript:
		default:
			return nil, streamerr.New(streamerr.Configuration, "pkginstall: processor %q has unknown runtime %q", p.Name, p.Runtime)
		}
	}
	return &m, nil
}

// LoadPackageManifest reads and parses the streamlib.yaml at path.
func LoadPackageManifest(path string) (*PackageManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to read %s", path)
	}
	return ParsePackageManifest(data)
}

// ExtractSlpkg extracts a .slpkg ZIP archive into destDir, creating it
// if necessary. archive/zip transparently handles both stored and
// deflated entries.
func ExtractSlpkg(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to open %s", archivePath)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create destination %s", destDir)
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
			return streamerr.New(streamerr.Configuration, "pkginstall: archive entry %q escapes destination directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create directory %s", target)
			}
			continue
		}
		if err := extractSlpkgFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractSlpkgFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create directory %s", filepath.Dir(target))
	}
	src, err := f.Open()
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to open archive entry %s", f.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to create %s", target)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return streamerr.Wrap(streamerr.Configuration, err, "pkginstall: failed to extract %s", f.Name)
	}
	return nil
}
