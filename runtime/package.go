package runtime

import (
	"os"
	"path/filepath"
	"time"

	"github.com/tatolab/streamlib/pkginstall"
	"github.com/tatolab/streamlib/processor"
	"github.com/tatolab/streamlib/streamerr"
)

// PackageABIVersion is the STREAMLIB_PLUGIN ABI version this runtime
// accepts.
const PackageABIVersion = 1

// LoadPackage installs the package at sourcePath (a directory
// containing streamlib.yaml, or a .slpkg ZIP bundle) under
// Config.Home, recording it in the name-level manifest. Each Rust
// processor declared in the package is passed to LoadPlugin, which
// always returns NotSupported, so LoadPackage returns that error for
// such a package after the manifest entry has been saved;
// python/typescript processors are left for their respective runtime
// hosts to discover at process-spawn time (out of scope here).
func (r *Runtime) LoadPackage(sourcePath string) (*pkginstall.PackageManifest, error) {
	cacheDir := filepath.Join(r.cfg.Home, "cache", filepath.Base(sourcePath))

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, streamerr.Wrap(streamerr.Configuration, err, "runtime: package source %s not found", sourcePath)
	}

	var manifestPath string
	if info.IsDir() {
		manifestPath = filepath.Join(sourcePath, "streamlib.yaml")
		cacheDir = sourcePath
	} else {
		if err := pkginstall.ExtractSlpkg(sourcePath, cacheDir); err != nil {
			return nil, err
		}
		manifestPath = filepath.Join(cacheDir, "streamlib.yaml")
	}

	pkgManifest, err := pkginstall.LoadPackageManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	manifestFile := pkginstall.DefaultManifestPath(r.cfg.Home)
	installed, err := pkginstall.LoadManifest(manifestFile)
	if err != nil {
		return nil, err
	}
	installed.Add(pkginstall.NewEntry(pkgManifest.Name, pkgManifest.Version, "", sourcePath, cacheDir, time.Now()))
	if err := installed.Save(manifestFile); err != nil {
		return nil, err
	}

	for _, proc := range pkgManifest.Processors {
		if proc.Runtime != pkginstall.RuntimeRust {
			continue
		}
		dylibPath := filepath.Join(cacheDir, proc.Entrypoint)
		if err := LoadPlugin(r.registry, dylibPath); err != nil {
			return nil, err
		}
	}

	return pkgManifest, nil
}

// LoadPlugin verifies and loads a Rust STREAMLIB_PLUGIN dynamic
// library's exported symbol against registry.
//
// Always returns NotSupported: loading a C-ABI dynamic library symbol
// requires cgo plus a dlopen/dlsym binding, and no such binding exists
// anywhere in this pack for Go to ground one on. The ABI version
// constant and call shape above are kept so a real binding can be
// dropped in without changing any caller.
func LoadPlugin(registry *processor.Registry, dylibPath string) error {
	return streamerr.New(streamerr.NotSupported, "runtime: rust plugin loading (%s) requires a cgo dlopen binding not present in this build", dylibPath)
}
