package runtime

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatolab/streamlib/pkginstall"
	"github.com/tatolab/streamlib/processor"
	"github.com/tatolab/streamlib/streamerr"
)

const testPackageYAML = `
name: overlay-bundle
version: 1.0.0
processors:
  - name: overlay-sink
    runtime: python
    entrypoint: overlay_sink.py
`

func TestLoadPackageFromDirectory(t *testing.T) {
	rt := newTestRuntime(t)

	pkgDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "streamlib.yaml"), []byte(testPackageYAML), 0o644))

	manifest, err := rt.LoadPackage(pkgDir)
	require.NoError(t, err)
	assert.Equal(t, "overlay-bundle", manifest.Name)

	installed, err := pkginstall.LoadManifest(pkginstall.DefaultManifestPath(rt.Config().Home))
	require.NoError(t, err)
	entry, ok := installed.FindByName("overlay-bundle")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", entry.Version)
}

func TestLoadPackageFromSlpkgArchive(t *testing.T) {
	rt := newTestRuntime(t)

	archivePath := filepath.Join(t.TempDir(), "bundle.slpkg")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "streamlib.yaml", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write([]byte(testPackageYAML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	manifest, err := rt.LoadPackage(archivePath)
	require.NoError(t, err)
	assert.Equal(t, "overlay-bundle", manifest.Name)
}

func TestLoadPackageMissingSourceErrors(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.LoadPackage(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestLoadPluginReturnsNotSupported(t *testing.T) {
	err := LoadPlugin(processor.NewRegistry(), "/tmp/libfake.so")
	require.Error(t, err)
	assert.Equal(t, streamerr.NotSupported, mustKind(t, err))
}

func mustKind(t *testing.T, err error) streamerr.Kind {
	t.Helper()
	k, ok := streamerr.KindOf(err)
	require.True(t, ok)
	return k
}
