package workspace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFS is an in-memory FileSystem that counts existence probes.
type fakeFS struct {
	files    map[string]bool
	listings map[string][]Entry
	probes   int
}

func newFakeFS(paths ...string) *fakeFS {
	fs := &fakeFS{
		files:    make(map[string]bool),
		listings: make(map[string][]Entry),
	}
	for _, p := range paths {
		fs.files[filepath.Clean(p)] = true
	}
	return fs
}

func (f *fakeFS) Exists(path string) bool {
	f.probes++
	return f.files[filepath.Clean(path)]
}

func (f *fakeFS) ListDir(path string) ([]Entry, error) {
	entries, ok := f.listings[filepath.Clean(path)]
	if !ok {
		return nil, errors.New("no such directory")
	}
	return entries, nil
}

func TestFindRootWalksUpToMarker(t *testing.T) {
	fs := newFakeFS("/proj/mkdocs.yml")
	resolver := NewRootResolver(fs)

	root, found := resolver.FindRoot("/proj/docs/guides")
	require.True(t, found)
	assert.Equal(t, "/proj", root)
}

func TestFindRootCachesEveryVisitedDirectory(t *testing.T) {
	fs := newFakeFS("/proj/mkdocs.yml")
	resolver := NewRootResolver(fs)

	_, found := resolver.FindRoot("/proj/docs/guides")
	require.True(t, found)
	probesAfterFirst := fs.probes

	// Sibling and intermediate directories hit the cache populated by the
	// first walk; no new filesystem probes happen.
	root, found := resolver.FindRoot("/proj/docs")
	require.True(t, found)
	assert.Equal(t, "/proj", root)

	root, found = resolver.FindRoot("/proj")
	require.True(t, found)
	assert.Equal(t, "/proj", root)

	assert.Equal(t, probesAfterFirst, fs.probes)
}

func TestFindRootRepeatedCallIsCached(t *testing.T) {
	fs := newFakeFS("/proj/mkdocs.yml")
	resolver := NewRootResolver(fs)

	first, foundFirst := resolver.FindRoot("/proj/docs")
	probes := fs.probes
	second, foundSecond := resolver.FindRoot("/proj/docs")

	assert.Equal(t, first, second)
	assert.Equal(t, foundFirst, foundSecond)
	assert.Equal(t, probes, fs.probes, "second call must not probe the filesystem")
}

func TestFindRootNotFound(t *testing.T) {
	fs := newFakeFS()
	resolver := NewRootResolver(fs)

	_, found := resolver.FindRoot("/elsewhere/deep/dir")
	assert.False(t, found)

	// Negative results are cached for the visited ancestors too.
	probes := fs.probes
	_, found = resolver.FindRoot("/elsewhere/deep")
	assert.False(t, found)
	_, found = resolver.FindRoot("/elsewhere")
	assert.False(t, found)
	assert.Equal(t, probes, fs.probes)
}

func TestFindRootPrefersNearestMarker(t *testing.T) {
	fs := newFakeFS("/outer/mkdocs.yml", "/outer/inner/mkdocs.yml")
	resolver := NewRootResolver(fs)

	root, found := resolver.FindRoot("/outer/inner/docs")
	require.True(t, found)
	assert.Equal(t, "/outer/inner", root)
}

func TestInvalidateDropsCache(t *testing.T) {
	fs := newFakeFS()
	resolver := NewRootResolver(fs)

	_, found := resolver.FindRoot("/proj/docs")
	require.False(t, found)

	// Marker appears after the negative result was cached.
	fs.files[filepath.Clean("/proj/mkdocs.yml")] = true

	_, found = resolver.FindRoot("/proj/docs")
	assert.False(t, found, "cache is authoritative until invalidated")

	resolver.Invalidate()

	root, found := resolver.FindRoot("/proj/docs")
	require.True(t, found)
	assert.Equal(t, "/proj", root)
}
