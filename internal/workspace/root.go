package workspace

import (
	"path/filepath"
	"sync"
)

// MarkerFilename designates the project root: the nearest ancestor directory
// containing this file wins.
const MarkerFilename = "mkdocs.yml"

type rootEntry struct {
	root  string
	found bool
}

// RootResolver walks ancestor directories looking for the marker file and
// memoizes the answer for every directory it visits. The cache has no TTL;
// call Invalidate when the filesystem changes underneath it.
type RootResolver struct {
	fs     FileSystem
	marker string

	mu    sync.RWMutex
	cache map[string]rootEntry
}

func NewRootResolver(fs FileSystem) *RootResolver {
	return &RootResolver{
		fs:     fs,
		marker: MarkerFilename,
		cache:  make(map[string]rootEntry),
	}
}

// FindRoot returns the nearest ancestor of startDir (inclusive) that
// contains the marker file. The walk stops at the filesystem root, or when a
// directory repeats, which guards against pathological path resolution.
//
// Both outcomes are cached for every directory visited during the walk: on
// success they all share the same nearest root, and on failure they were all
// proven markerless.
func (r *RootResolver) FindRoot(startDir string) (string, bool) {
	startDir = filepath.Clean(startDir)

	r.mu.RLock()
	entry, ok := r.cache[startDir]
	r.mu.RUnlock()
	if ok {
		return entry.root, entry.found
	}

	visited := make(map[string]bool)
	var path []string

	dir := startDir
	for {
		if visited[dir] {
			break
		}
		visited[dir] = true

		r.mu.RLock()
		entry, ok := r.cache[dir]
		r.mu.RUnlock()
		if ok {
			r.store(path, entry)
			return entry.root, entry.found
		}
		path = append(path, dir)

		if r.fs.Exists(filepath.Join(dir, r.marker)) {
			entry := rootEntry{root: dir, found: true}
			r.store(path, entry)
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	r.store(path, rootEntry{})
	return "", false
}

func (r *RootResolver) store(dirs []string, entry rootEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dir := range dirs {
		r.cache[dir] = entry
	}
}

// Invalidate drops the whole cache. Wired to marker-file create/delete
// events from the workspace watcher.
func (r *RootResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]rootEntry)
}
