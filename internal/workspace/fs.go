// Package workspace locates the project root for a document, resolves
// reference paths against it and answers directory listings for completion.
// Root discovery and listings are memoized; the caches are invalidated by
// filesystem events (see the indexer package) rather than by TTL.
package workspace

import (
	"os"
)

// Entry is one directory entry as seen by the completion engine.
type Entry struct {
	Name  string
	IsDir bool
}

// FileSystem is the minimal filesystem surface the workspace package needs.
// Tests substitute a fake that counts probes.
type FileSystem interface {
	// Exists reports whether the path exists. Symlinks are followed; files
	// and directories are not distinguished.
	Exists(path string) bool

	// ListDir lists the entries of a directory.
	ListDir(path string) ([]Entry, error)
}

// OSFileSystem is the FileSystem backed by the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) ListDir(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}
