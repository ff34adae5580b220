package workspace

import (
	"path/filepath"
	"sync"

	"github.com/tliron/commonlog"
)

var dirlistLog = commonlog.GetLogger("codeinclude.workspace")

// DirLister memoizes directory listings for the completion engine.
// An unreadable directory degrades to an empty listing; the failure is
// logged but never surfaced to the user.
type DirLister struct {
	fs FileSystem

	mu    sync.RWMutex
	cache map[string][]Entry
}

func NewDirLister(fs FileSystem) *DirLister {
	return &DirLister{
		fs:    fs,
		cache: make(map[string][]Entry),
	}
}

// List returns the entries of dir, from cache when possible.
func (l *DirLister) List(dir string) []Entry {
	dir = filepath.Clean(dir)

	l.mu.RLock()
	entries, ok := l.cache[dir]
	l.mu.RUnlock()
	if ok {
		return entries
	}

	entries, err := l.fs.ListDir(dir)
	if err != nil {
		dirlistLog.Debugf("listing %s failed: %v", dir, err)
		entries = nil
	}

	l.mu.Lock()
	l.cache[dir] = entries
	l.mu.Unlock()

	return entries
}

// Invalidate drops the cached listing of a single directory.
func (l *DirLister) Invalidate(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, filepath.Clean(dir))
}

// Clear drops all cached listings.
func (l *DirLister) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string][]Entry)
}
