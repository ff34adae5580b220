// Package indexer scans the workspace for documentation files, keeps a
// small on-disk state store so unchanged files are skipped, and feeds file
// contents to registered indexers. A filesystem watcher keeps the index and
// the workspace caches current while the server runs.
package indexer

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
	"go.etcd.io/bbolt"
)

var log = commonlog.GetLogger("codeinclude.scanner")

// scannedFileTypes are the documentation sources that can contain inline
// file references.
var scannedFileTypes = []string{".md", ".markdown", ".mdx"}

var defaultSkipDirs = map[string]bool{
	"node_modules": true,
	"site":         true,
	"vendor":       true,
	".git":         true,
	".github":      true,
	".venv":        true,
	"venv":         true,
	".cache":       true,
	".idea":        true,
	".vscode":      true,
}

const watcherDebounce = 200 * time.Millisecond

// FileScanner walks the workspace for markdown files and tracks changes.
type FileScanner struct {
	workspaceRoot string
	db            *bbolt.DB
	indexers      []Indexer
	watcher       *fsnotify.Watcher
	watcherCtx    context.Context
	cancel        context.CancelFunc
	watcherWg     sync.WaitGroup
	onUpdate      func()
	onFSEvent     func(path string, removed bool)
}

// NewFileScanner creates a file scanner whose state store lives at dbPath.
func NewFileScanner(workspaceRoot string, dbPath string) (*FileScanner, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout:      time.Second,
		NoSync:       true,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte("file_states")); err != nil {
			return fmt.Errorf("failed to create file states bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileScanner{
		workspaceRoot: workspaceRoot,
		db:            db,
		watcherCtx:    ctx,
		cancel:        cancel,
	}, nil
}

// SetOnUpdate registers a callback invoked after a batch of files was
// indexed or removed.
func (fs *FileScanner) SetOnUpdate(onUpdate func()) {
	fs.onUpdate = onUpdate
}

// SetOnFSEvent registers a callback invoked for every filesystem event in
// the workspace, scanned file type or not. The workspace caches hook in
// here: a marker file appearing or a directory entry changing must
// invalidate the root and listing caches.
func (fs *FileScanner) SetOnFSEvent(onFSEvent func(path string, removed bool)) {
	fs.onFSEvent = onFSEvent
}

func (fs *FileScanner) AddIndexer(indexer Indexer) {
	fs.indexers = append(fs.indexers, indexer)
}

// StartWatcher begins watching the workspace for changes. Events are
// coalesced for a short quiet interval before reindexing.
func (fs *FileScanner) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fs.watcher = watcher
	fs.watcherWg.Add(1)

	go func() {
		defer fs.watcherWg.Done()
		defer func() {
			if fs.watcher != nil {
				_ = fs.watcher.Close()
			}
		}()

		pendingAdds := make(map[string]bool)
		pendingRemoves := make(map[string]bool)
		debounceTimer := time.NewTimer(time.Hour)
		debounceTimer.Stop()

		resetDebounce := func() {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(watcherDebounce)
		}

		processChanges := func() {
			if len(pendingAdds) > 0 {
				filesToAdd := make([]string, 0, len(pendingAdds))
				for file := range pendingAdds {
					filesToAdd = append(filesToAdd, file)
				}
				pendingAdds = make(map[string]bool)

				log.Debugf("processing %d changed files", len(filesToAdd))
				if err := fs.IndexFiles(fs.watcherCtx, filesToAdd); err != nil {
					log.Errorf("indexing files: %v", err)
				}
			}

			if len(pendingRemoves) > 0 {
				filesToRemove := make([]string, 0, len(pendingRemoves))
				for file := range pendingRemoves {
					filesToRemove = append(filesToRemove, file)
				}
				pendingRemoves = make(map[string]bool)

				log.Debugf("processing %d deleted files", len(filesToRemove))
				if err := fs.RemoveFiles(filesToRemove); err != nil {
					log.Errorf("removing files: %v", err)
				}
			}
		}

		for {
			select {
			case <-fs.watcherCtx.Done():
				processChanges()
				return

			case event, ok := <-fs.watcher.Events:
				if !ok {
					return
				}

				if fs.skippedPath(event.Name) {
					continue
				}

				removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
				if fs.onFSEvent != nil {
					fs.onFSEvent(event.Name, removed)
				}

				info, err := os.Stat(event.Name)
				if err != nil {
					if removed && fs.scannedFile(event.Name) {
						pendingRemoves[event.Name] = true
						delete(pendingAdds, event.Name)
						resetDebounce()
					}
					continue
				}

				if info.IsDir() {
					if event.Op&fsnotify.Create != 0 {
						if err := fs.addDirectoryToWatcher(event.Name); err != nil {
							log.Errorf("watching new directory: %v", err)
						}
					}
					continue
				}

				if !fs.scannedFile(event.Name) {
					continue
				}

				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					pendingAdds[event.Name] = true
					delete(pendingRemoves, event.Name)
					resetDebounce()
				} else if removed {
					pendingRemoves[event.Name] = true
					delete(pendingAdds, event.Name)
					resetDebounce()
				}

			case err, ok := <-fs.watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("file watcher: %v", err)

			case <-debounceTimer.C:
				processChanges()
			}
		}
	}()

	return fs.addDirectoryToWatcher(fs.workspaceRoot)
}

// StopWatcher stops the file watcher and waits for pending work.
func (fs *FileScanner) StopWatcher() {
	if fs.watcher != nil {
		fs.cancel()
		fs.watcherWg.Wait()
		fs.watcher = nil
	}
}

func (fs *FileScanner) scannedFile(path string) bool {
	return slices.Contains(scannedFileTypes, strings.ToLower(filepath.Ext(path)))
}

func (fs *FileScanner) skippedPath(path string) bool {
	relPath, err := filepath.Rel(fs.workspaceRoot, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(relPath, string(os.PathSeparator)) {
		if defaultSkipDirs[part] {
			return true
		}
	}
	return false
}

// addDirectoryToWatcher recursively adds a directory tree to the watcher.
func (fs *FileScanner) addDirectoryToWatcher(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip what we can't access
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && fs.skippedPath(path) {
			return filepath.SkipDir
		}
		if err := fs.watcher.Add(path); err != nil {
			log.Errorf("watching directory %s: %v", path, err)
		}
		return nil
	})
}

// Close stops the watcher and closes the state store and all indexers.
func (fs *FileScanner) Close() error {
	if fs.watcher != nil {
		fs.StopWatcher()
	}

	if fs.db != nil {
		if err := fs.db.Close(); err != nil {
			return err
		}
		fs.db = nil
	}

	for _, indexer := range fs.indexers {
		if err := indexer.Close(); err != nil {
			return err
		}
	}

	return nil
}

// IndexAll walks the workspace and indexes every documentation file.
func (fs *FileScanner) IndexAll(ctx context.Context) error {
	var files []string

	err := filepath.Walk(fs.workspaceRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip what we can't access
		}

		if info.IsDir() {
			if path != fs.workspaceRoot && fs.skippedPath(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if fs.scannedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk workspace: %w", err)
	}

	log.Infof("found %d documentation files to index", len(files))

	startTime := time.Now()
	if err := fs.IndexFiles(ctx, files); err != nil {
		return fmt.Errorf("failed to index files: %w", err)
	}
	log.Infof("indexing took %s", time.Since(startTime))

	return nil
}

// fileNeedsIndexing compares size and mtime against the state store.
func (fs *FileScanner) fileNeedsIndexing(path string) (bool, []byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, nil, nil, err
	}

	var fileChanged bool
	err = fs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte("file_states"))
		if b == nil {
			fileChanged = true
			return nil
		}

		stateBytes := b.Get([]byte(path))
		if len(stateBytes) != 16 {
			fileChanged = true
			return nil
		}

		storedSize := binary.LittleEndian.Uint64(stateBytes[:8])
		storedMtime := binary.LittleEndian.Uint64(stateBytes[8:])
		fileChanged = storedSize != uint64(info.Size()) || storedMtime != uint64(info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		fileChanged = true
	}

	if !fileChanged {
		return false, nil, info, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, nil, info, err
	}

	return true, content, info, nil
}

// RemoveFiles removes files from the state store and all indexers.
func (fs *FileScanner) RemoveFiles(paths []string) error {
	for _, indexer := range fs.indexers {
		if err := indexer.RemovedFiles(paths); err != nil {
			return err
		}
	}

	err := fs.db.Update(func(tx *bbolt.Tx) error {
		stateBucket := tx.Bucket([]byte("file_states"))
		for _, path := range paths {
			if err := stateBucket.Delete([]byte(path)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if fs.onUpdate != nil {
		fs.onUpdate()
	}

	return nil
}

func (fs *FileScanner) updateFileStates(files []fileState) error {
	return fs.db.Update(func(tx *bbolt.Tx) error {
		stateBucket := tx.Bucket([]byte("file_states"))
		for _, file := range files {
			stateBytes := make([]byte, 16)
			binary.LittleEndian.PutUint64(stateBytes[:8], uint64(file.info.Size()))
			binary.LittleEndian.PutUint64(stateBytes[8:], uint64(file.info.ModTime().UnixNano()))
			if err := stateBucket.Put([]byte(file.path), stateBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

type fileState struct {
	path string
	info os.FileInfo
}

// IndexFiles processes files in parallel, skipping unchanged ones.
func (fs *FileScanner) IndexFiles(ctx context.Context, files []string) error {
	filtered := make([]string, 0, len(files))
	for _, path := range files {
		if !fs.skippedPath(path) && fs.scannedFile(path) {
			filtered = append(filtered, path)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8
	}

	fileChan := make(chan string, 100)
	errChan := make(chan error, len(filtered))

	var wg sync.WaitGroup
	var stateMu sync.Mutex
	var states []fileState

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for path := range fileChan {
				if ctx.Err() != nil {
					return
				}

				needsIndexing, content, info, err := fs.fileNeedsIndexing(path)
				if err != nil {
					continue // Stat/read noise, skip
				}
				if !needsIndexing {
					continue
				}

				if err := fs.removeFilesFromIndexers([]string{path}); err != nil {
					errChan <- err
					continue
				}

				for _, indexer := range fs.indexers {
					if err := indexer.Index(path, content); err != nil {
						errChan <- err
					}
				}

				stateMu.Lock()
				states = append(states, fileState{path: path, info: info})
				stateMu.Unlock()
			}
		}()
	}

	for _, path := range filtered {
		fileChan <- path
	}
	close(fileChan)

	wg.Wait()
	close(errChan)

	if err := fs.updateFileStates(states); err != nil {
		return err
	}

	for err := range errChan {
		log.Errorf("processing file: %v", err)
	}

	if fs.onUpdate != nil {
		fs.onUpdate()
	}

	return nil
}

func (fs *FileScanner) removeFilesFromIndexers(paths []string) error {
	for _, indexer := range fs.indexers {
		if err := indexer.RemovedFiles(paths); err != nil {
			return err
		}
	}
	return nil
}

// ClearStates clears all file states and indexers, forcing a full reindex.
func (fs *FileScanner) ClearStates() error {
	for _, indexer := range fs.indexers {
		if err := indexer.Clear(); err != nil {
			return err
		}
	}

	return fs.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte("file_states")); err != nil {
			return fmt.Errorf("failed to delete file states bucket: %w", err)
		}
		if _, err := tx.CreateBucket([]byte("file_states")); err != nil {
			return fmt.Errorf("failed to create file states bucket: %w", err)
		}
		return nil
	})
}
