package indexer

// Indexer consumes scanned documentation files and maintains a derived
// index. Implementations must tolerate being fed the same file repeatedly.
type Indexer interface {
	ID() string
	Index(path string, content []byte) error
	RemovedFiles(paths []string) error
	Clear() error
	Close() error
}
