// Package refindex maintains a workspace-wide index of reference
// occurrences: which documentation file includes which target file, and
// where. It backs find-references and the per-reference code lens counts.
package refindex

import (
	"path/filepath"

	"github.com/codeinclude/codeinclude-lsp/internal/indexer"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// Occurrence is one reference occurrence, keyed in the index by the resolved
// target path.
type Occurrence struct {
	DocumentPath string `msgpack:"doc"`
	RawPath      string `msgpack:"raw"`
	TargetPath   string `msgpack:"target"`
	SpanStart    int    `msgpack:"start"`
	SpanEnd      int    `msgpack:"end"`
}

// ReferenceIndexer scans documentation files for inclusion references and
// stores their occurrences. Implements indexer.Indexer.
type ReferenceIndexer struct {
	index    *indexer.DataIndexer[Occurrence]
	resolver *workspace.Resolver
}

func NewReferenceIndexer(dbPath string, resolver *workspace.Resolver) (*ReferenceIndexer, error) {
	index, err := indexer.NewDataIndexer[Occurrence](dbPath)
	if err != nil {
		return nil, err
	}

	return &ReferenceIndexer{
		index:    index,
		resolver: resolver,
	}, nil
}

func (r *ReferenceIndexer) ID() string {
	return "reference.index"
}

// Index scans one documentation file and records every reference in it.
func (r *ReferenceIndexer) Index(path string, content []byte) error {
	resolved := r.resolver.ResolveAll(filepath.Dir(path), string(content))
	if len(resolved) == 0 {
		return nil
	}

	byTarget := make(map[string][]Occurrence)
	for _, ref := range resolved {
		byTarget[ref.AbsolutePath] = append(byTarget[ref.AbsolutePath], Occurrence{
			DocumentPath: path,
			RawPath:      ref.FilePath,
			TargetPath:   ref.AbsolutePath,
			SpanStart:    ref.Span.Start,
			SpanEnd:      ref.Span.End,
		})
	}

	return r.index.BatchSaveItems(map[string]map[string][]Occurrence{path: byTarget})
}

func (r *ReferenceIndexer) RemovedFiles(paths []string) error {
	return r.index.BatchDeleteByFilePaths(paths)
}

func (r *ReferenceIndexer) Clear() error {
	return r.index.Clear()
}

func (r *ReferenceIndexer) Close() error {
	return r.index.Close()
}

// ReferencesTo returns every occurrence whose resolved target is absPath.
func (r *ReferenceIndexer) ReferencesTo(absPath string) ([]Occurrence, error) {
	return r.index.GetValues(absPath)
}

// CountReferencesTo returns the number of occurrences targeting absPath.
func (r *ReferenceIndexer) CountReferencesTo(absPath string) (int, error) {
	return r.index.CountValues(absPath)
}

// Targets returns every distinct referenced target path in the workspace.
func (r *ReferenceIndexer) Targets() ([]string, error) {
	return r.index.GetAllKeys()
}
