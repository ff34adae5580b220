package workspace

import (
	"path/filepath"

	"github.com/codeinclude/codeinclude-lsp/internal/reference"
)

// ResolvedReference is a scanned reference plus its absolute target path and
// the existence check result at resolution time. Existence is re-checked on
// every pass since files may appear or vanish between passes.
type ResolvedReference struct {
	reference.FileReference

	AbsolutePath string
	Exists       bool
}

// Resolver turns raw reference paths into absolute filesystem paths.
type Resolver struct {
	fs     FileSystem
	roots  *RootResolver
	config *Config
}

func NewResolver(fs FileSystem, roots *RootResolver, config *Config) *Resolver {
	return &Resolver{fs: fs, roots: roots, config: config}
}

// BaseDir selects the directory all relative paths in a document resolve
// against: the configured override when set, otherwise the discovered
// project root, otherwise the document's own directory.
func (r *Resolver) BaseDir(docDir string) string {
	if override, ok := r.config.RootOverride(); ok {
		return override
	}
	if root, ok := r.roots.FindRoot(docDir); ok {
		return root
	}
	return docDir
}

// Resolve resolves a single reference against the document's base directory.
func (r *Resolver) Resolve(docDir string, ref reference.FileReference) ResolvedReference {
	abs := ref.FilePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.BaseDir(docDir), abs)
	}
	abs = filepath.Clean(abs)

	return ResolvedReference{
		FileReference: ref,
		AbsolutePath:  abs,
		Exists:        r.fs.Exists(abs),
	}
}

// ResolveAll scans a document's text and resolves every reference in it.
func (r *Resolver) ResolveAll(docDir string, text string) []ResolvedReference {
	refs := reference.Scan(text)
	if len(refs) == 0 {
		return nil
	}

	base := r.BaseDir(docDir)
	resolved := make([]ResolvedReference, 0, len(refs))
	for _, ref := range refs {
		abs := ref.FilePath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(base, abs)
		}
		abs = filepath.Clean(abs)

		resolved = append(resolved, ResolvedReference{
			FileReference: ref,
			AbsolutePath:  abs,
			Exists:        r.fs.Exists(abs),
		})
	}
	return resolved
}
