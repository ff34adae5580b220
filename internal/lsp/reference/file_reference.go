package reference

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/refindex"
	refsyntax "github.com/codeinclude/codeinclude-lsp/internal/reference"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// FileReferenceProvider answers find-references on an inclusion reference:
// every place in the workspace that includes the same target file.
type FileReferenceProvider struct {
	resolver *workspace.Resolver
	refIndex *refindex.ReferenceIndexer
}

func NewFileReferenceProvider(lspServer *lsp.Server, resolver *workspace.Resolver) *FileReferenceProvider {
	refIndexer, _ := lspServer.GetIndexer("reference.index")
	return &FileReferenceProvider{
		resolver: resolver,
		refIndex: refIndexer.(*refindex.ReferenceIndexer),
	}
}

func (p *FileReferenceProvider) GetReferences(ctx context.Context, params *protocol.ReferenceParams) []protocol.Location {
	refs := refsyntax.Scan(string(params.DocumentContent))
	ref, ok := refsyntax.At(refs, params.Offset)
	if !ok {
		return nil
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	resolved := p.resolver.Resolve(docDir, ref)

	occurrences, err := p.refIndex.ReferencesTo(resolved.AbsolutePath)
	if err != nil {
		return nil
	}

	var locations []protocol.Location
	for _, occ := range occurrences {
		content, err := os.ReadFile(occ.DocumentPath)
		if err != nil {
			continue
		}

		doc := &lsp.TextDocument{Text: content}
		startLine, startChar := doc.PositionAt(occ.SpanStart)
		endLine, endChar := doc.PositionAt(occ.SpanEnd)

		locations = append(locations, protocol.Location{
			URI: "file://" + occ.DocumentPath,
			Range: protocol.Range{
				Start: protocol.Position{Line: startLine, Character: startChar},
				End:   protocol.Position{Line: endLine, Character: endChar},
			},
		})
	}

	return locations
}
