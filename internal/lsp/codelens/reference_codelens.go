package codelens

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/refindex"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// ReferenceCodeLensProvider annotates every inclusion reference with how many
// documents in the workspace include the same target. The count is looked up
// lazily in ResolveCodeLens to keep the codeLens request itself cheap.
type ReferenceCodeLensProvider struct {
	lspServer *lsp.Server
	resolver  *workspace.Resolver
	refIndex  *refindex.ReferenceIndexer
}

func NewReferenceCodeLensProvider(lspServer *lsp.Server, resolver *workspace.Resolver) *ReferenceCodeLensProvider {
	refIndexer, _ := lspServer.GetIndexer("reference.index")
	return &ReferenceCodeLensProvider{
		lspServer: lspServer,
		resolver:  resolver,
		refIndex:  refIndexer.(*refindex.ReferenceIndexer),
	}
}

func (p *ReferenceCodeLensProvider) GetCodeLenses(ctx context.Context, params *protocol.CodeLensParams) []protocol.CodeLens {
	doc, ok := p.lspServer.DocumentManager().GetDocument(params.TextDocument.URI)
	if !ok {
		return nil
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	resolved := p.resolver.ResolveAll(docDir, string(doc.Text))

	var lenses []protocol.CodeLens
	for _, ref := range resolved {
		if !ref.Exists {
			continue
		}

		line, char := doc.PositionAt(ref.Span.Start)

		lenses = append(lenses, protocol.CodeLens{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: char},
				End:   protocol.Position{Line: line, Character: char},
			},
			Data: map[string]any{
				"target": ref.AbsolutePath,
			},
		})
	}

	return lenses
}

func (p *ReferenceCodeLensProvider) ResolveCodeLens(ctx context.Context, codeLens *protocol.CodeLens) (*protocol.CodeLens, error) {
	data, ok := codeLens.Data.(map[string]any)
	if !ok {
		return nil, nil
	}
	target, ok := data["target"].(string)
	if !ok {
		return nil, nil
	}

	occurrences, err := p.refIndex.ReferencesTo(target)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]bool)
	uris := make([]any, 0, len(occurrences))
	for _, occ := range occurrences {
		if documents[occ.DocumentPath] {
			continue
		}
		documents[occ.DocumentPath] = true
		uris = append(uris, "file://"+occ.DocumentPath)
	}

	codeLens.Command = &protocol.Command{
		Title:     fmt.Sprintf("Included by %d document(s)", len(documents)),
		Command:   "codeinclude.openReferences",
		Arguments: uris,
	}

	return codeLens, nil
}
