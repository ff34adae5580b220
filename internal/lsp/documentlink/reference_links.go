package documentlink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/reference"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// ReferenceLinkProvider turns every resolvable inclusion reference into a
// clickable link to its target file.
type ReferenceLinkProvider struct {
	lspServer *lsp.Server
	resolver  *workspace.Resolver
}

func NewReferenceLinkProvider(lspServer *lsp.Server, resolver *workspace.Resolver) *ReferenceLinkProvider {
	return &ReferenceLinkProvider{
		lspServer: lspServer,
		resolver:  resolver,
	}
}

func (p *ReferenceLinkProvider) GetDocumentLinks(ctx context.Context, params *protocol.DocumentLinkParams) []protocol.DocumentLink {
	doc, ok := p.lspServer.DocumentManager().GetDocument(params.TextDocument.URI)
	if !ok {
		return nil
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	resolved := p.resolver.ResolveAll(docDir, string(doc.Text))

	var links []protocol.DocumentLink
	for _, ref := range resolved {
		if !ref.Exists {
			continue
		}

		tooltip := ref.FilePath
		if ref.LineRanges != nil {
			tooltip = fmt.Sprintf("%s at lines %s", ref.FilePath, reference.FormatRanges(ref.LineRanges))
		}

		startLine, startChar := doc.PositionAt(ref.Span.Start)
		endLine, endChar := doc.PositionAt(ref.Span.End)

		links = append(links, protocol.DocumentLink{
			Range: protocol.Range{
				Start: protocol.Position{Line: startLine, Character: startChar},
				End:   protocol.Position{Line: endLine, Character: endChar},
			},
			Target:  "file://" + ref.AbsolutePath,
			Tooltip: tooltip,
		})
	}

	return links
}
