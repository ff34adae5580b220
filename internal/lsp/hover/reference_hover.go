package hover

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

// ReferenceHoverProvider shows the referenced path, its included lines and
// the resolved target when hovering an inclusion reference.
type ReferenceHoverProvider struct {
	resolver *workspace.Resolver
}

func NewReferenceHoverProvider(resolver *workspace.Resolver) *ReferenceHoverProvider {
	return &ReferenceHoverProvider{resolver: resolver}
}

func (p *ReferenceHoverProvider) GetHover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	refs := reference.Scan(string(params.DocumentContent))
	ref, ok := reference.At(refs, params.Offset)
	if !ok {
		return nil, nil
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	resolved := p.resolver.Resolve(docDir, ref)

	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s`", ref.FilePath)
	if ref.LineRanges != nil {
		fmt.Fprintf(&sb, " at lines %s", reference.FormatRanges(ref.LineRanges))
	}
	if resolved.Exists {
		fmt.Fprintf(&sb, "\n\nResolves to `%s`", resolved.AbsolutePath)
	} else {
		sb.WriteString("\n\nThe referenced file does not exist")
	}

	doc := &lsp.TextDocument{Text: params.DocumentContent}
	startLine, startChar := doc.PositionAt(ref.Span.Start)
	endLine, endChar := doc.PositionAt(ref.Span.End)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: sb.String(),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: startLine, Character: startChar},
			End:   protocol.Position{Line: endLine, Character: endChar},
		},
	}, nil
}
