package diagnostics

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// ReferenceDiagnosticsProvider reports an error for every inclusion reference
// whose resolved target does not exist on disk.
type ReferenceDiagnosticsProvider struct {
	resolver *workspace.Resolver
}

func NewReferenceDiagnosticsProvider(resolver *workspace.Resolver) *ReferenceDiagnosticsProvider {
	return &ReferenceDiagnosticsProvider{resolver: resolver}
}

func (p *ReferenceDiagnosticsProvider) GetDiagnostics(ctx context.Context, uri string, content []byte) ([]protocol.Diagnostic, error) {
	docPath := strings.TrimPrefix(uri, "file://")
	doc := &lsp.TextDocument{Text: content}

	resolved := p.resolver.ResolveAll(filepath.Dir(docPath), string(content))

	diagnostics := make([]protocol.Diagnostic, 0)
	for _, ref := range resolved {
		if ref.Exists {
			continue
		}

		startLine, startChar := doc.PositionAt(ref.Span.Start)
		endLine, endChar := doc.PositionAt(ref.Span.End)

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: startLine, Character: startChar},
				End:   protocol.Position{Line: endLine, Character: endChar},
			},
			Message:  fmt.Sprintf("The referenced file does not exist: %s", ref.FilePath),
			Source:   "codeinclude",
			Severity: protocol.DiagnosticSeverityError,
			Code:     "reference.file.missing",
			Data: map[string]any{
				"path": ref.FilePath,
			},
		})
	}

	return diagnostics, nil
}
