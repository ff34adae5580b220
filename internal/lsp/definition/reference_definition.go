package definition

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/reference"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// ReferenceDefinitionProvider jumps from an inclusion reference to the
// referenced file.
type ReferenceDefinitionProvider struct {
	resolver *workspace.Resolver
}

func NewReferenceDefinitionProvider(resolver *workspace.Resolver) *ReferenceDefinitionProvider {
	return &ReferenceDefinitionProvider{resolver: resolver}
}

func (p *ReferenceDefinitionProvider) GetDefinition(ctx context.Context, params *protocol.DefinitionParams) []protocol.Location {
	refs := reference.Scan(string(params.DocumentContent))
	ref, ok := reference.At(refs, params.Offset)
	if !ok {
		return nil
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	resolved := p.resolver.Resolve(docDir, ref)
	if !resolved.Exists {
		return nil
	}

	// Land on the first included line when the reference names one
	targetLine := 0
	for _, r := range ref.LineRanges {
		if r.Valid {
			targetLine = r.Range.Start - 1
			break
		}
	}
	if targetLine < 0 {
		targetLine = 0
	}

	return []protocol.Location{
		{
			URI: "file://" + resolved.AbsolutePath,
			Range: protocol.Range{
				Start: protocol.Position{Line: targetLine, Character: 0},
				End:   protocol.Position{Line: targetLine, Character: 0},
			},
		},
	}
}
