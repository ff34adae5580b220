package codeaction

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// CreateFileCodeActionProvider offers to create the missing target file of a
// broken inclusion reference.
type CreateFileCodeActionProvider struct {
	resolver *workspace.Resolver
}

func NewCreateFileCodeActionProvider(resolver *workspace.Resolver) *CreateFileCodeActionProvider {
	return &CreateFileCodeActionProvider{resolver: resolver}
}

func (p *CreateFileCodeActionProvider) GetCodeActionKinds() []protocol.CodeActionKind {
	return []protocol.CodeActionKind{protocol.CodeActionQuickFix}
}

func (p *CreateFileCodeActionProvider) GetCodeActions(ctx context.Context, params *protocol.CodeActionParams) []protocol.CodeAction {
	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))

	var actions []protocol.CodeAction
	for _, diagnostic := range params.Context.Diagnostics {
		if diagnostic.Source != "codeinclude" {
			continue
		}
		code, _ := diagnostic.Code.(string)
		if code != "reference.file.missing" {
			continue
		}

		data, ok := diagnostic.Data.(map[string]any)
		if !ok {
			continue
		}
		rawPath, ok := data["path"].(string)
		if !ok || rawPath == "" {
			continue
		}

		absPath := rawPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(p.resolver.BaseDir(docDir), absPath)
		}

		actions = append(actions, protocol.CodeAction{
			Title:       fmt.Sprintf("Create %s", rawPath),
			Kind:        protocol.CodeActionQuickFix,
			Diagnostics: []protocol.Diagnostic{diagnostic},
			Command: &protocol.Command{
				Title:     fmt.Sprintf("Create %s", rawPath),
				Command:   "codeinclude.createFile",
				Arguments: []any{absPath},
			},
		})
	}

	return actions
}
