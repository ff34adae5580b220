package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("codeinclude.command")

// WorkspaceCommandProvider implements the workspace/executeCommand side of
// the server: creating missing reference targets and changing the configured
// root directory.
type WorkspaceCommandProvider struct {
	lspServer *lsp.Server
	roots     *workspace.RootResolver
	dirs      *workspace.DirLister
}

func NewWorkspaceCommandProvider(lspServer *lsp.Server, roots *workspace.RootResolver, dirs *workspace.DirLister) *WorkspaceCommandProvider {
	return &WorkspaceCommandProvider{
		lspServer: lspServer,
		roots:     roots,
		dirs:      dirs,
	}
}

func (p *WorkspaceCommandProvider) GetCommands() map[string]lsp.CommandFunc {
	return map[string]lsp.CommandFunc{
		"codeinclude.createFile":       p.createFile,
		"codeinclude.setRootDirectory": p.setRootDirectory,
	}
}

// createFile creates an empty file at the given absolute path, including any
// missing parent directories, then re-validates open documents so the
// missing-file diagnostic disappears.
func (p *WorkspaceCommandProvider) createFile(ctx context.Context, args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("createFile expects a file path argument")
	}
	path, ok := args[0].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("createFile expects a file path argument")
	}

	if _, err := os.Stat(path); err == nil {
		return map[string]any{"path": path, "created": false}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	p.dirs.Invalidate(filepath.Dir(path))
	p.lspServer.RevalidateOpenDocuments()

	return map[string]any{"path": path, "created": true}, nil
}

// setRootDirectory persists the root directory override and drops every
// cache that depends on the previous base directory.
func (p *WorkspaceCommandProvider) setRootDirectory(ctx context.Context, args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("setRootDirectory expects a directory argument")
	}
	dir, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("setRootDirectory expects a directory argument")
	}

	if err := p.lspServer.Config().SetRootDirectory(dir); err != nil {
		return nil, err
	}

	p.roots.Invalidate()
	p.dirs.Clear()
	p.lspServer.RevalidateOpenDocuments()

	// Stored reference targets were resolved against the old base directory
	if err := p.lspServer.ForceReindex(ctx); err != nil {
		log.Errorf("error reindexing after root change: %s", err.Error())
	}

	return map[string]any{"rootDirectory": dir}, nil
}
