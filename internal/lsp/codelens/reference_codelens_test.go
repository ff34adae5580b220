package codelens

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/refindex"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSetup(t *testing.T) (string, *lsp.Server, *ReferenceCodeLensProvider, *refindex.ReferenceIndexer) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "mkdocs.yml"), []byte("site_name: test\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app.py"), []byte("print()\n"), 0644))

	fsys := workspace.OSFileSystem{}
	config := workspace.LoadConfig(root)
	roots := workspace.NewRootResolver(fsys)
	resolver := workspace.NewResolver(fsys, roots, config)

	refIndexer, err := refindex.NewReferenceIndexer(filepath.Join(t.TempDir(), "refs.db"), resolver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = refIndexer.Close() })

	server := lsp.NewServer(nil, config)
	server.RegisterIndexer(refIndexer)

	return root, server, NewReferenceCodeLensProvider(server, resolver), refIndexer
}

func TestCodeLensPerResolvableReference(t *testing.T) {
	root, server, provider, _ := newTestSetup(t)

	uri := "file://" + filepath.Join(root, "docs", "index.md")
	server.DocumentManager().OpenDocument(uri, "{* src/app.py *}\n{* src/gone.py *}\n", 1)

	params := &protocol.CodeLensParams{}
	params.TextDocument.URI = uri

	lenses := provider.GetCodeLenses(context.Background(), params)

	// Only the resolvable reference gets a lens
	require.Len(t, lenses, 1)
	assert.Nil(t, lenses[0].Command)

	data, ok := lenses[0].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "app.py"), data["target"])
}

func TestResolveCodeLensCountsDocuments(t *testing.T) {
	root, server, provider, refIndexer := newTestSetup(t)

	docA := filepath.Join(root, "docs", "a.md")
	docB := filepath.Join(root, "docs", "b.md")
	require.NoError(t, refIndexer.Index(docA, []byte("{* src/app.py *}\n")))
	require.NoError(t, refIndexer.Index(docB, []byte("{* src/app.py ln[1] *}\nand {* src/app.py *}\n")))

	uri := "file://" + filepath.Join(root, "docs", "index.md")
	server.DocumentManager().OpenDocument(uri, "{* src/app.py *}\n", 1)

	params := &protocol.CodeLensParams{}
	params.TextDocument.URI = uri
	lenses := provider.GetCodeLenses(context.Background(), params)
	require.Len(t, lenses, 1)

	resolved, err := provider.ResolveCodeLens(context.Background(), &lenses[0])
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.NotNil(t, resolved.Command)

	// Occurrences in the same document count once
	assert.Equal(t, "Included by 2 document(s)", resolved.Command.Title)
	assert.Equal(t, "codeinclude.openReferences", resolved.Command.Command)
	assert.Len(t, resolved.Command.Arguments, 2)
}

func TestResolveCodeLensWithoutData(t *testing.T) {
	_, _, provider, _ := newTestSetup(t)

	resolved, err := provider.ResolveCodeLens(context.Background(), &protocol.CodeLens{})
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
