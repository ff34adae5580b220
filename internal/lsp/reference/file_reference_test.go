package reference

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

func newTestSetup(t *testing.T) (string, *FileReferenceProvider, *refindex.ReferenceIndexer) {
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

	return root, NewFileReferenceProvider(server, resolver), refIndexer
}

func TestFindReferencesAcrossDocuments(t *testing.T) {
	root, provider, refIndexer := newTestSetup(t)

	docA := filepath.Join(root, "docs", "a.md")
	docB := filepath.Join(root, "docs", "b.md")
	contentA := []byte("see {* src/app.py *}\n")
	contentB := []byte("intro\n{* src/app.py ln[1] *}\n")
	require.NoError(t, os.WriteFile(docA, contentA, 0644))
	require.NoError(t, os.WriteFile(docB, contentB, 0644))
	require.NoError(t, refIndexer.Index(docA, contentA))
	require.NoError(t, refIndexer.Index(docB, contentB))

	params := &protocol.ReferenceParams{}
	params.TextDocument.URI = "file://" + docA
	params.DocumentContent = contentA
	params.Offset = 8 // inside the reference

	locations := provider.GetReferences(context.Background(), params)

	require.Len(t, locations, 2)
	uris := []string{locations[0].URI, locations[1].URI}
	assert.ElementsMatch(t, []string{"file://" + docA, "file://" + docB}, uris)

	for _, loc := range locations {
		if loc.URI == "file://"+docB {
			assert.Equal(t, 1, loc.Range.Start.Line)
		}
	}
}

func TestFindReferencesOutsideReference(t *testing.T) {
	root, provider, _ := newTestSetup(t)

	params := &protocol.ReferenceParams{}
	params.TextDocument.URI = "file://" + filepath.Join(root, "docs", "a.md")
	params.DocumentContent = []byte("plain text {* src/app.py *}\n")
	params.Offset = 2

	locations := provider.GetReferences(context.Background(), params)
	assert.Empty(t, locations)
}

func TestFindReferencesSkipsUnreadableDocuments(t *testing.T) {
	root, provider, refIndexer := newTestSetup(t)

	gone := filepath.Join(root, "docs", "gone.md")
	content := []byte("{* src/app.py *}\n")
	require.NoError(t, refIndexer.Index(gone, content))
	// The indexed document no longer exists on disk

	params := &protocol.ReferenceParams{}
	params.TextDocument.URI = "file://" + filepath.Join(root, "docs", "a.md")
	params.DocumentContent = content
	params.Offset = 5

	locations := provider.GetReferences(context.Background(), params)
	assert.Empty(t, locations)
}
