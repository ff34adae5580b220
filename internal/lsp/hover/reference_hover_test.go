package hover

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (string, *ReferenceHoverProvider) {
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

	return root, NewReferenceHoverProvider(resolver)
}

func hoverParams(root, text string, offset int) *protocol.HoverParams {
	params := &protocol.HoverParams{}
	params.TextDocument.URI = "file://" + filepath.Join(root, "docs", "index.md")
	params.DocumentContent = []byte(text)
	params.Offset = offset
	return params
}

func TestHoverShowsPathAndLines(t *testing.T) {
	root, provider := newTestProvider(t)

	text := "{* src/app.py ln[3:6,8,10:11] *}"

	hover, err := provider.GetHover(context.Background(), hoverParams(root, text, 5))
	require.NoError(t, err)
	require.NotNil(t, hover)

	assert.Contains(t, hover.Contents.Value, "`src/app.py`")
	assert.Contains(t, hover.Contents.Value, "at lines 3:6, 8, 10:11")
	assert.Contains(t, hover.Contents.Value, filepath.Join(root, "src", "app.py"))
	assert.Equal(t, protocol.Markdown, hover.Contents.Kind)

	require.NotNil(t, hover.Range)
	assert.Equal(t, 0, hover.Range.Start.Character)
	assert.Equal(t, len(text), hover.Range.End.Character)
}

func TestHoverWithoutLineRanges(t *testing.T) {
	root, provider := newTestProvider(t)

	text := "{* src/app.py *}"

	hover, err := provider.GetHover(context.Background(), hoverParams(root, text, 5))
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.NotContains(t, hover.Contents.Value, "at lines")
}

func TestHoverMissingTarget(t *testing.T) {
	root, provider := newTestProvider(t)

	text := "{* src/gone.py *}"

	hover, err := provider.GetHover(context.Background(), hoverParams(root, text, 5))
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "does not exist")
}

func TestHoverOutsideReference(t *testing.T) {
	root, provider := newTestProvider(t)

	text := "plain {* src/app.py *}"
	offset := strings.Index(text, "plain")

	hover, err := provider.GetHover(context.Background(), hoverParams(root, text, offset))
	require.NoError(t, err)
	assert.Nil(t, hover)
}
