package indexer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOccurrence struct {
	Document string
	Offset   int
}

func newTestIndex(t *testing.T) *DataIndexer[testOccurrence] {
	t.Helper()
	idx, err := NewDataIndexer[testOccurrence](filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestDataIndexerRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.BatchSaveItems(map[string]map[string][]testOccurrence{
		"/proj/docs/a.md": {
			"/proj/src/app.py": {
				{Document: "/proj/docs/a.md", Offset: 10},
				{Document: "/proj/docs/a.md", Offset: 80},
			},
		},
		"/proj/docs/b.md": {
			"/proj/src/app.py": {
				{Document: "/proj/docs/b.md", Offset: 4},
			},
			"/proj/src/util.py": {
				{Document: "/proj/docs/b.md", Offset: 44},
			},
		},
	})
	require.NoError(t, err)

	values, err := idx.GetValues("/proj/src/app.py")
	require.NoError(t, err)
	assert.Len(t, values, 3)

	count, err := idx.CountValues("/proj/src/app.py")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	keys, err := idx.GetAllKeys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/proj/src/app.py", "/proj/src/util.py"}, keys)
}

func TestDataIndexerDeleteByFilePaths(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.BatchSaveItems(map[string]map[string][]testOccurrence{
		"/proj/docs/a.md": {"/proj/src/app.py": {{Document: "/proj/docs/a.md", Offset: 1}}},
		"/proj/docs/b.md": {"/proj/src/app.py": {{Document: "/proj/docs/b.md", Offset: 2}}},
	})
	require.NoError(t, err)

	require.NoError(t, idx.BatchDeleteByFilePaths([]string{"/proj/docs/a.md"}))

	values, err := idx.GetValues("/proj/src/app.py")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "/proj/docs/b.md", values[0].Document)
}

func TestDataIndexerClear(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.BatchSaveItems(map[string]map[string][]testOccurrence{
		"/proj/docs/a.md": {"/proj/src/app.py": {{Document: "/proj/docs/a.md", Offset: 1}}},
	})
	require.NoError(t, err)

	require.NoError(t, idx.Clear())

	keys, err := idx.GetAllKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
