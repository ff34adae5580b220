package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirListerMemoizes(t *testing.T) {
	fs := newFakeFS()
	fs.listings["/proj/src"] = []Entry{
		{Name: "a.py"},
		{Name: "sub", IsDir: true},
	}

	lister := NewDirLister(fs)

	first := lister.List("/proj/src")
	require.Len(t, first, 2)

	// Listing changes underneath; the cache keeps answering until
	// invalidated.
	fs.listings["/proj/src"] = []Entry{{Name: "b.py"}}

	second := lister.List("/proj/src")
	assert.Equal(t, first, second)

	lister.Invalidate("/proj/src")

	third := lister.List("/proj/src")
	require.Len(t, third, 1)
	assert.Equal(t, "b.py", third[0].Name)
}

func TestDirListerFailureDegradesToEmpty(t *testing.T) {
	lister := NewDirLister(newFakeFS())

	assert.Empty(t, lister.List("/does/not/exist"))
}

func TestDirListerClear(t *testing.T) {
	fs := newFakeFS()
	fs.listings["/proj"] = []Entry{{Name: "mkdocs.yml"}}

	lister := NewDirLister(fs)
	require.Len(t, lister.List("/proj"), 1)

	fs.listings["/proj"] = []Entry{{Name: "mkdocs.yml"}, {Name: "docs", IsDir: true}}
	lister.Clear()

	assert.Len(t, lister.List("/proj"), 2)
}
