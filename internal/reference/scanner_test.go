package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSingleReference(t *testing.T) {
	text := "Some intro.\n\n{* a/b.py hl[5] *}\n\nTrailing text."

	refs := Scan(text)
	require.Len(t, refs, 1)

	ref := refs[0]
	assert.Equal(t, "a/b.py", ref.FilePath)
	assert.Nil(t, ref.LineRanges, "no ln clause means absent, not empty")
	require.Len(t, ref.HighlightRanges, 1)
	assert.Equal(t, LineRange{5, 5}, ref.HighlightRanges[0].Range)

	start := strings.Index(text, "{*")
	assert.Equal(t, Span{Start: start, End: start + len("{* a/b.py hl[5] *}")}, ref.Span)
}

func TestScanAttributesKeywordsIndependently(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "ln first", text: "{* a/b.py ln[3:6,8] hl[3,5:6] *}"},
		{name: "hl first", text: "{* a/b.py hl[3,5:6] ln[3:6,8] *}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := Scan(tt.text)
			require.Len(t, refs, 1)

			assert.Equal(t, ParseRanges("3:6,8"), refs[0].LineRanges)
			assert.Equal(t, ParseRanges("3,5:6"), refs[0].HighlightRanges)
		})
	}
}

func TestScanVariants(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		path     string
	}{
		{name: "star family", text: "{* src/main.go *}", expected: 1, path: "src/main.go"},
		{name: "bang family", text: "{! docs/intro.md !}", expected: 1, path: "docs/intro.md"},
		{name: "direction modifier", text: "{!> nested/include.md !}", expected: 1, path: "nested/include.md"},
		{name: "plus modifier", text: "{*+ a.py *}", expected: 1, path: "a.py"},
		{name: "minus modifier", text: "{*- a.py *}", expected: 1, path: "a.py"},
		{name: "mixed families rejected", text: "{* a.py !}", expected: 0},
		{name: "mixed families rejected reverse", text: "{! a.py *}", expected: 0},
		{name: "missing whitespace after marker", text: "{*a.py *}", expected: 0},
		{name: "no references", text: "plain markdown text", expected: 0},
		{name: "multiple references", text: "{* a.py *} and {! b.md !}", expected: 2, path: "a.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := Scan(tt.text)
			require.Len(t, refs, tt.expected)
			if tt.expected > 0 && tt.path != "" {
				assert.Equal(t, tt.path, refs[0].FilePath)
			}
		})
	}
}

func TestScanParameterBlocks(t *testing.T) {
	t.Run("unlabeled block is part of the span but sets no field", func(t *testing.T) {
		text := "{* a.py [3:6] *}"
		refs := Scan(text)
		require.Len(t, refs, 1)

		assert.Nil(t, refs[0].LineRanges)
		assert.Nil(t, refs[0].HighlightRanges)
		assert.Equal(t, Span{Start: 0, End: len(text)}, refs[0].Span)
	})

	t.Run("empty ln clause is present but empty, not absent", func(t *testing.T) {
		refs := Scan("{* a.py ln[] *}")
		require.Len(t, refs, 1)

		require.NotNil(t, refs[0].LineRanges)
		require.Len(t, refs[0].LineRanges, 1)
		assert.False(t, refs[0].LineRanges[0].Valid)
	})

	t.Run("repeated keyword last wins", func(t *testing.T) {
		refs := Scan("{* a.py ln[1] ln[2:3] *}")
		require.Len(t, refs, 1)

		assert.Equal(t, ParseRanges("2:3"), refs[0].LineRanges)
	})
}

func TestScanIsIdempotent(t *testing.T) {
	text := "intro {* a/b.py ln[3:6,8] hl[3] *} middle {!> c.md !} end"

	first := Scan(text)
	second := Scan(text)

	assert.Equal(t, first, second)
}

func TestAt(t *testing.T) {
	text := "xx {* a.py *} yy {* b.py *}"
	refs := Scan(text)
	require.Len(t, refs, 2)

	ref, ok := At(refs, strings.Index(text, "a.py"))
	require.True(t, ok)
	assert.Equal(t, "a.py", ref.FilePath)

	ref, ok = At(refs, strings.Index(text, "b.py"))
	require.True(t, ok)
	assert.Equal(t, "b.py", ref.FilePath)

	_, ok = At(refs, 0)
	assert.False(t, ok)
}
