// Package reference implements recognition of the inline file-inclusion
// syntax used in documentation sources:
//
//	{* path/to/file.py ln[3:6,8] hl[4] *}
//	{!> other/file.md !}
//
// A reference names a file relative to the project root, optionally
// restricted to a set of line ranges (ln) and with visually highlighted
// lines (hl).
package reference

import (
	"regexp"
)

// Span is a half-open byte range of a reference in its source text.
type Span struct {
	Start int
	End   int
}

// FileReference is one parsed occurrence of the inclusion syntax.
//
// LineRanges and HighlightRanges are nil when the matching clause is absent;
// a present-but-empty clause (ln[]) yields a non-nil slice. The distinction
// matters to consumers: nil means "whole file".
type FileReference struct {
	// FilePath is the raw path text as written, not resolved.
	FilePath string

	// LineRanges are the line ranges to include, in source order.
	LineRanges []RangeResult

	// HighlightRanges are the line ranges to highlight, in source order.
	HighlightRanges []RangeResult

	// Span covers the whole matched syntax in the scanned text.
	Span Span
}

// refPattern matches one reference: opening marker, optional modifier,
// mandatory whitespace, path, zero or more parameter blocks (keyword
// optional), closing marker. The opening and closing marker characters are
// captured separately; Scan rejects matches whose families differ, so
// {* ... !} is not a reference.
var refPattern = regexp.MustCompile(`\{([*!])[>+-]?\s+([\w/.\-]+)((?:\s+(?:ln|hl)?\[[^\]]*\])*)\s*([*!])\}`)

var (
	lnPattern = regexp.MustCompile(`\sln\[([^\]]*)\]`)
	hlPattern = regexp.MustCompile(`\shl\[([^\]]*)\]`)
)

// Scan finds all references in text, left to right, non-overlapping.
// Malformed parameter blocks never fail the scan; unlabeled [...] blocks
// count toward the span but set no field.
func Scan(text string) []FileReference {
	matches := refPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]FileReference, 0, len(matches))
	for _, m := range matches {
		opening := text[m[2]:m[3]]
		closing := text[m[8]:m[9]]
		if opening != closing {
			continue
		}

		ref := FileReference{
			FilePath: text[m[4]:m[5]],
			Span:     Span{Start: m[0], End: m[1]},
		}

		// Parameter blocks sit between the path and the closing marker.
		// Keyword attribution is last-wins when a keyword repeats.
		if m[6] >= 0 && m[7] > m[6] {
			params := text[m[6]:m[7]]
			if lists := lnPattern.FindAllStringSubmatch(params, -1); len(lists) > 0 {
				ref.LineRanges = ParseRanges(lists[len(lists)-1][1])
			}
			if lists := hlPattern.FindAllStringSubmatch(params, -1); len(lists) > 0 {
				ref.HighlightRanges = ParseRanges(lists[len(lists)-1][1])
			}
		}

		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		return nil
	}
	return refs
}

// At returns the reference whose span contains the given byte offset.
func At(refs []FileReference, offset int) (FileReference, bool) {
	for _, ref := range refs {
		if offset >= ref.Span.Start && offset < ref.Span.End {
			return ref, true
		}
	}
	return FileReference{}, false
}
