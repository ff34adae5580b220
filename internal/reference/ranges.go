package reference

import (
	"strconv"
	"strings"
)

// LineRange is an inclusive pair of line numbers. A single line N is
// represented as (N, N).
type LineRange struct {
	Start int
	End   int
}

// RangeResult is one comma-separated segment of a range list. When the
// segment text is not numeric, Valid is false and Raw carries the original
// text so callers can skip or flag it without relying on sentinel values.
type RangeResult struct {
	Range LineRange
	Raw   string
	Valid bool
}

// ParseRanges parses a comma-separated range list such as "3:6,8,10:11".
// Each segment is either a bare integer N, yielding (N, N), or A:B, yielding
// (A, B). Parsing is purely syntactic: no sorting, merging, deduplication or
// A <= B validation happens here, and malformed segments never produce an
// error. Insertion order is preserved.
func ParseRanges(input string) []RangeResult {
	segments := strings.Split(input, ",")
	results := make([]RangeResult, 0, len(segments))

	for _, segment := range segments {
		results = append(results, parseSegment(segment))
	}

	return results
}

func parseSegment(segment string) RangeResult {
	result := RangeResult{Raw: segment}

	if start, end, found := strings.Cut(segment, ":"); found {
		a, errA := strconv.Atoi(start)
		b, errB := strconv.Atoi(end)
		if errA != nil || errB != nil {
			return result
		}
		result.Range = LineRange{Start: a, End: b}
		result.Valid = true
		return result
	}

	n, err := strconv.Atoi(segment)
	if err != nil {
		return result
	}
	result.Range = LineRange{Start: n, End: n}
	result.Valid = true
	return result
}

// FormatRanges renders a range list the way it is shown to users, e.g.
// "3:6, 8, 10:11". Invalid segments are rendered verbatim.
func FormatRanges(ranges []RangeResult) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if !r.Valid {
			parts = append(parts, r.Raw)
			continue
		}
		if r.Range.Start == r.Range.End {
			parts = append(parts, strconv.Itoa(r.Range.Start))
		} else {
			parts = append(parts, strconv.Itoa(r.Range.Start)+":"+strconv.Itoa(r.Range.End))
		}
	}
	return strings.Join(parts, ", ")
}
