package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RangeResult
	}{
		{
			name:  "mixed ranges and singles",
			input: "3:6,8,10:11",
			expected: []RangeResult{
				{Range: LineRange{3, 6}, Raw: "3:6", Valid: true},
				{Range: LineRange{8, 8}, Raw: "8", Valid: true},
				{Range: LineRange{10, 11}, Raw: "10:11", Valid: true},
			},
		},
		{
			name:  "single line normalized to equal pair",
			input: "8",
			expected: []RangeResult{
				{Range: LineRange{8, 8}, Raw: "8", Valid: true},
			},
		},
		{
			name:  "reversed pair is kept as written",
			input: "9:3",
			expected: []RangeResult{
				{Range: LineRange{9, 3}, Raw: "9:3", Valid: true},
			},
		},
		{
			name:  "order preserved, no merging",
			input: "10:11,3:6,4",
			expected: []RangeResult{
				{Range: LineRange{10, 11}, Raw: "10:11", Valid: true},
				{Range: LineRange{3, 6}, Raw: "3:6", Valid: true},
				{Range: LineRange{4, 4}, Raw: "4", Valid: true},
			},
		},
		{
			name:  "malformed segment carries raw text",
			input: "3:6,abc,7",
			expected: []RangeResult{
				{Range: LineRange{3, 6}, Raw: "3:6", Valid: true},
				{Raw: "abc", Valid: false},
				{Range: LineRange{7, 7}, Raw: "7", Valid: true},
			},
		},
		{
			name:  "malformed pair half",
			input: "3:x",
			expected: []RangeResult{
				{Raw: "3:x", Valid: false},
			},
		},
		{
			name:  "empty input yields one invalid segment",
			input: "",
			expected: []RangeResult{
				{Raw: "", Valid: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRanges(tt.input))
		})
	}
}

func TestFormatRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mixed", input: "3:6,8,10:11", expected: "3:6, 8, 10:11"},
		{name: "single", input: "5", expected: "5"},
		{name: "invalid rendered verbatim", input: "3,oops", expected: "3, oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRanges(ParseRanges(tt.input)))
		})
	}
}
