// Package similarity measures how alike two text values are.
package similarity

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the sequence-matching similarity of a and b in [0, 1].
// It is 2*M/T where M is the number of code points in the matching blocks
// found by the Ratcliff/Obershelp matcher and T the combined length.
// Two empty strings are identical (1); one empty string scores 0.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	matcher := difflib.NewMatcher(codePoints(a), codePoints(b))
	return matcher.Ratio()
}

// codePoints splits s into one element per code point
func codePoints(s string) []string {
	return strings.Split(s, "")
}
