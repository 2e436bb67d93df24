// Package strings normalizes the free-text lists that arrive through query
// parameters, environment variables and policy files.
package strings

import (
	"strings"
)

// SplitList splits every value on commas and returns the trimmed, non-empty
// parts with duplicates removed. Order of first appearance is kept.
//
//	SplitList("submitted, in_review", "submitted")
//	// []string{"submitted", "in_review"}
func SplitList(values ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// Normalize folds s for case-insensitive comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Set builds a lookup of normalized values. Blank entries are dropped.
func Set(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// EqualFold compares two values after normalization. Two blanks are not equal.
func EqualFold(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}
