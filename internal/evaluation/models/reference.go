package models

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// ReferencePrefix starts every application reference.
	ReferencePrefix = "ENA"
	// MinReferenceYear floors the year segment.
	MinReferenceYear = 2013

	regionCodeLength = 3
)

// ReferenceScope is the counter key of a reference number: prefix, year and
// region code. Sequences are strictly increasing within one scope.
func ReferenceScope(year int, originRegion string) string {
	if year < MinReferenceYear {
		year = MinReferenceYear
	}
	return fmt.Sprintf("%s%d%s", ReferencePrefix, year, RegionCode(originRegion))
}

// RegionCode takes the upper-cased initials of up to three whitespace
// separated words of the region name, right-padded with X. Hyphenated names
// count as one word. Unknown regions yield XXX.
func RegionCode(region string) string {
	initials := make([]rune, 0, regionCodeLength)
	for _, word := range strings.Fields(region) {
		if len(initials) == regionCodeLength {
			break
		}
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
	}
	return string(initials) + strings.Repeat("X", regionCodeLength-len(initials))
}

// FormatReference appends the zero-padded sequence to the scope.
func FormatReference(scope string, seq int64) string {
	return fmt.Sprintf("%s%05d", scope, seq)
}
