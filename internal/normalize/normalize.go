// Package normalize provides name normalization for matching imported
// records against local ones.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Name returns the comparison key of a person or team name: NFC-composed,
// case-folded, trimmed, with inner whitespace runs collapsed to one space.
// "  LeBron  James " and "lebron james" share a key; so do "José" written
// precomposed and with a combining accent.
func Name(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// EqualNames reports whether two names share a comparison key.
func EqualNames(a, b string) bool {
	return Name(a) == Name(b)
}

// Number returns the comparison key of a jersey number. Leading zeros are
// significant ("0" and "00" are different numbers); surrounding space is not.
func Number(s string) string {
	return strings.TrimSpace(s)
}
