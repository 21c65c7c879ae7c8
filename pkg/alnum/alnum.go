// Package alnum compares identifier strings so that embedded numbers
// order numerically: "MSF-9" sorts before "MSF-10", which plain string
// comparison gets wrong.
package alnum

import "unicode"

// ComparePtr compares two optional identifiers. A nil identifier sorts
// before any non-nil one; two nils are equal.
func ComparePtr(a, b *string) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return Compare(*a, *b)
}

// Compare compares two strings chunk by chunk, where a chunk is a
// maximal run of digits or of non-digits. Digit chunks compare by
// numeric value, other chunks lexicographically.
func Compare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	ia, ib := 0, 0
	for ia < len(ra) && ib < len(rb) {
		ca, na := chunk(ra, ia)
		cb, nb := chunk(rb, ib)
		if c := compareChunks(ca, cb); c != 0 {
			return c
		}
		ia, ib = na, nb
	}
	switch {
	case ia < len(ra):
		return 1
	case ib < len(rb):
		return -1
	}
	return 0
}

func chunk(r []rune, start int) ([]rune, int) {
	i := start + 1
	digits := unicode.IsDigit(r[start])
	for i < len(r) && unicode.IsDigit(r[i]) == digits {
		i++
	}
	return r[start:i], i
}

func compareChunks(a, b []rune) int {
	digitsA := unicode.IsDigit(a[0])
	digitsB := unicode.IsDigit(b[0])
	if digitsA && digitsB {
		return compareNumeric(a, b)
	}
	return compareLexical(a, b)
}

// compareNumeric compares two all-digit chunks by value without
// converting to int, so arbitrarily long identifiers don't overflow.
func compareNumeric(a, b []rune) int {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return compareLexical(a, b)
}

func trimZeros(r []rune) []rune {
	i := 0
	for i < len(r)-1 && r[i] == '0' {
		i++
	}
	return r[i:]
}

func compareLexical(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
