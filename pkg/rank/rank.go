// Package rank implements fractional indexing over a fixed 64-symbol
// alphabet. Ranks are opaque strings whose lexicographic order is the item
// order; inserting between two existing ranks never requires renumbering
// neighbours.
package rank

import (
	"fmt"
	"strings"

	"yawt/pkg/apperr"
)

// Alphabet defines digit values 0..63. The relative order (digits,
// uppercase, lowercase) matches byte order, so string comparison and digit
// comparison agree.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	// ErrInvalidRank is returned when a bound contains a character outside
	// the alphabet (or is empty where a rank is required).
	ErrInvalidRank = fmt.Errorf("invalid rank: %w", apperr.ErrValidation)
	// ErrBoundOrder is returned when both bounds are given and
	// lower >= upper.
	ErrBoundOrder = fmt.Errorf("lower rank must be < upper rank: %w", apperr.ErrValidation)
)

// IsValid reports whether s is a non-empty string over the rank alphabet.
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

func digit(s string, i int) int {
	return strings.IndexByte(Alphabet, s[i])
}

// Between returns the shortest rank strictly between lower and upper under
// lexicographic comparison. An empty lower means unbounded toward -inf, an
// empty upper unbounded toward +inf.
//
// Each rank is read as a base-64 fractional digit sequence. At every
// position the effective lower digit is 0 once lower is exhausted and the
// effective upper digit is 63 once upper is exhausted; the first position
// with a gap > 1 takes the midpoint digit and terminates. Positions without
// room are fixed to the lower digit and the walk descends, so the loop ends
// within len(lower)+O(1) steps.
func Between(lower, upper string) (string, error) {
	if lower != "" && !IsValid(lower) {
		return "", fmt.Errorf("%w: lower %q", ErrInvalidRank, lower)
	}
	if upper != "" && !IsValid(upper) {
		return "", fmt.Errorf("%w: upper %q", ErrInvalidRank, upper)
	}
	if lower != "" && upper != "" && lower >= upper {
		return "", fmt.Errorf("%w: %q >= %q", ErrBoundOrder, lower, upper)
	}

	var b strings.Builder
	for i := 0; ; i++ {
		lo := 0
		if lower != "" && i < len(lower) {
			lo = digit(lower, i)
		}
		hi := len(Alphabet) - 1
		if upper != "" && i < len(upper) {
			hi = digit(upper, i)
		}
		if hi-lo > 1 {
			b.WriteByte(Alphabet[(lo+hi)/2])
			return b.String(), nil
		}
		// No room at this digit; fix it to the lower bound and descend.
		b.WriteByte(Alphabet[lo])
	}
}

// Initial returns a rank for the first item of an empty sequence.
func Initial() string {
	r, _ := Between("", "")
	return r
}

// After returns a rank strictly greater than last.
func After(last string) (string, error) {
	return Between(last, "")
}

// Before returns a rank strictly less than first.
func Before(first string) (string, error) {
	return Between("", first)
}
