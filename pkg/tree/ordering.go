package tree

import (
	"cmp"
	"strings"
)

// ByID orders siblings by ascending node ID.
func ByID(a, b, _ string) int { return strings.Compare(a, b) }

// ByKey orders siblings by ascending key(id), such as a node's horizontal
// position. Equal keys compare as zero and so put b on the left.
func ByKey(key func(id string) float64) OrderFunc {
	return func(a, b, _ string) int { return cmp.Compare(key(a), key(b)) }
}

// Reverse flips the sign of f, swapping every left/right assignment except
// ties.
func Reverse(f OrderFunc) OrderFunc {
	return func(a, b, parent string) int { return -f(a, b, parent) }
}
