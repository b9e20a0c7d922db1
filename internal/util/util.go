// Package util holds small integer helpers shared by the strategies.
package util

import "fmt"

// IsPowerOfTwo reports whether n is a power of two. Zero and negative
// numbers are never powers of two.
func IsPowerOfTwo(n int) bool {
	if n <= 0 {
		return false
	}
	return n&(n-1) == 0
}

// LargestPowerOfTwoSmallerThan returns the largest power of two strictly
// less than n, or 1 if n <= 1.
func LargestPowerOfTwoSmallerThan(n int) int {
	result := 1
	if n <= 0 {
		return result
	}
	for result*2 < n {
		result *= 2
	}
	return result
}

// DivideRoundingUp computes ceil(n/d). d must be positive.
func DivideRoundingUp(n, d int) int {
	if n == 0 {
		return 0
	}
	return (n + d - 1) / d
}

// Quantity formats n with its unit, pluralizing the unit unless n == 1.
// e.g. Quantity(1, "line") == "1 line", Quantity(3, "line") == "3 lines".
func Quantity(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
