package notecheck

import "math"

// Pearson returns the Pearson correlation coefficient of a and b. The result is NaN when
// the sequences differ in length, are empty, or either has zero variance.
func Pearson(a, b []uint8) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return math.NaN()
	}

	var sa, sb float64
	for i := 0; i < n; i++ {
		sa += float64(a[i])
		sb += float64(b[i])
	}
	ma, mb := sa/float64(n), sb/float64(n)

	var cov, va, vb float64
	for i := 0; i < n; i++ {
		da := float64(a[i]) - ma
		db := float64(b[i]) - mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return math.NaN()
	}

	r := cov / math.Sqrt(va*vb)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}
