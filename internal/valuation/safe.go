package valuation

import "math"

// finite returns v, or 0 when v is NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeDiv returns a/b, or 0 when b is 0 or the result is not finite.
func SafeDiv(a, b float64) float64 {
	a, b = finite(a), finite(b)
	if b == 0 {
		return 0
	}
	return finite(a / b)
}

// SafeRatio is SafeDiv scaled by 100.
func SafeRatio(part, whole float64) float64 {
	return finite(SafeDiv(part, whole) * 100)
}

// SafePercent returns the percentage change from base to value, 0 when base is 0.
func SafePercent(value, base float64) float64 {
	return SafeRatio(finite(value)-finite(base), base)
}
