package domain

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places (dollar amounts) using decimal arithmetic
// so that results are deterministic across platforms.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round4 rounds to 4 decimal places (rates and ratios).
func Round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

// Round2Ptr rounds through a pointer, passing nil through.
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// Round4Ptr rounds through a pointer, passing nil through.
func Round4Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round4(*v)
	return &r
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
