package algo

import (
	"math"
	"strconv"
)

// noiseTolerance is how close a scaled value must be to an integer before it
// is treated as that integer.
const noiseTolerance = 1e-9

// RoundHalfUp rounds x to the nearest integer, with halves going up.
// RoundHalfUp(-2.5) is -2.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds x half-up to the given number of decimals. Negative decimals
// round to tens, hundreds and so on.
func RoundTo(x float64, decimals int) float64 {
	if decimals >= 0 {
		p := math.Pow10(decimals)
		return RoundHalfUp(x*p) / p
	}
	p := math.Pow10(-decimals)
	return RoundHalfUp(x/p) * p
}

// CeilToPrecision rounds x up to the given number of decimals. Negative digits
// round up to tens, hundreds and so on. Values within float noise of a
// boundary are kept on that boundary, so CeilToPrecision(0.3, 1) is 0.3.
// The result is never smaller than x.
func CeilToPrecision(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	var scale, unscale func(float64) float64
	var step float64
	if digits >= 0 {
		p := math.Pow10(digits)
		scale = func(v float64) float64 { return v * p }
		unscale = func(v float64) float64 { return v / p }
		step = 1 / p
	} else {
		p := math.Pow10(-digits)
		scale = func(v float64) float64 { return v / p }
		unscale = func(v float64) float64 { return v * p }
		step = p
	}

	v := scale(x)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return x
	}

	c := math.Ceil(v)
	if r := math.Round(v); r < c && math.Abs(v-r) < noiseTolerance {
		if out := unscale(r); out >= x {
			return out
		}
	}
	out := unscale(c)
	if out < x {
		out += step
	}
	return out
}

// RoundSignificant rounds x half-up to n significant digits.
func RoundSignificant(x float64, n int) float64 {
	if x == 0 || n <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	magnitude := int(math.Ceil(math.Log10(math.Abs(x))))
	return RoundTo(x, n-magnitude)
}

// FormatNumber renders x with a fixed number of decimals and no grouping.
func FormatNumber(x float64, precision int) string {
	precision = max(precision, 0)
	v := RoundTo(x, precision)
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
