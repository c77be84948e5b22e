package algo

import (
	"math"

	"github.com/huangsam/pathways/schema"
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EstimateRange returns a rounded [min, max] axis range for values. The upper
// bound is never below the largest value, and the lower bound is zero unless
// the data is negative. NaN and infinite values are ignored.
func EstimateRange(values []float64) schema.AxisRange {
	var lo, hi float64
	seen := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !seen {
			lo, hi, seen = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if !seen {
		return schema.AxisRange{0, 0}
	}

	size := hi - lo
	if size == 0 {
		size = math.Abs(hi)
	}
	if size == 0 {
		return schema.AxisRange{0, 0}
	}
	if !isFinite(size) {
		return schema.AxisRange{min(lo, 0), hi}
	}

	digits := precisionDigits(size)
	minimum := 0.0
	if lo < 0 {
		minimum = -CeilToPrecision(-lo, digits)
	}
	return schema.AxisRange{minimum, CeilToPrecision(hi, digits)}
}

// precisionDigits picks the rounding precision for a range size. Ranges
// below ten get one extra digit.
func precisionDigits(size float64) int {
	p := int(math.Floor(math.Log10(size)))
	if size >= 10 {
		return -p
	}
	return -p + 1
}
