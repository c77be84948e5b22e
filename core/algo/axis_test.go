package algo

import (
	"math"
	"slices"
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
)

func TestEstimateRange(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected schema.AxisRange
	}{
		{"Empty", nil, schema.AxisRange{0, 0}},
		{"All Zero", []float64{0, 0}, schema.AxisRange{0, 0}},
		{"Large Range", []float64{0, 47}, schema.AxisRange{0, 50}},
		{"Hundreds", []float64{12, 345}, schema.AxisRange{0, 400}},
		{"Small Range", []float64{0, 5.2}, schema.AxisRange{0, 5.2}},
		{"Fractional", []float64{0.12, 0.87}, schema.AxisRange{0, 0.87}},
		{"Negative Data", []float64{-3, 7}, schema.AxisRange{-10, 10}},
		{"Single Value", []float64{42}, schema.AxisRange{0, 50}},
		{"Float Noise", []float64{0, 0.3}, schema.AxisRange{0, 0.3}},
		{"NaN Ignored", []float64{math.NaN(), 0, 47}, schema.AxisRange{0, 50}},
		// Equal negative values round to the value itself on both ends
		{"Equal Negatives", []float64{-5, -5}, schema.AxisRange{-5, -5}},
		{"Single Negative", []float64{-42}, schema.AxisRange{-50, -40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := EstimateRange(tt.values)
			assert.InDelta(t, tt.expected.Min(), r.Min(), 1e-9)
			assert.InDelta(t, tt.expected.Max(), r.Max(), 1e-9)
		})
	}
}

func TestEstimateRangeNeverTruncates(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3},
		{-0.004, 0.002},
		{1234.5678, 99},
		{-5000, -10},
		{0.1, 0.2, 0.30000000000000004},
	}
	for _, values := range cases {
		r := EstimateRange(values)
		assert.GreaterOrEqual(t, r.Max(), slices.Max(values), "values %v", values)
		assert.LessOrEqual(t, r.Min(), max(0, slices.Min(values)), "values %v", values)
	}
}

// FuzzEstimateRange checks that the upper bound always covers the data.
func FuzzEstimateRange(f *testing.F) {
	f.Add(0.0, 47.0, 3.0)
	f.Add(-3.0, 7.0, 0.0)
	f.Add(0.1, 0.2, 0.3)
	f.Add(-1e6, 1e-3, 5.5)

	f.Fuzz(func(t *testing.T, a, b, c float64) {
		values := []float64{a, b, c}
		for _, v := range values {
			if !isFinite(v) || math.Abs(v) > 1e12 {
				return
			}
		}
		r := EstimateRange(values)
		if r.Max() < slices.Max(values) {
			t.Errorf("max %v below data max %v for %v", r.Max(), slices.Max(values), values)
		}
		if r.Min() > 0 || r.Min() > slices.Min(values) && slices.Min(values) < 0 {
			t.Errorf("min %v above data for %v", r.Min(), values)
		}
	})
}
