package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	assert.InDelta(t, 3.0, RoundHalfUp(2.5), 1e-9)
	assert.InDelta(t, -2.0, RoundHalfUp(-2.5), 1e-9)
	assert.InDelta(t, 2.0, RoundHalfUp(2.4999), 1e-9)
}

func TestRoundTo(t *testing.T) {
	assert.InDelta(t, 1.23, RoundTo(1.234, 2), 1e-9)
	assert.InDelta(t, 1200.0, RoundTo(1234, -2), 1e-9)
	assert.InDelta(t, 2.0, RoundTo(1.5, 0), 1e-9)
}

func TestCeilToPrecision(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		digits   int
		expected float64
	}{
		{"Tens", 47, -1, 50},
		{"Hundreds", 301, -2, 400},
		{"Exact Boundary", 300, -2, 300},
		{"Decimals", 1.231, 2, 1.24},
		{"Float Noise", 0.07, 2, 0.07},
		{"Negative", -47, -1, -40},
		{"Zero Digits", 4.2, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CeilToPrecision(tt.x, tt.digits)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.GreaterOrEqual(t, got, tt.x)
		})
	}
}

func TestRoundSignificant(t *testing.T) {
	assert.InDelta(t, 1200.0, RoundSignificant(1234, 2), 1e-9)
	assert.InDelta(t, 0.012, RoundSignificant(0.0123, 2), 1e-12)
	assert.InDelta(t, 0.0, RoundSignificant(0, 3), 1e-12)
	assert.InDelta(t, -1200.0, RoundSignificant(-1250, 2), 1e-9)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1234.6", FormatNumber(1234.56, 1))
	assert.Equal(t, "1235", FormatNumber(1234.56, 0))
	assert.Equal(t, "0.00", FormatNumber(-0.001, 2))
	assert.Equal(t, "-3", FormatNumber(-3.2, -1))
}
