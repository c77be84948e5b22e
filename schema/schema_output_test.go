package schema_test

import (
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name       string
		impact     float64
		efficiency float64
		expected   string
	}{
		{"Negative Impact", -5, 10, "Counterproductive"},
		{"Negative Impact Wins", -5, -10, "Counterproductive"},
		{"Saving", 10, -3.5, "Saving"},
		{"Free", 10, 0, "Free"},
		{"Costly", 10, 42, "Costly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.impact, tt.efficiency))
		})
	}
}

func TestEnrichActions(t *testing.T) {
	chart := schema.BarChartData{
		IDs:        []string{"a", "b"},
		Actions:    []string{"Action A", "Action B"},
		Colors:     []string{"#ff0000", "#00ff00"},
		Groups:     []string{"g1", ""},
		Cost:       []float64{50, 100},
		Efficiency: []float64{-10, 10},
		Impact:     []float64{-5, 10},
	}

	enriched := schema.EnrichActions(chart)

	assert.Len(t, enriched, 2)

	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, "Counterproductive", enriched[0].Label)
	assert.Equal(t, "a", enriched[0].ID)
	assert.Equal(t, "g1", enriched[0].Group)

	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, "Costly", enriched[1].Label)
	assert.Equal(t, "Action B", enriched[1].Name)
	assert.InDelta(t, 100.0, enriched[1].Cost, 1e-9)
}

func TestEnrichActionsEmpty(t *testing.T) {
	assert.Empty(t, schema.EnrichActions(schema.BarChartData{}))
}
