package algo

import (
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(id string, impact float64, cost, eff *float64) schema.RankedAction {
	return schema.RankedAction{
		ID:                   id,
		Name:                 "Action " + id,
		CumulativeImpact:     impact,
		CumulativeCost:       cost,
		CumulativeEfficiency: eff,
	}
}

// TestRankActionsNegativeFirst covers the two-action scenario in both directions.
func TestRankActionsNegativeFirst(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("B", 10, schema.Float(100), schema.Float(10)),
		ranked("A", -5, schema.Float(50), schema.Float(-10)),
	}

	for _, asc := range []bool{true, false} {
		chart := RankActions(actions, RankOptions{SortBy: schema.SortImpact, Ascending: asc})
		assert.Equal(t, []string{"A", "B"}, chart.IDs, "ascending=%v", asc)
	}
}

func TestRankActionsSortKeys(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("x", 30, schema.Float(10), schema.Float(1)),
		ranked("y", 10, schema.Float(30), schema.Float(3)),
		ranked("z", 20, schema.Float(20), schema.Float(2)),
	}
	actions[0].Name = "beta"
	actions[1].Name = "Alpha"
	actions[2].Name = "gamma"

	tests := []struct {
		name      string
		sortBy    schema.SortKey
		ascending bool
		expected  []string
	}{
		{"Default Keeps Input Order", schema.SortDefault, false, []string{"x", "y", "z"}},
		{"Impact Descending", schema.SortImpact, false, []string{"x", "z", "y"}},
		{"Impact Ascending", schema.SortImpact, true, []string{"y", "z", "x"}},
		{"Cost Ascending", schema.SortCost, true, []string{"x", "z", "y"}},
		{"Efficiency Descending", schema.SortEfficiency, false, []string{"y", "z", "x"}},
		{"Name Ascending", schema.SortName, true, []string{"y", "x", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := RankActions(actions, RankOptions{SortBy: tt.sortBy, Ascending: tt.ascending})
			assert.Equal(t, tt.expected, chart.IDs)
		})
	}
}

func TestRankActionsStableOnTies(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("first", 5, schema.Float(1), schema.Float(1)),
		ranked("second", 5, schema.Float(2), schema.Float(1)),
		ranked("third", 5, schema.Float(3), schema.Float(1)),
	}
	for _, asc := range []bool{true, false} {
		chart := RankActions(actions, RankOptions{SortBy: schema.SortImpact, Ascending: asc})
		assert.Equal(t, []string{"first", "second", "third"}, chart.IDs)
	}
}

func TestFilterActionsPlotLimit(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("a", 1, schema.Float(1), schema.Float(5)),
		ranked("outlier", 1, schema.Float(1), schema.Float(-500)),
		ranked("b", 1, schema.Float(1), schema.Float(-50)),
		ranked("none", 1, nil, nil),
		ranked("c", 1, schema.Float(1), schema.Float(50)),
	}

	kept, excluded := FilterActions(actions, schema.Float(50))
	assert.Equal(t, []string{"a", "b", "c"}, ids(kept))
	assert.Equal(t, []string{"outlier", "none"}, ids(excluded))

	kept, excluded = FilterActions(actions, nil)
	assert.Equal(t, []string{"a", "outlier", "b", "c"}, ids(kept))
	assert.Equal(t, []string{"none"}, ids(excluded))
}

func TestRankActionsLimitAfterSort(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("small", 1, schema.Float(1), schema.Float(1)),
		ranked("big", 100, schema.Float(1), schema.Float(1)),
		ranked("mid", 50, schema.Float(1), schema.Float(1)),
	}
	chart := RankActions(actions, RankOptions{SortBy: schema.SortImpact, Limit: 2})
	assert.Equal(t, []string{"big", "mid"}, chart.IDs)
}

func TestRankActionsParallelArrays(t *testing.T) {
	group := &schema.ActionGroup{ID: "transport", Color: "#0000ff"}
	actions := []schema.RankedAction{
		{ID: "a", Name: "A", Group: group, CumulativeImpact: 4, CumulativeCost: schema.Float(8), CumulativeEfficiency: schema.Float(2)},
		{ID: "b", Name: "B", Color: "#ff0000", CumulativeImpact: 2, CumulativeCost: schema.Float(2), CumulativeEfficiency: schema.Float(1)},
		{ID: "c", Name: "C", CumulativeImpact: 2},
	}

	chart := RankActions(actions, RankOptions{SortBy: schema.SortDefault})
	require.Equal(t, 2, chart.Len())
	for _, n := range []int{len(chart.Actions), len(chart.Colors), len(chart.Groups), len(chart.Cost), len(chart.Efficiency), len(chart.Impact)} {
		assert.Equal(t, 2, n)
	}
	assert.Equal(t, []string{"#0000ff", "#ff0000"}, chart.Colors)
	assert.Equal(t, []string{"transport", ""}, chart.Groups)
	assert.Equal(t, []float64{8, 2}, chart.Cost)
	assert.Equal(t, []float64{2, 1}, chart.Efficiency)
	assert.Equal(t, []float64{4, 2}, chart.Impact)
}

func TestRankActionsEmpty(t *testing.T) {
	chart := RankActions(nil, RankOptions{})
	assert.Equal(t, 0, chart.Len())
	assert.NotNil(t, chart.IDs)
}

func TestSortActionsDoesNotMutateInput(t *testing.T) {
	actions := []schema.RankedAction{
		ranked("a", 1, nil, schema.Float(1)),
		ranked("b", 2, nil, schema.Float(2)),
	}
	_ = SortActions(actions, schema.SortImpact, false)
	assert.Equal(t, []string{"a", "b"}, ids(actions))
}

func ids(actions []schema.RankedAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}
