package algo

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/huangsam/pathways/schema"
)

// RankOptions controls filtering, ordering and capping of ranked actions.
type RankOptions struct {
	SortBy    schema.SortKey
	Ascending bool
	PlotLimit *float64 // drop actions with |efficiency| above this
	Limit     int      // 0 keeps all
}

// FilterActions splits actions into those that can be charted and those that
// cannot. An action is excluded when it has no efficiency, or when plotLimit
// is set and its absolute efficiency exceeds it. Both lists keep input order.
func FilterActions(actions []schema.RankedAction, plotLimit *float64) (kept, excluded []schema.RankedAction) {
	for _, a := range actions {
		switch {
		case a.CumulativeEfficiency == nil:
			excluded = append(excluded, a)
		case plotLimit != nil && math.Abs(*a.CumulativeEfficiency) > *plotLimit:
			excluded = append(excluded, a)
		default:
			kept = append(kept, a)
		}
	}
	return kept, excluded
}

// SortActions returns a stably sorted copy of actions. Actions with negative
// cumulative impact always come first, whatever the direction.
func SortActions(actions []schema.RankedAction, by schema.SortKey, ascending bool) []schema.RankedAction {
	sorted := slices.Clone(actions)
	slices.SortStableFunc(sorted, func(a, b schema.RankedAction) int {
		an, bn := a.CumulativeImpact < 0, b.CumulativeImpact < 0
		if an != bn {
			if an {
				return -1
			}
			return 1
		}
		c := compareByKey(a, b, by)
		if !ascending {
			c = -c
		}
		return c
	})
	return sorted
}

func compareByKey(a, b schema.RankedAction, by schema.SortKey) int {
	switch by {
	case schema.SortImpact:
		return cmp.Compare(a.CumulativeImpact, b.CumulativeImpact)
	case schema.SortCost:
		return cmp.Compare(deref(a.CumulativeCost), deref(b.CumulativeCost))
	case schema.SortEfficiency:
		return cmp.Compare(deref(a.CumulativeEfficiency), deref(b.CumulativeEfficiency))
	case schema.SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default:
		return 0
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// RankActions filters, sorts and caps actions and projects them into
// parallel chart arrays of equal length.
func RankActions(actions []schema.RankedAction, opts RankOptions) schema.BarChartData {
	kept, _ := FilterActions(actions, opts.PlotLimit)
	sorted := SortActions(kept, opts.SortBy, opts.Ascending)
	if opts.Limit > 0 && len(sorted) > opts.Limit {
		sorted = sorted[:opts.Limit]
	}
	return Project(sorted)
}

// Project turns ranked actions into bar chart arrays in the given order.
func Project(actions []schema.RankedAction) schema.BarChartData {
	n := len(actions)
	chart := schema.BarChartData{
		IDs:        make([]string, n),
		Actions:    make([]string, n),
		Colors:     make([]string, n),
		Groups:     make([]string, n),
		Cost:       make([]float64, n),
		Efficiency: make([]float64, n),
		Impact:     make([]float64, n),
	}
	for i, a := range actions {
		chart.IDs[i] = a.ID
		chart.Actions[i] = a.Name
		chart.Colors[i] = a.DisplayColor()
		chart.Groups[i] = a.GroupID()
		chart.Cost[i] = deref(a.CumulativeCost)
		chart.Efficiency[i] = deref(a.CumulativeEfficiency)
		chart.Impact[i] = a.CumulativeImpact
	}
	return chart
}
