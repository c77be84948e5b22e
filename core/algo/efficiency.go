package algo

import "github.com/huangsam/pathways/schema"

// Efficiency returns cost per unit of impact scaled by multiplier. It is nil
// when impact is zero or the ratio is not finite.
func Efficiency(cost, impact, multiplier float64) *float64 {
	if impact == 0 {
		return nil
	}
	e := cost / impact * multiplier
	if !isFinite(e) {
		return nil
	}
	return &e
}

// DeriveActionTotals computes cumulative impact, cost and efficiency of each
// action over the inclusive window. Actions without a cost metric get no
// cost and no efficiency.
func DeriveActionTotals(actions []schema.Action, start, end int) []schema.RankedAction {
	out := make([]schema.RankedAction, len(actions))
	for i, a := range actions {
		r := schema.RankedAction{
			ID:               a.ID,
			Name:             a.Name,
			Color:            a.Color,
			Group:            a.Group,
			CumulativeImpact: SumSeriesInRange(a.ImpactMetric, start, end),
		}
		if a.CostMetric != nil && !a.CostMetric.IsEmpty() {
			cost := SumSeriesInRange(*a.CostMetric, start, end)
			r.CumulativeCost = &cost
			r.CumulativeEfficiency = Efficiency(cost, r.CumulativeImpact, 1)
		}
		out[i] = r
	}
	return out
}

// DeriveOverviewTotals does what DeriveActionTotals does for the actions of an
// impact overview. Efficiencies are scaled by each entry's unit adjustment
// multiplier, which defaults to one.
func DeriveOverviewTotals(overview schema.ImpactOverview, start, end int) []schema.RankedAction {
	out := make([]schema.RankedAction, len(overview.Actions))
	for i, entry := range overview.Actions {
		r := schema.RankedAction{
			ID:               entry.Action.ID,
			Name:             entry.Action.Name,
			Color:            entry.Action.Color,
			Group:            entry.Action.Group,
			CumulativeImpact: sumPoints(entry.ImpactValues, start, end),
		}
		if len(entry.CostValues) > 0 {
			multiplier := 1.0
			if entry.UnitAdjustmentMultiplier != nil {
				multiplier = *entry.UnitAdjustmentMultiplier
			}
			cost := sumPoints(entry.CostValues, start, end)
			r.CumulativeCost = &cost
			r.CumulativeEfficiency = Efficiency(cost, r.CumulativeImpact, multiplier)
		}
		out[i] = r
	}
	return out
}
