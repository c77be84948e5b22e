package schema

// EnrichedAction adds presentation data to one ranked bar.
type EnrichedAction struct {
	Rank       int     `json:"rank"`
	Label      string  `json:"label"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Group      string  `json:"group"`
	Color      string  `json:"color"`
	Impact     float64 `json:"impact"`
	Cost       float64 `json:"cost"`
	Efficiency float64 `json:"efficiency"`
}

// GetPlainLabel returns a plain text label describing an action by its
// impact and efficiency. Negative efficiency means the action saves money.
func GetPlainLabel(impact, efficiency float64) string {
	switch {
	case impact < 0:
		return "Counterproductive"
	case efficiency < 0:
		return "Saving"
	case efficiency == 0:
		return "Free"
	default:
		return "Costly"
	}
}

// EnrichActions flattens bar chart arrays into ranked rows.
func EnrichActions(chart BarChartData) []EnrichedAction {
	output := make([]EnrichedAction, chart.Len())
	for i := range output {
		output[i] = EnrichedAction{
			Rank:       i + 1,
			Label:      GetPlainLabel(chart.Impact[i], chart.Efficiency[i]),
			ID:         chart.IDs[i],
			Name:       chart.Actions[i],
			Group:      chart.Groups[i],
			Color:      chart.Colors[i],
			Impact:     chart.Impact[i],
			Cost:       chart.Cost[i],
			Efficiency: chart.Efficiency[i],
		}
	}
	return output
}
