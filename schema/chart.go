package schema

// AxisRange is a [min, max] axis range.
type AxisRange [2]float64

// Min returns the lower bound.
func (r AxisRange) Min() float64 { return r[0] }

// Max returns the upper bound.
func (r AxisRange) Max() float64 { return r[1] }

// SeriesSummary is the scalar summary of one metric over a year window.
type SeriesSummary struct {
	MetricID      string      `json:"metric_id"`
	Name          string      `json:"name"`
	Unit          string      `json:"unit,omitempty"`
	StartYear     int         `json:"start_year"`
	EndYear       int         `json:"end_year"`
	StartValue    *float64    `json:"start_value"`
	EndValue      *float64    `json:"end_value"`
	PercentChange *float64    `json:"percent_change"`
	CumulativeSum float64     `json:"cumulative_sum"`
	ShareOfTotal  *float64    `json:"share_of_total"`
	Range         AxisRange   `json:"range"`
	Points        []YearValue `json:"points"`
}

// BarChartData holds parallel arrays for bar and MAC charts. All slices have
// the same length.
type BarChartData struct {
	IDs        []string  `json:"ids"`
	Actions    []string  `json:"actions"`
	Colors     []string  `json:"colors"`
	Groups     []string  `json:"groups"`
	Cost       []float64 `json:"cost"`
	Efficiency []float64 `json:"efficiency"`
	Impact     []float64 `json:"impact"`
}

// Len returns the number of bars.
func (b BarChartData) Len() int {
	return len(b.IDs)
}

// ActionRanking is a ranked action chart with the window it was computed for.
type ActionRanking struct {
	Label       string       `json:"label,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	StartYear   int          `json:"start_year"`
	EndYear     int          `json:"end_year"`
	SortBy      SortKey      `json:"sort_by"`
	Ascending   bool         `json:"ascending"`
	PlotLimit   *float64     `json:"plot_limit,omitempty"`
	Chart       BarChartData `json:"chart"`
	ExcludedIDs []string     `json:"excluded_ids"`
	Range       AxisRange    `json:"efficiency_range"`
}
