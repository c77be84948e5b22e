// Package algo has the numeric aggregation, axis range and ranking routines behind every chart.
package algo

import (
	"fmt"
	"slices"

	"github.com/huangsam/pathways/schema"
)

// lookup returns the value for year. Null values count as absent.
func lookup(points []schema.MetricPoint, year int) (float64, bool) {
	for _, p := range points {
		if p.Year == year && p.Value != nil {
			return *p.Value, true
		}
	}
	return 0, false
}

// PointValue returns the value of m at year. The forecast series wins over
// the historical series when both cover the year.
func PointValue(m schema.Metric, year int) (float64, bool) {
	if v, ok := lookup(m.ForecastValues, year); ok {
		return v, true
	}
	return lookup(m.HistoricalValues, year)
}

// ImpactPointValue is PointValue with a zero default.
func ImpactPointValue(m schema.Metric, year int) float64 {
	v, _ := PointValue(m, year)
	return v
}

// PercentChange returns the change from initial to current as a rounded
// percentage of initial. A decrease is positive. It is undefined when initial
// is zero.
func PercentChange(initial, current float64) (float64, bool) {
	if initial == 0 {
		return 0, false
	}
	v := 100 * (initial - current) / initial
	if !isFinite(v) {
		return 0, false
	}
	return RoundHalfUp(v), true
}

// sumPoints adds every non-null value with a year inside [start, end].
func sumPoints(points []schema.MetricPoint, start, end int) float64 {
	var total float64
	for _, p := range points {
		if p.Value != nil && p.Year >= start && p.Year <= end {
			total += *p.Value
		}
	}
	return total
}

// SumSeriesInRange sums the historical and forecast points of m inside the
// inclusive window. A year present in both series counts twice.
func SumSeriesInRange(m schema.Metric, start, end int) float64 {
	return sumPoints(m.HistoricalValues, start, end) + sumPoints(m.ForecastValues, start, end)
}

// TotalAcrossNodes sums PointValue over nodes, skipping nodes without a value.
func TotalAcrossNodes(nodes []schema.Node, year int) float64 {
	var total float64
	for _, n := range nodes {
		if v, ok := PointValue(n.Metric, year); ok {
			total += v
		}
	}
	return total
}

// MergedPoints returns one point per year sorted by year, using the same
// precedence as PointValue.
func MergedPoints(m schema.Metric) []schema.YearValue {
	byYear := make(map[int]schema.YearValue)
	for _, p := range m.HistoricalValues {
		if p.Value != nil {
			byYear[p.Year] = schema.YearValue{Year: p.Year, Value: *p.Value}
		}
	}
	for _, p := range m.ForecastValues {
		if p.Value != nil {
			byYear[p.Year] = schema.YearValue{Year: p.Year, Value: *p.Value, Forecast: true}
		}
	}

	out := make([]schema.YearValue, 0, len(byYear))
	for _, yv := range byYear {
		out = append(out, yv)
	}
	slices.SortFunc(out, func(a, b schema.YearValue) int {
		return a.Year - b.Year
	})
	return out
}

// SeriesYears returns the first and last year with a value in m.
func SeriesYears(m schema.Metric) (first, last int, ok bool) {
	points := MergedPoints(m)
	if len(points) == 0 {
		return 0, 0, false
	}
	return points[0].Year, points[len(points)-1].Year, true
}

// SummarizeSeries computes the scalar summary of a node's metric over the
// inclusive window.
func SummarizeSeries(node schema.Node, start, end int) (schema.SeriesSummary, error) {
	if start > end {
		return schema.SeriesSummary{}, fmt.Errorf("%s [%d, %d]: %w", node.ID, start, end, ErrInvalidWindow)
	}

	var points []schema.YearValue
	var values []float64
	for _, p := range MergedPoints(node.Metric) {
		if p.Year >= start && p.Year <= end {
			points = append(points, p)
			values = append(values, p.Value)
		}
	}
	if len(points) == 0 {
		return schema.SeriesSummary{}, fmt.Errorf("%s [%d, %d]: %w", node.ID, start, end, ErrNoData)
	}

	summary := schema.SeriesSummary{
		MetricID:      node.ID,
		Name:          node.Name,
		Unit:          node.Metric.Unit,
		StartYear:     start,
		EndYear:       end,
		CumulativeSum: SumSeriesInRange(node.Metric, start, end),
		Range:         EstimateRange(values),
		Points:        points,
	}
	if v, ok := PointValue(node.Metric, start); ok {
		summary.StartValue = &v
	}
	if v, ok := PointValue(node.Metric, end); ok {
		summary.EndValue = &v
	}
	if summary.StartValue != nil && summary.EndValue != nil {
		if pct, ok := PercentChange(*summary.StartValue, *summary.EndValue); ok {
			summary.PercentChange = &pct
		}
	}
	if summary.Name == "" {
		summary.Name = node.Metric.Name
	}
	return summary, nil
}
