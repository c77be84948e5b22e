// Package schema has the data models, chart output shapes and constants for all parts of pathways.
package schema

// MetricPoint is one year of a metric series. Value is nil when the backend
// reported no value for that year.
type MetricPoint struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// Metric groups the historical, forecast and baseline series of one quantity.
// Historical and forecast series may overlap at a boundary year.
type Metric struct {
	ID                     string        `json:"id,omitempty"`
	Name                   string        `json:"name,omitempty"`
	Unit                   string        `json:"unit,omitempty"`
	HistoricalValues       []MetricPoint `json:"historicalValues"`
	ForecastValues         []MetricPoint `json:"forecastValues"`
	BaselineForecastValues []MetricPoint `json:"baselineForecastValues,omitempty"`
}

// IsEmpty reports whether the metric has no historical or forecast points.
func (m Metric) IsEmpty() bool {
	return len(m.HistoricalValues) == 0 && len(m.ForecastValues) == 0
}

// Node is a metric-carrying model node, e.g. one emission sector.
type Node struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Metric Metric `json:"metric"`
}

// YearValue is a resolved point of a merged series.
type YearValue struct {
	Year     int     `json:"year"`
	Value    float64 `json:"value"`
	Forecast bool    `json:"forecast"`
}

// Float returns a pointer to v. It is handy for building MetricPoint values.
func Float(v float64) *float64 {
	return &v
}

// Points builds a series from alternating year/value pairs.
func Points(pairs ...float64) []MetricPoint {
	out := make([]MetricPoint, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, MetricPoint{Year: int(pairs[i]), Value: Float(pairs[i+1])})
	}
	return out
}
