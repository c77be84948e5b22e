package schema

// Dataset is the already-fetched backend response a run works on.
type Dataset struct {
	Version         string            `json:"version"`
	Instance        string            `json:"instance,omitempty"`
	Scenario        string            `json:"scenario,omitempty"`
	Metrics         []Node            `json:"metrics,omitempty"`
	Actions         []Action          `json:"actions,omitempty"`
	ImpactOverviews []ImpactOverview  `json:"impactOverviews,omitempty"`
	Flows           []DimensionalFlow `json:"flows,omitempty"`
}

// MetricByID returns the node with the given id.
func (d *Dataset) MetricByID(id string) (Node, bool) {
	for _, n := range d.Metrics {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OverviewByID returns the impact overview with the given id.
func (d *Dataset) OverviewByID(id string) (ImpactOverview, bool) {
	for _, o := range d.ImpactOverviews {
		if o.ID == id {
			return o, true
		}
	}
	return ImpactOverview{}, false
}

// FlowByID returns the dimensional flow with the given id. An empty id selects
// the first flow.
func (d *Dataset) FlowByID(id string) (DimensionalFlow, bool) {
	if id == "" && len(d.Flows) > 0 {
		return d.Flows[0], true
	}
	for _, f := range d.Flows {
		if f.ID == id {
			return f, true
		}
	}
	return DimensionalFlow{}, false
}

// YearBounds returns the earliest and latest year with a value across all
// metric and action series. ok is false when the dataset has no values at all.
func (d *Dataset) YearBounds() (first, last int, ok bool) {
	visit := func(points []MetricPoint) {
		for _, p := range points {
			if p.Value == nil {
				continue
			}
			if !ok {
				first, last, ok = p.Year, p.Year, true
				continue
			}
			first = min(first, p.Year)
			last = max(last, p.Year)
		}
	}
	visitMetric := func(m Metric) {
		visit(m.HistoricalValues)
		visit(m.ForecastValues)
	}
	for _, n := range d.Metrics {
		visitMetric(n.Metric)
	}
	for _, a := range d.Actions {
		visitMetric(a.ImpactMetric)
		if a.CostMetric != nil {
			visitMetric(*a.CostMetric)
		}
	}
	for _, o := range d.ImpactOverviews {
		for _, a := range o.Actions {
			visit(a.CostValues)
			visit(a.ImpactValues)
		}
	}
	return first, last, ok
}
