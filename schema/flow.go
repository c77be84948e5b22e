package schema

// FlowNode is one node of a dimensional flow. Color is optional.
type FlowNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// FlowLink is the state of a flow at one year. The slices Sources, Targets and
// Values are parallel: index i is an edge Sources[i] -> Targets[i].
type FlowLink struct {
	Year                 int        `json:"year"`
	Sources              []string   `json:"sources"`
	Targets              []string   `json:"targets"`
	Values               []*float64 `json:"values"`
	AbsoluteSourceValues []float64  `json:"absoluteSourceValues"`
}

// DimensionalFlow is a multi-year flow breakdown. Links are ordered by
// non-decreasing year and may skip years.
type DimensionalFlow struct {
	ID      string     `json:"id"`
	Nodes   []FlowNode `json:"nodes"`
	Sources []string   `json:"sources"`
	Links   []FlowLink `json:"links"`
}

// Years returns the year of every link in order.
func (f DimensionalFlow) Years() []int {
	years := make([]int, len(f.Links))
	for i, l := range f.Links {
		years[i] = l.Year
	}
	return years
}

// NodeColor is the fill and link color of a flow node.
type NodeColor struct {
	Color     string `json:"color"`
	LinkColor string `json:"linkColor"`
}

// SankeyNodes holds the node labels and colors of a Sankey trace.
type SankeyNodes struct {
	Label []string `json:"label"`
	Color []string `json:"color"`
}

// SankeyLinks holds the parallel edge arrays of a Sankey trace.
type SankeyLinks struct {
	Source []int      `json:"source"`
	Target []int      `json:"target"`
	Value  []float64  `json:"value"`
	Color  []string   `json:"color"`
	Kind   []LinkKind `json:"customdata"`
}

// SankeyTrace is the chart-library input for one Sankey diagram.
type SankeyTrace struct {
	Node SankeyNodes `json:"node"`
	Link SankeyLinks `json:"link"`
}

// SankeyFrame is one renderable Sankey snapshot.
type SankeyFrame struct {
	FlowID    string      `json:"flowId"`
	StartYear int         `json:"startYear"`
	Year      int         `json:"year"`
	Trace     SankeyTrace `json:"trace"`
}
