package flow

import (
	"context"
	"math"
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = schema.Float(v)
	}
	return out
}

func sampleFlow() schema.DimensionalFlow {
	return schema.DimensionalFlow{
		ID: "energy",
		Nodes: []schema.FlowNode{
			{ID: "heat", Label: "Heating"},
			{ID: "elec", Label: "Electricity"},
			{ID: "act", Label: "Actions"},
		},
		Sources: []string{"heat", "elec"},
		Links: []schema.FlowLink{
			{
				Year:                 2020,
				AbsoluteSourceValues: []float64{100, 50},
			},
			{
				Year:                 2025,
				Sources:              []string{"heat", "elec"},
				Targets:              []string{"act", "act"},
				Values:               values(20, 5),
				AbsoluteSourceValues: []float64{70, 40},
			},
			{
				Year:                 2030,
				Sources:              []string{"heat", "elec", "heat"},
				Targets:              []string{"act", "act", "elec"},
				Values:               []*float64{schema.Float(30), nil, schema.Float(-5)},
				AbsoluteSourceValues: []float64{60, 45},
			},
		},
	}
}

func TestSelectLinks(t *testing.T) {
	flow := sampleFlow()

	tests := []struct {
		name     string
		endYear  int
		expected int
	}{
		{"Exact Match", 2025, 2025},
		{"Next Later Link", 2026, 2030},
		{"Before Start Uses Start Plus One", 2000, 2025},
		{"Start Year Uses Start Plus One", 2020, 2025},
		{"After Last Link", 2050, 2030},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, current, err := SelectLinks(flow, tt.endYear)
			require.NoError(t, err)
			assert.Equal(t, 2020, start.Year)
			assert.Equal(t, tt.expected, current.Year)
		})
	}

	_, _, err := SelectLinks(schema.DimensionalFlow{ID: "empty"}, 2030)
	assert.ErrorIs(t, err, ErrNoFlowLinks)
}

func TestBuildFrameLayout(t *testing.T) {
	flow := sampleFlow()
	colors := NodeColors(flow.Nodes, nil)

	trace, err := BuildFrame(flow, flow.Links[0], flow.Links[1], colors)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Heating", "Electricity", "Actions",
		"Heating 2020", "Heating 2025",
		"Electricity 2020", "Electricity 2025",
	}, trace.Node.Label)
	assert.Len(t, trace.Node.Color, 7)

	// 2 current edges + 4 per source
	require.Len(t, trace.Link.Source, 10)
	assert.Len(t, trace.Link.Target, 10)
	assert.Len(t, trace.Link.Value, 10)
	assert.Len(t, trace.Link.Color, 10)
	assert.Len(t, trace.Link.Kind, 10)

	assert.Equal(t, []schema.LinkKind{
		schema.FlowLinkKind, schema.FlowLinkKind,
		schema.RemainingLinkKind, schema.ImpactLinkKind, schema.OtherLinkKind, schema.ThreadLinkKind,
		schema.RemainingLinkKind, schema.ImpactLinkKind, schema.OtherLinkKind, schema.ThreadLinkKind,
	}, trace.Link.Kind)

	// heat: start=100, impact=20, remaining=70, other=10
	assert.Equal(t, []int{3, 3, 3, 4}, trace.Link.Source[2:6])
	assert.Equal(t, []int{4, 0, 4, 0}, trace.Link.Target[2:6])
	assert.Equal(t, []float64{70, 20, 10, 70}, trace.Link.Value[2:6])
	assert.Equal(t, colors["heat"].LinkColor, trace.Link.Color[0])
	assert.Equal(t, colors["heat"].LinkColor, trace.Link.Color[3])
}

func TestBuildFrameSumPreservation(t *testing.T) {
	flow := sampleFlow()
	colors := NodeColors(flow.Nodes, nil)

	for _, current := range flow.Links[1:] {
		trace, err := BuildFrame(flow, flow.Links[0], current, colors)
		require.NoError(t, err)

		for i := range flow.Sources {
			startNode := len(flow.Nodes) + 2*i
			var out float64
			for e, src := range trace.Link.Source {
				if src == startNode {
					out += trace.Link.Value[e]
				}
			}
			assert.InDelta(t, flow.Links[0].AbsoluteSourceValues[i], out, 1e-9, "source %d year %d", i, current.Year)
		}
	}
}

func TestBuildFrameKeepsNegativesAndSkipsNulls(t *testing.T) {
	flow := sampleFlow()
	trace, err := BuildFrame(flow, flow.Links[0], flow.Links[2], NodeColors(flow.Nodes, nil))
	require.NoError(t, err)

	// null elec -> act is skipped, negative heat -> elec is kept
	assert.Equal(t, []float64{30, -5}, trace.Link.Value[:2])
	assert.Equal(t, []int{0, 0}, trace.Link.Source[:2])
	assert.Equal(t, []int{2, 1}, trace.Link.Target[:2])

	// heat impact sums both current edges
	assert.InDelta(t, 25.0, trace.Link.Value[3], 1e-9)
	// elec has no non-null outflow
	assert.InDelta(t, 0.0, trace.Link.Value[7], 1e-9)
}

func TestBuildFrameMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *schema.DimensionalFlow)
	}{
		{"Mismatched Arrays", func(f *schema.DimensionalFlow) { f.Links[1].Targets = f.Links[1].Targets[:1] }},
		{"Unknown Target", func(f *schema.DimensionalFlow) { f.Links[1].Targets[0] = "nope" }},
		{"Unknown Source", func(f *schema.DimensionalFlow) { f.Sources = append(f.Sources, "ghost") }},
		{"Short Absolute Values", func(f *schema.DimensionalFlow) { f.Links[0].AbsoluteSourceValues = []float64{100} }},
		{"Infinite Value", func(f *schema.DimensionalFlow) { f.Links[1].Values[0] = schema.Float(math.Inf(1)) }},
		{"NaN Absolute", func(f *schema.DimensionalFlow) { f.Links[1].AbsoluteSourceValues[0] = math.NaN() }},
		{"Duplicate Node", func(f *schema.DimensionalFlow) { f.Nodes = append(f.Nodes, schema.FlowNode{ID: "heat"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := sampleFlow()
			tt.mutate(&flow)
			_, err := BuildFrame(flow, flow.Links[0], flow.Links[1], NodeColors(flow.Nodes, nil))
			assert.ErrorIs(t, err, ErrMalformedFlow)
		})
	}
}

func TestBuildFrames(t *testing.T) {
	flow := sampleFlow()

	frames, err := BuildFrames(context.Background(), flow, []int{2030, 2025, 2030}, nil, 4)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 2025, frames[0].Year)
	assert.Equal(t, 2030, frames[1].Year)
	assert.Equal(t, "energy", frames[0].FlowID)
	assert.Equal(t, 2020, frames[0].StartYear)

	single, err := BuildFrame(flow, flow.Links[0], flow.Links[1], NodeColors(flow.Nodes, nil))
	require.NoError(t, err)
	assert.Equal(t, single, frames[0].Trace)
}

func TestBuildFramesErrors(t *testing.T) {
	_, err := BuildFrames(context.Background(), schema.DimensionalFlow{}, []int{2020}, nil, 1)
	assert.ErrorIs(t, err, ErrNoFlowLinks)

	flow := sampleFlow()
	flow.Links[1].Targets = nil
	_, err = BuildFrames(context.Background(), flow, []int{2025}, nil, 1)
	assert.ErrorIs(t, err, ErrMalformedFlow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BuildFrames(ctx, sampleFlow(), []int{2025}, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
