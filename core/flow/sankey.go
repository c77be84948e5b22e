package flow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/pathways/schema"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMalformedFlow is returned when flow data breaks its own shape.
	ErrMalformedFlow = errors.New("malformed flow")

	// ErrNoFlowLinks is returned when a flow has no links to build a frame from.
	ErrNoFlowLinks = errors.New("flow has no links")
)

// SelectLinks returns the start link and the link to show for endYear. The
// target year is endYear but never earlier than one year after the start
// link. An exact match wins, then the first later link, then the last link.
func SelectLinks(flow schema.DimensionalFlow, endYear int) (start, current schema.FlowLink, err error) {
	if len(flow.Links) == 0 {
		return start, current, fmt.Errorf("%s: %w", flow.ID, ErrNoFlowLinks)
	}

	start = flow.Links[0]
	target := max(start.Year+1, endYear)
	for _, l := range flow.Links {
		if l.Year == target {
			return start, l, nil
		}
	}
	for _, l := range flow.Links {
		if l.Year > target {
			return start, l, nil
		}
	}
	return start, flow.Links[len(flow.Links)-1], nil
}

// traceBuilder accumulates nodes and edges of one trace.
type traceBuilder struct {
	trace schema.SankeyTrace
}

func (b *traceBuilder) node(label, color string) int {
	b.trace.Node.Label = append(b.trace.Node.Label, label)
	b.trace.Node.Color = append(b.trace.Node.Color, color)
	return len(b.trace.Node.Label) - 1
}

func (b *traceBuilder) edge(source, target int, value float64, color string, kind schema.LinkKind) {
	b.trace.Link.Source = append(b.trace.Link.Source, source)
	b.trace.Link.Target = append(b.trace.Link.Target, target)
	b.trace.Link.Value = append(b.trace.Link.Value, value)
	b.trace.Link.Color = append(b.trace.Link.Color, color)
	b.trace.Link.Kind = append(b.trace.Link.Kind, kind)
}

func newTraceBuilder() *traceBuilder {
	return &traceBuilder{trace: schema.SankeyTrace{
		Node: schema.SankeyNodes{Label: []string{}, Color: []string{}},
		Link: schema.SankeyLinks{Source: []int{}, Target: []int{}, Value: []float64{}, Color: []string{}, Kind: []schema.LinkKind{}},
	}}
}

// BuildFrame builds the Sankey trace between the start and current links.
//
// Indices [0, N) are the current incarnations of flow.Nodes in order. For the
// i-th accounted source, index N+2i is its start incarnation and N+2i+1 its
// remaining incarnation. Every start incarnation emits remaining, impact and
// other edges whose values add up to the source's start absolute value, and
// every remaining incarnation threads into the current node.
func BuildFrame(flow schema.DimensionalFlow, start, current schema.FlowLink, colors map[string]schema.NodeColor) (schema.SankeyTrace, error) {
	index := make(map[string]int, len(flow.Nodes))
	labels := make(map[string]string, len(flow.Nodes))
	b := newTraceBuilder()
	for _, n := range flow.Nodes {
		if _, dup := index[n.ID]; dup {
			return schema.SankeyTrace{}, fmt.Errorf("%s: duplicate node %q: %w", flow.ID, n.ID, ErrMalformedFlow)
		}
		index[n.ID] = b.node(n.Label, colors[n.ID].Color)
		labels[n.ID] = n.Label
	}

	if err := validateLink(current, index); err != nil {
		return schema.SankeyTrace{}, fmt.Errorf("%s year %d: %w", flow.ID, current.Year, err)
	}
	for _, l := range []schema.FlowLink{start, current} {
		if len(l.AbsoluteSourceValues) < len(flow.Sources) {
			return schema.SankeyTrace{}, fmt.Errorf("%s year %d: %d absolute values for %d sources: %w",
				flow.ID, l.Year, len(l.AbsoluteSourceValues), len(flow.Sources), ErrMalformedFlow)
		}
	}

	impactSum := make(map[string]float64)
	for j, src := range current.Sources {
		if current.Values[j] == nil {
			continue
		}
		v := *current.Values[j]
		b.edge(index[src], index[current.Targets[j]], v, colors[src].LinkColor, schema.FlowLinkKind)
		impactSum[src] += v
	}

	for i, id := range flow.Sources {
		node, ok := index[id]
		if !ok {
			return schema.SankeyTrace{}, fmt.Errorf("%s: unknown source %q: %w", flow.ID, id, ErrMalformedFlow)
		}
		startAbs := start.AbsoluteSourceValues[i]
		remaining := current.AbsoluteSourceValues[i]
		impact := impactSum[id]
		other := startAbs - impact - remaining
		if !isFinite(startAbs) || !isFinite(remaining) || !isFinite(other) {
			return schema.SankeyTrace{}, fmt.Errorf("%s: non-finite values for source %q: %w", flow.ID, id, ErrMalformedFlow)
		}

		nc := colors[id]
		tinted := Tint(nc.LinkColor, secondaryTint)
		startNode := b.node(fmt.Sprintf("%s %d", labels[id], start.Year), nc.Color)
		remainingNode := b.node(fmt.Sprintf("%s %d", labels[id], current.Year), nc.Color)

		b.edge(startNode, remainingNode, remaining, tinted, schema.RemainingLinkKind)
		b.edge(startNode, node, impact, nc.LinkColor, schema.ImpactLinkKind)
		b.edge(startNode, remainingNode, other, tinted, schema.OtherLinkKind)
		b.edge(remainingNode, node, remaining, tinted, schema.ThreadLinkKind)
	}

	return b.trace, nil
}

// validateLink checks parallel array lengths, node ids and finiteness.
func validateLink(l schema.FlowLink, index map[string]int) error {
	if len(l.Sources) != len(l.Targets) || len(l.Sources) != len(l.Values) {
		return fmt.Errorf("%d sources, %d targets, %d values: %w",
			len(l.Sources), len(l.Targets), len(l.Values), ErrMalformedFlow)
	}
	for j := range l.Sources {
		if _, ok := index[l.Sources[j]]; !ok {
			return fmt.Errorf("unknown source %q: %w", l.Sources[j], ErrMalformedFlow)
		}
		if _, ok := index[l.Targets[j]]; !ok {
			return fmt.Errorf("unknown target %q: %w", l.Targets[j], ErrMalformedFlow)
		}
		if v := l.Values[j]; v != nil && !isFinite(*v) {
			return fmt.Errorf("non-finite value at %d: %w", j, ErrMalformedFlow)
		}
	}
	for _, v := range l.AbsoluteSourceValues {
		if !isFinite(v) {
			return fmt.Errorf("non-finite absolute value: %w", ErrMalformedFlow)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BuildFrames builds one frame per distinct requested year using up to
// workers goroutines. Frames come back ordered by requested year.
func BuildFrames(ctx context.Context, flow schema.DimensionalFlow, years []int, theme []string, workers int) ([]schema.SankeyFrame, error) {
	if len(flow.Links) == 0 {
		return nil, fmt.Errorf("%s: %w", flow.ID, ErrNoFlowLinks)
	}

	years = slices.Compact(slices.Sorted(slices.Values(years)))
	colors := NodeColors(flow.Nodes, theme)
	frames := make([]schema.SankeyFrame, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start, current, err := SelectLinks(flow, year)
			if err != nil {
				return err
			}
			trace, err := BuildFrame(flow, start, current, colors)
			if err != nil {
				return err
			}
			frames[i] = schema.SankeyFrame{
				FlowID:    flow.ID,
				StartYear: start.Year,
				Year:      current.Year,
				Trace:     trace,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
