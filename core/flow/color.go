// Package flow builds Sankey frames and node colors for dimensional flows.
package flow

import (
	"math"
	"strings"

	"github.com/huangsam/pathways/schema"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is used when no theme colors are configured.
var DefaultPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Tint amounts for link colors and the tinted remaining/other edges.
const (
	linkTint      = 0.3
	secondaryTint = 0.5
)

// AssignColors returns count distinct colors taken from theme in order.
// Theme colors already used explicitly by nodes are skipped. When more colors
// are needed than the theme holds, colors are sampled evenly along the theme
// in HCL space. Identical input always gives identical output.
func AssignColors(nodes []schema.FlowNode, theme []string, count int) []string {
	if count <= 0 {
		return []string{}
	}

	palette, used := availablePalette(nodes, theme)
	if count <= len(palette) {
		return distinctColors(append([]string(nil), palette[:count]...), used)
	}

	stops := make([]colorful.Color, 0, len(palette))
	for _, hex := range palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		stops = append(stops, c)
	}

	var out []string
	switch len(stops) {
	case 0:
		return AssignColors(nodes, DefaultPalette, count)
	case 1:
		out = hueSteps(stops[0], count)
	default:
		out = make([]string, count)
		last := float64(len(stops) - 1)
		for i := range out {
			pos := float64(i) * last / float64(count-1)
			lo := int(pos)
			if lo >= len(stops)-1 {
				out[i] = stops[len(stops)-1].Hex()
				continue
			}
			out[i] = stops[lo].BlendHcl(stops[lo+1], pos-float64(lo)).Clamped().Hex()
		}
	}
	return distinctColors(out, used)
}

// hueSteps spreads count colors around the hue circle starting at c. Grays
// get a minimum chroma so the rotation is visible.
func hueSteps(c colorful.Color, count int) []string {
	h, chroma, l := c.Hcl()
	chroma = max(chroma, 0.25)
	l = min(max(l, 0.3), 0.8)

	out := make([]string, count)
	out[0] = c.Hex()
	for i := 1; i < count; i++ {
		hue := math.Mod(h+360*float64(i)/float64(count), 360)
		out[i] = colorful.Hcl(hue, chroma, l).Clamped().Hex()
	}
	return out
}

// distinctColors nudges any color that repeats an earlier one, or one in
// used, toward black or white until it is unique.
func distinctColors(colors []string, used map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(used)+len(colors))
	for k := range used {
		seen[k] = struct{}{}
	}
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}
	for i, hex := range colors {
		key := strings.ToLower(hex)
		if c, err := colorful.Hex(hex); err == nil {
			target := white
			if _, _, l := c.Hcl(); l > 0.5 {
				target = black
			}
			for step := 1; step <= 50; step++ {
				if _, dup := seen[key]; !dup {
					break
				}
				key = c.BlendLab(target, 0.02*float64(step)).Clamped().Hex()
			}
		}
		if key != strings.ToLower(hex) {
			colors[i] = key
		}
		seen[key] = struct{}{}
	}
	return colors
}

// availablePalette drops duplicate theme colors and those nodes already use.
// When the theme is used up, the default palette minus used colors takes
// over. used holds the explicit colors in lower case.
func availablePalette(nodes []schema.FlowNode, theme []string) (palette []string, used map[string]struct{}) {
	used = make(map[string]struct{})
	for _, n := range nodes {
		if n.Color != "" {
			used[strings.ToLower(n.Color)] = struct{}{}
		}
	}
	pick := func(colors []string) []string {
		var out []string
		seen := make(map[string]struct{})
		for _, c := range colors {
			key := strings.ToLower(c)
			if _, ok := used[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, c)
		}
		return out
	}

	if len(theme) > 0 {
		if palette = pick(theme); len(palette) > 0 {
			return palette, used
		}
	}
	if palette = pick(DefaultPalette); len(palette) > 0 {
		return palette, used
	}
	return theme, used
}

// NodeColors returns the fill and link color of every node. Explicit colors
// are kept and missing ones are filled from theme in node order.
func NodeColors(nodes []schema.FlowNode, theme []string) map[string]schema.NodeColor {
	missing := 0
	for _, n := range nodes {
		if n.Color == "" {
			missing++
		}
	}
	generated := AssignColors(nodes, theme, missing)

	out := make(map[string]schema.NodeColor, len(nodes))
	next := 0
	for _, n := range nodes {
		color := n.Color
		if color == "" {
			color = generated[next]
			next++
		}
		out[n.ID] = schema.NodeColor{Color: color, LinkColor: Tint(color, linkTint)}
	}
	return out
}

// Tint lightens hex toward white by amount in [0, 1]. Invalid colors are
// returned unchanged.
func Tint(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	amount = min(max(amount, 0), 1)
	white := colorful.Color{R: 1, G: 1, B: 1}
	return c.BlendLab(white, amount).Clamped().Hex()
}
