package flow

import (
	"strconv"
	"strings"
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignColorsUsesThemeInOrder(t *testing.T) {
	theme := []string{"#111111", "#222222", "#333333"}
	assert.Equal(t, []string{"#111111", "#222222"}, AssignColors(nil, theme, 2))
	assert.Empty(t, AssignColors(nil, theme, 0))
}

func TestAssignColorsSkipsExplicitColors(t *testing.T) {
	theme := []string{"#111111", "#222222", "#333333"}
	nodes := []schema.FlowNode{{ID: "a", Color: "#111111"}, {ID: "b"}}
	assert.Equal(t, []string{"#222222"}, AssignColors(nodes, theme, 1))
}

func TestAssignColorsInterpolates(t *testing.T) {
	theme := []string{"#000000", "#ffffff"}
	colors := AssignColors(nil, theme, 5)
	require.Len(t, colors, 5)
	assert.Equal(t, "#000000", colors[0])
	assert.Equal(t, "#ffffff", colors[4])

	seen := make(map[string]bool)
	for _, c := range colors {
		assert.False(t, seen[c], "duplicate color %s", c)
		seen[c] = true
	}
}

func TestAssignColorsDeterministic(t *testing.T) {
	nodes := []schema.FlowNode{{ID: "a"}, {ID: "b"}}
	first := AssignColors(nodes, nil, 25)
	second := AssignColors(nodes, nil, 25)
	assert.Equal(t, first, second)
	assert.Len(t, first, 25)
}

func TestNodeColors(t *testing.T) {
	nodes := []schema.FlowNode{
		{ID: "a", Color: "#ff0000"},
		{ID: "b"},
		{ID: "c"},
	}
	colors := NodeColors(nodes, []string{"#00ff00", "#0000ff"})
	require.Len(t, colors, 3)

	assert.Equal(t, "#ff0000", colors["a"].Color)
	assert.Equal(t, "#00ff00", colors["b"].Color)
	assert.Equal(t, "#0000ff", colors["c"].Color)
	assert.Equal(t, Tint("#ff0000", linkTint), colors["a"].LinkColor)
}

func TestTint(t *testing.T) {
	assert.Equal(t, "#ffffff", Tint("#336699", 1))
	assert.Equal(t, "#336699", Tint("#336699", 0))
	assert.Equal(t, "not-a-color", Tint("not-a-color", 0.5))
	assert.NotEqual(t, "#336699", Tint("#336699", 0.5))
}

func assertDistinct(t *testing.T, colors []string, taken ...string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range taken {
		seen[strings.ToLower(c)] = true
	}
	for _, c := range colors {
		key := strings.ToLower(c)
		assert.False(t, seen[key], "duplicate color %s in %v", c, colors)
		seen[key] = true
	}
}

func TestAssignColorsSingleThemeColor(t *testing.T) {
	colors := AssignColors(nil, []string{"#ff0000"}, 3)
	require.Len(t, colors, 3)
	assert.Equal(t, "#ff0000", colors[0])
	assertDistinct(t, colors)

	gray := AssignColors(nil, []string{"#808080"}, 4)
	assertDistinct(t, gray)
	assert.Equal(t, gray, AssignColors(nil, []string{"#808080"}, 4))
}

func TestAssignColorsDuplicateThemeEntries(t *testing.T) {
	colors := AssignColors(nil, []string{"#00FF00", "#00ff00"}, 2)
	require.Len(t, colors, 2)
	assertDistinct(t, colors)
}

func TestNodeColorsThemeUsedByExplicitNodes(t *testing.T) {
	nodes := []schema.FlowNode{
		{ID: "a", Color: "#ff0000"},
		{ID: "b"},
		{ID: "c"},
		{ID: "d"},
	}

	tests := []struct {
		name  string
		theme []string
	}{
		{"one color left", []string{"#ff0000", "#00ff00"}},
		{"theme fully taken", []string{"#ff0000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors := NodeColors(nodes, tt.theme)
			require.Len(t, colors, 4)
			assert.Equal(t, "#ff0000", colors["a"].Color)
			assertDistinct(t, []string{colors["b"].Color, colors["c"].Color, colors["d"].Color}, "#ff0000")
		})
	}
}

func TestAssignColorsDefaultPaletteExhausted(t *testing.T) {
	nodes := make([]schema.FlowNode, 0, len(DefaultPalette))
	for i, c := range DefaultPalette {
		nodes = append(nodes, schema.FlowNode{ID: strconv.Itoa(i), Color: c})
	}
	colors := AssignColors(nodes, nil, 3)
	require.Len(t, colors, 3)
	assertDistinct(t, colors, DefaultPalette...)
}
