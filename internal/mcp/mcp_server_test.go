package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/pathways/internal/contract"
	mcp_internal "github.com/huangsam/pathways/internal/mcp"
	"github.com/huangsam/pathways/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *server.MCPServer {
	return newServerWithConfig(t, func(*contract.Config) {})
}

func newServerWithConfig(t *testing.T, adjust func(*contract.Config)) *server.MCPServer {
	t.Helper()
	dataset, err := filepath.Abs("../loader/testdata/dataset.json")
	require.NoError(t, err)

	baseCfg := &contract.Config{
		DatasetPath: dataset,
		SortBy:      schema.SortDefault,
		Workers:     2,
		Precision:   1,
	}
	adjust(baseCfg)

	// A nil manager disables memoization and run tracking
	var mgr contract.CacheManager
	return mcp_internal.NewMCPServer(baseCfg, mgr, "test")
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := newServer(t)

	t.Run("summarize_metric", func(t *testing.T) {
		res := callTool(t, s, "summarize_metric", map[string]any{
			"metric": "net_emissions",
			"start":  2020.0,
			"end":    2030.0,
		})
		require.False(t, res.IsError, resultText(res))

		var summaries []schema.SeriesSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "net_emissions", summaries[0].MetricID)
		require.NotNil(t, summaries[0].PercentChange)
		assert.Equal(t, 38.0, *summaries[0].PercentChange)
	})

	t.Run("rank_actions", func(t *testing.T) {
		res := callTool(t, s, "rank_actions", map[string]any{
			"sort_by": "efficiency",
			"limit":   1.0,
		})
		require.False(t, res.IsError, resultText(res))

		var payload struct {
			Ranked      []schema.EnrichedAction `json:"ranked"`
			ExcludedIDs []string                `json:"excluded_ids"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
		require.Len(t, payload.Ranked, 1)
		assert.Equal(t, "gas_boilers", payload.Ranked[0].ID)
		assert.Equal(t, "Counterproductive", payload.Ranked[0].Label)
		assert.Equal(t, []string{"awareness"}, payload.ExcludedIDs)
	})

	t.Run("rank_actions with overview", func(t *testing.T) {
		res := callTool(t, s, "rank_actions", map[string]any{"overview": "mac"})
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), `"label": "Marginal abatement cost"`)
	})

	t.Run("build_sankey", func(t *testing.T) {
		res := callTool(t, s, "build_sankey", map[string]any{"all_years": true})
		require.False(t, res.IsError, resultText(res))

		var frames []schema.SankeyFrame
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &frames))
		require.Len(t, frames, 2)
		assert.Equal(t, 2025, frames[0].Year)
		assert.Equal(t, 2030, frames[1].Year)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		message string
	}{
		{"inverted window", "summarize_metric", map[string]any{"start": 2030.0, "end": 2020.0}, "cannot be after end year"},
		{"year out of range", "build_sankey", map[string]any{"end": 12000.0}, "out of range"},
		{"missing dataset", "summarize_metric", map[string]any{"dataset": "/nonexistent/dataset.json"}, "dataset"},
		{"unknown metric", "summarize_metric", map[string]any{"metric": "missing"}, "not found in dataset"},
		{"invalid sort key", "rank_actions", map[string]any{"sort_by": "alphabet"}, "invalid sort key"},
		{"negative plot limit", "rank_actions", map[string]any{"plot_limit": -5.0}, "plot-limit cannot be negative"},
		{"unknown overview", "rank_actions", map[string]any{"overview": "missing"}, "not found in dataset"},
		{"unknown flow", "build_sankey", map[string]any{"flow": "missing"}, "not found in dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.message)
		})
	}
}

func TestMCPServerPlotLimitOverride(t *testing.T) {
	s := newServerWithConfig(t, func(cfg *contract.Config) {
		cfg.PlotLimit = schema.Float(10000)
	})

	tests := []struct {
		name     string
		args     map[string]any
		excluded []string
	}{
		{"configured cutoff kept", map[string]any{"overview": "mac"}, nil},
		{"zero falls back to overview limit", map[string]any{"overview": "mac", "plot_limit": 0.0}, []string{"solar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, "rank_actions", tt.args)
			require.False(t, res.IsError, resultText(res))

			var ranking schema.ActionRanking
			require.NoError(t, json.Unmarshal([]byte(resultText(res)), &ranking))
			assert.ElementsMatch(t, tt.excluded, ranking.ExcludedIDs)
		})
	}
}
