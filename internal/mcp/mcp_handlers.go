package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/pathways/core"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// rankedActions is the rank_actions payload.
type rankedActions struct {
	schema.ActionRanking
	Ranked []schema.EnrichedAction `json:"ranked"`
}

// applyCommon applies the dataset and year window arguments to cfg.
func applyCommon(cfg *contract.Config, request mcp.CallToolRequest) error {
	if err := contract.RevalidateDataset(cfg, request.GetString("dataset", "")); err != nil {
		return err
	}
	start := request.GetInt("start", cfg.StartYear)
	end := request.GetInt("end", cfg.EndYear)
	return contract.RevalidateWindow(cfg, start, end)
}

func (h *toolHandler) handleSummarizeMetric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommon(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if m := request.GetString("metric", ""); m != "" {
		cfg.MetricIDs = contract.SplitList(m)
	}

	summaries, err := core.GetSeriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summaries)
}

func (h *toolHandler) handleRankActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommon(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if o := request.GetString("overview", ""); o != "" {
		cfg.OverviewID = strings.TrimSpace(o)
	}

	var basePlotLimit float64
	if cfg.PlotLimit != nil {
		basePlotLimit = *cfg.PlotLimit
	}
	err := contract.RevalidateRanking(cfg,
		request.GetString("sort_by", string(cfg.SortBy)),
		request.GetBool("ascending", cfg.Ascending),
		request.GetFloat("plot_limit", basePlotLimit),
		request.GetInt("limit", cfg.ResultLimit),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	ranking, err := core.GetActionResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(rankedActions{
		ActionRanking: ranking,
		Ranked:        schema.EnrichActions(ranking.Chart),
	})
}

func (h *toolHandler) handleBuildSankey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyCommon(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if f := request.GetString("flow", ""); f != "" {
		cfg.FlowID = strings.TrimSpace(f)
	}
	cfg.AllYears = request.GetBool("all_years", cfg.AllYears)

	frames, err := core.GetSankeyResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sankey failed: %v", err)), nil
	}
	return jsonResult(frames)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
