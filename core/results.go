package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/pathways/core/algo"
	"github.com/huangsam/pathways/core/flow"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
)

// ErrNotFound is returned when a configured metric, overview or flow id is not in the dataset.
var ErrNotFound = errors.New("not found in dataset")

// GetSeriesResults summarizes the selected metrics over the configured window.
// Every metric is summarized when none is selected.
func GetSeriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.SeriesSummary, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	return seriesResults(ctx, cfg, mgr, ds)
}

// GetActionResults ranks the dataset actions, or the actions of the selected
// impact overview, over the configured window.
func GetActionResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ActionRanking, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return schema.ActionRanking{}, err
	}
	return actionResults(ctx, cfg, mgr, ds)
}

// GetSankeyResults builds the Sankey frames of the selected flow.
func GetSankeyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.SankeyFrame, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	return sankeyResults(ctx, cfg, mgr, ds)
}

type seriesParams struct {
	MetricIDs []string `json:"metrics"`
	Start     int      `json:"start"`
	End       int      `json:"end"`
}

func seriesResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ds *loadedDataset) ([]schema.SeriesSummary, error) {
	nodes, err := selectMetrics(ds.Dataset, cfg.MetricIDs)
	if err != nil {
		return nil, err
	}
	logHeader(ctx, cfg, schema.SeriesCommand, cmp.Or(strings.Join(cfg.MetricIDs, ","), "all metrics"), cfg.StartYear, cfg.EndYear)

	key := generateCacheKey(schema.SeriesCommand, ds.Digest, seriesParams{
		MetricIDs: cfg.MetricIDs,
		Start:     cfg.StartYear,
		End:       cfg.EndYear,
	})
	return memoize(memoStore(mgr), key, func() ([]schema.SeriesSummary, error) {
		return summarizeNodes(cfg, nodes)
	})
}

// selectMetrics returns the nodes for ids in order, or every node when ids is empty.
func selectMetrics(ds *schema.Dataset, ids []string) ([]schema.Node, error) {
	if len(ids) == 0 {
		return ds.Metrics, nil
	}
	nodes := make([]schema.Node, 0, len(ids))
	for _, id := range ids {
		node, ok := ds.MetricByID(id)
		if !ok {
			return nil, fmt.Errorf("metric %q: %w", id, ErrNotFound)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// summarizeNodes summarizes each node over the configured window, or over its
// own years when the window is unset. Nodes without data are skipped.
func summarizeNodes(cfg *contract.Config, nodes []schema.Node) ([]schema.SeriesSummary, error) {
	summaries := make([]schema.SeriesSummary, 0, len(nodes))
	for _, node := range nodes {
		first, last, _ := algo.SeriesYears(node.Metric)
		start, end, err := resolveWindow(cfg, first, last)
		var summary schema.SeriesSummary
		if err == nil {
			summary, err = algo.SummarizeSeries(node, start, end)
		}
		if errors.Is(err, algo.ErrNoData) {
			contract.Log().Debug().Str("metric", node.ID).Msg("Skipping metric without data")
			continue
		}
		if err != nil {
			return nil, err
		}
		summary.ShareOfTotal = shareOfTotal(nodes, summary)
		summaries = append(summaries, summary)
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("no selected metric has values: %w", algo.ErrNoData)
	}
	return summaries, nil
}

// shareOfTotal is the summary's end value as a percent of the total across
// nodes in the same year, to three significant digits.
func shareOfTotal(nodes []schema.Node, summary schema.SeriesSummary) *float64 {
	if summary.EndValue == nil {
		return nil
	}
	total := algo.TotalAcrossNodes(nodes, summary.EndYear)
	if total == 0 {
		return nil
	}
	share := algo.RoundSignificant(100**summary.EndValue/total, 3)
	return &share
}

type actionParams struct {
	Overview  string         `json:"overview"`
	Start     int            `json:"start"`
	End       int            `json:"end"`
	SortBy    schema.SortKey `json:"sort_by"`
	Ascending bool           `json:"ascending"`
	PlotLimit *float64       `json:"plot_limit"`
	Limit     int            `json:"limit"`
}

func actionResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ds *loadedDataset) (schema.ActionRanking, error) {
	first, last, _ := ds.YearBounds()
	start, end, err := resolveWindow(cfg, first, last)
	if err != nil {
		return schema.ActionRanking{}, err
	}
	logHeader(ctx, cfg, schema.ActionsCommand, cmp.Or(cfg.OverviewID, "actions"), start, end)

	key := generateCacheKey(schema.ActionsCommand, ds.Digest, actionParams{
		Overview:  cfg.OverviewID,
		Start:     start,
		End:       end,
		SortBy:    cfg.SortBy,
		Ascending: cfg.Ascending,
		PlotLimit: cfg.PlotLimit,
		Limit:     cfg.ResultLimit,
	})
	return memoize(memoStore(mgr), key, func() (schema.ActionRanking, error) {
		return rankActions(cfg, ds.Dataset, start, end)
	})
}

// rankActions derives the window totals, then filters, sorts and caps them.
// An explicit plot limit overrides the overview's own cutoff.
func rankActions(cfg *contract.Config, ds *schema.Dataset, start, end int) (schema.ActionRanking, error) {
	ranking := schema.ActionRanking{
		Label:     "Actions",
		StartYear: start,
		EndYear:   end,
		SortBy:    cfg.SortBy,
		Ascending: cfg.Ascending,
		PlotLimit: cfg.PlotLimit,
	}

	var totals []schema.RankedAction
	if cfg.OverviewID != "" {
		overview, ok := ds.OverviewByID(cfg.OverviewID)
		if !ok {
			return schema.ActionRanking{}, fmt.Errorf("impact overview %q: %w", cfg.OverviewID, ErrNotFound)
		}
		totals = algo.DeriveOverviewTotals(overview, start, end)
		ranking.Label = overview.Label
		ranking.Unit = overview.IndicatorUnit
		if ranking.PlotLimit == nil {
			ranking.PlotLimit = overview.PlotLimitForIndicator
		}
	} else {
		totals = algo.DeriveActionTotals(ds.Actions, start, end)
	}

	ranking.Chart = algo.RankActions(totals, algo.RankOptions{
		SortBy:    cfg.SortBy,
		Ascending: cfg.Ascending,
		PlotLimit: ranking.PlotLimit,
		Limit:     cfg.ResultLimit,
	})

	_, excluded := algo.FilterActions(totals, ranking.PlotLimit)
	ranking.ExcludedIDs = make([]string, 0, len(excluded))
	for _, a := range excluded {
		ranking.ExcludedIDs = append(ranking.ExcludedIDs, a.ID)
	}
	ranking.Range = algo.EstimateRange(ranking.Chart.Efficiency)
	return ranking, nil
}

type sankeyParams struct {
	Flow  string   `json:"flow"`
	Years []int    `json:"years"`
	Theme []string `json:"theme"`
}

func sankeyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ds *loadedDataset) ([]schema.SankeyFrame, error) {
	df, ok := ds.FlowByID(cfg.FlowID)
	if !ok {
		return nil, fmt.Errorf("flow %q: %w", cfg.FlowID, ErrNotFound)
	}
	years := frameYears(cfg, df)
	if len(years) == 0 {
		return nil, fmt.Errorf("%s: %w", df.ID, flow.ErrNoFlowLinks)
	}
	logHeader(ctx, cfg, schema.SankeyCommand, df.ID, years[0], years[len(years)-1])

	key := generateCacheKey(schema.SankeyCommand, ds.Digest, sankeyParams{
		Flow:  df.ID,
		Years: years,
		Theme: cfg.ThemeColors,
	})
	return memoize(memoStore(mgr), key, func() ([]schema.SankeyFrame, error) {
		return flow.BuildFrames(ctx, df, years, cfg.ThemeColors, cfg.Workers)
	})
}

// frameYears returns the years to build frames for. With AllYears that is
// every link year after the starting snapshot. Otherwise it is the end year,
// which defaults to the last link.
func frameYears(cfg *contract.Config, df schema.DimensionalFlow) []int {
	switch {
	case len(df.Links) == 0:
		return nil
	case cfg.AllYears && len(df.Links) > 1:
		return df.Years()[1:]
	case cfg.AllYears:
		return df.Years()
	case cfg.EndYear != 0:
		return []int{cfg.EndYear}
	default:
		return []int{df.Links[len(df.Links)-1].Year}
	}
}
