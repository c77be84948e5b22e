package cmd

import (
	"github.com/huangsam/pathways/core"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd summarizes metric series over a year window.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Summarize metric series over a year window.",
	Long: `Merge the historical and forecast values of each metric and summarize them.

For every selected metric this reports:
- The values at the start and end of the window
- The percent reduction from start to end
- The cumulative sum over the window
- A padded axis range for charting

Examples:
  # Summarize every metric over the full data range
  pathways series --dataset model.json

  # Summarize two metrics between 2020 and 2035
  pathways series --dataset model.json --metric net_emissions,building_emissions --start 2020 --end 2035

  # Export summaries to CSV
  pathways series --dataset model.json --output csv --output-file series.csv`,
	Args:    cobra.NoArgs,
	PreRunE: requireDataset,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager, writer); err != nil {
			contract.LogFatal("Cannot summarize series", err)
		}
	},
}
