package cmd

import (
	"github.com/huangsam/pathways/core"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/spf13/cobra"
)

// actionsCmd ranks actions by cost efficiency.
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Rank actions by impact, cost or cost efficiency.",
	Long: `Compute the cumulative impact and cost of each action over a year window
and rank them for bar and marginal abatement cost charts.

Actions without a cost, or whose efficiency exceeds the plot limit, are
excluded from the chart and listed separately. Actions with a negative
impact always come first.

Examples:
  # Rank the dataset actions by efficiency
  pathways actions --dataset model.json --sort-by efficiency

  # Rank the actions of an impact overview with a custom cutoff
  pathways actions --dataset model.json --overview mac --plot-limit 500

  # Show the five cheapest actions per unit of impact
  pathways actions --dataset model.json --sort-by efficiency --ascending --limit 5`,
	Args:    cobra.NoArgs,
	PreRunE: requireDataset,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteActions(rootCtx, cfg, cacheManager, writer); err != nil {
			contract.LogFatal("Cannot rank actions", err)
		}
	},
}
