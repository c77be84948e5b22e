package cmd

import (
	"github.com/huangsam/pathways/core"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/spf13/cobra"
)

// sankeyCmd builds Sankey frames for a dimensional flow.
var sankeyCmd = &cobra.Command{
	Use:   "sankey",
	Short: "Build Sankey frames for a dimensional flow.",
	Long: `Build the nodes and edges of a Sankey diagram that shows how each source
moves from the first snapshot of a flow to a later year.

Every source splits into what remains, what tracked actions removed, and the
other change. Node colors come from the dataset or the theme palette.

Examples:
  # Frame for the last year of the first flow
  pathways sankey --dataset model.json

  # Frame for 2030 of a named flow
  pathways sankey --dataset model.json --flow emission_sectors --end 2030

  # One frame per year as JSON for an animated chart
  pathways sankey --dataset model.json --all-years --output json`,
	Args:    cobra.NoArgs,
	PreRunE: requireDataset,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSankey(rootCtx, cfg, cacheManager, writer); err != nil {
			contract.LogFatal("Cannot build sankey frames", err)
		}
	},
}
