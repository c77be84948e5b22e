package cmd

import (
	"runtime"

	"github.com/huangsam/pathways/internal/loader"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pathways.",
	Long: `Display version information including build details and the
dataset versions this build can read.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("pathways CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s\n", runtime.Version())
		cmd.Printf("  Datasets: %s\n", loader.SupportedVersions)
	},
}
