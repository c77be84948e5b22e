// main is the entry point for the pathways CLI.
package main

import (
	"os"

	"github.com/huangsam/pathways/cmd"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.Log().Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
