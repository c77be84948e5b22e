package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/huangsam/pathways/core/algo"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/loader"
	"github.com/huangsam/pathways/schema"
)

// ErrNoDataset is returned when a command needs a dataset and none is configured.
var ErrNoDataset = errors.New("--dataset is required")

// loadedDataset is a dataset together with the digest of its file.
type loadedDataset struct {
	*schema.Dataset
	Digest string
}

// loadDataset reads the configured dataset.
func loadDataset(cfg *contract.Config) (*loadedDataset, error) {
	if cfg.DatasetPath == "" {
		return nil, ErrNoDataset
	}
	ds, digest, err := loader.LoadWithDigest(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	return &loadedDataset{Dataset: ds, Digest: digest}, nil
}

// resolveWindow fills the unset window bounds of cfg from first and last.
// Zero bounds mean the data has no years to derive from.
func resolveWindow(cfg *contract.Config, first, last int) (int, int, error) {
	start, end := cfg.ResolveWindow(first, last)
	if start == 0 || end == 0 {
		return 0, 0, fmt.Errorf("cannot derive year window: %w", algo.ErrNoData)
	}
	if start > end {
		return 0, 0, fmt.Errorf("[%d, %d]: %w", start, end, algo.ErrInvalidWindow)
	}
	return start, end, nil
}

// logHeader logs a concise header for each run unless the context suppresses it.
func logHeader(ctx context.Context, cfg *contract.Config, command, subject string, start, end int) {
	if shouldSuppressHeader(ctx) {
		return
	}
	contract.Log().Info().
		Str("dataset", filepath.Base(cfg.DatasetPath)).
		Str("command", command).
		Str("subject", subject).
		Int("start", start).
		Int("end", end).
		Msg("Running")
}
