// Package tagsync keeps table and field descriptions consistent between a
// schema store and a tag store. It reads both sides, computes the drift per
// entity, and pushes the missing or authoritative value in the right
// direction, creating description tags on first contact and updating them in
// place thereafter. Deletions are never propagated in either direction.
package tagsync

import (
	"context"
	"fmt"

	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/spreadsheet"
	enginesync "github.com/dataannex/tagsync/pkg/sync"
)

// Tagsync synchronizes descriptions between the configured store pair.
type Tagsync interface {
	// Sync reconciles one dataset and returns the run report. Options narrow
	// the table set, enable dry runs, or bound concurrency.
	Sync(ctx context.Context, dataset metadata.DatasetRef, opts ...enginesync.RunOption) (*enginesync.Report, error)

	// Download exports the dataset's schema-side descriptions to an .xlsx
	// workbook for offline curation.
	Download(ctx context.Context, dataset metadata.DatasetRef, path string, tables ...string) error

	// Upload imports an edited workbook into the schema store. Run Sync
	// afterwards to propagate imported descriptions to the tag store.
	Upload(ctx context.Context, dataset metadata.DatasetRef, path string) (*spreadsheet.ImportResult, error)
}

// tagsync is the internal implementation of the Tagsync interface
type tagsync struct {
	config *config
	runner *enginesync.Runner
}

// New creates a new Tagsync instance with the given options. A schema store,
// a tag store, and both tag template IDs are required.
func New(opts ...Option) (Tagsync, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	runner, err := enginesync.New(c.schema, c.tags, c.templates, enginesync.WithPolicy(c.policy))
	if err != nil {
		return nil, err
	}

	return &tagsync{config: c, runner: runner}, nil
}

// Sync reconciles one dataset and returns the run report.
func (t *tagsync) Sync(ctx context.Context, dataset metadata.DatasetRef, opts ...enginesync.RunOption) (*enginesync.Report, error) {
	return t.runner.Run(ctx, dataset, opts...)
}

// Download exports the dataset's schema-side descriptions to a workbook.
func (t *tagsync) Download(ctx context.Context, dataset metadata.DatasetRef, path string, tables ...string) error {
	return spreadsheet.Export(ctx, t.config.schema, dataset, path, tables...)
}

// Upload imports an edited workbook into the schema store.
func (t *tagsync) Upload(ctx context.Context, dataset metadata.DatasetRef, path string) (*spreadsheet.ImportResult, error) {
	return spreadsheet.Import(ctx, t.config.schema, dataset, path)
}
