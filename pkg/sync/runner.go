// Package sync drives the synchronization of description metadata between a
// schema store and a tag store: read a table snapshot, compute a directional
// update plan, apply it, and aggregate a run report across the batch.
//
// The orchestrator is best-effort across the batch: a table that fails to
// read is recorded and skipped, never aborting its siblings. Runs are
// idempotent; re-running against unchanged stores performs zero writes.
// Retries are deliberately absent within a run: re-running the orchestrator
// is the documented recovery path.
package sync

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/logging"
	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/reconciler"
	"github.com/dataannex/tagsync/pkg/stores"
)

// Runner orchestrates sync runs over a pair of stores. A Runner is immutable
// after construction and safe for concurrent or repeated invocation; nothing
// is retained between runs.
type Runner struct {
	schema    stores.SchemaStore
	tags      stores.TagStore
	templates stores.Templates
	engine    reconciler.Reconciler
	policy    reconciler.PolicyType
}

// New creates a Runner for the given stores and tag template configuration.
func New(schema stores.SchemaStore, tags stores.TagStore, templates stores.Templates, opts ...Option) (*Runner, error) {
	if schema == nil {
		return nil, &errors.ValidationError{Field: "schema", Message: "schema store cannot be nil"}
	}
	if tags == nil {
		return nil, &errors.ValidationError{Field: "tags", Message: "tag store cannot be nil"}
	}
	if err := templates.Validate(); err != nil {
		return nil, err
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	engine, err := reconciler.New(reconciler.WithPolicy(options.policy))
	if err != nil {
		return nil, err
	}

	return &Runner{
		schema:    schema,
		tags:      tags,
		templates: templates,
		engine:    engine,
		policy:    options.policy.Type(),
	}, nil
}

// Run synchronizes a dataset: every table when no explicit set is given, or
// exactly the requested tables. The table list is resolved against the
// schema store at run start, never cached from a prior run.
//
// Tables are processed independently; per-table failures are recorded in the
// report and the run continues. The returned error is reserved for failures
// that prevent the run itself (malformed dataset, listing failure,
// cancellation), never for per-table outcomes.
func (r *Runner) Run(ctx context.Context, dataset metadata.DatasetRef, opts ...RunOption) (*Report, error) {
	options, err := newRunOptions(opts...)
	if err != nil {
		return nil, err
	}

	if dataset == "" {
		return nil, errors.NewInvalidIdentifierError("dataset", "")
	}

	ctx = logging.WithDataset(ctx, dataset.String())
	logger := logging.FromContext(ctx)

	tableIDs := options.tables
	if len(tableIDs) == 0 {
		tableIDs, err = r.schema.ListTables(ctx, dataset)
		if err != nil {
			return nil, err
		}
	}

	report := NewReport(dataset)
	report.Metadata.Policy = r.policy
	report.Metadata.DryRun = options.dryRun
	report.Metadata.Workers = options.workers

	logger.Info().
		Int("tables", len(tableIDs)).
		Int("workers", options.workers).
		Bool("dry_run", options.dryRun).
		Str("policy", r.policy.String()).
		Msg("Starting sync run")

	results := make([]TableResult, len(tableIDs))

	if options.workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(options.workers)
		for i, tableID := range tableIDs {
			i, tableID := i, tableID
			g.Go(func() error {
				if gctx.Err() != nil {
					results[i] = TableResult{TableID: tableID, Err: gctx.Err()}
					return nil
				}
				results[i] = r.syncTable(gctx, dataset, tableID, options.dryRun)
				return nil
			})
		}
		// Goroutines record their own failures; Wait only observes ctx.
		_ = g.Wait()
	} else {
		for i, tableID := range tableIDs {
			if err := ctx.Err(); err != nil {
				results[i] = TableResult{TableID: tableID, Err: err}
				continue
			}
			results[i] = r.syncTable(ctx, dataset, tableID, options.dryRun)
		}
	}

	for _, result := range results {
		report.add(result)
	}
	report.Finalize()

	logger.Info().
		Int("processed", report.TablesProcessed).
		Int("failed", report.TablesFailed).
		Int("table_writes", report.TableWrites).
		Int("field_writes", report.FieldWrites).
		Dur("duration", report.Metadata.Duration).
		Msg("Sync run complete")

	return report, ctx.Err()
}

// syncTable runs one table's read/reconcile/apply cycle. All failures are
// folded into the result; nothing escapes to abort the batch.
func (r *Runner) syncTable(ctx context.Context, dataset metadata.DatasetRef, tableID string, dryRun bool) TableResult {
	ctx = logging.WithTable(ctx, tableID)
	logger := logging.FromContext(ctx)

	snapshot, err := r.Snapshot(ctx, dataset, tableID)
	if err != nil {
		logger.Warn().Err(err).Msg("Read failed, skipping table")
		return TableResult{TableID: tableID, Err: err}
	}

	decisions, err := r.engine.Table(dataset, snapshot.Table, snapshot.Tags)
	if err != nil {
		logger.Warn().Err(err).Msg("Reconcile failed, skipping table")
		return TableResult{TableID: tableID, Err: err}
	}

	applied := r.apply(ctx, dataset, decisions, dryRun)

	return TableResult{
		TableID:     tableID,
		TableWrites: applied.TableWrites,
		FieldWrites: applied.FieldWrites,
		Decisions:   len(decisions),
		Failures:    applied.Failures,
	}
}
