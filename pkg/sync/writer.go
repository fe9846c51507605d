package sync

import (
	"context"
	stderrors "errors"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/logging"
	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/reconciler"
)

// apply executes a computed update plan against both stores. Decisions with
// direction None are no-ops and are not counted as writes. A failure on one
// entity is recorded and never aborts the remaining decisions: sibling fields
// keep applying.
//
// Values are truncated to the target store's length limit at write time; the
// decision itself always carries the untruncated source value.
func (r *Runner) apply(ctx context.Context, dataset metadata.DatasetRef, decisions []reconciler.Decision, dryRun bool) ApplyResult {
	logger := logging.FromContext(ctx)

	var result ApplyResult
	for _, decision := range decisions {
		if !decision.IsWrite() {
			continue
		}

		if dryRun {
			logger.Info().
				Str("entity", decision.Entity.Key()).
				Str("direction", string(decision.Direction)).
				Str("reason", decision.Reason).
				Msg("Dry run: would write")
			result.count(decision.Entity)
			continue
		}

		var err error
		switch decision.Direction {
		case reconciler.PushToSchema:
			err = r.writeSchema(ctx, dataset, decision)
		case reconciler.PushToTag:
			err = r.writeTag(ctx, decision)
		}

		if err != nil {
			kind := FailureSchemaWrite
			if decision.Direction == reconciler.PushToTag {
				kind = FailureTagWrite
			}
			logger.Warn().
				Err(err).
				Str("entity", decision.Entity.Key()).
				Str("direction", string(decision.Direction)).
				Msg("Write failed, continuing with remaining entities")
			result.Failures = append(result.Failures, Failure{
				Entity: decision.Entity.Key(),
				Kind:   kind,
				Err:    err,
			})
			continue
		}

		logger.Debug().
			Str("entity", decision.Entity.Key()).
			Str("direction", string(decision.Direction)).
			Str("reason", decision.Reason).
			Msg("Wrote description")
		result.count(decision.Entity)
	}

	return result
}

// writeSchema pushes a tag-side description into the schema store.
func (r *Runner) writeSchema(ctx context.Context, dataset metadata.DatasetRef, decision reconciler.Decision) error {
	value := metadata.Truncate(decision.Value, metadata.MaxSchemaDescription)

	var err error
	if decision.Entity.Kind() == metadata.KindField {
		err = r.schema.SetFieldDescription(ctx, dataset, decision.Entity.Table, decision.Entity.Field, value)
	} else {
		err = r.schema.SetTableDescription(ctx, dataset, decision.Entity.Table, value)
	}
	if err == nil {
		return nil
	}

	var writeErr *errors.SchemaWriteError
	if stderrors.As(err, &writeErr) {
		return err
	}
	return errors.NewSchemaWriteError(decision.Entity.Key(), err)
}

// writeTag pushes a schema-side description into the tag store, creating the
// tag when none exists yet and updating only the description attribute
// otherwise.
func (r *Runner) writeTag(ctx context.Context, decision reconciler.Decision) error {
	template := r.templates.For(decision.Entity)
	attributes := map[string]string{
		decision.Entity.DescriptionKey(): metadata.Truncate(decision.Value, metadata.MaxTagDescription),
	}

	err := r.tags.CreateOrUpdateTag(ctx, decision.Entity, template, attributes)
	if err == nil {
		return nil
	}

	var writeErr *errors.TagWriteError
	if stderrors.As(err, &writeErr) {
		return err
	}
	return errors.NewTagWriteError(decision.Entity.Key(), template.String(), err)
}

// count records a successful (or dry-run) write against the right tally.
func (a *ApplyResult) count(entity metadata.EntityRef) {
	if entity.Kind() == metadata.KindField {
		a.FieldWrites++
	} else {
		a.TableWrites++
	}
}
