package sync

import (
	"context"

	"github.com/dataannex/tagsync/pkg/metadata"
)

// Snapshot is one table's read state at a point in time: the schema-side
// truth (the descriptor) and the tag-side truth (every description tag
// attached to the table or one of its fields). A field with no tag yet
// contributes no TagValue.
type Snapshot struct {
	Table *metadata.TableDescriptor
	Tags  []metadata.TagValue
}

// Snapshot reads the current description pair for a table and all of its
// fields. It is a pure read against both stores: no mutation, no caching.
// Returns a TableNotFoundError when the table does not exist in the schema
// store; a tag store returning zero tags is not an error.
func (r *Runner) Snapshot(ctx context.Context, dataset metadata.DatasetRef, tableID string) (*Snapshot, error) {
	if _, err := metadata.NewTableRef(dataset, tableID); err != nil {
		return nil, err
	}

	table, err := r.schema.GetTable(ctx, dataset, tableID)
	if err != nil {
		return nil, err
	}

	tags, err := r.tags.GetTagsForTable(ctx, dataset, tableID)
	if err != nil {
		return nil, err
	}

	all := make([]metadata.TagValue, 0, len(table.Fields)+1)
	all = append(all, tags...)

	for _, field := range table.Fields {
		fieldTags, err := r.tags.GetTagsForField(ctx, dataset, tableID, field.Name)
		if err != nil {
			return nil, err
		}
		all = append(all, fieldTags...)
	}

	return &Snapshot{Table: table, Tags: all}, nil
}
