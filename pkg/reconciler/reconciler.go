// Package reconciler implements the core drift-detection algorithm: given a
// table's schema-side descriptions and its tag-side descriptions, it computes
// the minimal set of directional writes that makes both stores mutually
// consistent without ever discarding information only one side has.
//
// The per-entity algorithm is deterministic. Absent, null, and zero-length
// values are all treated as empty; present values are compared by exact
// string equality (no whitespace normalization). An empty side never
// overwrites a non-empty one, so deletions are never propagated.
package reconciler

import (
	"github.com/dataannex/tagsync/pkg/metadata"
)

// Reconciler computes sync decisions for tables.
type Reconciler interface {
	// Table computes one decision for the table itself and one per field, in
	// schema column order. The tags slice carries the tag-side truth for the
	// table and any of its fields; entities with no tag contribute nothing.
	Table(dataset metadata.DatasetRef, table *metadata.TableDescriptor, tags []metadata.TagValue) ([]Decision, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	policy Policy
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{policy: options.policy}, nil
}

// Table computes decisions for a table and all of its fields.
func (r *reconciler) Table(dataset metadata.DatasetRef, table *metadata.TableDescriptor, tags []metadata.TagValue) ([]Decision, error) {
	tableRef, err := metadata.NewTableRef(dataset, table.TableID)
	if err != nil {
		return nil, err
	}

	tagged := indexTags(tags)

	decisions := make([]Decision, 0, len(table.Fields)+1)
	decisions = append(decisions, r.decide(tableRef, table.Description, tagged[tableRef.Key()]))

	for _, field := range table.Fields {
		fieldRef, err := metadata.NewFieldRef(dataset, table.TableID, field.Name)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, r.decide(fieldRef, field.Description, tagged[fieldRef.Key()]))
	}

	return decisions, nil
}

// decide runs the per-entity algorithm for one description pair.
func (r *reconciler) decide(entity metadata.EntityRef, schemaVal, tagVal string) Decision {
	switch {
	case schemaVal == "" && tagVal == "":
		return Decision{Entity: entity, Direction: None, Reason: "both sides empty"}

	case schemaVal == tagVal:
		return Decision{Entity: entity, Direction: None, Reason: "already in sync"}

	case tagVal == "":
		return Decision{Entity: entity, Direction: PushToTag, Value: schemaVal, Reason: "tag side missing"}

	case schemaVal == "":
		return Decision{Entity: entity, Direction: PushToSchema, Value: tagVal, Reason: "schema side missing"}

	default:
		direction, value, reason := r.policy.ResolveConflict(entity, schemaVal, tagVal)
		return Decision{Entity: entity, Direction: direction, Value: value, Reason: reason}
	}
}

// indexTags maps tag values by canonical entity key. A later tag for the same
// entity wins, which cannot happen with a well-behaved tag store.
func indexTags(tags []metadata.TagValue) map[string]string {
	indexed := make(map[string]string, len(tags))
	for _, tag := range tags {
		indexed[tag.Entity.Key()] = tag.Description
	}
	return indexed
}
