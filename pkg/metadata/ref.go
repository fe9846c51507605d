package metadata

import (
	"fmt"
	"strings"

	"github.com/dataannex/tagsync/pkg/errors"
)

// EntityKind identifies the kind of entity a reference points at.
type EntityKind string

const (
	// KindTable identifies a table-level entity.
	KindTable EntityKind = "table"
	// KindField identifies a field-level entity.
	KindField EntityKind = "field"
)

// EntityRef identifies a table or a (table, field) pair across both stores.
// The zero Field means the reference points at the table itself.
//
// A reference is the canonical correspondence between the two differently
// shaped schemas: the schema store addresses entities by (dataset, table,
// field) while the tag store addresses them by attachment point. Key()
// produces the stable key used for both during a run.
type EntityRef struct {
	Dataset DatasetRef `yaml:"dataset"`
	Table   string     `yaml:"table"`
	Field   string     `yaml:"field,omitempty"`
}

// NewTableRef resolves a (dataset, table) identity into an entity reference.
// It fails only on malformed identifiers.
func NewTableRef(dataset DatasetRef, tableID string) (EntityRef, error) {
	ref := EntityRef{Dataset: dataset, Table: tableID}
	if err := ref.Validate(); err != nil {
		return EntityRef{}, err
	}
	return ref, nil
}

// NewFieldRef resolves a (dataset, table, field) identity into an entity
// reference. It fails only on malformed identifiers.
func NewFieldRef(dataset DatasetRef, tableID, fieldName string) (EntityRef, error) {
	if fieldName == "" {
		return EntityRef{}, errors.NewInvalidIdentifierError("field", fieldName)
	}
	ref := EntityRef{Dataset: dataset, Table: tableID, Field: fieldName}
	if err := ref.Validate(); err != nil {
		return EntityRef{}, err
	}
	return ref, nil
}

// Kind returns the kind of entity this reference points at.
func (r EntityRef) Kind() EntityKind {
	if r.Field != "" {
		return KindField
	}
	return KindTable
}

// Validate checks the reference for malformed identifiers. Identifiers may
// not be empty and may not contain the key separator.
func (r EntityRef) Validate() error {
	if r.Dataset == "" {
		return errors.NewInvalidIdentifierError("dataset", string(r.Dataset))
	}
	if r.Table == "" {
		return errors.NewInvalidIdentifierError("table", r.Table)
	}
	for kind, id := range map[string]string{
		"dataset": string(r.Dataset),
		"table":   r.Table,
		"field":   r.Field,
	} {
		if strings.Contains(id, "/") {
			return errors.NewInvalidIdentifierError(kind, id)
		}
	}
	return nil
}

// Key returns the canonical key for this entity, stable for the duration of
// a run and usable to look up the corresponding tag-store attachment point.
//
//	datasets/<dataset>/tables/<table>
//	datasets/<dataset>/tables/<table>/fields/<field>
func (r EntityRef) Key() string {
	if r.Field != "" {
		return fmt.Sprintf("datasets/%s/tables/%s/fields/%s", r.Dataset, r.Table, r.Field)
	}
	return fmt.Sprintf("datasets/%s/tables/%s", r.Dataset, r.Table)
}

// String returns the canonical key.
func (r EntityRef) String() string {
	return r.Key()
}

// DescriptionKey returns the tag template attribute key for this entity's
// description, table_description for tables and field_description for fields.
func (r EntityRef) DescriptionKey() string {
	if r.Kind() == KindField {
		return FieldDescriptionKey
	}
	return TableDescriptionKey
}
