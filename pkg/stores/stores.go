// Package stores defines the collaborator contracts the sync engine consumes:
// a schema store holding tables with native descriptions, and a tag store
// attaching typed key/value tags to tables and fields via templates.
//
// Implementations of these interfaces (cloud metadata APIs, file-backed
// stores, in-memory fakes) live elsewhere; the reconciliation engine itself
// is store-agnostic and only depends on the capability set defined here.
package stores

import (
	"context"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/metadata"
)

// SchemaStore is the primary store: the schema-bearing system where tables,
// fields, and their native descriptions live.
type SchemaStore interface {
	// ListTables returns the IDs of all tables currently in the dataset.
	ListTables(ctx context.Context, dataset metadata.DatasetRef) ([]string, error)

	// GetTable returns the current descriptor for a table, including its
	// fields in schema column order. Returns a TableNotFoundError when the
	// table does not exist in the dataset.
	GetTable(ctx context.Context, dataset metadata.DatasetRef, tableID string) (*metadata.TableDescriptor, error)

	// SetTableDescription updates the native description of a table.
	SetTableDescription(ctx context.Context, dataset metadata.DatasetRef, tableID, description string) error

	// SetFieldDescription updates the native description of one field,
	// leaving the rest of the schema untouched.
	SetFieldDescription(ctx context.Context, dataset metadata.DatasetRef, tableID, fieldName, description string) error
}

// TagStore is the secondary store: the annotation system where tags attach
// key/value attributes to tables and fields via templates.
type TagStore interface {
	// GetTagsForTable returns the description tag attached to the table
	// itself, if any. Zero tags means no tag has been created yet, not an
	// error.
	GetTagsForTable(ctx context.Context, dataset metadata.DatasetRef, tableID string) ([]metadata.TagValue, error)

	// GetTagsForField returns the description tag attached to one field of a
	// table, if any.
	GetTagsForField(ctx context.Context, dataset metadata.DatasetRef, tableID, fieldName string) ([]metadata.TagValue, error)

	// CreateOrUpdateTag upserts a tag at the given attachment point: when no
	// tag from the template exists yet it creates one with the given
	// attributes; when one exists it updates only the given attributes,
	// leaving all other attributes of the tag untouched.
	CreateOrUpdateTag(ctx context.Context, entity metadata.EntityRef, template TemplateID, attributes map[string]string) error
}

// Store is a backend that serves both sides at once, such as the in-memory
// store or the file-backed store.
type Store interface {
	SchemaStore
	TagStore
}

// TemplateID identifies a tag template configured in the tag store.
type TemplateID string

// String returns the string representation of the template ID.
func (id TemplateID) String() string {
	return string(id)
}

// Templates holds the two fixed template identifiers a run is configured
// with: one for table-level tags and one for field-level tags. Each template
// is assumed to expose exactly one relevant attribute key
// (table_description or field_description).
type Templates struct {
	Table TemplateID `yaml:"table"`
	Field TemplateID `yaml:"field"`
}

// Validate checks that both template IDs are set.
func (t Templates) Validate() error {
	if t.Table == "" {
		return errors.NewInvalidIdentifierError("template", string(t.Table))
	}
	if t.Field == "" {
		return errors.NewInvalidIdentifierError("template", string(t.Field))
	}
	return nil
}

// For returns the template to use for tags attached at the given entity.
func (t Templates) For(ref metadata.EntityRef) TemplateID {
	if ref.Kind() == metadata.KindField {
		return t.Field
	}
	return t.Table
}
