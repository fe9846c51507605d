// Package metadata defines the data model shared by the schema store and the
// tag store: tables, fields, tags, and the entity references that identify
// them across both systems.
//
// All values are snapshots scoped to a single synchronization run. Nothing in
// this package caches or persists state; the two external stores are the only
// persistent state in the system.
package metadata

// Description length limits imposed by the two stores. Values longer than the
// limit are truncated by the writer before the write, never during comparison.
const (
	// MaxSchemaDescription is the maximum description length the schema store accepts.
	MaxSchemaDescription = 1024

	// MaxTagDescription is the maximum description length the tag store accepts.
	MaxTagDescription = 2000
)

// Attribute keys the two tag templates expose for descriptions.
const (
	// TableDescriptionKey is the attribute key for table-level description tags.
	TableDescriptionKey = "table_description"

	// FieldDescriptionKey is the attribute key for field-level description tags.
	FieldDescriptionKey = "field_description"
)

// DatasetRef is an opaque identifier for a logical grouping of tables in the
// schema store. It is immutable and supplied by the caller.
type DatasetRef string

// String returns the string representation of the dataset reference.
func (d DatasetRef) String() string {
	return string(d)
}

// TableDescriptor represents one table at a point in time: its native
// description in the schema store and its fields in schema column order.
// A table ID uniquely identifies the table within its dataset for the
// duration of one synchronization run.
type TableDescriptor struct {
	TableID     string            `yaml:"table_id"`
	Description string            `yaml:"description,omitempty"`
	Fields      []FieldDescriptor `yaml:"fields,omitempty"`
}

// Field returns the field with the given name, or nil if the table has no
// such field.
func (t *TableDescriptor) Field(name string) *FieldDescriptor {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// FieldDescriptor is one column of a table. It is owned exclusively by its
// parent TableDescriptor and never shared across tables.
//
// Type and Mode ride along in snapshots and spreadsheets for operator
// reference; reconciliation decisions look only at Description.
type FieldDescriptor struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// TagValue is the tag store's notion of description for a table or field,
// read through the fixed attribute key of the corresponding tag template.
// A TagValue is created by the writer on first sync when the tag store has no
// tag for the entity yet, and updated in place thereafter. The sync engine
// never deletes tags.
type TagValue struct {
	Entity      EntityRef `yaml:"entity"`
	Description string    `yaml:"description,omitempty"`
}

// Truncate shortens s to at most n bytes. Values at exactly the limit pass
// through unchanged.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
