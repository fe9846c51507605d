// Package memory provides an in-memory implementation of both store
// contracts. It backs the file store, the test suites, and any caller that
// wants to exercise the reconciliation engine without external systems.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/stores"
)

// TagRecord is one stored tag: its attachment point, the template it was
// created from, and its full attribute map.
type TagRecord struct {
	Entity     metadata.EntityRef
	Template   stores.TemplateID
	Attributes map[string]string
}

// Store is a thread-safe in-memory schema store and tag store.
type Store struct {
	mu       sync.RWMutex
	datasets map[metadata.DatasetRef]*dataset
	tags     map[string]*TagRecord // keyed by canonical entity key
}

type dataset struct {
	order  []string
	tables map[string]*metadata.TableDescriptor
}

// Compile-time checks that Store satisfies both contracts.
var (
	_ stores.SchemaStore = (*Store)(nil)
	_ stores.TagStore    = (*Store)(nil)
)

// New creates an empty store.
func New() *Store {
	return &Store{
		datasets: make(map[metadata.DatasetRef]*dataset),
		tags:     make(map[string]*TagRecord),
	}
}

// SeedTable adds or replaces a table in the schema side of the store.
func (s *Store) SeedTable(ds metadata.DatasetRef, table metadata.TableDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.datasets[ds]
	if !ok {
		d = &dataset{tables: make(map[string]*metadata.TableDescriptor)}
		s.datasets[ds] = d
	}
	if _, exists := d.tables[table.TableID]; !exists {
		d.order = append(d.order, table.TableID)
	}
	copied := copyTable(&table)
	d.tables[table.TableID] = copied
}

// SeedTag adds or replaces a tag in the tag side of the store.
func (s *Store) SeedTag(entity metadata.EntityRef, template stores.TemplateID, attributes map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tags[entity.Key()] = &TagRecord{
		Entity:     entity,
		Template:   template,
		Attributes: copyAttrs(attributes),
	}
}

// RemoveTable deletes a table from the schema side, simulating a concurrent
// schema change. Tags attached to the table are left in place.
func (s *Store) RemoveTable(ds metadata.DatasetRef, tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.datasets[ds]
	if !ok {
		return
	}
	delete(d.tables, tableID)
	for i, id := range d.order {
		if id == tableID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// ListTables implements stores.SchemaStore.
func (s *Store) ListTables(_ context.Context, ds metadata.DatasetRef) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[ds]
	if !ok {
		return nil, nil
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out, nil
}

// GetTable implements stores.SchemaStore.
func (s *Store) GetTable(_ context.Context, ds metadata.DatasetRef, tableID string) (*metadata.TableDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, err := s.lookupTable(ds, tableID)
	if err != nil {
		return nil, err
	}
	return copyTable(table), nil
}

// SetTableDescription implements stores.SchemaStore.
func (s *Store) SetTableDescription(_ context.Context, ds metadata.DatasetRef, tableID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.lookupTable(ds, tableID)
	if err != nil {
		return err
	}
	table.Description = description
	return nil
}

// SetFieldDescription implements stores.SchemaStore.
func (s *Store) SetFieldDescription(_ context.Context, ds metadata.DatasetRef, tableID, fieldName, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.lookupTable(ds, tableID)
	if err != nil {
		return err
	}
	field := table.Field(fieldName)
	if field == nil {
		return errors.NewSchemaWriteError(
			metadata.EntityRef{Dataset: ds, Table: tableID, Field: fieldName}.Key(),
			errors.ErrNotFound,
		)
	}
	field.Description = description
	return nil
}

// GetTagsForTable implements stores.TagStore.
func (s *Store) GetTagsForTable(_ context.Context, ds metadata.DatasetRef, tableID string) ([]metadata.TagValue, error) {
	return s.tagsFor(metadata.EntityRef{Dataset: ds, Table: tableID})
}

// GetTagsForField implements stores.TagStore.
func (s *Store) GetTagsForField(_ context.Context, ds metadata.DatasetRef, tableID, fieldName string) ([]metadata.TagValue, error) {
	return s.tagsFor(metadata.EntityRef{Dataset: ds, Table: tableID, Field: fieldName})
}

// CreateOrUpdateTag implements stores.TagStore.
func (s *Store) CreateOrUpdateTag(_ context.Context, entity metadata.EntityRef, template stores.TemplateID, attributes map[string]string) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	if template == "" {
		return errors.NewTagWriteError(entity.Key(), "", errors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tags[entity.Key()]
	if !ok {
		s.tags[entity.Key()] = &TagRecord{
			Entity:     entity,
			Template:   template,
			Attributes: copyAttrs(attributes),
		}
		return nil
	}

	if record.Template != template {
		return errors.NewTagWriteError(entity.Key(), template.String(),
			errors.New("existing tag uses a different template"))
	}
	// Update only the given attributes; everything else stays untouched.
	for k, v := range attributes {
		record.Attributes[k] = v
	}
	return nil
}

// Tags returns all stored tag records sorted by entity key, for persistence
// and inspection.
func (s *Store) Tags() []TagRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TagRecord, 0, len(s.tags))
	for _, record := range s.tags {
		out = append(out, TagRecord{
			Entity:     record.Entity,
			Template:   record.Template,
			Attributes: copyAttrs(record.Attributes),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity.Key() < out[j].Entity.Key() })
	return out
}

// Datasets returns all dataset references present on the schema side,
// sorted for deterministic iteration.
func (s *Store) Datasets() []metadata.DatasetRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]metadata.DatasetRef, 0, len(s.datasets))
	for ds := range s.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store) lookupTable(ds metadata.DatasetRef, tableID string) (*metadata.TableDescriptor, error) {
	d, ok := s.datasets[ds]
	if !ok {
		return nil, errors.NewTableNotFoundError(ds.String(), tableID)
	}
	table, ok := d.tables[tableID]
	if !ok {
		return nil, errors.NewTableNotFoundError(ds.String(), tableID)
	}
	return table, nil
}

func (s *Store) tagsFor(entity metadata.EntityRef) ([]metadata.TagValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.tags[entity.Key()]
	if !ok {
		// No tag created yet; not an error.
		return nil, nil
	}
	return []metadata.TagValue{{
		Entity:      record.Entity,
		Description: record.Attributes[entity.DescriptionKey()],
	}}, nil
}

func copyTable(t *metadata.TableDescriptor) *metadata.TableDescriptor {
	copied := &metadata.TableDescriptor{
		TableID:     t.TableID,
		Description: t.Description,
		Fields:      make([]metadata.FieldDescriptor, len(t.Fields)),
	}
	copy(copied.Fields, t.Fields)
	return copied
}

func copyAttrs(attrs map[string]string) map[string]string {
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return copied
}
