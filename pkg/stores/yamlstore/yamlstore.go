// Package yamlstore provides a file-backed implementation of both store
// contracts, persisting tables and tags to a single YAML document. It exists
// for local workflows: seeding fixtures, inspecting state after a run, and
// exercising the full sync path without a cloud backend.
package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/stores"
	"github.com/dataannex/tagsync/pkg/stores/memory"
)

// document is the on-disk YAML layout.
type document struct {
	Datasets []datasetDoc `yaml:"datasets"`
	Tags     []tagDoc     `yaml:"tags,omitempty"`
}

type datasetDoc struct {
	Name   string                     `yaml:"name"`
	Tables []metadata.TableDescriptor `yaml:"tables"`
}

type tagDoc struct {
	Dataset    string            `yaml:"dataset"`
	Table      string            `yaml:"table"`
	Field      string            `yaml:"field,omitempty"`
	Template   string            `yaml:"template"`
	Attributes map[string]string `yaml:"attributes"`
}

// Store is a schema store and tag store persisted to one YAML file. Every
// successful write is flushed to disk before returning, so a crashed run
// leaves the file consistent with the writes that were reported as applied.
type Store struct {
	mu   sync.Mutex
	path string
	mem  *memory.Store
}

var (
	_ stores.SchemaStore = (*Store)(nil)
	_ stores.TagStore    = (*Store)(nil)
)

// Open loads a store from path. A missing file yields an empty store; the
// file is created on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, &errors.ValidationError{Field: "path", Message: "cannot be empty"}
	}

	s := &Store{path: path, mem: memory.New()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if err := s.seed(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seed(doc document) error {
	for _, ds := range doc.Datasets {
		if ds.Name == "" {
			return errors.NewInvalidIdentifierError("dataset", ds.Name)
		}
		for _, table := range ds.Tables {
			if _, err := metadata.NewTableRef(metadata.DatasetRef(ds.Name), table.TableID); err != nil {
				return err
			}
			s.mem.SeedTable(metadata.DatasetRef(ds.Name), table)
		}
	}
	for _, tag := range doc.Tags {
		entity, err := entityFromDoc(tag)
		if err != nil {
			return err
		}
		s.mem.SeedTag(entity, stores.TemplateID(tag.Template), tag.Attributes)
	}
	return nil
}

func entityFromDoc(tag tagDoc) (metadata.EntityRef, error) {
	ds := metadata.DatasetRef(tag.Dataset)
	if tag.Field != "" {
		return metadata.NewFieldRef(ds, tag.Table, tag.Field)
	}
	return metadata.NewTableRef(ds, tag.Table)
}

// ListTables implements stores.SchemaStore.
func (s *Store) ListTables(ctx context.Context, ds metadata.DatasetRef) ([]string, error) {
	return s.mem.ListTables(ctx, ds)
}

// GetTable implements stores.SchemaStore.
func (s *Store) GetTable(ctx context.Context, ds metadata.DatasetRef, tableID string) (*metadata.TableDescriptor, error) {
	return s.mem.GetTable(ctx, ds, tableID)
}

// SetTableDescription implements stores.SchemaStore.
func (s *Store) SetTableDescription(ctx context.Context, ds metadata.DatasetRef, tableID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.SetTableDescription(ctx, ds, tableID, description); err != nil {
		return err
	}
	return s.flush()
}

// SetFieldDescription implements stores.SchemaStore.
func (s *Store) SetFieldDescription(ctx context.Context, ds metadata.DatasetRef, tableID, fieldName, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.SetFieldDescription(ctx, ds, tableID, fieldName, description); err != nil {
		return err
	}
	return s.flush()
}

// GetTagsForTable implements stores.TagStore.
func (s *Store) GetTagsForTable(ctx context.Context, ds metadata.DatasetRef, tableID string) ([]metadata.TagValue, error) {
	return s.mem.GetTagsForTable(ctx, ds, tableID)
}

// GetTagsForField implements stores.TagStore.
func (s *Store) GetTagsForField(ctx context.Context, ds metadata.DatasetRef, tableID, fieldName string) ([]metadata.TagValue, error) {
	return s.mem.GetTagsForField(ctx, ds, tableID, fieldName)
}

// CreateOrUpdateTag implements stores.TagStore.
func (s *Store) CreateOrUpdateTag(ctx context.Context, entity metadata.EntityRef, template stores.TemplateID, attributes map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.CreateOrUpdateTag(ctx, entity, template, attributes); err != nil {
		return err
	}
	return s.flush()
}

// SeedTable adds or replaces a table and persists the file.
func (s *Store) SeedTable(ds metadata.DatasetRef, table metadata.TableDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem.SeedTable(ds, table)
	return s.flush()
}

// Save writes the current state to disk. Writes already flush on their own;
// Save exists for callers that seed through the underlying store.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// flush serializes the full store to the YAML file via a temp file rename,
// so readers never observe a partially written document. Caller holds mu.
func (s *Store) flush() error {
	ctx := context.Background()

	doc := document{}
	for _, ds := range s.mem.Datasets() {
		dsDoc := datasetDoc{Name: ds.String()}
		tableIDs, err := s.mem.ListTables(ctx, ds)
		if err != nil {
			return err
		}
		for _, tableID := range tableIDs {
			table, err := s.mem.GetTable(ctx, ds, tableID)
			if err != nil {
				return err
			}
			dsDoc.Tables = append(dsDoc.Tables, *table)
		}
		doc.Datasets = append(doc.Datasets, dsDoc)
	}
	for _, record := range s.mem.Tags() {
		doc.Tags = append(doc.Tags, tagDoc{
			Dataset:    record.Entity.Dataset.String(),
			Table:      record.Entity.Table,
			Field:      record.Entity.Field,
			Template:   record.Template.String(),
			Attributes: record.Attributes,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapIO("write", s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tagsync-store-*")
	if err != nil {
		return errors.WrapIO("create", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapIO("write", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("close", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapIO("write", s.path, err)
	}
	return nil
}
