package tagsync

import (
	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/reconciler"
	"github.com/dataannex/tagsync/pkg/stores"
)

// config holds the assembled collaborators for a Tagsync instance.
type config struct {
	schema    stores.SchemaStore
	tags      stores.TagStore
	templates stores.Templates
	policy    reconciler.Policy
}

func defaultConfig() *config {
	return &config{
		policy: reconciler.SchemaAuthorityPolicy{},
	}
}

// Option is a function that configures a Tagsync instance
type Option func(*config) error

// WithSchemaStore configures the schema-bearing store, the side that holds
// tables, fields, and native descriptions.
func WithSchemaStore(schema stores.SchemaStore) Option {
	return func(c *config) error {
		if schema == nil {
			return &errors.ValidationError{Field: "schema", Message: "schema store cannot be nil"}
		}
		c.schema = schema
		return nil
	}
}

// WithTagStore configures the tag-bearing store, the side that attaches
// description tags to tables and fields via templates.
func WithTagStore(tags stores.TagStore) Option {
	return func(c *config) error {
		if tags == nil {
			return &errors.ValidationError{Field: "tags", Message: "tag store cannot be nil"}
		}
		c.tags = tags
		return nil
	}
}

// WithStore configures one backend that serves as both the schema store and
// the tag store, such as the file-backed store.
func WithStore(store stores.Store) Option {
	return func(c *config) error {
		if store == nil {
			return &errors.ValidationError{Field: "store", Message: "store cannot be nil"}
		}
		c.schema = store
		c.tags = store
		return nil
	}
}

// WithTemplates configures the table-level and field-level tag template IDs.
func WithTemplates(templates stores.Templates) Option {
	return func(c *config) error {
		if err := templates.Validate(); err != nil {
			return err
		}
		c.templates = templates
		return nil
	}
}

// WithPolicy configures the conflict policy. The default is schema authority;
// overriding it is always an explicit choice.
func WithPolicy(policy reconciler.Policy) Option {
	return func(c *config) error {
		if policy == nil {
			return &errors.ValidationError{Field: "policy", Message: "cannot be nil"}
		}
		c.policy = policy
		return nil
	}
}
