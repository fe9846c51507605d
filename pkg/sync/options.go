package sync

import (
	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/reconciler"
)

// options configures a Runner.
type options struct {
	policy reconciler.Policy
}

func defaultOptions() *options {
	return &options{
		policy: reconciler.SchemaAuthorityPolicy{},
	}
}

// Option is a function that configures a Runner.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	options := defaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// WithPolicy sets the conflict policy for the runner's reconciler. The
// default schema-authority precedence stands unless explicitly overridden.
func WithPolicy(policy reconciler.Policy) Option {
	return func(o *options) error {
		if policy == nil {
			return &errors.ValidationError{Field: "policy", Message: "cannot be nil"}
		}
		o.policy = policy
		return nil
	}
}

// runOptions configures a single run.
type runOptions struct {
	tables  []string
	workers int
	dryRun  bool
}

func defaultRunOptions() *runOptions {
	return &runOptions{workers: 1}
}

// RunOption is a function that configures a single Run invocation.
type RunOption func(*runOptions) error

func newRunOptions(opts ...RunOption) (*runOptions, error) {
	options := defaultRunOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// WithTables restricts the run to an explicit set of table IDs instead of
// every table in the dataset.
func WithTables(tableIDs ...string) RunOption {
	return func(o *runOptions) error {
		for _, id := range tableIDs {
			if id == "" {
				return errors.NewInvalidIdentifierError("table", id)
			}
		}
		o.tables = tableIDs
		return nil
	}
}

// WithWorkers dispatches tables to a bounded worker pool. Correctness does
// not depend on it: every table's outcome is independent of every other's.
func WithWorkers(n int) RunOption {
	return func(o *runOptions) error {
		if n < 1 {
			return &errors.ValidationError{Field: "workers", Value: n, Message: "must be at least 1"}
		}
		o.workers = n
		return nil
	}
}

// WithDryRun computes and reports the update plan without touching either
// store.
func WithDryRun(enabled bool) RunOption {
	return func(o *runOptions) error {
		o.dryRun = enabled
		return nil
	}
}
