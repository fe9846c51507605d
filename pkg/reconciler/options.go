package reconciler

import (
	"github.com/dataannex/tagsync/pkg/errors"
)

// options configures a reconciler.
type options struct {
	policy Policy
}

func defaultOptions() *options {
	return &options{
		policy: SchemaAuthorityPolicy{},
	}
}

// Option is a function that configures a Reconciler.
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

// WithPolicy sets the conflict policy. The default is schema authority;
// overriding it is an explicit choice, never inferred.
func WithPolicy(policy Policy) Option {
	return func(o *options) error {
		if policy == nil {
			return &errors.ValidationError{
				Field:   "policy",
				Message: "cannot be nil",
			}
		}
		o.policy = policy
		return nil
	}
}
