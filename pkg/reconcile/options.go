package reconcile

import (
	"github.com/vroomi/stocksync/pkg/brands"
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/sources"
)

// options configures a reconciler.
type options struct {
	strategy         Strategy
	allowList        *brands.AllowList
	scope            map[sources.ID]bool
	normalizer       *normalize.Normalizer
	includeUnchanged bool
}

func defaultOptions() *options {
	return &options{
		strategy:   NewSourceOrderStrategy(sources.MCWS, sources.BBR),
		allowList:  brands.NewAllowList(nil),
		scope:      map[sources.ID]bool{sources.BBR: true},
		normalizer: normalize.New(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStrategy sets the conflict-resolution strategy.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		o.strategy = strategy
		return nil
	}
}

// WithPriority sets a source-order strategy with the given precedence.
func WithPriority(order ...sources.ID) Option {
	return func(o *options) error {
		if len(order) == 0 {
			return &errors.ValidationError{
				Field:   "priority",
				Message: "cannot be empty",
			}
		}
		o.strategy = NewSourceOrderStrategy(order...)
		return nil
	}
}

// WithAllowList sets the brand allow-list. Matches carrying a per-row
// trademark outside the list are filtered; an empty list filters every such
// match.
func WithAllowList(list *brands.AllowList) Option {
	return func(o *options) error {
		if list == nil {
			return &errors.ValidationError{
				Field:   "allow_list",
				Message: "cannot be nil",
			}
		}
		o.allowList = list
		return nil
	}
}

// WithSourceScope declares whether a trademark-less source is inside the
// allow-list scope. The BBR feed carries no per-row brand, so its
// eligibility is a run-level policy rather than per-row data; it defaults
// to in scope.
func WithSourceScope(id sources.ID, allowed bool) Option {
	return func(o *options) error {
		o.scope[id] = allowed
		return nil
	}
}

// WithNormalizer sets the identifier normalizer. It must be the same
// instance the supplier indexes were built with; asymmetric normalization
// silently loses matches.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(o *options) error {
		if n == nil {
			return &errors.ValidationError{
				Field:   "normalizer",
				Message: "cannot be nil",
			}
		}
		o.normalizer = n
		return nil
	}
}

// WithIncludeUnchanged controls whether no-change rows appear in the
// output. Default is off, keeping the import file minimal.
func WithIncludeUnchanged(include bool) Option {
	return func(o *options) error {
		o.includeUnchanged = include
		return nil
	}
}
