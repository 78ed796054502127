package rules

import "context"

// SatisfiesRule adapts an arbitrary predicate into a Rule. It carries no
// built-in message key, so failures render the catch-all template unless a
// message or key is set through the builder.
type SatisfiesRule struct {
	baseRule
	fn func(ctx context.Context, value, object any) (bool, error)
}

// NewSatisfiesRule wraps a synchronous predicate.
func NewSatisfiesRule(fn func(value, object any) bool) *SatisfiesRule {
	return &SatisfiesRule{
		fn: func(_ context.Context, value, object any) (bool, error) {
			return fn(value, object), nil
		},
	}
}

// NewSatisfiesAsyncRule wraps a context-aware predicate that may block on
// I/O and may fail with an error distinct from an invalid outcome.
func NewSatisfiesAsyncRule(fn func(ctx context.Context, value, object any) (bool, error)) *SatisfiesRule {
	return &SatisfiesRule{fn: fn}
}

func (r *SatisfiesRule) Execute(ctx context.Context, value, object any) (bool, error) {
	return r.fn(ctx, value, object)
}
