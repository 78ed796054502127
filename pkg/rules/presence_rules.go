package rules

import "context"

// RequiredRule rejects absent values: nil, nil pointers, and strings that
// are empty after trimming whitespace.
type RequiredRule struct {
	baseRule
}

// NewRequiredRule creates the required-value rule.
func NewRequiredRule() *RequiredRule {
	return &RequiredRule{baseRule: newBaseRule("required")}
}

func (r *RequiredRule) Execute(_ context.Context, value, _ any) (bool, error) {
	return !isEmpty(value), nil
}
