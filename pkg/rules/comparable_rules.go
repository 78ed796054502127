package rules

import (
	"context"
	"reflect"
)

// EqualsRule requires the value to deep-equal an expected value. Absent
// values pass.
type EqualsRule struct {
	baseRule
	Expected any
}

// NewEqualsRule creates an equality rule.
func NewEqualsRule(expected any) *EqualsRule {
	return &EqualsRule{baseRule: newBaseRule("equals"), Expected: expected}
}

func (r *EqualsRule) Execute(_ context.Context, value, _ any) (bool, error) {
	if isEmpty(value) {
		return true, nil
	}
	return reflect.DeepEqual(value, r.Expected), nil
}
