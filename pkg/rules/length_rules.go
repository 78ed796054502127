package rules

import (
	"context"
	"reflect"
)

// LengthRule bounds the length of a string value. Absent values pass.
type LengthRule struct {
	baseRule
	Length int
	max    bool
}

// NewMinLengthRule creates a minimum string-length rule.
func NewMinLengthRule(length int) *LengthRule {
	return &LengthRule{baseRule: newBaseRule("minLength"), Length: length}
}

// NewMaxLengthRule creates a maximum string-length rule.
func NewMaxLengthRule(length int) *LengthRule {
	return &LengthRule{baseRule: newBaseRule("maxLength"), Length: length, max: true}
}

func (r *LengthRule) Execute(_ context.Context, value, _ any) (bool, error) {
	if isEmpty(value) {
		return true, nil
	}
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	n := len([]rune(s))
	if r.max {
		return n <= r.Length, nil
	}
	return n >= r.Length, nil
}

// SizeRule bounds the number of elements in a slice, array, or map value.
// Nil collections pass.
type SizeRule struct {
	baseRule
	Count int
	max   bool
}

// NewMinItemsRule creates a minimum collection-size rule.
func NewMinItemsRule(count int) *SizeRule {
	return &SizeRule{baseRule: newBaseRule("minItems"), Count: count}
}

// NewMaxItemsRule creates a maximum collection-size rule.
func NewMaxItemsRule(count int) *SizeRule {
	return &SizeRule{baseRule: newBaseRule("maxItems"), Count: count, max: true}
}

func (r *SizeRule) Execute(_ context.Context, value, _ any) (bool, error) {
	if value == nil {
		return true, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if r.max {
			return rv.Len() <= r.Count, nil
		}
		return rv.Len() >= r.Count, nil
	default:
		return false, nil
	}
}
