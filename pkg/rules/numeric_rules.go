package rules

import (
	"context"
	"math"
	"reflect"
)

// RangeRule bounds a numeric value. Min/Max of ±Inf disable the respective
// bound; Inclusive selects between range (inclusive) and between (exclusive)
// semantics. Absent and non-numeric values pass and fail respectively.
type RangeRule struct {
	baseRule
	Min       float64
	Max       float64
	Inclusive bool
}

// NewMinRule creates an inclusive lower-bound rule.
func NewMinRule(min float64) *RangeRule {
	return &RangeRule{baseRule: newBaseRule("min"), Min: min, Max: math.Inf(1), Inclusive: true}
}

// NewMaxRule creates an inclusive upper-bound rule.
func NewMaxRule(max float64) *RangeRule {
	return &RangeRule{baseRule: newBaseRule("max"), Min: math.Inf(-1), Max: max, Inclusive: true}
}

// NewRangeRule creates an inclusive-bounds range rule: min <= value <= max.
func NewRangeRule(min, max float64) *RangeRule {
	return &RangeRule{baseRule: newBaseRule("range"), Min: min, Max: max, Inclusive: true}
}

// NewBetweenRule creates an exclusive-bounds range rule: min < value < max.
func NewBetweenRule(min, max float64) *RangeRule {
	return &RangeRule{baseRule: newBaseRule("between"), Min: min, Max: max}
}

func (r *RangeRule) Execute(_ context.Context, value, _ any) (bool, error) {
	if isEmpty(value) {
		return true, nil
	}
	n, ok := toNumber(value)
	if !ok {
		return false, nil
	}
	if r.Inclusive {
		return n >= r.Min && n <= r.Max, nil
	}
	return n > r.Min && n < r.Max, nil
}

func toNumber(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
