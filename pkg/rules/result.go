package rules

import "sync/atomic"

var resultSequence atomic.Int64

// Result is the immutable outcome of evaluating one rule against one value.
// The ID is process-wide monotonically increasing and is neither persisted
// nor reused across restarts.
type Result struct {
	ID           int64
	Valid        bool
	Message      string
	PropertyName string
	Object       any
	Rule         Rule
	PropertyRule *PropertyRule
	Manual       bool
}

func newResult(valid bool, message, propertyName string, object any, rule Rule, propertyRule *PropertyRule) *Result {
	return &Result{
		ID:           resultSequence.Add(1),
		Valid:        valid,
		Message:      message,
		PropertyName: propertyName,
		Object:       object,
		Rule:         rule,
		PropertyRule: propertyRule,
	}
}

// NewManualResult creates a result for an application-supplied error that
// did not come out of a rule evaluation, e.g. a server-side rejection that
// should be surfaced alongside regular validation results.
func NewManualResult(valid bool, message, propertyName string, object any) *Result {
	return &Result{
		ID:           resultSequence.Add(1),
		Valid:        valid,
		Message:      message,
		PropertyName: propertyName,
		Object:       object,
		Manual:       true,
	}
}

// String renders the literal text "Valid." for valid results and the stored
// message otherwise.
func (r *Result) String() string {
	if r.Valid {
		return "Valid."
	}
	return r.Message
}
