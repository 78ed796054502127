package rules

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrymomot/rulekit/pkg/expr"
)

// Rule is a single pluggable validation predicate together with its message,
// tag, and execution-guard metadata. Implementations embed baseRule for the
// metadata and supply Execute.
type Rule interface {
	// MessageKey names the default message template used when no explicit
	// message has been set. An empty key selects the catch-all template.
	MessageKey() string
	SetMessageKey(key string)

	// Message is the compiled message template, nil until first resolved or
	// explicitly set through WithMessage.
	Message() expr.Expression
	SetMessage(message expr.Expression)

	// Tag partitions rules for selective validation runs; empty means the
	// rule executes on every run.
	Tag() string
	SetTag(tag string)

	// CanExecute is the conditional execution guard; the default accepts
	// every object.
	CanExecute(object any) bool
	SetWhen(condition func(object any) bool)

	// Execute evaluates the predicate against the value being validated and
	// the object owning it. A false result is the expected "invalid" outcome;
	// an error is a predicate failure, not a validation failure.
	Execute(ctx context.Context, value, object any) (bool, error)
}

// baseRule carries the shared rule metadata. The message field is written
// lazily during validation runs, so it is the only mutable state guarded for
// concurrent access.
type baseRule struct {
	mu         sync.RWMutex
	messageKey string
	message    expr.Expression
	tag        string
	when       func(object any) bool
}

func newBaseRule(messageKey string) baseRule {
	return baseRule{messageKey: messageKey}
}

func (r *baseRule) MessageKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.messageKey
}

func (r *baseRule) SetMessageKey(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messageKey = key
	r.message = nil
}

func (r *baseRule) Message() expr.Expression {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.message
}

func (r *baseRule) SetMessage(message expr.Expression) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = message
}

func (r *baseRule) Tag() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tag
}

func (r *baseRule) SetTag(tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tag = tag
}

func (r *baseRule) CanExecute(object any) bool {
	r.mu.RLock()
	when := r.when
	r.mu.RUnlock()
	if when == nil {
		return true
	}
	return when(object)
}

func (r *baseRule) SetWhen(condition func(object any) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.when = condition
}

// isEmpty reports whether a value counts as absent. Rules other than
// Required pass on absent values so that optionality stays the Required
// rule's sole concern.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
