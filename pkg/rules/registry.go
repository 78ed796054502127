package rules

import (
	"strings"

	"github.com/dmitrymomot/rulekit/pkg/annotations"
)

const (
	// ruleSetNamespace prefixes every annotation key owned by the registrar.
	ruleSetNamespace = "validation-rules:"

	// untaggedSet is the key suffix for the default, untagged rule set.
	untaggedSet = "__default"
)

// Registrar binds rule sets to arbitrary target objects through an
// annotation store, supporting one default set plus any number of
// independently tagged sets per target.
type Registrar struct {
	store *annotations.Store
}

// NewRegistrar creates a registrar over the given annotation store; a nil
// store selects a fresh private one.
func NewRegistrar(store *annotations.Store) *Registrar {
	if store == nil {
		store = annotations.NewStore()
	}
	return &Registrar{store: store}
}

func ruleSetKey(tag string) string {
	if tag == "" {
		tag = untaggedSet
	}
	return ruleSetNamespace + tag
}

// Set registers a rule set on target under the given tag (empty for the
// default set). An empty rule list unregisters instead, preserving the
// invariant that a rule-set key only exists for non-empty registrations.
func (r *Registrar) Set(target any, ruleSet []*PropertyRule, tag string) {
	if len(ruleSet) == 0 {
		r.store.Delete(target, ruleSetKey(tag))
		return
	}
	r.store.Define(target, ruleSetKey(tag), ruleSet)
}

// Get returns the rule set registered on target under the given tag, or nil.
func (r *Registrar) Get(target any, tag string) []*PropertyRule {
	v, ok := r.store.GetOwn(target, ruleSetKey(tag))
	if !ok {
		return nil
	}
	ruleSet, _ := v.([]*PropertyRule)
	return ruleSet
}

// Unset removes rule sets from target: every set when tag is empty, only
// the matching set otherwise.
func (r *Registrar) Unset(target any, tag string) {
	for _, key := range r.store.Keys(target) {
		if !strings.HasPrefix(key, ruleSetNamespace) {
			continue
		}
		if tag != "" && key != ruleSetKey(tag) {
			continue
		}
		r.store.Delete(target, key)
	}
}

// IsValidationRulesSet reports whether any rule set is registered on target.
func (r *Registrar) IsValidationRulesSet(target any) bool {
	for _, key := range r.store.Keys(target) {
		if strings.HasPrefix(key, ruleSetNamespace) {
			return true
		}
	}
	return false
}
