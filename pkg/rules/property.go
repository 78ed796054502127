package rules

import "github.com/dmitrymomot/rulekit/pkg/expr"

// RuleProperty describes what a set of rules targets: a single property
// identified by its compiled access expression and name, or the whole
// object, in which case both Expression and Name are zero.
type RuleProperty struct {
	// Expression reads the property's current value off a target object;
	// nil for whole-object properties.
	Expression expr.Expression

	// Name is the canonical access path; empty for whole-object properties.
	Name string

	// displayName overrides the humanized name in messages: a string or a
	// func() string resolver. Settable through the builder only.
	displayName any
}

// DisplayName returns the configured display-name override: a string, a
// func() string, or nil when unset.
func (p *RuleProperty) DisplayName() any {
	return p.displayName
}
