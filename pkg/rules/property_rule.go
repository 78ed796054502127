package rules

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/dmitrymomot/rulekit/pkg/async"
	"github.com/dmitrymomot/rulekit/pkg/expr"
)

// PropertyRule is an ordered collection of rule groups attached to one
// RuleProperty: the fluent builder for declaring rules and the evaluator
// that runs them.
//
// Rules are organized in stages. Rule-adding calls target the newest stage;
// Then opens the next one. During validation, stages run strictly in
// declaration order and a stage only runs while every prior result was
// valid, whereas rules within one stage run concurrently.
type PropertyRule struct {
	property *RuleProperty
	builder  *Builder
	provider *MessageProvider
	logger   *slog.Logger

	ruleGroups [][]Rule
	latest     Rule
}

func newPropertyRule(builder *Builder, provider *MessageProvider, logger *slog.Logger, property *RuleProperty) *PropertyRule {
	return &PropertyRule{
		property:   property,
		builder:    builder,
		provider:   provider,
		logger:     logger,
		ruleGroups: [][]Rule{{}},
	}
}

// Property returns the property this rule set targets.
func (p *PropertyRule) Property() *RuleProperty {
	return p.property
}

// RuleGroups returns the staged rule groups in declaration order.
func (p *PropertyRule) RuleGroups() [][]Rule {
	return slices.Clone(p.ruleGroups)
}

// resetChain marks a chain boundary: the next modifier call without a
// preceding rule-add panics with ErrNoRuleInChain.
func (p *PropertyRule) resetChain() {
	p.latest = nil
}

func (p *PropertyRule) mustLatest() Rule {
	if p.latest == nil {
		panic(ErrNoRuleInChain)
	}
	return p.latest
}

// AddRule appends a rule to the current (newest) stage.
func (p *PropertyRule) AddRule(rule Rule) *PropertyRule {
	last := len(p.ruleGroups) - 1
	p.ruleGroups[last] = append(p.ruleGroups[last], rule)
	p.latest = rule
	return p
}

// Then opens a new stage: rules added afterwards only execute once every
// rule in the preceding stages passed.
func (p *PropertyRule) Then() *PropertyRule {
	p.ruleGroups = append(p.ruleGroups, []Rule{})
	return p
}

// WithMessage overrides the failure message of the latest rule with a
// template; see MessageProvider.ParseMessage for template validation.
func (p *PropertyRule) WithMessage(template string) *PropertyRule {
	p.mustLatest().SetMessage(p.provider.ParseMessage(template))
	return p
}

// WithMessageKey selects a registered message template for the latest rule.
func (p *PropertyRule) WithMessageKey(key string) *PropertyRule {
	p.mustLatest().SetMessageKey(key)
	return p
}

// When guards the latest rule: it only executes when condition accepts the
// object under validation.
func (p *PropertyRule) When(condition func(object any) bool) *PropertyRule {
	p.mustLatest().SetWhen(condition)
	return p
}

// Tag labels the latest rule for selective validation runs.
func (p *PropertyRule) Tag(tag string) *PropertyRule {
	p.mustLatest().SetTag(tag)
	return p
}

// DisplayName sets the property's display name: a string or a func() string
// resolver evaluated at message-rendering time.
func (p *PropertyRule) DisplayName(value any) *PropertyRule {
	switch value.(type) {
	case string, func() string:
		p.property.displayName = value
	default:
		panic(fmt.Errorf("%w: display name must be a string or func() string, got %T", ErrUnparsableAccessor, value))
	}
	return p
}

// Required rejects absent values.
func (p *PropertyRule) Required() *PropertyRule {
	return p.AddRule(NewRequiredRule())
}

// Matches requires string values to match the pattern.
func (p *PropertyRule) Matches(pattern *regexp.Regexp) *PropertyRule {
	return p.AddRule(NewMatchesRule(pattern))
}

// Email requires string values to look like an email address.
func (p *PropertyRule) Email() *PropertyRule {
	return p.AddRule(NewEmailRule())
}

// MinLength requires string values to have at least length characters.
func (p *PropertyRule) MinLength(length int) *PropertyRule {
	return p.AddRule(NewMinLengthRule(length))
}

// MaxLength requires string values to have at most length characters.
func (p *PropertyRule) MaxLength(length int) *PropertyRule {
	return p.AddRule(NewMaxLengthRule(length))
}

// MinItems requires collection values to hold at least count elements.
func (p *PropertyRule) MinItems(count int) *PropertyRule {
	return p.AddRule(NewMinItemsRule(count))
}

// MaxItems requires collection values to hold at most count elements.
func (p *PropertyRule) MaxItems(count int) *PropertyRule {
	return p.AddRule(NewMaxItemsRule(count))
}

// Min requires numeric values to be at least min (inclusive).
func (p *PropertyRule) Min(min float64) *PropertyRule {
	return p.AddRule(NewMinRule(min))
}

// Max requires numeric values to be at most max (inclusive).
func (p *PropertyRule) Max(max float64) *PropertyRule {
	return p.AddRule(NewMaxRule(max))
}

// Range requires numeric values to satisfy min <= value <= max.
func (p *PropertyRule) Range(min, max float64) *PropertyRule {
	return p.AddRule(NewRangeRule(min, max))
}

// Between requires numeric values to satisfy min < value < max.
func (p *PropertyRule) Between(min, max float64) *PropertyRule {
	return p.AddRule(NewBetweenRule(min, max))
}

// Equals requires the value to deep-equal expected.
func (p *PropertyRule) Equals(expected any) *PropertyRule {
	return p.AddRule(NewEqualsRule(expected))
}

// Satisfies adds an ad-hoc synchronous predicate.
func (p *PropertyRule) Satisfies(fn func(value, object any) bool) *PropertyRule {
	return p.AddRule(NewSatisfiesRule(fn))
}

// SatisfiesAsync adds an ad-hoc context-aware predicate.
func (p *PropertyRule) SatisfiesAsync(fn func(ctx context.Context, value, object any) (bool, error)) *PropertyRule {
	return p.AddRule(NewSatisfiesAsyncRule(fn))
}

// SatisfiesRule adds a pre-built rule instance.
func (p *PropertyRule) SatisfiesRule(rule Rule) *PropertyRule {
	return p.AddRule(rule)
}

// Ensure continues the declaration on another property of the same builder.
func (p *PropertyRule) Ensure(property any) *PropertyRule {
	return p.builder.Ensure(property)
}

// EnsureObject continues the declaration on the whole object.
func (p *PropertyRule) EnsureObject() *PropertyRule {
	return p.builder.EnsureObject()
}

// Rules returns the builder's in-progress rule set.
func (p *PropertyRule) Rules() []*PropertyRule {
	return p.builder.Rules()
}

// On attaches the builder's rule set to a target; see Builder.On.
func (p *PropertyRule) On(target any, tag ...string) *Builder {
	return p.builder.On(target, tag...)
}

// Validate evaluates the staged rule groups against a value.
//
// Stages run sequentially and stop after the first stage that produced an
// invalid result; rules within a stage run concurrently, and their results
// keep declaration order regardless of completion order. A non-empty tag
// restricts execution to rules carrying that tag. A predicate error aborts
// the run after the current stage fully settles; the results computed so
// far are still returned alongside the error.
func (p *PropertyRule) Validate(ctx context.Context, value, object any, tag string) ([]*Result, error) {
	valid := true
	var results []*Result

	for _, group := range p.ruleGroups {
		if !valid {
			break
		}

		futures := make([]*async.Future[*Result], 0, len(group))
		for _, rule := range group {
			if !rule.CanExecute(object) {
				continue
			}
			if tag != "" && rule.Tag() != tag {
				continue
			}
			futures = append(futures, async.Async(ctx, rule, func(ctx context.Context, r Rule) (*Result, error) {
				ok, err := r.Execute(ctx, value, object)
				if err != nil {
					return nil, err
				}
				var message string
				if !ok {
					message = p.renderMessage(r, value, object)
				}
				return newResult(ok, message, p.property.Name, object, r, p), nil
			}))
		}

		groupResults, err := async.WaitSettled(futures...)
		for _, result := range groupResults {
			if result == nil {
				continue
			}
			if !result.Valid {
				valid = false
			}
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// renderMessage resolves the rule's message template lazily and evaluates
// it against a scope synthesized around the failing value.
func (p *PropertyRule) renderMessage(rule Rule, value, object any) string {
	message := rule.Message()
	if message == nil {
		message = p.provider.GetMessage(rule)
		rule.SetMessage(message)
	}

	scope := expr.NewScope(object, map[string]any{
		"$object":       object,
		"$displayName":  p.provider.GetDisplayName(p.property.Name, p.property.DisplayName()),
		"$propertyName": p.property.Name,
		"$value":        value,
		"$rule":         rule,
		"$getDisplayName": func(propertyName string) string {
			return p.provider.GetDisplayName(propertyName, nil)
		},
	})

	out, err := message.Evaluate(scope)
	if err != nil {
		p.logger.Warn("failed to render validation message",
			slog.String("property", p.property.Name),
			slog.String("template", message.String()),
			slog.Any("error", err))
		return ""
	}
	if s, ok := out.(string); ok {
		return s
	}
	return fmt.Sprint(out)
}
