package rules

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rulekit/pkg/expr"
)

// Validator drives validation runs over targets with registered rule sets:
// it resolves each property's current value through its access expression
// and delegates to the staged evaluation of every PropertyRule in the set.
type Validator struct {
	registrar *Registrar
	logger    *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorRegistrar points the validator at a specific registrar; it
// must be the one the rule sets were attached through.
func WithValidatorRegistrar(registrar *Registrar) ValidatorOption {
	return func(v *Validator) {
		if registrar != nil {
			v.registrar = registrar
		}
	}
}

// WithValidatorLogger sets the logger for run diagnostics.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a validator over the process-wide default registrar.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		registrar: defaultRegistrar,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateObject evaluates every property rule registered on target. A tag
// selects the rule set registered under that tag; when no such set exists,
// the default set runs restricted to rules carrying the tag. Returns all
// results in rule-set order; the error mirrors PropertyRule.Validate.
func (v *Validator) ValidateObject(ctx context.Context, target any, tag ...string) ([]*Result, error) {
	return v.run(ctx, target, "", firstTag(tag))
}

// ValidateProperty behaves like ValidateObject restricted to the rules of a
// single named property.
func (v *Validator) ValidateProperty(ctx context.Context, target any, property string, tag ...string) ([]*Result, error) {
	return v.run(ctx, target, property, firstTag(tag))
}

func (v *Validator) run(ctx context.Context, target any, property, tag string) ([]*Result, error) {
	runID := uuid.NewString()

	ruleSet := v.registrar.Get(target, tag)
	ruleFilter := ""
	if ruleSet == nil && tag != "" {
		ruleSet = v.registrar.Get(target, "")
		ruleFilter = tag
	}

	var (
		results []*Result
		invalid int
	)
	for _, propertyRule := range ruleSet {
		if property != "" && propertyRule.property.Name != property {
			continue
		}

		value := target
		if propertyRule.property.Expression != nil {
			// Access expressions never fail, they resolve missing members
			// to nil so the rules decide how absence is treated.
			value, _ = propertyRule.property.Expression.Evaluate(expr.NewScope(target, nil))
		}

		propertyResults, err := propertyRule.Validate(ctx, value, target, ruleFilter)
		results = append(results, propertyResults...)
		if err != nil {
			v.logger.ErrorContext(ctx, "validation run aborted by predicate error",
				slog.String("run_id", runID),
				slog.String("property", propertyRule.property.Name),
				slog.Any("error", err))
			return results, err
		}
	}

	for _, result := range results {
		if !result.Valid {
			invalid++
		}
	}
	v.logger.DebugContext(ctx, "validation run complete",
		slog.String("run_id", runID),
		slog.Int("results", len(results)),
		slog.Int("invalid", invalid))

	return results, nil
}
