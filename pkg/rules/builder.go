package rules

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/rulekit/pkg/annotations"
	"github.com/dmitrymomot/rulekit/pkg/expr"
)

// defaultRegistrar backs builders and validators that were not handed an
// explicit registrar, so rule sets declared in one place are visible to
// validation runs in another by default.
var defaultRegistrar = NewRegistrar(annotations.NewStore())

// Builder is the top-level fluent entry point for declaring validation
// rules: it creates or reuses PropertyRules for a target's properties and
// attaches the assembled rule set to targets through the registrar.
//
// A Builder instance is not safe for concurrent mutation; declare rules
// from one goroutine, then validate from as many as needed.
type Builder struct {
	provider  *MessageProvider
	registrar *Registrar
	logger    *slog.Logger

	rules   []*PropertyRule
	targets map[any]struct{}
}

// Option configures a Builder.
type Option func(*Builder)

// WithMessageProvider replaces the default message provider.
func WithMessageProvider(provider *MessageProvider) Option {
	return func(b *Builder) {
		if provider != nil {
			b.provider = provider
		}
	}
}

// WithRegistrar replaces the process-wide default registrar.
func WithRegistrar(registrar *Registrar) Option {
	return func(b *Builder) {
		if registrar != nil {
			b.registrar = registrar
		}
	}
}

// WithLogger sets the logger handed to property rules and the provider.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a rule builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		registrar: defaultRegistrar,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		targets:   make(map[any]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.provider == nil {
		b.provider = NewMessageProvider(WithProviderLogger(b.logger))
	}
	return b
}

// Ensure returns the PropertyRule for a property, reusing an existing one
// when the resolved name matches a previously ensured property and creating
// it otherwise. The property is either a plain name string or a typed Path.
// Ensure marks a chain boundary: rule modifiers must follow a rule-add.
//
// Panics wrapping ErrUnparsableAccessor for unsupported accessor types and
// unparsable path text.
func (b *Builder) Ensure(property any) *PropertyRule {
	var name string
	switch p := property.(type) {
	case string:
		name = p
	case Path:
		name = p.String()
	case fmt.Stringer:
		name = p.String()
	default:
		panic(fmt.Errorf("%w: unsupported accessor type %T", ErrUnparsableAccessor, property))
	}

	for _, existing := range b.rules {
		if existing.property.Name != "" && existing.property.Name == name {
			existing.resetChain()
			return existing
		}
	}

	access, err := expr.ParseAccess(name)
	if err != nil {
		panic(errors.Join(ErrUnparsableAccessor, err))
	}

	rule := newPropertyRule(b, b.provider, b.logger, &RuleProperty{Expression: access, Name: name})
	b.rules = append(b.rules, rule)
	return rule
}

// EnsureObject returns a fresh PropertyRule targeting the whole object.
// Unlike Ensure it never reuses an existing rule. Marks a chain boundary.
func (b *Builder) EnsureObject() *PropertyRule {
	rule := newPropertyRule(b, b.provider, b.logger, &RuleProperty{})
	b.rules = append(b.rules, rule)
	return rule
}

// Rules returns the in-progress, not-yet-attached rule set.
func (b *Builder) Rules() []*PropertyRule {
	return b.rules
}

// On attaches the builder's rule set to target under an optional tag.
// Re-attaching the identical set is a no-op. Attaching to a target that
// already holds a different set adopts that set as the builder's own, so
// further Ensure calls extend the existing registration; a builder already
// tracking the target persists its current (possibly extended) set instead.
func (b *Builder) On(target any, tag ...string) *Builder {
	t := firstTag(tag)

	if existing := b.registrar.Get(target, t); existing != nil {
		if slices.Equal(existing, b.rules) {
			return b
		}
		if _, tracked := b.targets[target]; !tracked {
			b.rules = existing
		}
	}

	b.registrar.Set(target, b.rules, t)
	b.targets[target] = struct{}{}
	return b
}

// Off detaches rule sets: from the given target, or from every target this
// builder has attached to when target is nil. An empty tag removes every
// tagged set; a non-empty tag removes only that set. Targets left without
// any registered set are no longer tracked.
func (b *Builder) Off(target any, tag ...string) {
	t := firstTag(tag)

	detach := []any{target}
	if target == nil {
		detach = detach[:0]
		for tracked := range b.targets {
			detach = append(detach, tracked)
		}
	}

	for _, tgt := range detach {
		b.registrar.Unset(tgt, t)
		if !b.registrar.IsValidationRulesSet(tgt) {
			delete(b.targets, tgt)
		}
	}
}

func firstTag(tag []string) string {
	if len(tag) == 0 {
		return ""
	}
	return tag[0]
}
