package rules

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrymomot/rulekit/pkg/expr"
)

const defaultMessageKey = "default"

// defaultMessages maps message keys to their built-in templates. The
// provider's registry is seeded from this table once at construction;
// custom messages overlay it and nothing mutates it afterwards.
var defaultMessages = map[string]string{
	defaultMessageKey: "${$displayName} is invalid.",
	"required":        "${$displayName} is required.",
	"matches":         "${$displayName} is not correctly formatted.",
	"email":           "${$displayName} is not a valid email.",
	"minLength":       "${$displayName} must be at least ${$rule.Length} characters.",
	"maxLength":       "${$displayName} must be at most ${$rule.Length} characters.",
	"minItems":        "${$displayName} must contain at least ${$rule.Count} items.",
	"maxItems":        "${$displayName} must contain at most ${$rule.Count} items.",
	"min":             "${$displayName} must be at least ${$rule.Min}.",
	"max":             "${$displayName} must be at most ${$rule.Max}.",
	"range":           "${$displayName} must be between ${$rule.Min} and ${$rule.Max}.",
	"between":         "${$displayName} must be strictly between ${$rule.Min} and ${$rule.Max}.",
	"equals":          "${$displayName} must be ${$rule.Expected}.",
}

// reservedNames are contextual scope variables; a bare reference to one of
// these in a template almost always means the author forgot the "$" prefix.
var reservedNames = map[string]bool{
	"displayName":    true,
	"propertyName":   true,
	"value":          true,
	"object":         true,
	"config":         true,
	"getDisplayName": true,
}

// LocalizationStrategy localizes message templates and display names. The
// zero behavior (no strategy) keeps the built-in English templates and
// humanized property names.
type LocalizationStrategy interface {
	// Message returns the localized template for a message key, or the
	// fallback when the key has no localization.
	Message(key, fallback string) string

	// DisplayName returns a localized display name for a property, with
	// ok=false when the property has no localization.
	DisplayName(propertyName string) (string, bool)
}

// MessageProvider resolves and compiles failure-message templates and
// display names for rules.
type MessageProvider struct {
	logger       *slog.Logger
	messages     map[string]string
	localization LocalizationStrategy

	mu    sync.RWMutex
	cache map[string]expr.Expression
}

// ProviderOption configures a MessageProvider.
type ProviderOption func(*MessageProvider)

// WithCustomMessages overlays the built-in message templates, keyed by
// message key. Unknown keys define new templates addressable through
// WithMessageKey.
func WithCustomMessages(messages map[string]string) ProviderOption {
	return func(m *MessageProvider) {
		maps.Copy(m.messages, messages)
	}
}

// WithLocalization installs a localization strategy.
func WithLocalization(strategy LocalizationStrategy) ProviderOption {
	return func(m *MessageProvider) {
		if strategy != nil {
			m.localization = strategy
		}
	}
}

// WithProviderLogger sets the logger used for template diagnostics.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(m *MessageProvider) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMessageProvider creates a provider seeded with the built-in templates.
// Every seeded template, including custom overlays, is compiled up front, so
// a malformed custom template panics here, at the injection point, instead of
// inside a validation run.
func NewMessageProvider(opts ...ProviderOption) *MessageProvider {
	m := &MessageProvider{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages: maps.Clone(defaultMessages),
		cache:    make(map[string]expr.Expression),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, tmpl := range m.messages {
		m.ParseMessage(tmpl)
	}
	return m
}

// GetMessage resolves the message template for a rule: the template
// registered under the rule's message key, falling back to the catch-all
// template for unknown or empty keys, localized when a strategy is
// installed, and compiled through ParseMessage.
//
// GetMessage runs inside validation goroutines, so it never panics: the
// registered templates were compiled at construction, and a localized
// template that fails to compile is dropped with a warning in favor of the
// registered one.
func (m *MessageProvider) GetMessage(rule Rule) expr.Expression {
	key := rule.MessageKey()
	tmpl, ok := m.messages[key]
	if !ok || tmpl == "" {
		key = defaultMessageKey
		tmpl = m.messages[defaultMessageKey]
	}
	if m.localization != nil {
		if localized := m.localization.Message(key, tmpl); localized != tmpl {
			if err := validateTemplate(localized); err != nil {
				m.logger.Warn("ignoring invalid localized message template",
					slog.String("key", key),
					slog.String("template", localized),
					slog.Any("error", err))
			} else {
				tmpl = localized
			}
		}
	}
	return m.ParseMessage(tmpl)
}

// ParseMessage compiles a message template. It panics wrapping
// ErrInvalidMessageTemplate when the template does not compile and wrapping
// ErrAncestorReference when any embedded expression reaches for a parent
// scope; a reference to a reserved contextual name without the "$" prefix
// only logs a warning, since the author most likely meant the prefixed
// variable.
func (m *MessageProvider) ParseMessage(text string) expr.Expression {
	m.mu.RLock()
	cached, ok := m.cache[text]
	m.mu.RUnlock()
	if ok {
		return cached
	}

	e, err := expr.ParseInterpolation(text)
	if err != nil {
		panic(errors.Join(ErrInvalidMessageTemplate, err))
	}

	if interp, ok := e.(*expr.Interpolation); ok {
		for _, part := range interp.Expressions() {
			if err := ancestorFree(part, text); err != nil {
				panic(err)
			}
			m.warnReserved(part, text)
		}
	}

	m.mu.Lock()
	m.cache[text] = e
	m.mu.Unlock()
	return e
}

// warnReserved logs a warning for every reference to a reserved contextual
// name without the "$" prefix, wherever it sits inside the part.
func (m *MessageProvider) warnReserved(part expr.Expression, template string) {
	expr.Walk(part, func(node expr.Expression) {
		if access, ok := node.(*expr.Access); ok && access.Ancestor == 0 && reservedNames[access.Name] {
			m.logger.Warn("message template references a reserved name without the '$' prefix",
				slog.String("name", access.Name),
				slog.String("intended", "$"+access.Name),
				slog.String("template", template))
		}
	})
}

// ancestorFree reports any reference to a parent scope inside part as an
// error wrapping ErrAncestorReference.
func ancestorFree(part expr.Expression, template string) error {
	var bad bool
	expr.Walk(part, func(node expr.Expression) {
		if access, ok := node.(*expr.Access); ok && access.Ancestor > 0 {
			bad = true
		}
	})
	if bad {
		return errors.Join(ErrAncestorReference,
			fmt.Errorf("expression %q in template %q", part.String(), template))
	}
	return nil
}

// validateTemplate compiles and checks a template, reporting problems as an
// error instead of a panic; used where templates arrive from data files and
// a hard failure at the call site would be wrong.
func validateTemplate(text string) error {
	e, err := expr.ParseInterpolation(text)
	if err != nil {
		return errors.Join(ErrInvalidMessageTemplate, err)
	}
	if interp, ok := e.(*expr.Interpolation); ok {
		for _, part := range interp.Expressions() {
			if err := ancestorFree(part, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetDisplayName resolves a property's human-readable name. An explicit
// override (string or func() string) wins, then a localized name from the
// strategy, then the humanized property name.
func (m *MessageProvider) GetDisplayName(propertyName string, displayName any) string {
	switch d := displayName.(type) {
	case string:
		if d != "" {
			return d
		}
	case func() string:
		return d()
	}
	if m.localization != nil {
		if s, ok := m.localization.DisplayName(propertyName); ok {
			return s
		}
	}
	return humanize(propertyName)
}

// humanize splits a property name before each upper-case letter, joins the
// pieces with spaces, and capitalizes only the first character:
// "firstName" becomes "First name".
func humanize(name string) string {
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	s := strings.ToLower(strings.Join(words, " "))
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
