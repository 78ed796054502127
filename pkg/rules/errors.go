package rules

import "errors"

var (
	// ErrNoRuleInChain is raised (as a panic) when a fluent modifier such as
	// WithMessage, Tag, or When is called before any rule has been added in
	// the current Ensure/EnsureObject chain.
	ErrNoRuleInChain = errors.New("rules: no rule to modify, add a rule before calling rule modifiers")

	// ErrUnparsableAccessor is raised (as a panic) when a property accessor
	// cannot be turned into an access expression: an unsupported accessor
	// type, an invalid path segment, or unparsable path text.
	ErrUnparsableAccessor = errors.New("rules: unable to parse property accessor")

	// ErrInvalidMessageTemplate is raised (as a panic) when a message
	// template fails to compile.
	ErrInvalidMessageTemplate = errors.New("rules: invalid message template")

	// ErrAncestorReference is raised (as a panic) when a message template
	// references a parent scope ($parent or an outer this); such references
	// are meaningless in a validation-message context.
	ErrAncestorReference = errors.New("rules: message template must not reference a parent scope")
)
