// Package rules provides a fluent engine for declaring and asynchronously
// evaluating per-property validation rules on arbitrary objects.
//
// Rules are declared through a Builder, attached out-of-band to targets (so
// a rule set survives independent of object identity and never touches the
// object's own fields), and evaluated in ordered stages with concurrent
// execution inside each stage, short-circuiting, tagging, and templated
// failure messages rendered through a small expression language.
//
// # Architecture
//
// The engine composes four layers:
//
//  1. Rule: a single pluggable predicate with message/tag/guard metadata.
//     Builtin variants cover presence, patterns, lengths, sizes, numeric
//     ranges, and equality; Satisfies adapts arbitrary predicates.
//  2. PropertyRule: the staged rule groups attached to one property, both
//     the fluent builder surface and the evaluator. Stages run strictly in
//     order and stop at the first invalid stage; rules within a stage fan
//     out concurrently and their results keep declaration order.
//  3. Registrar: binds rule sets to targets through an annotation
//     side-table, one default set plus any number of tagged sets each.
//  4. MessageProvider: resolves failure-message templates (built-in table,
//     custom overrides, optional localization catalog) and display names.
//
// # Usage
//
//	rules.New().
//	    Ensure("firstName").Required().MinLength(2).
//	    Ensure("email").Required().Email().
//	    Ensure("age").Range(18, 120).WithMessage("${$displayName} must be a reasonable age.").
//	    On(user)
//
//	results, err := rules.NewValidator().ValidateObject(ctx, user)
//	for _, r := range results {
//	    if !r.Valid {
//	        fmt.Println(r.Message)
//	    }
//	}
//
// Dependent stages and tags:
//
//	rules.New().
//	    Ensure("username").Required().Then().
//	    SatisfiesAsync(checkUsernameFree).Tag("remote").
//	    On(form)
//
// # Error Handling
//
// Builder misuse fails fast with panics wrapping typed sentinel errors:
// ErrNoRuleInChain when a modifier has no preceding rule-add in the current
// chain, ErrUnparsableAccessor for accessors that cannot be compiled, and
// ErrAncestorReference for message templates reaching into a parent scope.
// A failing predicate is never an error: it produces a Result with
// Valid=false. A predicate returning a non-nil error aborts the run after
// its stage settles and surfaces through Validate's error return.
//
// # Concurrency
//
// Declaration is single-goroutine; evaluation is concurrency-safe. A
// running validation only reads rule definitions and produces fresh Result
// values, so any number of Validate calls may run against the same
// PropertyRule simultaneously.
package rules
