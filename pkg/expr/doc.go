// Package expr provides a small expression language for property-access
// paths and interpolated message templates, evaluated against a Scope.
//
// The package compiles two kinds of source text:
//
//  1. Access paths such as "address.city" or "items[0].name", produced by
//     ParseAccess and used to read a property value off an arbitrary object.
//  2. Interpolation templates such as "${$displayName} is required.",
//     produced by ParseInterpolation and used to render human-readable
//     messages. Text without any ${...} part compiles to a plain literal.
//
// # Architecture
//
// A hand-written lexer tokenizes the source, and a recursive-descent parser
// builds an immutable AST. Each node implements Expression and knows how to
// evaluate itself against a Scope. Member and index access use reflection
// (struct fields, map keys, slice indexes, pointer dereference), so the same
// compiled expression works against plain structs and map-based objects.
//
// A Scope pairs a binding context (the object bare identifiers resolve
// against) with named overrides (contextual variables such as "$value") and
// an optional parent scope reachable through "$parent".
//
// # Usage
//
//	e, err := expr.ParseInterpolation("${$displayName} must be ${$rule.Min}+ characters.")
//	if err != nil {
//	    // handle error
//	}
//	out, err := e.Evaluate(expr.NewScope(nil, map[string]any{
//	    "$displayName": "Password",
//	    "$rule":        rule,
//	}))
//
// # Error Handling
//
// Compilation problems wrap ErrParse and carry the offending source text and
// position. Evaluation is lenient the way template rendering wants it to be:
// unresolvable names and members yield nil (rendered as an empty string)
// rather than an error. Only structurally impossible operations, such as
// calling a non-function, fail with an error wrapping ErrEvaluate.
//
// # Concurrency
//
// Compiled expressions and scopes are immutable after construction; a single
// Expression may be evaluated concurrently against independent scopes.
package expr
