package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a compiled expression evaluable against a Scope.
type Expression interface {
	Evaluate(scope *Scope) (any, error)
	String() string
}

// Literal holds a constant value: a string, a float64, a bool, or nil.
type Literal struct {
	Value any
}

func (e *Literal) Evaluate(_ *Scope) (any, error) {
	return e.Value, nil
}

func (e *Literal) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "null"
	case string:
		return "'" + v + "'"
	default:
		return fmt.Sprint(v)
	}
}

// Access is a bare variable reference resolved against the scope, e.g.
// "$value" or "firstName". Ancestor counts how many "$parent" hops precede
// the name; zero means the current scope.
type Access struct {
	Name     string
	Ancestor int
}

func (e *Access) Evaluate(scope *Scope) (any, error) {
	v, _ := scope.Resolve(e.Name, e.Ancestor)
	return v, nil
}

func (e *Access) String() string {
	return strings.Repeat("$parent.", e.Ancestor) + e.Name
}

// Member reads a named member off the result of an inner expression, e.g.
// "address.city" or "$rule.Min".
type Member struct {
	Object Expression
	Name   string
}

func (e *Member) Evaluate(scope *Scope) (any, error) {
	obj, err := e.Object.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	v, _ := member(obj, e.Name)
	return v, nil
}

func (e *Member) String() string {
	return e.Object.String() + "." + e.Name
}

// Index reads a keyed or indexed element off the result of an inner
// expression, e.g. "items[0]" or "labels['en']".
type Index struct {
	Object Expression
	Key    Expression
}

func (e *Index) Evaluate(scope *Scope) (any, error) {
	obj, err := e.Object.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	key, err := e.Key.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	v, _ := index(obj, key)
	return v, nil
}

func (e *Index) String() string {
	return e.Object.String() + "[" + e.Key.String() + "]"
}

// Call invokes the result of an inner expression with evaluated arguments,
// e.g. "$getDisplayName('passwordConfirm')".
type Call struct {
	Callee Expression
	Args   []Expression
}

func (e *Call) Evaluate(scope *Scope) (any, error) {
	callee, err := e.Callee.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(e.Args))
	for i, arg := range e.Args {
		if args[i], err = arg.Evaluate(scope); err != nil {
			return nil, err
		}
	}
	v, err := call(callee, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEvaluate, e.String(), err)
	}
	return v, nil
}

func (e *Call) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = arg.String()
	}
	return e.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Binary is a binary operation; only "+" is supported. Numeric operands add,
// anything else concatenates as strings.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
}

func (e *Binary) Evaluate(scope *Scope) (any, error) {
	left, err := e.Left.Evaluate(scope)
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Evaluate(scope)
	if err != nil {
		return nil, err
	}

	if lf, lok := toFloat(left); lok {
		if rf, rok := toFloat(right); rok {
			return lf + rf, nil
		}
	}
	return stringify(left) + stringify(right), nil
}

func (e *Binary) String() string {
	return e.Left.String() + " " + e.Op + " " + e.Right.String()
}

// Interpolation is a multi-part message template. Strings always has exactly
// one more element than Parts; rendering alternates literal text and
// evaluated parts.
type Interpolation struct {
	Strings []string
	Parts   []Expression
}

func (e *Interpolation) Evaluate(scope *Scope) (any, error) {
	var sb strings.Builder
	sb.WriteString(e.Strings[0])
	for i, part := range e.Parts {
		v, err := part.Evaluate(scope)
		if err != nil {
			return nil, err
		}
		sb.WriteString(stringify(v))
		sb.WriteString(e.Strings[i+1])
	}
	return sb.String(), nil
}

// Expressions returns the embedded sub-expressions in source order.
func (e *Interpolation) Expressions() []Expression {
	return e.Parts
}

func (e *Interpolation) String() string {
	var sb strings.Builder
	sb.WriteString(e.Strings[0])
	for i, part := range e.Parts {
		sb.WriteString("${")
		sb.WriteString(part.String())
		sb.WriteString("}")
		sb.WriteString(e.Strings[i+1])
	}
	return sb.String()
}

// Walk visits e and every nested sub-expression in depth-first order.
func Walk(e Expression, visit func(Expression)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *Member:
		Walk(n.Object, visit)
	case *Index:
		Walk(n.Object, visit)
		Walk(n.Key, visit)
	case *Call:
		Walk(n.Callee, visit)
		for _, arg := range n.Args {
			Walk(arg, visit)
		}
	case *Binary:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *Interpolation:
		for _, part := range n.Parts {
			Walk(part, visit)
		}
	}
}

// stringify renders a value the way message templates expect: nil becomes an
// empty string, floats drop a trailing ".0" so counts read naturally.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
