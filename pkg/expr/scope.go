package expr

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// Scope is the evaluation context for an Expression. Bare identifiers
// resolve first against the overrides map, then as members of the binding
// context. "$this" resolves to the binding context itself and "$parent"
// hops to the parent scope.
type Scope struct {
	bindingContext any
	overrides      map[string]any
	parent         *Scope
}

// NewScope creates a root scope over the given binding context. The
// overrides map may be nil.
func NewScope(bindingContext any, overrides map[string]any) *Scope {
	return &Scope{bindingContext: bindingContext, overrides: overrides}
}

// NewChildScope creates a scope whose "$parent" chain leads to parent.
func NewChildScope(parent *Scope, bindingContext any, overrides map[string]any) *Scope {
	return &Scope{bindingContext: bindingContext, overrides: overrides, parent: parent}
}

// Resolve looks up a name after hopping ancestor scopes up the parent chain.
// A missing scope, override, or member reports ok=false with a nil value.
func (s *Scope) Resolve(name string, ancestor int) (any, bool) {
	scope := s
	for i := 0; i < ancestor; i++ {
		if scope == nil {
			return nil, false
		}
		scope = scope.parent
	}
	if scope == nil {
		return nil, false
	}

	if v, ok := scope.overrides[name]; ok {
		return v, true
	}
	if name == "$this" {
		return scope.bindingContext, true
	}
	return member(scope.bindingContext, name)
}

// member reads a named member off obj via reflection: map keys for string
// maps, fields for structs (trying the exported spelling when the source
// name starts lower-case), dereferencing pointers and interfaces first.
func member(obj any, name string) (any, bool) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true

	case reflect.Struct:
		if f := rv.FieldByName(name); f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
		if exported := exportedName(name); exported != name {
			if f := rv.FieldByName(exported); f.IsValid() && f.CanInterface() {
				return f.Interface(), true
			}
		}
		// Zero-argument method with a single result, e.g. $rule.MessageKey.
		target := reflect.ValueOf(obj)
		for _, n := range []string{name, exportedName(name)} {
			if m := target.MethodByName(n); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
				return m.Call(nil)[0].Interface(), true
			}
		}
		return nil, false

	default:
		return nil, false
	}
}

// index reads a keyed element off obj: integer keys for slices and arrays,
// convertible keys for maps.
func index(obj, key any) (any, bool) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt(key)
		if !ok || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true

	case reflect.Map:
		kv := reflect.ValueOf(key)
		if !kv.IsValid() || !kv.Type().ConvertibleTo(rv.Type().Key()) {
			return nil, false
		}
		v := rv.MapIndex(kv.Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true

	default:
		if s, ok := key.(string); ok {
			return member(obj, s)
		}
		return nil, false
	}
}

// call invokes fn with the given arguments via reflection.
func call(fn any, args []any) (any, error) {
	// Fast path for the display-name resolver exposed to message templates.
	if f, ok := fn.(func(string) string); ok {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected string argument, got %T", args[0])
		}
		return f(s), nil
	}

	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("value of type %T is not callable", fn)
	}
	ft := rv.Type()
	if ft.IsVariadic() || ft.NumIn() != len(args) {
		return nil, fmt.Errorf("expected %d arguments, got %d", ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		av := reflect.ValueOf(arg)
		if !av.IsValid() {
			in[i] = reflect.Zero(ft.In(i))
			continue
		}
		if !av.Type().ConvertibleTo(ft.In(i)) {
			return nil, fmt.Errorf("argument %d: cannot use %T as %s", i, arg, ft.In(i))
		}
		in[i] = av.Convert(ft.In(i))
	}

	out := rv.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	default:
		return out[0].Interface(), nil
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// exportedName upper-cases the first rune so source paths written in the
// host application's naming style ("firstName") can address exported Go
// struct fields ("FirstName").
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
