package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a typed property accessor: an explicit sequence of field and index
// selectors that renders to a canonical access path. It replaces
// introspection-style accessors with a structure the compiler can check.
//
//	rules.Field("address").Field("city")         // address.city
//	rules.Field("labels").Index("en")            // labels['en']
//	rules.Field("items").Index(0).Field("name")  // items[0].name
type Path struct {
	rendered string
}

// Field starts a path at a named field.
func Field(name string) Path {
	return Path{}.Field(name)
}

// Field appends a named-field selector.
func (p Path) Field(name string) Path {
	if name == "" || strings.ContainsAny(name, ".[]'\" ") {
		panic(fmt.Errorf("%w: invalid field selector %q in path %q", ErrUnparsableAccessor, name, p.rendered))
	}
	if p.rendered == "" {
		return Path{rendered: name}
	}
	return Path{rendered: p.rendered + "." + name}
}

// Index appends an index selector; the key must be a string or an int.
func (p Path) Index(key any) Path {
	if p.rendered == "" {
		panic(fmt.Errorf("%w: path cannot start with an index selector", ErrUnparsableAccessor))
	}
	switch k := key.(type) {
	case string:
		if strings.ContainsAny(k, "'\"") {
			panic(fmt.Errorf("%w: invalid index selector %q in path %q", ErrUnparsableAccessor, k, p.rendered))
		}
		return Path{rendered: p.rendered + "['" + k + "']"}
	case int:
		if k < 0 {
			panic(fmt.Errorf("%w: negative index %d in path %q", ErrUnparsableAccessor, k, p.rendered))
		}
		return Path{rendered: p.rendered + "[" + strconv.Itoa(k) + "]"}
	default:
		panic(fmt.Errorf("%w: unsupported index selector type %T in path %q", ErrUnparsableAccessor, key, p.rendered))
	}
}

// String renders the canonical access path; it doubles as the property name
// rules are registered under.
func (p Path) String() string {
	if p.rendered == "" {
		panic(fmt.Errorf("%w: empty path", ErrUnparsableAccessor))
	}
	return p.rendered
}
