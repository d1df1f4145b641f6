// File: lixenwraith/composer/types.go
package composer

import (
	"reflect"
	"strings"
)

// Type is a member of a field's allowed type set.
// Concrete Go types are declared with Of; composed types are *Schema values.
type Type interface {
	// Name is the display name used in validation messages and scaffolds.
	Name() string
	// Accepts reports whether v is a member of this type.
	Accepts(v any) bool
}

// goType is a Type backed by a reflect.Type.
type goType struct {
	t reflect.Type
}

// Of returns the Type tag for T. Interface types accept any value
// implementing them; other types require an exact dynamic type match.
func Of[T any]() Type {
	return goType{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeOf returns the Type tag for a reflect.Type.
func TypeOf(t reflect.Type) Type {
	return goType{t: t}
}

func (g goType) Name() string {
	return g.t.String()
}

func (g goType) Accepts(v any) bool {
	if v == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if g.t.Kind() == reflect.Interface {
		return vt.Implements(g.t)
	}
	return vt == g.t
}

// Reflect returns the underlying reflect.Type.
func (g goType) Reflect() reflect.Type {
	return g.t
}

type nilType struct{}

// Nil admits an explicit nil assignment. Without it a field rejects nil,
// while still allowing the field to be unset.
var Nil Type = nilType{}

func (nilType) Name() string       { return "nil" }
func (nilType) Accepts(v any) bool { return v == nil }

// reflectOf returns the reflect.Type behind a Type, if any.
func reflectOf(t Type) (reflect.Type, bool) {
	if g, ok := t.(goType); ok {
		return g.t, true
	}
	return nil, false
}

// typeNames renders an allowed set as "[int, string]".
func typeNames(types []Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Name())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// sliceType returns the first allowed slice type in the set.
func sliceType(types []Type) (reflect.Type, bool) {
	for _, t := range types {
		if rt, ok := reflectOf(t); ok && rt.Kind() == reflect.Slice {
			return rt, true
		}
	}
	return nil, false
}

// primaryType returns the first allowed concrete (non-interface) Go type,
// used as the coercion target for loosely typed input.
func primaryType(types []Type) (reflect.Type, bool) {
	for _, t := range types {
		if rt, ok := reflectOf(t); ok && rt.Kind() != reflect.Interface {
			return rt, true
		}
	}
	return nil, false
}
