package injector

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// WrapperName is the identity carried by every synthetic type produced by Guard.Instrument.
// A type carrying this name is never treated as the origin of a chain.
const WrapperName = "injector_wrapper"

// Constructor builds a new instance from the given arguments.
type Constructor func(args ...any) (any, error)

// Type describes something that can be constructed, either an originally registered type
// or a synthetic wrapper around another Type. The parent link is set once, when the wrapper
// is created, which keeps every chain finite and acyclic.
//
// Types are meant to be created once and shared by pointer.
type Type struct {
	name   string
	parent *Type
	goType reflect.Type
	ctor   Constructor

	// property name -> *propertyBinding
	properties sync.Map
}

// NewType creates a Type with an explicit identity name. An empty name makes the type
// anonymous; since there is no Go type to fall back on, such a type can only act as the
// origin of a chain if it is never asked for by name.
func NewType(name string, ctor Constructor) *Type {
	if ctor == nil {
		panic("constructor must not be nil")
	}
	return &Type{
		name: name,
		ctor: ctor,
	}
}

// Define creates a Type from a typed constructor. The type has no explicit name; its
// identity is derived from the Go type T, e.g. "*engine.Engine".
func Define[T any](ctor func(args ...any) (T, error)) *Type {
	return DefineNamed[T]("", ctor)
}

// DefineNamed creates a Type from a typed constructor with an explicit identity name.
func DefineNamed[T any](name string, ctor func(args ...any) (T, error)) *Type {
	if ctor == nil {
		panic("constructor must not be nil")
	}
	return &Type{
		name:   name,
		goType: reflect.TypeFor[T](),
		ctor: func(args ...any) (any, error) {
			return ctor(args...)
		},
	}
}

// Name returns the explicit identity name, which is WrapperName for synthetic types and may
// be empty for types created with Define.
func (t *Type) Name() string {
	return t.name
}

// Parent returns the Type this one wraps, or nil for an origin type.
func (t *Type) Parent() *Type {
	return t.parent
}

// GoType returns the Go type of the instances, if it is known.
func (t *Type) GoType() reflect.Type {
	return t.goType
}

// IsSynthetic reports whether t was produced by instrumentation.
func (t *Type) IsSynthetic() bool {
	return t.name == WrapperName
}

// String returns the identity of the type as used in errors and diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if id := t.identity(); id != "" {
		return id
	}
	return "<anonymous>"
}

// identity is the explicit name if there is one, otherwise the textual form of the Go type.
func (t *Type) identity() string {
	if t.name != "" {
		return t.name
	}
	if t.goType != nil {
		return t.goType.String()
	}
	return ""
}

// isNamed reports whether t carries a genuine identity. An explicit name decides on its own;
// the Go type fallback is only consulted when there is no explicit name.
func (t *Type) isNamed() bool {
	if t.name != "" {
		return t.name != WrapperName
	}
	if t.goType == nil {
		return false
	}
	s := t.goType.String()
	return s != "" && s != WrapperName
}

// New runs the constructor chain and wires the lazy properties bound to t into the result.
// For a wrapper this includes the guard check of the type it wraps.
func (t *Type) New(args ...any) (any, error) {
	instance, err := t.ctor(args...)
	if err != nil {
		if t.parent != nil {
			// already reported by the type further down the chain
			return nil, err
		}
		return nil, &InjectionError{
			Message:     "constructor failed",
			TypeName:    t.String(),
			SourceError: err,
		}
	}
	if err := t.bindProperties(instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// Properties returns the names of the lazy properties bound directly to t, sorted.
func (t *Type) Properties() []string {
	var names []string
	t.properties.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Construct calls t.New and asserts the result to T.
func Construct[T any](t *Type, args ...any) (T, error) {
	var zero T
	if err := CheckType(t); err != nil {
		return zero, err
	}
	instance, err := t.New(args...)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &InjectionError{
			Message:     fmt.Sprintf("constructed %T, wanted %v", instance, reflect.TypeFor[T]()),
			TypeName:    t.String(),
			SourceError: ErrTypeMismatch,
		}
	}
	return typed, nil
}
