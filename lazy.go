package injector

import (
	"fmt"
	"reflect"
)

// InstanceFactory resolves a declared type to a value. The declared type is passed through
// untouched; what it means is entirely up to the factory.
type InstanceFactory func(declared reflect.Type) (any, error)

// Lazy is an injectable field holding a value of type T. It starts unset. The first Get of an
// unset Lazy calls the bound factory once and caches the result; Set overwrites the cached
// value and the factory is never consulted again for it. Zero values are cached like any
// other value.
//
// A Lazy belongs to the instance it is a field of and is not safe for concurrent use.
//
//	type Car struct {
//	    Engine injector.Lazy[*Engine]
//	}
//
//	err := injector.InjectProperty(carType, "Engine", reflect.TypeFor[*Engine](), factory)
//	car, _ := injector.Construct[*Car](carType)
//	engine, err := car.Engine.Get()
type Lazy[T any] struct {
	set      bool
	value    T
	declared reflect.Type
	factory  InstanceFactory
}

// lazyBinder lets InjectProperty reach a Lazy field without knowing its T.
type lazyBinder interface {
	bind(declared reflect.Type, factory InstanceFactory)
	valueType() reflect.Type
}

var lazyBinderType = reflect.TypeFor[lazyBinder]()

// LazyOf returns an unset Lazy that resolves T through factory. This is the constructor
// injection form, for types that wire their own fields.
func LazyOf[T any](factory InstanceFactory) Lazy[T] {
	return Lazy[T]{
		declared: reflect.TypeFor[T](),
		factory:  factory,
	}
}

// Get returns the cached value, calling the factory first if the value is not yet set. A
// failing factory leaves the value unset, so a later Get tries again.
func (l *Lazy[T]) Get() (T, error) {
	if l.set {
		return l.value, nil
	}
	var zero T
	if l.factory == nil {
		return zero, &InjectionError{
			Message:     "lazy value read before a factory was bound",
			TypeName:    l.valueType().String(),
			SourceError: ErrPropertyNotBound,
		}
	}
	declared := l.declared
	if declared == nil {
		declared = l.valueType()
	}
	raw, err := l.factory(declared)
	if err != nil {
		return zero, &InjectionError{
			Message:     "instance factory failed",
			TypeName:    typeName(declared),
			SourceError: err,
		}
	}
	value, ok := assignTo[T](raw)
	if !ok {
		return zero, &InjectionError{
			Message:     fmt.Sprintf("factory returned %T for %v", raw, l.valueType()),
			TypeName:    typeName(declared),
			SourceError: ErrTypeMismatch,
		}
	}
	l.value, l.set = value, true
	return value, nil
}

// MustGet behaves like Get but panics if the value can not be produced.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(err)
	}
	return value
}

// Set overwrites the value unconditionally.
func (l *Lazy[T]) Set(value T) {
	l.value, l.set = value, true
}

// IsSet reports whether the value has been populated, by Get or by Set.
func (l *Lazy[T]) IsSet() bool {
	return l.set
}

func (l *Lazy[T]) bind(declared reflect.Type, factory InstanceFactory) {
	l.declared = declared
	l.factory = factory
}

func (l *Lazy[T]) valueType() reflect.Type {
	return reflect.TypeFor[T]()
}

// assignTo converts a factory result to T. A nil result is accepted for the nillable kinds.
func assignTo[T any](raw any) (T, bool) {
	if v, ok := raw.(T); ok {
		return v, true
	}
	var zero T
	if raw == nil {
		switch reflect.TypeFor[T]().Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, true
		}
	}
	return zero, false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
