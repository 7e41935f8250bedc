package injector

import (
	"fmt"
	"reflect"
	"sync"
)

type propertyBinding struct {
	name     string
	declared reflect.Type
	factory  InstanceFactory
}

// InjectProperty binds factory to the Lazy field called propertyName on every instance
// target constructs from now on. The declared type is handed to the factory unchanged when
// the field is first read; if it is nil the field's own type is used.
//
// Instances must be pointers to structs and the field must be exported. When target has a
// known concrete Go type, this is checked here; for interface types, or when the Go type is
// unknown, it is checked on construction.
func InjectProperty(target *Type, propertyName string, declared reflect.Type, factory InstanceFactory) error {
	if err := CheckType(target); err != nil {
		return err
	}
	if factory == nil {
		return &InjectionError{
			Message:     fmt.Sprintf("can not inject property %q", propertyName),
			TypeName:    target.String(),
			SourceError: ErrNilFactory,
		}
	}
	if target.goType != nil && target.goType.Kind() != reflect.Interface {
		if _, err := lazyFieldIndex(target.goType, propertyName); err != nil {
			return err
		}
	}
	target.properties.Store(propertyName, &propertyBinding{
		name:     propertyName,
		declared: declared,
		factory:  factory,
	})
	return nil
}

// bindProperties wires every binding registered on t into instance.
func (t *Type) bindProperties(instance any) error {
	var err error
	t.properties.Range(func(_, value any) bool {
		err = value.(*propertyBinding).apply(instance)
		return err == nil
	})
	return err
}

func (b *propertyBinding) apply(instance any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return &InjectionError{
			Message:     fmt.Sprintf("can not inject property %q into %T, need a non-nil pointer to a struct", b.name, instance),
			TypeName:    fmt.Sprintf("%T", instance),
			SourceError: ErrNoSuchProperty,
		}
	}
	index, err := lazyFieldIndex(v.Type(), b.name)
	if err != nil {
		return err
	}
	field, err := v.Elem().FieldByIndexErr(index)
	if err != nil || !field.CanInterface() {
		return &InjectionError{
			Message:     fmt.Sprintf("property %q is not reachable", b.name),
			TypeName:    v.Type().String(),
			SourceError: ErrNoSuchProperty,
		}
	}
	field.Addr().Interface().(lazyBinder).bind(b.declared, b.factory)
	return nil
}

type fieldCacheKey struct {
	owner reflect.Type
	name  string
}

// fieldCacheKey -> []int
var lazyFieldCache sync.Map

// lazyFieldIndex finds the Lazy field called name in the struct that owner points to.
func lazyFieldIndex(owner reflect.Type, name string) ([]int, error) {
	key := fieldCacheKey{owner: owner, name: name}
	if cached, ok := lazyFieldCache.Load(key); ok {
		return cached.([]int), nil
	}

	fail := func(reason string) ([]int, error) {
		return nil, &InjectionError{
			Message:     fmt.Sprintf("property %q %s", name, reason),
			TypeName:    owner.String(),
			SourceError: ErrNoSuchProperty,
		}
	}
	if owner.Kind() != reflect.Pointer || owner.Elem().Kind() != reflect.Struct {
		return fail("can only be injected into pointers to structs")
	}
	field, found := owner.Elem().FieldByName(name)
	if !found {
		return fail("does not exist")
	}
	if !field.IsExported() {
		return fail("is not exported")
	}
	if !reflect.PointerTo(field.Type).Implements(lazyBinderType) {
		return fail(fmt.Sprintf("has type %v, not an injector.Lazy", field.Type))
	}

	lazyFieldCache.Store(key, field.Index)
	return field.Index, nil
}
