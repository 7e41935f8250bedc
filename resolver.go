package injector

import (
	"reflect"
)

// GetConstructorFromType walks from target through its parents and returns the first type
// that carries a genuine identity, i.e. the originally registered type behind any number of
// wrappers.
func GetConstructorFromType(target *Type) (*Type, error) {
	if err := CheckType(target); err != nil {
		return nil, err
	}
	for t := target; t != nil; t = t.parent {
		if t.isNamed() {
			return t, nil
		}
	}
	return nil, &InjectionError{
		Message:     "can not identify the base type for requested target",
		TypeName:    target.String(),
		SourceError: ErrUnresolvableBaseType,
	}
}

// CheckType fails with ErrInvalidType if candidate is nil, including typed nils such as a
// nil *Type or a nil reflect.Type.
func CheckType(candidate any) error {
	if candidate == nil || isNilValue(candidate) {
		return &InjectionError{
			Message:     "invalid type requested to injector",
			TypeName:    "<nil>",
			SourceError: ErrInvalidType,
		}
	}
	return nil
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
