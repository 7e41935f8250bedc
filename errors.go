package injector

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidType           = errors.New("type is not defined")
	ErrUnresolvableBaseType  = errors.New("no named type found in the wrapper chain")
	ErrConstructionBlocked   = errors.New("instantiation is blocked for this type, ask the registry for it")
	ErrPropertyNotBound      = errors.New("no instance factory bound to property")
	ErrNoSuchProperty        = errors.New("no injectable property")
	ErrNilFactory            = errors.New("instance factory is nil")
	ErrTypeMismatch          = errors.New("value is not assignable to the requested type")
	ErrNotRegistered         = errors.New("type not registered")
	ErrDuplicateRegistration = errors.New("type already registered")
)

// InjectionError is returned by every failing operation in this package. The SourceError is
// one of the Err* sentinels (or the error returned by a user constructor or factory) so that
// callers can use errors.Is to tell the failures apart.
type InjectionError struct {
	Message     string
	TypeName    string
	SourceError error
}

func (e *InjectionError) Error() string {
	if e.SourceError == nil {
		return fmt.Sprintf("%s: %s", e.Message, e.TypeName)
	} else {
		return fmt.Sprintf("%s: %s (%v)", e.Message, e.TypeName, e.Unwrap().Error())
	}
}

func (e *InjectionError) Unwrap() error {
	return e.SourceError
}
