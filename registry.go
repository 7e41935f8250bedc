package injector

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is a minimal consumer of the guard: it keys every registered type by its
// identity, hands out instrumented wrappers that can not be constructed directly, and
// constructs through the guard's controlled path. It has no notion of lifetimes; every Make
// produces a new instance.
type Registry struct {
	mu      sync.RWMutex
	guard   *Guard
	entries map[string]*registration
	byGo    map[reflect.Type]*registration
	opts    options
}

type registration struct {
	origin  *Type
	wrapper *Type
}

// NewRegistry creates an empty registry with its own Guard.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		guard:   newGuard(o),
		entries: map[string]*registration{},
		byGo:    map[reflect.Type]*registration{},
		opts:    o,
	}
}

// Guard returns the guard that holds this registry's blocked flags.
func (r *Registry) Guard() *Guard {
	return r.guard
}

// Register instruments t, blocks it, and returns the wrapper to hand out in its place. The
// registry key is the identity of the origin behind t, so t may itself be a wrapper.
func (r *Registry) Register(t *Type) (*Type, error) {
	origin, err := GetConstructorFromType(t)
	if err != nil {
		return nil, err
	}
	key := origin.identity()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return nil, &InjectionError{
			Message:     "can not register",
			TypeName:    key,
			SourceError: ErrDuplicateRegistration,
		}
	}

	wrapper, err := r.guard.Instrument(t)
	if err != nil {
		return nil, err
	}
	r.guard.Block(t)

	reg := &registration{origin: origin, wrapper: wrapper}
	r.entries[key] = reg
	if origin.goType != nil {
		if first, exists := r.byGo[origin.goType]; exists {
			r.opts.logger.Debug("go type already registered, MakeOf and Factory keep resolving the first registration",
				"type", key, "goType", origin.goType.String(), "first", first.origin.String())
		} else {
			r.byGo[origin.goType] = reg
		}
	}
	r.opts.logger.Debug("registered type", "type", key)
	return wrapper, nil
}

// Make constructs a new instance of the registered type behind t, which may be the origin
// or any wrapper of it.
func (r *Registry) Make(t *Type, args ...any) (any, error) {
	reg, err := r.lookup(t)
	if err != nil {
		return nil, err
	}
	return r.guard.Construct(reg.wrapper, args...)
}

// MakeOf constructs a new instance of the type registered for the Go type T. When several
// named types share T, the first one registered is used; the others are reachable through
// Make.
func MakeOf[T any](r *Registry, args ...any) (T, error) {
	var zero T
	goType := reflect.TypeFor[T]()
	reg, err := r.lookupGo(goType)
	if err != nil {
		return zero, err
	}
	instance, err := r.guard.Construct(reg.wrapper, args...)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &InjectionError{
			Message:     fmt.Sprintf("constructed %T, wanted %v", instance, goType),
			TypeName:    reg.origin.String(),
			SourceError: ErrTypeMismatch,
		}
	}
	return typed, nil
}

// Factory returns an InstanceFactory that constructs the type registered for the declared
// Go type.
func (r *Registry) Factory() InstanceFactory {
	return func(declared reflect.Type) (any, error) {
		reg, err := r.lookupGo(declared)
		if err != nil {
			return nil, err
		}
		return r.guard.Construct(reg.wrapper)
	}
}

// Bind injects the registry's own Factory into the Lazy field propertyName of target.
func (r *Registry) Bind(target *Type, propertyName string, declared reflect.Type) error {
	return InjectProperty(target, propertyName, declared, r.Factory())
}

func (r *Registry) lookup(t *Type) (*registration, error) {
	origin, err := GetConstructorFromType(t)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	reg, ok := r.entries[origin.identity()]
	r.mu.RUnlock()
	if !ok || reg.origin != origin {
		return nil, &InjectionError{
			Message:     fmt.Sprintf("can not make %v", t),
			TypeName:    origin.String(),
			SourceError: ErrNotRegistered,
		}
	}
	return reg, nil
}

func (r *Registry) lookupGo(goType reflect.Type) (*registration, error) {
	r.mu.RLock()
	reg, ok := r.byGo[goType]
	r.mu.RUnlock()
	if !ok {
		return nil, &InjectionError{
			Message:     "no type registered for",
			TypeName:    typeName(goType),
			SourceError: ErrNotRegistered,
		}
	}
	return reg, nil
}
