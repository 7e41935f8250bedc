package injector

import (
	"sync"
)

// Guard keeps the blocked flag for every type it has been told about. The flags live in the
// guard rather than on the types, so independent guards (and the registries that own them)
// never see each other's state. A type the guard has never seen is unblocked.
//
// Block, Unblock and AssertInstantiable are individually safe for concurrent use, but the
// unblock, construct, reblock sequence is not atomic when a caller performs it by hand. Use
// Construct, or serialize the sequence externally.
type Guard struct {
	blocked sync.Map // *Type -> struct{}

	// types opened by Construct calls still in progress, with their nesting count
	openMu sync.Mutex
	open   map[*Type]int

	opts options
}

// NewGuard creates a guard with no blocked types.
func NewGuard(opts ...Option) *Guard {
	return newGuard(buildOptions(opts))
}

func newGuard(o options) *Guard {
	return &Guard{
		open: map[*Type]int{},
		opts: o,
	}
}

// Block rejects any further construction through wrappers of t.
func (g *Guard) Block(t *Type) {
	g.blocked.Store(t, struct{}{})
}

// Unblock allows construction through wrappers of t again.
func (g *Guard) Unblock(t *Type) {
	g.blocked.Delete(t)
}

// IsBlocked reports the current state of t's flag.
func (g *Guard) IsBlocked(t *Type) bool {
	_, blocked := g.blocked.Load(t)
	return blocked
}

// AssertInstantiable returns ErrConstructionBlocked if t is currently blocked and no
// Construct call has it open.
func (g *Guard) AssertInstantiable(t *Type) error {
	if !g.IsBlocked(t) || g.isOpen(t) {
		return nil
	}
	g.opts.logger.Debug("rejected direct construction of blocked type", "type", t.String())
	return &InjectionError{
		Message:     "can not instantiate, construction is only allowed through the registry",
		TypeName:    t.String(),
		SourceError: ErrConstructionBlocked,
	}
}

// Instrument creates a synthetic wrapper around source. Constructing the wrapper runs the
// full constructor chain of source and then fails with ErrConstructionBlocked if source is
// blocked in this guard.
//
// Note the ordering: unless the guard was created WithEagerCheck, the source constructor and
// its side effects run to completion before the block is detected, and the instance is then
// thrown away.
func (g *Guard) Instrument(source *Type) (*Type, error) {
	if err := CheckType(source); err != nil {
		return nil, err
	}
	wrapper := &Type{
		name:   WrapperName,
		parent: source,
		goType: source.goType,
	}
	wrapper.ctor = func(args ...any) (any, error) {
		if g.opts.eagerCheck {
			if err := g.AssertInstantiable(source); err != nil {
				return nil, err
			}
			return source.New(args...)
		}
		instance, err := source.New(args...)
		if err != nil {
			return nil, err
		}
		if err := g.AssertInstantiable(source); err != nil {
			return nil, err
		}
		return instance, nil
	}
	if g.opts.blockOnInstrument {
		g.Block(source)
	}
	g.opts.logger.Debug("instrumented type", "type", source.String())
	return wrapper, nil
}

// Construct is the controlled construction path: every type in t's chain is treated as
// unblocked for the duration of the call, and the blocked flags themselves are left
// untouched. Calls may nest, so a constructor can Construct further instances of its own
// type, and concurrent calls never see each other's reblock.
//
// Direct construction through t.New by other goroutines is not excluded and may slip through
// while the chain is open.
func (g *Guard) Construct(t *Type, args ...any) (any, error) {
	if err := CheckType(t); err != nil {
		return nil, err
	}
	var chain []*Type
	for c := t; c != nil; c = c.parent {
		chain = append(chain, c)
	}

	g.openMu.Lock()
	for _, c := range chain {
		g.open[c]++
	}
	g.openMu.Unlock()
	defer func() {
		g.openMu.Lock()
		for _, c := range chain {
			if g.open[c]--; g.open[c] == 0 {
				delete(g.open, c)
			}
		}
		g.openMu.Unlock()
	}()

	g.opts.logger.Debug("constructing", "type", t.String(), "depth", len(chain))
	return t.New(args...)
}

func (g *Guard) isOpen(t *Type) bool {
	g.openMu.Lock()
	defer g.openMu.Unlock()
	return g.open[t] > 0
}
