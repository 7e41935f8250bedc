// Package injector provides the construction guard and lazy property plumbing that sits
// underneath a dependency injection container.
//
// A Type describes something that can be constructed. A Guard can Instrument a Type, which
// produces a synthetic wrapper Type whose construction is refused while the original is
// blocked. The container hands out the wrapper, keeps the original blocked, and opens it
// only for its own controlled construction path (see Guard.Construct). GetConstructorFromType
// walks back through any number of wrappers to find the originally registered Type.
//
// Injectable fields are declared as Lazy[T] struct fields. InjectProperty binds an
// InstanceFactory to such a field for every instance a Type produces, and the factory is
// called at most once per instance, on first read.
//
// The Registry type ties all of this together for callers that do not want to manage a
// Guard themselves.
package injector
