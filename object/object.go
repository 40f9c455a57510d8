// Package object provides the managed object model handles that the JIT
// coordination layer operates on.
//
// The runtime proper owns the full object model; this package exposes only
// what compile scheduling needs: opaque references to managed objects and
// method handles with the flags that determine bootstrap eligibility.
//
// External users will often type assert an object.Object to a concrete type
// provided by their bridge implementation:
//
//	switch obj := obj.(type) {
//	case *mybridge.CompilerReceiver:
//		// do something with obj
//	}
package object

// Type of a managed object as a string.
type Type string

// Type constants for the objects that cross the compile protocol.
const (
	COMPILER       Type = "compiler"
	METHOD_WRAPPER Type = "method_wrapper"
	THROWABLE      Type = "throwable"
	NIL            Type = "nil"
)

// Object is an opaque reference to a managed object. Concrete types are
// supplied by the bridge implementation; this layer never inspects their
// contents beyond Type and Inspect.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string
}

// NormalEntry is the sentinel entry offset identifying a method's normal
// entry point. Any non-negative offset identifies an on-stack-replacement
// point instead.
const NormalEntry = -1
