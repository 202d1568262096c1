// Package env implements the lexically-scoped environment chain that backs
// variable storage: a generic frame of name → value bindings with a link to
// its enclosing frame.
package env

import "github.com/dolthub/swiss"

// defaultCap is the initial table size for a frame whose binding count
// isn't known up front (a bare block, the REPL's global frame).
const defaultCap = 8

// Environment is one frame in the scope chain. The zero value is not
// usable; construct with New or NewEnclosed. V is the runtime value type
// (interp.Value); kept generic here so this package has no dependency on
// the interpreter's value representation.
type Environment[V any] struct {
	values    *swiss.Map[string, V]
	enclosing *Environment[V]
}

// New creates a frame with no enclosing scope (the global frame), sized for
// an expected number of top-level bindings.
func New[V any](sizeHint int) *Environment[V] {
	if sizeHint <= 0 {
		sizeHint = defaultCap
	}
	return &Environment[V]{values: swiss.NewMap[string, V](uint32(sizeHint))}
}

// NewEnclosed creates a frame whose enclosing scope is parent, sized for an
// expected number of bindings (e.g. a function's parameter count).
func NewEnclosed[V any](parent *Environment[V], sizeHint int) *Environment[V] {
	e := New[V](sizeHint)
	e.enclosing = parent
	return e
}

// Enclosing returns the parent frame, or nil for the global frame.
func (e *Environment[V]) Enclosing() *Environment[V] { return e.enclosing }

// Define binds name in this frame, always writing here even if name shadows
// an enclosing binding. Redefining a name already present in this frame
// simply overwrites it — callers that must reject redeclaration (the
// resolver, for local scopes) check before calling Define.
func (e *Environment[V]) Define(name string, value V) {
	e.values.Put(name, value)
}

// Get looks up name starting in this frame and walking outward. ok is false
// if no frame in the chain defines name.
func (e *Environment[V]) Get(name string) (value V, ok bool) {
	for frame := e; frame != nil; frame = frame.enclosing {
		if v, found := frame.values.Get(name); found {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// GetAt reads name directly from the frame `distance` links out from e,
// skipping the normal walk — the resolver's fast path. The name is assumed
// to exist at that frame (the resolver only ever records a distance for a
// name it found declared there).
func (e *Environment[V]) GetAt(distance int, name string) (value V, ok bool) {
	frame := e.ancestor(distance)
	return frame.values.Get(name)
}

// Assign writes value into the first frame (starting at e, walking
// outward) that already defines name. ok is false if no frame defines it.
func (e *Environment[V]) Assign(name string, value V) (ok bool) {
	for frame := e; frame != nil; frame = frame.enclosing {
		if frame.values.Has(name) {
			frame.values.Put(name, value)
			return true
		}
	}
	return false
}

// AssignAt writes value directly into the frame `distance` links out from
// e, the resolver's fast path for assignment.
func (e *Environment[V]) AssignAt(distance int, name string, value V) {
	e.ancestor(distance).values.Put(name, value)
}

func (e *Environment[V]) ancestor(distance int) *Environment[V] {
	frame := e
	for i := 0; i < distance; i++ {
		frame = frame.enclosing
	}
	return frame
}
