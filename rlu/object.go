package rlu

import "sync/atomic"

// object is the header for every value managed by a Global[T]: the
// original payload plus an atomic pointer that doubles as a lock bit and
// a locator of the current speculative value. An object is locked iff
// copy is non-nil.
type object[T any] struct {
	copy atomic.Pointer[copyRec[T]]
	data T
}

// copyRec is a thread-local speculative draft of an object's data,
// resident in exactly one write log for the lifetime of the writer's
// commit or abort.
type copyRec[T any] struct {
	threadID int
	original *object[T]
	data     T
}

// Ref is an opaque handle to an RLU-managed value of type T. It is safe
// to share across goroutines: all synchronization happens inside the
// Global[T] operations that take a Ref, never by dereferencing the handle
// directly.
type Ref[T any] struct {
	obj *object[T]
}

// IsZero reports whether r is the zero Ref, i.e. was never produced by
// Alloc. Collaborators use this the way a linked structure uses a nil
// next-pointer.
func (r Ref[T]) IsZero() bool {
	return r.obj == nil
}

// Equal reports whether r and o refer to the same underlying object.
// Collaborators that validate a traversal after acquiring a lock (the
// standard "did anything change between my read and my lock" check in a
// lock-coupled list) use this to compare a Ref captured before locking
// against one read back from the now-locked copy.
func (r Ref[T]) Equal(o Ref[T]) bool {
	return r.obj == o.obj
}
