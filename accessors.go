package daicho

// Carrier is the common component-access surface of the two record forms:
// the pooled Record and the Detached record. The package-level generic
// functions (Set, Get, Take, Peek, Mutate, ...) work on either, so code that
// prepares a detached record and code that touches a stored one read the
// same way.
//
// Only types in this package implement Carrier.
type Carrier interface {
	has(id ComponentID) bool
	getPtr(id ComponentID) any
	setVal(id ComponentID, box any)
	take(id ComponentID) any
}

// Set attaches v to c. A payload of type T already present is overwritten in
// place; no fresh pool slot is consumed. The component type must be
// registered.
func Set[T any](c Carrier, v T) {
	c.setVal(GetID[T](), &v)
}

// Get returns a pointer to c's payload of type T, or nil when absent.
// Writing through the pointer edits the stored payload directly.
func Get[T any](c Carrier) *T {
	id, ok := TryGetID[T]()
	if !ok {
		return nil
	}
	p := c.getPtr(id)
	if p == nil {
		return nil
	}
	return p.(*T)
}

// Has reports whether c carries a payload of type T.
func Has[T any](c Carrier) bool {
	id, ok := TryGetID[T]()
	return ok && c.has(id)
}

// Take extracts c's payload of type T, clearing it from the record.
func Take[T any](c Carrier) (T, bool) {
	var zero T
	id, ok := TryGetID[T]()
	if !ok {
		return zero, false
	}
	box := c.take(id)
	if box == nil {
		return zero, false
	}
	return *box.(*T), true
}

// Peek applies fn to a copy of c's payload of type T and returns fn's
// result, or (zero, false) when the payload is absent. It saves callers
// from cloning payloads just to inspect them.
func Peek[T any, R any](c Carrier, fn func(T) R) (R, bool) {
	var zero R
	p := Get[T](c)
	if p == nil {
		return zero, false
	}
	return fn(*p), true
}

// Mutate applies fn to c's payload of type T in place and returns fn's
// result, or (zero, false) when the payload is absent.
func Mutate[T any, R any](c Carrier, fn func(*T) R) (R, bool) {
	var zero R
	p := Get[T](c)
	if p == nil {
		return zero, false
	}
	return fn(p), true
}

// GetOrDefault returns a pointer to c's payload of type T, attaching the
// zero value first when absent.
func GetOrDefault[T any](c Carrier) *T {
	if p := Get[T](c); p != nil {
		return p
	}
	var v T
	Set[T](c, v)
	return Get[T](c)
}

// MutateOrDefault applies fn to c's payload of type T in place, attaching
// the zero value first when absent, and returns fn's result.
func MutateOrDefault[T any, R any](c Carrier, fn func(*T) R) R {
	return fn(GetOrDefault[T](c))
}

type changeKind uint8

const (
	changeNone changeKind = iota
	changeReplace
	changeAdjust
	changeDiscard
)

// Change describes one of four updates ApplyChange can make to a record's
// payload of type T: leave it alone, replace or attach it, adjust it in
// place when present, or discard it. It exists for derived-payload patterns
// where the action depends on the record's current state.
type Change[T any] struct {
	kind  changeKind
	value T
	fn    func(*T)
}

// NoChange leaves the payload untouched.
func NoChange[T any]() Change[T] {
	return Change[T]{kind: changeNone}
}

// Replace attaches v, overwriting any present payload. Works even when no
// payload was present.
func Replace[T any](v T) Change[T] {
	return Change[T]{kind: changeReplace, value: v}
}

// Adjust mutates the payload in place when present and does nothing
// otherwise.
func Adjust[T any](fn func(*T)) Change[T] {
	return Change[T]{kind: changeAdjust, fn: fn}
}

// Discard removes the payload when present.
func Discard[T any]() Change[T] {
	return Change[T]{kind: changeDiscard}
}

// ApplyChange applies the decision fn makes from c's current state. fn runs
// against the record first, then its returned Change is carried out.
func ApplyChange[T any](c Carrier, fn func(Carrier) Change[T]) {
	ch := fn(c)
	switch ch.kind {
	case changeNone:
	case changeReplace:
		Set[T](c, ch.value)
	case changeAdjust:
		if p := Get[T](c); p != nil {
			ch.fn(p)
		}
	case changeDiscard:
		Take[T](c)
	}
}

// AddComponent attaches v to the record at h and updates T's presence bit,
// so queries see the change immediately. It reports whether the payload was
// stored; a stale handle stores nothing and the caller keeps v.
func AddComponent[T any, P any](l *List[P], h Handle, v T) bool {
	r := l.arena.Get(h)
	if r == nil {
		return false
	}
	Set[T](r, v)
	l.presence.set(GetID[T](), h.Index)
	return true
}

// RemoveComponent extracts the payload of type T from the record at h and
// clears T's presence bit. It returns (zero, false) when the handle is stale
// or the payload absent.
func RemoveComponent[T any, P any](l *List[P], h Handle) (T, bool) {
	var zero T
	r := l.arena.Get(h)
	if r == nil {
		return zero, false
	}
	v, ok := Take[T](r)
	if !ok {
		return zero, false
	}
	if id, found := TryGetID[T](); found {
		l.presence.clear(id, h.Index)
	}
	return v, true
}

// GetComponent resolves the payload of type T for the record at h, or nil
// when the handle is stale or the payload absent.
func GetComponent[T any, P any](l *List[P], h Handle) *T {
	r := l.arena.Get(h)
	if r == nil {
		return nil
	}
	return Get[T](r)
}
