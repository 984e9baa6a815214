package daicho

// Detached is a record outside any List: its properties plus owned component
// payloads. Build one with NewDetached and the With chain (or Set), then
// hand it to List.Insert, which migrates the payloads into the List's pools
// and drains the detached form. List.Remove produces one the same way,
// returning ownership of the removed record's payloads to the caller.
type Detached[P any] struct {
	// Props holds the record's mandatory fields.
	Props P

	boxes []any // *T per ComponentID; nil when absent
}

// NewDetached creates a detached record with the given properties and no
// components.
func NewDetached[P any](props P) *Detached[P] {
	return &Detached[P]{Props: props}
}

func (d *Detached[P]) has(id ComponentID) bool {
	return int(id) < len(d.boxes) && d.boxes[id] != nil
}

func (d *Detached[P]) getPtr(id ComponentID) any {
	if !d.has(id) {
		return nil
	}
	return d.boxes[id]
}

func (d *Detached[P]) setVal(id ComponentID, box any) {
	if int(id) >= len(d.boxes) {
		d.boxes = extendSlice(d.boxes, int(id)+1-len(d.boxes))
	}
	d.boxes[id] = box
}

func (d *Detached[P]) take(id ComponentID) any {
	if !d.has(id) {
		return nil
	}
	box := d.boxes[id]
	d.boxes[id] = nil
	return box
}

// ComponentIDs returns the IDs of the component types the detached record
// currently carries, ascending.
func (d *Detached[P]) ComponentIDs() []ComponentID {
	var ids []ComponentID
	for i, box := range d.boxes {
		if box != nil {
			ids = append(ids, ComponentID(i))
		}
	}
	return ids
}

// With attaches v, overwriting any payload of the same type, and returns d
// for chaining.
func With[T any, P any](d *Detached[P], v T) *Detached[P] {
	Set[T](d, v)
	return d
}

// WithMutation applies fn to d's payload of type T if present and returns d
// for chaining. Absent payloads are left absent.
func WithMutation[T any, P any](d *Detached[P], fn func(*T)) *Detached[P] {
	if p := Get[T](d); p != nil {
		fn(p)
	}
	return d
}

// WithMutationOrDefault applies fn to d's payload of type T, attaching the
// zero value first when absent, and returns d for chaining.
func WithMutationOrDefault[T any, P any](d *Detached[P], fn func(*T)) *Detached[P] {
	fn(GetOrDefault[T](d))
	return d
}

// Without removes any payload of type T and returns d for chaining.
func Without[T any, P any](d *Detached[P]) *Detached[P] {
	Take[T](d)
	return d
}
