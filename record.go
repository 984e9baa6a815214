package daicho

// Record is the pooled, in-collection form of an entity: its properties by
// value plus, per component type, a handle into the owning List's shared
// pools. Records are created by List.Insert and live inside the List's
// arena; pointers to them come from List.Get and the iterators.
//
// Adding or removing components through a Record pointer leaves the List's
// presence index untouched; call List.Refresh (or use List.MutateRecord,
// AddComponent, RemoveComponent) to keep queries in agreement.
type Record[P any] struct {
	// Props holds the record's mandatory fields.
	Props P

	refs  []uint32 // pool handle per ComponentID; noIndex when absent
	pools *poolSet
}

// ref returns the pool handle for id, if the record carries it.
func (r *Record[P]) ref(id ComponentID) (uint32, bool) {
	if int(id) >= len(r.refs) {
		return 0, false
	}
	h := r.refs[id]
	if h == noIndex {
		return 0, false
	}
	return h, true
}

// storeRef records the pool handle for id, growing refs as needed.
func (r *Record[P]) storeRef(id ComponentID, h uint32) {
	if int(id) >= len(r.refs) {
		old := len(r.refs)
		r.refs = extendSlice(r.refs, int(id)+1-old)
		for i := old; i < len(r.refs); i++ {
			r.refs[i] = noIndex
		}
	}
	r.refs[id] = h
}

func (r *Record[P]) has(id ComponentID) bool {
	_, ok := r.ref(id)
	return ok
}

func (r *Record[P]) getPtr(id ComponentID) any {
	h, ok := r.ref(id)
	if !ok {
		return nil
	}
	return r.pools.pool(id).ptrAt(h)
}

func (r *Record[P]) setVal(id ComponentID, box any) {
	if h, ok := r.ref(id); ok {
		r.pools.pool(id).setAt(h, box)
		return
	}
	r.storeRef(id, r.pools.pool(id).insertBox(box))
}

func (r *Record[P]) take(id ComponentID) any {
	h, ok := r.ref(id)
	if !ok {
		return nil
	}
	r.refs[id] = noIndex
	return r.pools.pool(id).removeAt(h)
}

// eachActive calls fn for every component the record carries, ascending by
// ID, with the payload's pool handle.
func (r *Record[P]) eachActive(fn func(id ComponentID, poolHandle uint32)) {
	for i, h := range r.refs {
		if h != noIndex {
			fn(ComponentID(i), h)
		}
	}
}

// HasComponent reports whether the record carries the component with id.
func (r *Record[P]) HasComponent(id ComponentID) bool {
	return r.has(id)
}

// ComponentIDs returns the IDs of the component types the record currently
// carries, ascending.
func (r *Record[P]) ComponentIDs() []ComponentID {
	var ids []ComponentID
	r.eachActive(func(id ComponentID, _ uint32) {
		ids = append(ids, id)
	})
	return ids
}
