package daicho

// List owns the record storage for one collection of entities: a
// generational arena of pooled records, the shared component pools every
// record resolves payloads through, and the per-type presence index the
// query engine runs on. The arena, pools and index live and die with the
// List.
//
// A List is not safe for concurrent use.
type List[P any] struct {
	arena     *Arena[Record[P]]
	pools     *poolSet
	presence  presenceIndex
	resources Resources
	bus       *EventBus
}

// NewList creates an empty List with capacity for initialCapacity records.
// A capacity of zero or less means the arena default of 32.
func NewList[P any](initialCapacity int) *List[P] {
	return &List[P]{
		arena: NewArena[Record[P]](initialCapacity),
		pools: &poolSet{},
	}
}

// Insert migrates d's payloads into the shared pools, stores the pooled
// record, and stamps its presence bits. The detached record is drained:
// after Insert it carries no components and may be reused as a fresh one.
func (l *List[P]) Insert(d *Detached[P]) Handle {
	rec := Record[P]{Props: d.Props, pools: l.pools}
	if n := len(d.boxes); n > 0 {
		rec.refs = make([]uint32, n)
		for i := range rec.refs {
			rec.refs[i] = noIndex
		}
		for i, box := range d.boxes {
			if box == nil {
				continue
			}
			rec.refs[i] = l.pools.pool(ComponentID(i)).insertBox(box)
		}
		d.boxes = nil
	}
	h := l.arena.Push(rec)
	stored := l.arena.Get(h)
	stored.eachActive(func(id ComponentID, _ uint32) {
		l.presence.set(id, h.Index)
	})
	if l.bus != nil {
		Publish(l.bus, InsertEvent{Handle: h})
	}
	return h
}

// Remove deletes the record at h, draining its pooled payloads back into a
// detached record that the caller now owns. A stale handle removes nothing
// and returns (nil, false).
func (l *List[P]) Remove(h Handle) (*Detached[P], bool) {
	rec, ok := l.arena.Remove(h)
	if !ok {
		return nil, false
	}
	d := &Detached[P]{Props: rec.Props}
	if len(rec.refs) > 0 {
		d.boxes = make([]any, len(rec.refs))
		rec.eachActive(func(id ComponentID, poolHandle uint32) {
			d.boxes[id] = l.pools.pool(id).removeAt(poolHandle)
			l.presence.clear(id, h.Index)
		})
	}
	if l.bus != nil {
		Publish(l.bus, RemoveEvent{Handle: h})
	}
	return d, true
}

// Get returns the record at h, or nil when the handle is stale. The pointer
// stays valid until the List's storage next changes structurally.
func (l *List[P]) Get(h Handle) *Record[P] {
	return l.arena.Get(h)
}

// Contains reports whether h currently resolves.
func (l *List[P]) Contains(h Handle) bool {
	return l.arena.Contains(h)
}

// Len returns the number of stored records.
func (l *List[P]) Len() int {
	return l.arena.Len()
}

// Refresh re-derives the presence bits at h's index from the record's
// current component set. Call it after adding or removing components
// through a record pointer; Insert, Remove, AddComponent and
// RemoveComponent keep the index synchronized on their own. A stale handle
// refreshes nothing.
func (l *List[P]) Refresh(h Handle) {
	rec := l.arena.Get(h)
	if rec == nil {
		return
	}
	for id := ComponentID(0); id < registeredCount(); id++ {
		if rec.has(id) {
			l.presence.set(id, h.Index)
		} else {
			l.presence.clear(id, h.Index)
		}
	}
}

// MutateRecord runs fn against the record at h, then refreshes its presence
// bits, so fn may attach and detach components freely without leaving
// queries behind. It reports whether the handle resolved.
func (l *List[P]) MutateRecord(h Handle, fn func(*Record[P])) bool {
	rec := l.arena.Get(h)
	if rec == nil {
		return false
	}
	fn(rec)
	l.Refresh(h)
	return true
}

// Clear removes every record, empties the pools and drops the presence
// bitmaps. Handles issued before the clear never resolve again.
func (l *List[P]) Clear() {
	l.arena.Clear()
	l.pools.reset()
	l.presence.reset()
}

// Clone returns a structural deep copy: cloned arena entries, deep-cloned
// pools and presence bitmaps, with every cloned record re-pointed at the new
// pool aggregate. No shared mutable state survives between a List and its
// clone. Payloads and properties are copied by value.
//
// The clone starts with no event bus and an empty resource registry.
func (l *List[P]) Clone() *List[P] {
	c := &List[P]{
		arena: l.arena.clone(),
		pools: l.pools.clone(),
	}
	for i := range c.arena.entries {
		e := &c.arena.entries[i]
		if !e.occupied {
			continue
		}
		e.value.pools = c.pools
		e.value.refs = append([]uint32(nil), e.value.refs...)
	}
	c.presence = l.presence.clone()
	return c
}

// Resources returns the List-scoped resource registry.
func (l *List[P]) Resources() *Resources {
	return &l.resources
}

// SetBus attaches an event bus: Insert and Remove then publish InsertEvent
// and RemoveEvent synchronously. A nil bus detaches it.
func (l *List[P]) SetBus(bus *EventBus) {
	l.bus = bus
}
