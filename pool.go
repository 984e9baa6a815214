package daicho

import (
	"fmt"

	"github.com/edwinsyarief/daicho/codec"
)

// poolSlot is one pool entry; next links the free list while vacant.
type poolSlot[T any] struct {
	value    T
	next     uint32
	occupied bool
}

// Pool stores payloads of one component type compactly, keyed by small
// integer handles with no generation: the owning record is the only
// authority on whether a pool handle is live. Freed slots are recycled most
// recently freed first.
type Pool[T any] struct {
	entries  []poolSlot[T]
	freeHead uint32
	length   int
}

// NewPool creates an empty pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{freeHead: noIndex}
}

// Insert stores v and returns its pool handle.
func (p *Pool[T]) Insert(v T) uint32 {
	if p.freeHead == noIndex {
		idx := len(p.entries)
		if uint64(idx) >= uint64(noIndex) {
			panic("daicho: pool index space exhausted")
		}
		p.entries = append(p.entries, poolSlot[T]{value: v, next: noIndex, occupied: true})
		p.length++
		return uint32(idx)
	}
	idx := p.freeHead
	s := &p.entries[idx]
	p.freeHead = s.next
	s.value = v
	s.occupied = true
	p.length++
	return idx
}

// Get returns a pointer to the payload at h, or nil when the slot is vacant
// or out of bounds.
func (p *Pool[T]) Get(h uint32) *T {
	if int(h) >= len(p.entries) {
		return nil
	}
	s := &p.entries[h]
	if !s.occupied {
		return nil
	}
	return &s.value
}

// Remove frees the slot at h and returns its payload. The caller must know
// the handle is live; removing a vacant slot is a contract violation and
// panics.
func (p *Pool[T]) Remove(h uint32) T {
	if int(h) >= len(p.entries) || !p.entries[h].occupied {
		panic(fmt.Sprintf("daicho: pool remove of vacant slot %d", h))
	}
	var zero T
	s := &p.entries[h]
	v := s.value
	s.value = zero
	s.occupied = false
	s.next = p.freeHead
	p.freeHead = h
	p.length--
	return v
}

// Len returns the number of stored payloads.
func (p *Pool[T]) Len() int {
	return p.length
}

// anyPool is the type-erased view of a Pool, used by the aggregate where the
// concrete payload type is known only to the registry. Boxes passed through
// it are always *T for the pool's payload type.
type anyPool interface {
	insertBox(box any) uint32
	setAt(h uint32, box any)
	ptrAt(h uint32) any
	removeAt(h uint32) any
	has(h uint32) bool
	count() int
	cloneAny() anyPool
	reset()
	encode(c codec.Codec) (poolSnapshot, error)
	decode(s poolSnapshot, c codec.Codec) error
}

func (p *Pool[T]) insertBox(box any) uint32 {
	return p.Insert(*box.(*T))
}

func (p *Pool[T]) setAt(h uint32, box any) {
	v := p.Get(h)
	if v == nil {
		panic(fmt.Sprintf("daicho: pool write to vacant slot %d", h))
	}
	*v = *box.(*T)
}

func (p *Pool[T]) ptrAt(h uint32) any {
	v := p.Get(h)
	if v == nil {
		return nil
	}
	return v
}

func (p *Pool[T]) removeAt(h uint32) any {
	v := p.Remove(h)
	return &v
}

func (p *Pool[T]) has(h uint32) bool {
	return p.Get(h) != nil
}

func (p *Pool[T]) count() int {
	return p.length
}

func (p *Pool[T]) cloneAny() anyPool {
	c := &Pool[T]{freeHead: p.freeHead, length: p.length}
	c.entries = make([]poolSlot[T], len(p.entries))
	copy(c.entries, p.entries)
	return c
}

func (p *Pool[T]) reset() {
	p.entries = p.entries[:0]
	p.freeHead = noIndex
	p.length = 0
}

func (p *Pool[T]) encode(c codec.Codec) (poolSnapshot, error) {
	snap := poolSnapshot{
		Entries:  make([]poolEntrySnapshot, len(p.entries)),
		FreeHead: indexToPtr(p.freeHead),
		Length:   p.length,
	}
	for i := range p.entries {
		s := &p.entries[i]
		if !s.occupied {
			snap.Entries[i].Next = indexToPtr(s.next)
			continue
		}
		raw, err := c.Marshal(s.value)
		if err != nil {
			return poolSnapshot{}, fmt.Errorf("encode pool entry %d: %w", i, err)
		}
		snap.Entries[i].Value = raw
	}
	return snap, nil
}

func (p *Pool[T]) decode(s poolSnapshot, c codec.Codec) error {
	p.entries = make([]poolSlot[T], len(s.Entries))
	p.freeHead = ptrToIndex(s.FreeHead)
	p.length = s.Length
	for i, es := range s.Entries {
		if es.Value == nil {
			p.entries[i].next = ptrToIndex(es.Next)
			continue
		}
		if err := c.Unmarshal(es.Value, &p.entries[i].value); err != nil {
			return fmt.Errorf("decode pool entry %d: %w", i, err)
		}
		p.entries[i].occupied = true
		p.entries[i].next = noIndex
	}
	return nil
}

// poolSet is the component-pool aggregate shared by every pooled record of
// one List: at most one pool per component ID, created on first use. The
// mask remembers which IDs have a live pool so clone, reset and snapshot
// walk only those.
type poolSet struct {
	pools [maxComponentTypes]anyPool
	mask  bitmask256
}

// pool returns the pool for id, creating it through the registry on first
// use.
func (ps *poolSet) pool(id ComponentID) anyPool {
	if p := ps.pools[id]; p != nil {
		return p
	}
	p := newPoolFor(id)
	ps.pools[id] = p
	ps.mask.set(uint8(id))
	return p
}

// poolIfLive returns the pool for id, or nil when none was ever created.
func (ps *poolSet) poolIfLive(id ComponentID) anyPool {
	return ps.pools[id]
}

// eachID calls fn for every component ID with a live pool, ascending.
func (ps *poolSet) eachID(fn func(ComponentID)) {
	ps.mask.eachBit(func(bit uint8) {
		fn(ComponentID(bit))
	})
}

// clone deep-copies every live pool.
func (ps *poolSet) clone() *poolSet {
	c := &poolSet{mask: ps.mask}
	ps.eachID(func(id ComponentID) {
		c.pools[id] = ps.pools[id].cloneAny()
	})
	return c
}

// reset empties every live pool, keeping the pools themselves.
func (ps *poolSet) reset() {
	ps.eachID(func(id ComponentID) {
		ps.pools[id].reset()
	})
}
