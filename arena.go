package daicho

import (
	"iter"
	"math"
)

// noIndex is the free-list terminator and the "no reference" sentinel shared
// by arena slots, pool slots and record refs.
const noIndex = ^uint32(0)

const (
	defaultArenaCapacity = 32
	minReserve           = 8
)

// slot is one arena entry. While occupied, generation is the handle
// generation stamped at insertion. While free, generation is the value the
// next occupant will be stamped with and next links the free list.
type slot[T any] struct {
	value      T
	generation uint32
	next       uint32
	occupied   bool
}

// Arena is a generational slot allocator. Push stores a value in a free slot
// and returns a Handle; the slot's generation advances every time a value is
// removed, so handles from before the removal no longer resolve. Slots are
// recycled through an intrusive free list, most recently freed first.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	entries  []slot[T]
	freeHead uint32
	length   int
}

// NewArena creates an arena with capacity pre-linked free slots.
// A capacity of zero or less means the default of 32.
func NewArena[T any](capacity int) *Arena[T] {
	if capacity <= 0 {
		capacity = defaultArenaCapacity
	}
	a := &Arena[T]{freeHead: noIndex}
	a.Reserve(capacity)
	return a
}

// Reserve grows the arena by n additional free slots, linked ahead of the
// current free list so they are handed out first, in ascending index order.
func (a *Arena[T]) Reserve(n int) {
	if n <= 0 {
		return
	}
	start := len(a.entries)
	if uint64(start)+uint64(n) >= uint64(noIndex) {
		panic("daicho: arena index space exhausted")
	}
	a.entries = extendSlice(a.entries, n)
	for i := start; i < start+n; i++ {
		e := &a.entries[i]
		if i == start+n-1 {
			e.next = a.freeHead
		} else {
			e.next = uint32(i + 1)
		}
	}
	a.freeHead = uint32(start)
}

// Push stores v in a free slot and returns its handle. When no free slot is
// left the arena grows by max(len, 8) slots first.
func (a *Arena[T]) Push(v T) Handle {
	if a.freeHead == noIndex {
		a.Reserve(max(len(a.entries), minReserve))
	}
	idx := a.freeHead
	e := &a.entries[idx]
	a.freeHead = e.next
	e.value = v
	e.occupied = true
	a.length++
	return Handle{Index: idx, Generation: e.generation}
}

// Remove frees the slot h points at and returns its value. A stale or
// out-of-bounds handle removes nothing and reports false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	if int(h.Index) >= len(a.entries) {
		return zero, false
	}
	e := &a.entries[h.Index]
	if !e.occupied || e.generation != h.Generation {
		return zero, false
	}
	if e.generation == math.MaxUint32 {
		panic("daicho: slot generation exhausted")
	}
	v := e.value
	e.value = zero
	e.generation++
	e.next = a.freeHead
	e.occupied = false
	a.freeHead = h.Index
	a.length--
	return v, true
}

// Get returns a pointer to the value h points at, or nil when h is stale or
// out of bounds. The pointer stays valid until the arena next grows or the
// slot is removed.
func (a *Arena[T]) Get(h Handle) *T {
	if int(h.Index) >= len(a.entries) {
		return nil
	}
	e := &a.entries[h.Index]
	if !e.occupied || e.generation != h.Generation {
		return nil
	}
	return &e.value
}

// Contains reports whether h currently resolves.
func (a *Arena[T]) Contains(h Handle) bool {
	return a.Get(h) != nil
}

// GetRaw returns the value and live generation at index without a generation
// check, for callers that already know the index came from a live source.
// ok is false when the slot is vacant or out of bounds.
func (a *Arena[T]) GetRaw(index uint32) (*T, uint32, bool) {
	if int(index) >= len(a.entries) {
		return nil, 0, false
	}
	e := &a.entries[index]
	if !e.occupied {
		return nil, 0, false
	}
	return &e.value, e.generation, true
}

// Clear frees every slot, relinking the free list in index order. Slots that
// were occupied get their generation bumped, so handles issued before the
// clear never resolve again.
func (a *Arena[T]) Clear() {
	var zero T
	n := len(a.entries)
	for i := range a.entries {
		e := &a.entries[i]
		if e.occupied {
			if e.generation == math.MaxUint32 {
				panic("daicho: slot generation exhausted")
			}
			e.generation++
			e.occupied = false
			e.value = zero
		}
		if i == n-1 {
			e.next = noIndex
		} else {
			e.next = uint32(i + 1)
		}
	}
	if n > 0 {
		a.freeHead = 0
	} else {
		a.freeHead = noIndex
	}
	a.length = 0
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	return a.length
}

// Cap returns the total number of slots, occupied and free.
func (a *Arena[T]) Cap() int {
	return len(a.entries)
}

// Iter returns an iterator over occupied slots in ascending index order.
func (a *Arena[T]) Iter() *ArenaIter[T] {
	return &ArenaIter[T]{arena: a, cur: -1}
}

// All returns a range-over-func iterator over (Handle, value pointer) pairs,
// in ascending index order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range a.entries {
			e := &a.entries[i]
			if !e.occupied {
				continue
			}
			if !yield(Handle{Index: uint32(i), Generation: e.generation}, &e.value) {
				return
			}
		}
	}
}

// clone copies entries, free list and length. The caller owns any deep
// fix-up the value type needs.
func (a *Arena[T]) clone() *Arena[T] {
	c := &Arena[T]{freeHead: a.freeHead, length: a.length}
	c.entries = make([]slot[T], len(a.entries))
	copy(c.entries, a.entries)
	return c
}

// ArenaIter walks an arena's occupied slots in ascending index order. Each
// Next advances to a strictly larger index, so the value pointers it hands
// out never alias each other.
type ArenaIter[T any] struct {
	arena *Arena[T]
	index int
	cur   int
}

// Next advances to the next occupied slot, reporting whether one was found.
func (it *ArenaIter[T]) Next() bool {
	for it.index < len(it.arena.entries) {
		i := it.index
		it.index++
		if it.arena.entries[i].occupied {
			it.cur = i
			return true
		}
	}
	it.cur = -1
	return false
}

// Handle returns the handle of the current slot.
func (it *ArenaIter[T]) Handle() Handle {
	e := &it.arena.entries[it.cur]
	return Handle{Index: uint32(it.cur), Generation: e.generation}
}

// Value returns a pointer to the current slot's value.
func (it *ArenaIter[T]) Value() *T {
	return &it.arena.entries[it.cur].value
}

// Reset rewinds the iterator for reuse.
func (it *ArenaIter[T]) Reset() {
	it.index = 0
	it.cur = -1
}
