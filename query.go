package daicho

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

const outOfDateBitset = "daicho: component bitset out of date: bitset claims slot %d but no record exists there; add and remove components via the List methods or call Refresh"

// Iter walks a List's records: either every occupied slot in ascending
// index order (full scan), or only the slots whose presence bits satisfy a
// conjunction of component types. Composition is AND-only; there is no OR or
// NOT form.
//
// Payloads and properties may be mutated through the yielded record, but the
// List must not change structurally (Insert, Remove, Clear) while the
// iterator is live.
type Iter[P any] struct {
	list   *List[P]
	ids    []ComponentID
	drive  roaring.IntPeekable
	rest   []*roaring.Bitmap
	scan   int
	cur    uint32
	curGen uint32
	curRec *Record[P]
}

// IterAll returns an iterator over every record, ignoring component
// presence.
func (l *List[P]) IterAll() *Iter[P] {
	return l.Query()
}

// Query returns an iterator over the records carrying every one of the given
// component types. The smallest presence bitmap drives the walk and the
// remaining bitmaps are probed per candidate, so the conjunction is never
// materialized. With no IDs the query degenerates to a full scan.
func (l *List[P]) Query(ids ...ComponentID) *Iter[P] {
	it := &Iter[P]{list: l, ids: ids}
	it.Reset()
	return it
}

// Reset rewinds the iterator for reuse, re-reading the presence bitmaps.
func (it *Iter[P]) Reset() {
	it.scan = 0
	it.curRec = nil
	it.drive = nil
	it.rest = it.rest[:0]
	if len(it.ids) == 0 {
		return
	}
	bms := make([]*roaring.Bitmap, len(it.ids))
	smallest := 0
	for i, id := range it.ids {
		b := it.list.presence.bitmap(id)
		if b == nil || b.IsEmpty() {
			return // one empty set empties the conjunction; drive stays nil
		}
		bms[i] = b
		if b.GetCardinality() < bms[smallest].GetCardinality() {
			smallest = i
		}
	}
	it.drive = bms[smallest].Iterator()
	for i, b := range bms {
		if i != smallest {
			it.rest = append(it.rest, b)
		}
	}
}

// Next advances to the next matching record, reporting whether one was
// found. It panics if a presence bit points at a vacant slot; that means
// the index and the record storage have desynchronized.
func (it *Iter[P]) Next() bool {
	if len(it.ids) == 0 {
		return it.nextScan()
	}
	if it.drive == nil {
		return false
	}
candidates:
	for it.drive.HasNext() {
		idx := it.drive.Next()
		for _, b := range it.rest {
			if !b.Contains(idx) {
				continue candidates
			}
		}
		rec, gen, ok := it.list.arena.GetRaw(idx)
		if !ok {
			panic(fmt.Sprintf(outOfDateBitset, idx))
		}
		it.cur, it.curGen, it.curRec = idx, gen, rec
		return true
	}
	it.curRec = nil
	return false
}

func (it *Iter[P]) nextScan() bool {
	entries := it.list.arena.entries
	for it.scan < len(entries) {
		i := it.scan
		it.scan++
		if entries[i].occupied {
			it.cur = uint32(i)
			it.curGen = entries[i].generation
			it.curRec = &entries[i].value
			return true
		}
	}
	it.curRec = nil
	return false
}

// Handle returns the handle of the current record.
func (it *Iter[P]) Handle() Handle {
	return Handle{Index: it.cur, Generation: it.curGen}
}

// Record returns the current record.
func (it *Iter[P]) Record() *Record[P] {
	return it.curRec
}

// SingleIter walks the records carrying component type T, resolving each
// record's payload straight from T's pool alongside the record itself. It
// saves the second indirection through the record that Query would cost for
// the common single-type case. For mutation with more than the payload, use
// Query with one ID.
//
// Records whose presence bit is stale because a payload was taken without a
// Refresh are skipped: there is no payload left to yield.
type SingleIter[T any, P any] struct {
	list   *List[P]
	pool   *Pool[T]
	id     ComponentID
	dead   bool
	drive  roaring.IntPeekable
	cur    uint32
	curGen uint32
	curRec *Record[P]
	curVal *T
}

// IterSingle returns a SingleIter over l for component type T.
func IterSingle[T any, P any](l *List[P]) *SingleIter[T, P] {
	it := &SingleIter[T, P]{list: l}
	id, ok := TryGetID[T]()
	if !ok {
		it.dead = true
		return it
	}
	it.id = id
	it.Reset()
	return it
}

// Reset rewinds the iterator for reuse, re-reading T's presence bitmap.
func (it *SingleIter[T, P]) Reset() {
	it.drive = nil
	it.curRec = nil
	it.curVal = nil
	if it.dead {
		return
	}
	ap := it.list.pools.poolIfLive(it.id)
	b := it.list.presence.bitmap(it.id)
	if ap == nil || b == nil || b.IsEmpty() {
		return
	}
	it.pool = ap.(*Pool[T])
	it.drive = b.Iterator()
}

// Next advances to the next record carrying T, reporting whether one was
// found. It panics if a presence bit points at a vacant slot.
func (it *SingleIter[T, P]) Next() bool {
	if it.drive == nil {
		return false
	}
	for it.drive.HasNext() {
		idx := it.drive.Next()
		rec, gen, ok := it.list.arena.GetRaw(idx)
		if !ok {
			panic(fmt.Sprintf(outOfDateBitset, idx))
		}
		ph, live := rec.ref(it.id)
		if !live {
			continue // stale bit, payload already detached
		}
		it.cur, it.curGen, it.curRec = idx, gen, rec
		it.curVal = it.pool.Get(ph)
		return true
	}
	it.curRec = nil
	it.curVal = nil
	return false
}

// Handle returns the handle of the current record.
func (it *SingleIter[T, P]) Handle() Handle {
	return Handle{Index: it.cur, Generation: it.curGen}
}

// Record returns the current record.
func (it *SingleIter[T, P]) Record() *Record[P] {
	return it.curRec
}

// Value returns the current record's payload of type T.
func (it *SingleIter[T, P]) Value() *T {
	return it.curVal
}
