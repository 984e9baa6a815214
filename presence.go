package daicho

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// presenceIndex caches, per component type, the set of occupied slot indices
// whose record carries that component. List mutations keep it synchronized;
// the query engine reads it. Bitmaps are created on first set, so a type
// never attached in this List simply has none, which queries treat as the
// empty set.
type presenceIndex struct {
	bits [maxComponentTypes]*roaring.Bitmap
}

// set marks slot index as carrying component id.
func (pi *presenceIndex) set(id ComponentID, index uint32) {
	b := pi.bits[id]
	if b == nil {
		b = roaring.New()
		pi.bits[id] = b
	}
	b.Add(index)
}

// clear unmarks slot index for component id.
func (pi *presenceIndex) clear(id ComponentID, index uint32) {
	if b := pi.bits[id]; b != nil {
		b.Remove(index)
	}
}

// contains reports whether slot index is marked for component id.
func (pi *presenceIndex) contains(id ComponentID, index uint32) bool {
	b := pi.bits[id]
	return b != nil && b.Contains(index)
}

// bitmap returns the bitmap for id, or nil when none exists yet.
func (pi *presenceIndex) bitmap(id ComponentID) *roaring.Bitmap {
	return pi.bits[id]
}

// clone deep-copies every bitmap.
func (pi *presenceIndex) clone() presenceIndex {
	var c presenceIndex
	for i, b := range pi.bits {
		if b != nil {
			c.bits[i] = b.Clone()
		}
	}
	return c
}

// reset drops every bitmap.
func (pi *presenceIndex) reset() {
	for i := range pi.bits {
		pi.bits[i] = nil
	}
}
