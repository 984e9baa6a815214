package daicho

import (
	"cmp"
	"fmt"
)

// Handle identifies one record slot in a List. Index addresses the slot;
// Generation tells successive occupants of that slot apart. A handle
// resolves only while the slot is occupied and its generation matches, so a
// handle kept across a remove-and-reuse cycle goes stale instead of silently
// pointing at the new occupant.
type Handle struct {
	Index      uint32 // The slot index inside the arena.
	Generation uint32 // The reuse counter stamped when the slot was filled.
}

// Compare orders handles by (Index, Generation), reporting -1, 0 or 1.
// It is shaped for slices.SortFunc.
func (h Handle) Compare(o Handle) int {
	if c := cmp.Compare(h.Index, o.Index); c != 0 {
		return c
	}
	return cmp.Compare(h.Generation, o.Generation)
}

// Less reports whether h orders before o.
func (h Handle) Less(o Handle) bool {
	return h.Compare(o) < 0
}

// String formats the handle as a fixed-width index#generation pair.
func (h Handle) String() string {
	return fmt.Sprintf("%#07x#%03d", h.Index, h.Generation)
}
