package daicho

import "math/bits"

// bitmask256 represents a set of up to 256 component IDs. The pool aggregate
// uses one to remember which component types have a live pool, so that
// cloning, clearing and snapshotting walk only the types actually in use.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component ID.
func (m *bitmask256) set(bit uint8) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given component ID.
func (m *bitmask256) unset(bit uint8) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit uint8) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// eachBit calls fn for every set bit, in ascending order.
func (m bitmask256) eachBit(fn func(bit uint8)) {
	for i, word := range m {
		for word != 0 {
			o := bits.TrailingZeros64(word)
			word &^= uint64(1) << uint64(o)
			fn(uint8(i<<6 | o))
		}
	}
}
