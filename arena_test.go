package daicho

import (
	"testing"
)

// go test -run ^TestArenaPushGet$ . -count 1
func TestArenaPushGet(t *testing.T) {
	a := NewArena[string](4)
	h1 := a.Push("one")
	h2 := a.Push("two")

	if h1.Index != 0 || h1.Generation != 0 {
		t.Errorf("expected first handle 0/0, got %d/%d", h1.Index, h1.Generation)
	}
	if h2.Index != 1 || h2.Generation != 0 {
		t.Errorf("expected second handle 1/0, got %d/%d", h2.Index, h2.Generation)
	}
	if v := a.Get(h1); v == nil || *v != "one" {
		t.Errorf("expected \"one\", got %v", v)
	}
	if v := a.Get(h2); v == nil || *v != "two" {
		t.Errorf("expected \"two\", got %v", v)
	}
	if a.Len() != 2 {
		t.Errorf("expected len 2, got %d", a.Len())
	}
}

// go test -run ^TestArenaDefaultCapacity$ . -count 1
func TestArenaDefaultCapacity(t *testing.T) {
	if got := NewArena[int](0).Cap(); got != defaultArenaCapacity {
		t.Errorf("expected cap %d, got %d", defaultArenaCapacity, got)
	}
	if got := NewArena[int](-5).Cap(); got != defaultArenaCapacity {
		t.Errorf("expected cap %d, got %d", defaultArenaCapacity, got)
	}
	if got := NewArena[int](4).Cap(); got != 4 {
		t.Errorf("expected cap 4, got %d", got)
	}
}

// go test -run ^TestArenaAscendingSlots$ . -count 1
func TestArenaAscendingSlots(t *testing.T) {
	a := NewArena[int](4)
	for want := uint32(0); want < 4; want++ {
		h := a.Push(int(want))
		if h.Index != want {
			t.Errorf("expected index %d, got %d", want, h.Index)
		}
	}
}

// go test -run ^TestArenaRemove$ . -count 1
func TestArenaRemove(t *testing.T) {
	a := NewArena[string](4)
	h := a.Push("gone")

	v, ok := a.Remove(h)
	if !ok || v != "gone" {
		t.Errorf("expected (\"gone\", true), got (%q, %v)", v, ok)
	}
	if a.Get(h) != nil {
		t.Error("expected stale handle to resolve to nil")
	}
	if a.Contains(h) {
		t.Error("expected Contains false after remove")
	}
	if a.Len() != 0 {
		t.Errorf("expected len 0, got %d", a.Len())
	}
	if _, ok := a.Remove(h); ok {
		t.Error("expected second remove to fail")
	}
}

// go test -run ^TestArenaLIFOReuse$ . -count 1
func TestArenaLIFOReuse(t *testing.T) {
	a := NewArena[int](4)
	a.Push(10)
	h1 := a.Push(11)
	a.Push(12)

	a.Remove(h1)
	h := a.Push(99)
	if h.Index != h1.Index {
		t.Errorf("expected freed slot %d to be reused first, got %d", h1.Index, h.Index)
	}
	if h.Generation != h1.Generation+1 {
		t.Errorf("expected generation %d, got %d", h1.Generation+1, h.Generation)
	}
	// The untouched reserved slot comes after the recycled one.
	if h := a.Push(13); h.Index != 3 {
		t.Errorf("expected index 3, got %d", h.Index)
	}
}

// go test -run ^TestArenaStaleAfterReuse$ . -count 1
func TestArenaStaleAfterReuse(t *testing.T) {
	a := NewArena[int](2)
	old := a.Push(1)
	a.Remove(old)
	fresh := a.Push(2)

	if fresh.Index != old.Index {
		t.Fatalf("expected slot reuse, got %d and %d", old.Index, fresh.Index)
	}
	if a.Get(old) != nil {
		t.Error("expected old handle to stay stale after reuse")
	}
	if v := a.Get(fresh); v == nil || *v != 2 {
		t.Errorf("expected 2 through fresh handle, got %v", v)
	}
	if _, ok := a.Remove(old); ok {
		t.Error("expected remove through old handle to fail")
	}
}

// go test -run ^TestArenaGrowth$ . -count 1
func TestArenaGrowth(t *testing.T) {
	a := NewArena[int](2)
	a.Push(0)
	a.Push(1)
	h := a.Push(2)

	if h.Index != 2 {
		t.Errorf("expected growth to hand out index 2, got %d", h.Index)
	}
	// Growth adds max(len, 8) slots.
	if a.Cap() != 10 {
		t.Errorf("expected cap 10, got %d", a.Cap())
	}
	if v := a.Get(h); v == nil || *v != 2 {
		t.Errorf("expected 2, got %v", v)
	}
}

// go test -run ^TestArenaOutOfBounds$ . -count 1
func TestArenaOutOfBounds(t *testing.T) {
	a := NewArena[int](2)
	h := Handle{Index: 100, Generation: 0}
	if a.Get(h) != nil {
		t.Error("expected nil")
	}
	if a.Contains(h) {
		t.Error("expected false")
	}
	if _, ok := a.Remove(h); ok {
		t.Error("expected false")
	}
	if _, _, ok := a.GetRaw(100); ok {
		t.Error("expected false")
	}
}

// go test -run ^TestArenaClear$ . -count 1
func TestArenaClear(t *testing.T) {
	a := NewArena[int](4)
	h1 := a.Push(1)
	h2 := a.Push(2)
	a.Remove(h2)

	a.Clear()
	if a.Len() != 0 {
		t.Errorf("expected len 0, got %d", a.Len())
	}
	if a.Get(h1) != nil {
		t.Error("expected handle from before clear to be stale")
	}

	// Slots hand out in ascending index order again.
	for want := uint32(0); want < 4; want++ {
		h := a.Push(int(want))
		if h.Index != want {
			t.Errorf("expected index %d, got %d", want, h.Index)
		}
	}
	// Slot 0 was occupied through the clear, so its generation moved on.
	if a.entries[h1.Index].generation != h1.Generation+1 {
		t.Errorf("expected generation %d, got %d", h1.Generation+1, a.entries[h1.Index].generation)
	}
}

// go test -run ^TestArenaGetRaw$ . -count 1
func TestArenaGetRaw(t *testing.T) {
	a := NewArena[string](4)
	h := a.Push("raw")

	v, gen, ok := a.GetRaw(h.Index)
	if !ok || v == nil || *v != "raw" || gen != h.Generation {
		t.Errorf("expected (\"raw\", %d, true), got (%v, %d, %v)", h.Generation, v, gen, ok)
	}
	a.Remove(h)
	if _, _, ok := a.GetRaw(h.Index); ok {
		t.Error("expected false on vacant slot")
	}
}

// go test -run ^TestArenaIter$ . -count 1
func TestArenaIter(t *testing.T) {
	a := NewArena[int](8)
	var handles []Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, a.Push(i*10))
	}
	a.Remove(handles[1])
	a.Remove(handles[3])

	it := a.Iter()
	var got []int
	var idx []uint32
	for it.Next() {
		got = append(got, *it.Value())
		idx = append(idx, it.Handle().Index)
	}
	if len(got) != 3 || got[0] != 0 || got[1] != 20 || got[2] != 40 {
		t.Errorf("expected [0 20 40], got %v", got)
	}
	if idx[0] != 0 || idx[1] != 2 || idx[2] != 4 {
		t.Errorf("expected ascending indices [0 2 4], got %v", idx)
	}

	it.Reset()
	count := 0
	for it.Next() {
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 after reset, got %d", count)
	}
}

// go test -run ^TestArenaAll$ . -count 1
func TestArenaAll(t *testing.T) {
	a := NewArena[int](4)
	a.Push(1)
	h := a.Push(2)
	a.Push(3)
	a.Remove(h)

	sum := 0
	for h, v := range a.All() {
		if !a.Contains(h) {
			t.Errorf("expected yielded handle %v to resolve", h)
		}
		sum += *v
	}
	if sum != 4 {
		t.Errorf("expected sum 4, got %d", sum)
	}
}

// go test -run ^TestArenaReserve$ . -count 1
func TestArenaReserve(t *testing.T) {
	a := NewArena[int](2)
	a.Push(0)
	a.Reserve(3)
	if a.Cap() != 5 {
		t.Errorf("expected cap 5, got %d", a.Cap())
	}
	// Reserved slots go ahead of older free ones, ascending among themselves.
	if h := a.Push(1); h.Index != 2 {
		t.Errorf("expected index 2, got %d", h.Index)
	}
	if h := a.Push(2); h.Index != 3 {
		t.Errorf("expected index 3, got %d", h.Index)
	}
	if h := a.Push(3); h.Index != 4 {
		t.Errorf("expected index 4, got %d", h.Index)
	}
	if h := a.Push(4); h.Index != 1 {
		t.Errorf("expected index 1, got %d", h.Index)
	}
}
