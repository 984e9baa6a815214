package daicho

import (
	"testing"
)

// go test -run ^TestPoolInsertGet$ . -count 1
func TestPoolInsertGet(t *testing.T) {
	p := NewPool[Position]()
	h1 := p.Insert(Position{X: 1})
	h2 := p.Insert(Position{X: 2})

	if h1 != 0 || h2 != 1 {
		t.Errorf("expected handles 0 and 1, got %d and %d", h1, h2)
	}
	if v := p.Get(h1); v == nil || v.X != 1 {
		t.Errorf("expected X 1, got %v", v)
	}
	if v := p.Get(h2); v == nil || v.X != 2 {
		t.Errorf("expected X 2, got %v", v)
	}
	if p.Len() != 2 {
		t.Errorf("expected len 2, got %d", p.Len())
	}
}

// go test -run ^TestPoolRemove$ . -count 1
func TestPoolRemove(t *testing.T) {
	p := NewPool[Position]()
	h := p.Insert(Position{X: 7})

	v := p.Remove(h)
	if v.X != 7 {
		t.Errorf("expected X 7, got %v", v.X)
	}
	if p.Get(h) != nil {
		t.Error("expected nil on vacant slot")
	}
	if p.Len() != 0 {
		t.Errorf("expected len 0, got %d", p.Len())
	}
}

// go test -run ^TestPoolLIFOReuse$ . -count 1
func TestPoolLIFOReuse(t *testing.T) {
	p := NewPool[int]()
	p.Insert(10)
	h1 := p.Insert(11)
	p.Insert(12)

	p.Remove(h1)
	if h := p.Insert(99); h != h1 {
		t.Errorf("expected freed slot %d to be reused, got %d", h1, h)
	}
	// Pool handles carry no generation: the old handle now reads the new
	// payload. The owning record is the only liveness authority.
	if v := p.Get(h1); v == nil || *v != 99 {
		t.Errorf("expected 99, got %v", v)
	}
}

// go test -run ^TestPoolRemoveVacantPanics$ . -count 1
func TestPoolRemoveVacantPanics(t *testing.T) {
	p := NewPool[int]()
	h := p.Insert(1)
	p.Remove(h)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	p.Remove(h)
}

// go test -run ^TestPoolGetOutOfBounds$ . -count 1
func TestPoolGetOutOfBounds(t *testing.T) {
	p := NewPool[int]()
	if p.Get(100) != nil {
		t.Error("expected nil")
	}
}

// go test -run ^TestPoolSetLazyCreation$ . -count 1
func TestPoolSetLazyCreation(t *testing.T) {
	ResetGlobalRegistry()
	posID := RegisterComponent[Position]()
	velID := RegisterComponent[Velocity]()

	ps := &poolSet{}
	if ps.poolIfLive(posID) != nil {
		t.Error("expected no pool before first use")
	}
	p := ps.pool(posID)
	if p == nil {
		t.Fatal("expected pool")
	}
	if ps.pool(posID) != p {
		t.Error("expected same pool on second call")
	}
	if ps.poolIfLive(velID) != nil {
		t.Error("expected velocity pool to stay absent")
	}

	var ids []ComponentID
	ps.eachID(func(id ComponentID) { ids = append(ids, id) })
	if len(ids) != 1 || ids[0] != posID {
		t.Errorf("expected [%d], got %v", posID, ids)
	}
}

// go test -run ^TestPoolSetClone$ . -count 1
func TestPoolSetClone(t *testing.T) {
	ResetGlobalRegistry()
	posID := RegisterComponent[Position]()

	ps := &poolSet{}
	h := ps.pool(posID).insertBox(&Position{X: 1})

	c := ps.clone()
	cp := c.poolIfLive(posID).(*Pool[Position])
	if v := cp.Get(h); v == nil || v.X != 1 {
		t.Fatalf("expected cloned payload X 1, got %v", v)
	}
	cp.Get(h).X = 2
	if v := ps.poolIfLive(posID).(*Pool[Position]).Get(h); v.X != 1 {
		t.Errorf("expected original to keep X 1, got %v", v.X)
	}
}

// go test -run ^TestPoolSetReset$ . -count 1
func TestPoolSetReset(t *testing.T) {
	ResetGlobalRegistry()
	posID := RegisterComponent[Position]()

	ps := &poolSet{}
	ps.pool(posID).insertBox(&Position{X: 1})
	ps.reset()
	if ps.poolIfLive(posID) == nil {
		t.Fatal("expected pool to survive reset")
	}
	if n := ps.poolIfLive(posID).count(); n != 0 {
		t.Errorf("expected empty pool, got %d", n)
	}
}
