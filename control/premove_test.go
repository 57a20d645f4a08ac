package control

import (
	"testing"

	"termchess-local/types"
)

func TestPremoveSlot(t *testing.T) {
	var s PremoveSlot
	if _, ok := s.Get(); ok {
		t.Fatal("new slot should be empty")
	}
	e2, e4, d2, d4 := types.Cord{X: 4, Y: 1}, types.Cord{X: 4, Y: 3}, types.Cord{X: 3, Y: 1}, types.Cord{X: 3, Y: 3}
	s.Set(Premove{From: e2, To: e4, TargetPly: 3})
	s.Set(Premove{From: d2, To: d4, TargetPly: 5})
	p, ok := s.Get()
	if !ok || p.From != d2 || p.TargetPly != 5 {
		t.Fatalf("slot = %+v, want the second premove", p)
	}
	if s.Touches(&e2) {
		t.Fatal("overwritten premove squares should not match")
	}
	if !s.Touches(&d4) || s.Touches(nil) {
		t.Fatal("Touches should match endpoints only")
	}
	if p, ok := s.Take(); !ok || p.To != d4 {
		t.Fatal("Take should return the premove")
	}
	if s.Clear() {
		t.Fatal("slot was already empty")
	}
}
