package control

import "termchess-local/types"

// Premove is a move queued during the opponent's turn. TargetPly is the
// ply of the position the move will produce.
type Premove struct {
	Piece     types.Piece
	From      types.Cord
	To        types.Cord
	TargetPly int
	Promotion types.PieceKind
}

// PremoveSlot is a single-valued register. Setting overwrites.
type PremoveSlot struct {
	pm  Premove
	set bool
}

// Set stores p, replacing any pending premove.
func (s *PremoveSlot) Set(p Premove) {
	s.pm = p
	s.set = true
}

// Clear empties the slot and reports whether something was pending.
func (s *PremoveSlot) Clear() bool {
	had := s.set
	s.pm = Premove{}
	s.set = false
	return had
}

// Get returns the pending premove.
func (s *PremoveSlot) Get() (Premove, bool) {
	return s.pm, s.set
}

// Take returns the pending premove and empties the slot.
func (s *PremoveSlot) Take() (Premove, bool) {
	p, ok := s.pm, s.set
	s.Clear()
	return p, ok
}

// Touches reports whether c is one of the pending premove's endpoints.
func (s *PremoveSlot) Touches(c *types.Cord) bool {
	if !s.set || c == nil {
		return false
	}
	return *c == s.pm.From || *c == s.pm.To
}
