package types

import "strings"

// Special marks moves that are not plain from/to slides.
type Special int

const (
	Plain Special = iota
	Drop
	Gate
)

// Move is an immutable move description. For drops Piece is the dropped
// kind and From the holding slot it was taken from. For gating moves Piece
// is the gated kind and GateAt the square it enters.
type Move struct {
	From      Cord
	To        Cord
	Promotion PieceKind
	Special   Special
	Piece     PieceKind
	GateAt    Cord
}

// NewMove builds an ordinary move, optionally promoting.
func NewMove(from, to Cord, promotion PieceKind) Move {
	return Move{From: from, To: to, Promotion: promotion}
}

// NewDrop builds a drop of kind from the holding slot onto to.
func NewDrop(kind PieceKind, from, to Cord) Move {
	return Move{From: from, To: to, Special: Drop, Piece: kind}
}

// NewGate builds a gating move: the mover goes from -> to and kind enters at.
func NewGate(from, to Cord, kind PieceKind, at Cord) Move {
	return Move{From: from, To: to, Special: Gate, Piece: kind, GateAt: at}
}

// EncodeDrop re-expresses a from/to pair whose source is a holding slot as a
// drop of the piece addressed by that slot.
func EncodeDrop(v *Variant, from, to Cord) (Move, bool) {
	_, kind, ok := v.HoldingSlot(from)
	if !ok {
		return Move{}, false
	}
	return NewDrop(kind, from, to), true
}

// DecodeDrop returns the holding slot and destination of a drop made by color.
func DecodeDrop(v *Variant, color Color, m Move) (Cord, Cord, bool) {
	if m.Special != Drop {
		return Cord{}, Cord{}, false
	}
	from, ok := v.HoldingCord(color, m.Piece)
	return from, m.To, ok
}

// String returns the canonical encoding used to compare moves:
// "e2e4", "e7e8q", "N@e4", "e1g1/h@h1".
func (m Move) String() string {
	var b strings.Builder
	switch m.Special {
	case Drop:
		b.WriteByte(m.Piece.Letter() - 'a' + 'A')
		b.WriteByte('@')
		b.WriteString(m.To.String())
		return b.String()
	default:
		b.WriteString(m.From.String())
		b.WriteString(m.To.String())
		if m.Promotion != NoKind {
			b.WriteByte(m.Promotion.Letter())
		}
		if m.Special == Gate {
			b.WriteByte('/')
			b.WriteByte(m.Piece.Letter())
			b.WriteByte('@')
			b.WriteString(m.GateAt.String())
		}
	}
	return b.String()
}

// Same reports whether two moves have the same canonical encoding.
func (m Move) Same(o Move) bool {
	return m.String() == o.String()
}

// GateChoice is the answer of a gating dialog. Kind NoKind means the
// player chose to move without gating.
type GateChoice struct {
	Kind   PieceKind
	AtRook bool
}
