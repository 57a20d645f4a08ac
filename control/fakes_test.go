package control

import (
	"fmt"

	"termchess-local/engine"
	"termchess-local/types"
)

// fakeBoard is a variant board without real rules: pieces move anywhere
// not occupied by their own side.
type fakeBoard struct {
	v        *types.Variant
	turn     types.Color
	ply      int
	pieces   map[types.Cord]types.Piece
	holdings [2]map[types.PieceKind]int
	virgin   map[types.Cord]bool
}

func newFakeBoard(v *types.Variant, turn types.Color) *fakeBoard {
	return &fakeBoard{
		v:        v,
		turn:     turn,
		ply:      int(turn),
		pieces:   make(map[types.Cord]types.Piece),
		holdings: [2]map[types.PieceKind]int{{}, {}},
		virgin:   make(map[types.Cord]bool),
	}
}

func (b *fakeBoard) put(c types.Cord, color types.Color, kind types.PieceKind) *fakeBoard {
	b.pieces[c] = types.Piece{Color: color, Kind: kind}
	return b
}

func (b *fakeBoard) Variant() *types.Variant { return b.v }
func (b *fakeBoard) Turn() types.Color       { return b.turn }
func (b *fakeBoard) Ply() int                { return b.ply }

func (b *fakeBoard) PieceAt(c types.Cord) (types.Piece, bool) {
	if b.v.InHoldingRange(c) {
		return types.HoldingPiece(b, c)
	}
	p, ok := b.pieces[c]
	return p, ok
}

func (b *fakeBoard) Holding(color types.Color, kind types.PieceKind) int {
	return b.holdings[color][kind]
}

func (b *fakeBoard) Count(color types.Color, kind types.PieceKind) int {
	n := 0
	for _, p := range b.pieces {
		if p.Color == color && p.Kind == kind {
			n++
		}
	}
	return n
}

func (b *fakeBoard) Virgin(color types.Color, c types.Cord) bool {
	p, ok := b.pieces[c]
	return ok && p.Color == color && b.virgin[c]
}

func (b *fakeBoard) InitialRook(color types.Color, side types.CastleSide) types.Cord {
	y := 0
	if color == types.Black {
		y = b.v.Ranks - 1
	}
	if side == types.KingSide {
		return types.Cord{X: b.v.Files - 1, Y: y}
	}
	return types.Cord{X: 0, Y: y}
}

func (b *fakeBoard) clone() *fakeBoard {
	n := newFakeBoard(b.v, b.turn)
	n.ply = b.ply
	for c, p := range b.pieces {
		n.pieces[c] = p
	}
	for color := range b.holdings {
		for k, v := range b.holdings[color] {
			n.holdings[color][k] = v
		}
	}
	for c, v := range b.virgin {
		n.virgin[c] = v
	}
	return n
}

// fakeRules accepts any move of a friendly piece onto a square not held by
// its own side and drops onto empty squares.
type fakeRules struct {
	calls int
}

func (r *fakeRules) legal(b *fakeBoard, m types.Move) bool {
	if !b.v.Addressable(m.To) || b.v.InHoldingRange(m.To) {
		return false
	}
	if m.Special == types.Drop {
		_, occupied := b.pieces[m.To]
		return !occupied && b.holdings[b.turn][m.Piece] > 0
	}
	p, ok := b.pieces[m.From]
	if !ok || p.Color != b.turn {
		return false
	}
	if m.From == m.To {
		// only a sittuyin pawn promoting where it stands
		return p.Kind == types.Pawn && b.v.Kind == types.Sittuyin &&
			b.v.InPromotionZone(b.turn, m.From) && b.Count(b.turn, types.Queen) == 0
	}
	if q, ok := b.pieces[m.To]; ok && q.Color == b.turn {
		return false
	}
	if m.Special == types.Gate && b.holdings[b.turn][m.Piece] == 0 {
		return false
	}
	return true
}

func (r *fakeRules) Validate(b types.Board, m types.Move) bool {
	r.calls++
	fb, ok := b.(*fakeBoard)
	return ok && r.legal(fb, m)
}

func (r *fakeRules) GenAllMoves(b types.Board) []types.Move {
	fb := b.(*fakeBoard)
	var moves []types.Move
	for from, p := range fb.pieces {
		if p.Color != fb.turn {
			continue
		}
		for x := 0; x < fb.v.Files; x++ {
			for y := 0; y < fb.v.Ranks; y++ {
				m := types.NewMove(from, types.Cord{X: x, Y: y}, types.NoKind)
				if r.legal(fb, m) {
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}

func (r *fakeRules) Apply(b types.Board, m types.Move) (types.Board, error) {
	fb := b.(*fakeBoard)
	if !r.legal(fb, m) {
		return nil, fmt.Errorf("apply %s: %w", m, engine.ErrIllegal)
	}
	n := fb.clone()
	switch m.Special {
	case types.Drop:
		n.holdings[fb.turn][m.Piece]--
		n.pieces[m.To] = types.Piece{Color: fb.turn, Kind: m.Piece}
	default:
		p := n.pieces[m.From]
		delete(n.pieces, m.From)
		delete(n.virgin, m.From)
		if m.Promotion != types.NoKind {
			p.Kind = m.Promotion
		}
		n.pieces[m.To] = p
		if m.Special == types.Gate {
			n.holdings[fb.turn][m.Piece]--
			n.pieces[m.GateAt] = types.Piece{Color: fb.turn, Kind: m.Piece}
		}
	}
	n.turn = fb.turn.Other()
	n.ply = fb.ply + 1
	return n, nil
}

func (r *fakeRules) Parse(types.Board, string) (types.Move, error) {
	return types.Move{}, engine.ErrParse
}

func (r *fakeRules) IsCapture(b types.Board, m types.Move) bool {
	_, ok := b.(*fakeBoard).pieces[m.To]
	return ok
}

func (r *fakeRules) GivesCheck(types.Board, types.Move) bool {
	return false
}
