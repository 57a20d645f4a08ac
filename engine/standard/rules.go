package standard

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"termchess-local/engine"
	"termchess-local/types"
)

// Rules implements engine.Rules for orthodox chess.
type Rules struct{}

// NewRules returns the orthodox chess oracle.
func NewRules() *Rules {
	return &Rules{}
}

// Coordinate notation goes first: the algebraic decoder drops origin
// squares it finds redundant, so "g1f3" would otherwise read as f2-f3.
var notations = []chess.Notation{
	chess.UCINotation{},
	chess.LongAlgebraicNotation{},
	chess.AlgebraicNotation{},
}

// find returns the notnil move on b matching m. With strict unset a move
// lacking a promotion piece matches any promotion of the same from/to pair.
func find(b types.Board, m types.Move, strict bool) (*Board, *chess.Move) {
	sb, ok := b.(*Board)
	if !ok || m.Special != types.Plain {
		return nil, nil
	}
	from, to := cordToSquare(m.From), cordToSquare(m.To)
	if from == chess.NoSquare || to == chess.NoSquare {
		return sb, nil
	}
	promo := kindToPieceType(m.Promotion)
	for _, cm := range sb.pos.ValidMoves() {
		if cm.S1() != from || cm.S2() != to {
			continue
		}
		if cm.Promo() == promo || (!strict && promo == chess.NoPieceType) {
			return sb, cm
		}
	}
	return sb, nil
}

func (r *Rules) Validate(b types.Board, m types.Move) bool {
	_, cm := find(b, m, false)
	return cm != nil
}

func (r *Rules) GenAllMoves(b types.Board) []types.Move {
	sb, ok := b.(*Board)
	if !ok {
		return nil
	}
	valid := sb.pos.ValidMoves()
	moves := make([]types.Move, 0, len(valid))
	for _, cm := range valid {
		moves = append(moves, toMove(cm))
	}
	return moves
}

func (r *Rules) Apply(b types.Board, m types.Move) (types.Board, error) {
	sb, cm := find(b, m, true)
	if cm == nil {
		return nil, fmt.Errorf("apply %s: %w", m, engine.ErrIllegal)
	}
	return &Board{pos: sb.pos.Update(cm), ply: sb.ply + 1}, nil
}

// Parse accepts standard algebraic ("Nf3", "exd5", "e8=Q", "O-O"), long
// algebraic ("Ng1f3") and UCI ("g1f3") text.
func (r *Rules) Parse(b types.Board, text string) (types.Move, error) {
	sb, ok := b.(*Board)
	if !ok {
		return types.Move{}, fmt.Errorf("%w: unsupported board", engine.ErrParse)
	}
	text = strings.TrimSpace(text)
	for _, n := range notations {
		in := text
		if _, ok := n.(chess.UCINotation); ok {
			in = strings.ToLower(text)
		}
		cm, err := n.Decode(sb.pos, in)
		if err != nil || cm == nil {
			continue
		}
		if legal := validMove(sb.pos, cm); legal != nil {
			return toMove(legal), nil
		}
	}
	return types.Move{}, fmt.Errorf("%w: %q", engine.ErrParse, text)
}

// validMove returns the legal move of pos matching cm's squares and
// promotion, or nil. Coordinate decoding does not check legality.
func validMove(pos *chess.Position, cm *chess.Move) *chess.Move {
	for _, m := range pos.ValidMoves() {
		if m.S1() == cm.S1() && m.S2() == cm.S2() && m.Promo() == cm.Promo() {
			return m
		}
	}
	return nil
}

func (r *Rules) IsCapture(b types.Board, m types.Move) bool {
	_, cm := find(b, m, false)
	return cm != nil && (cm.HasTag(chess.Capture) || cm.HasTag(chess.EnPassant))
}

func (r *Rules) GivesCheck(b types.Board, m types.Move) bool {
	_, cm := find(b, m, false)
	return cm != nil && cm.HasTag(chess.Check)
}

// Encode renders m on b in standard algebraic notation.
func (r *Rules) Encode(b types.Board, m types.Move) string {
	sb, cm := find(b, m, true)
	if cm == nil {
		return m.String()
	}
	return chess.AlgebraicNotation{}.Encode(sb.pos, cm)
}
