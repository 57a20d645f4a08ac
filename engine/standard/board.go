// Package standard implements the rule oracle for orthodox chess on top of github.com/notnil/chess.
package standard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"termchess-local/types"
)

// StartFEN is the orthodox initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Board is an immutable orthodox chess position.
type Board struct {
	pos *chess.Position
	ply int
}

// NewBoard parses a FEN string. An empty string yields the initial position.
func NewBoard(fen string) (*Board, error) {
	if fen == "" {
		fen = StartFEN
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	pos := chess.NewGame(opt).Position()
	ply, err := plyFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Board{pos: pos, ply: ply}, nil
}

// plyFromFEN derives the half-move index from the side to move and full move number.
func plyFromFEN(fen string) (int, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return 0, fmt.Errorf("parse fen: missing side to move in %q", fen)
	}
	full := 1
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return 0, fmt.Errorf("parse fen: bad move number: %w", err)
		}
		full = n
	}
	ply := (full - 1) * 2
	if fields[1] == "b" {
		ply++
	}
	return ply, nil
}

// Position exposes the underlying notnil position.
func (b *Board) Position() *chess.Position {
	return b.pos
}

// FEN returns the position in Forsyth-Edwards notation.
func (b *Board) FEN() string {
	return b.pos.String()
}

func (b *Board) Variant() *types.Variant {
	return types.StandardChess
}

func (b *Board) Turn() types.Color {
	return chessToColor(b.pos.Turn())
}

func (b *Board) Ply() int {
	return b.ply
}

func (b *Board) PieceAt(c types.Cord) (types.Piece, bool) {
	sq := cordToSquare(c)
	if sq == chess.NoSquare {
		return types.Piece{}, false
	}
	p := b.pos.Board().Piece(sq)
	if p == chess.NoPiece {
		return types.Piece{}, false
	}
	return types.Piece{Color: chessToColor(p.Color()), Kind: pieceTypeToKind(p.Type())}, true
}

// Holding is always empty in orthodox chess.
func (b *Board) Holding(color types.Color, kind types.PieceKind) int {
	return 0
}

func (b *Board) Count(color types.Color, kind types.PieceKind) int {
	n := 0
	want := colorToChess(color)
	pt := kindToPieceType(kind)
	for _, p := range b.pos.Board().SquareMap() {
		if p.Color() == want && p.Type() == pt {
			n++
		}
	}
	return n
}

// Virgin is derived from castling rights: the king and rooks that may still
// castle have never moved.
func (b *Board) Virgin(color types.Color, c types.Cord) bool {
	p, ok := b.PieceAt(c)
	if !ok || p.Color != color {
		return false
	}
	rights := b.pos.CastleRights()
	cc := colorToChess(color)
	switch p.Kind {
	case types.King:
		home := types.Cord{X: 4, Y: homeRank(color)}
		return c == home && (rights.CanCastle(cc, chess.KingSide) || rights.CanCastle(cc, chess.QueenSide))
	case types.Rook:
		if c == b.InitialRook(color, types.KingSide) {
			return rights.CanCastle(cc, chess.KingSide)
		}
		if c == b.InitialRook(color, types.QueenSide) {
			return rights.CanCastle(cc, chess.QueenSide)
		}
	}
	return false
}

func (b *Board) InitialRook(color types.Color, side types.CastleSide) types.Cord {
	if side == types.KingSide {
		return types.Cord{X: 7, Y: homeRank(color)}
	}
	return types.Cord{X: 0, Y: homeRank(color)}
}

func homeRank(color types.Color) int {
	if color == types.White {
		return 0
	}
	return 7
}
