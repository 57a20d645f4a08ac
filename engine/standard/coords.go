package standard

import (
	"github.com/notnil/chess"

	"termchess-local/types"
)

// Coordinate systems:
// - notnil/chess squares: 0-63, A1 = 0, H1 = 7, A8 = 56
// - termchess cords: X = file 0-7 (a-h), Y = rank 0-7 (1-8)
// Both originate at White's lower left corner, so the mapping is linear.

// cordToSquare converts a playing-grid cord to a notnil square.
// Cords outside the grid map to chess.NoSquare.
func cordToSquare(c types.Cord) chess.Square {
	if c.X < 0 || c.X > 7 || c.Y < 0 || c.Y > 7 {
		return chess.NoSquare
	}
	return chess.Square(c.Y*8 + c.X)
}

// squareToCord converts a notnil square to a cord.
func squareToCord(sq chess.Square) types.Cord {
	return types.Cord{X: int(sq.File()), Y: int(sq.Rank())}
}

// kindToPieceType converts a piece kind to the notnil piece type.
func kindToPieceType(k types.PieceKind) chess.PieceType {
	switch k {
	case types.King:
		return chess.King
	case types.Queen:
		return chess.Queen
	case types.Rook:
		return chess.Rook
	case types.Bishop:
		return chess.Bishop
	case types.Knight:
		return chess.Knight
	case types.Pawn:
		return chess.Pawn
	default:
		return chess.NoPieceType
	}
}

// pieceTypeToKind converts a notnil piece type to a piece kind.
func pieceTypeToKind(pt chess.PieceType) types.PieceKind {
	switch pt {
	case chess.King:
		return types.King
	case chess.Queen:
		return types.Queen
	case chess.Rook:
		return types.Rook
	case chess.Bishop:
		return types.Bishop
	case chess.Knight:
		return types.Knight
	case chess.Pawn:
		return types.Pawn
	default:
		return types.NoKind
	}
}

// colorToChess converts a color to the notnil color.
func colorToChess(c types.Color) chess.Color {
	if c == types.White {
		return chess.White
	}
	return chess.Black
}

// chessToColor converts a notnil color to a color.
func chessToColor(c chess.Color) types.Color {
	if c == chess.Black {
		return types.Black
	}
	return types.White
}

// toMove converts a notnil move to a move value.
func toMove(m *chess.Move) types.Move {
	return types.NewMove(squareToCord(m.S1()), squareToCord(m.S2()), pieceTypeToKind(m.Promo()))
}
