// Package types contains shared data structures for termchess-local.
package types

import "fmt"

// Color is a side in the game. White moves first.
type Color int

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind identifies a piece type independently of its color.
type PieceKind int

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	Hawk     // Seirawan gating piece (bishop + knight)
	Elephant // Seirawan gating piece (rook + knight)
)

var kindLetters = map[PieceKind]byte{
	Pawn:     'p',
	Knight:   'n',
	Bishop:   'b',
	Rook:     'r',
	Queen:    'q',
	King:     'k',
	Hawk:     'h',
	Elephant: 'e',
}

// Letter returns the lower case letter used for the kind in move encodings.
func (k PieceKind) Letter() byte {
	return kindLetters[k]
}

// KindFromLetter parses a piece letter in either case.
func KindFromLetter(r byte) (PieceKind, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for k, l := range kindLetters {
		if l == r {
			return k, true
		}
	}
	return NoKind, false
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Hawk:
		return "hawk"
	case Elephant:
		return "elephant"
	default:
		return "none"
	}
}

// Piece is a colored piece standing on a board or waiting in a holding.
type Piece struct {
	Color Color
	Kind  PieceKind
}

// Cord is a board coordinate. X is the file, Y the rank, both 0-indexed
// from White's lower left corner. Files outside [0, Files-1] address
// holding slots in drop variants.
type Cord struct {
	X int
	Y int
}

// Index returns the linear square index on a board with the given number of files.
func (c Cord) Index(files int) int {
	return c.Y*files + c.X
}

// String returns algebraic notation for playing squares and "@x,y" for holding slots.
func (c Cord) String() string {
	if c.X >= 0 && c.X < 26 && c.Y >= 0 {
		return fmt.Sprintf("%c%d", 'a'+rune(c.X), c.Y+1)
	}
	return fmt.Sprintf("@%d,%d", c.X, c.Y)
}

// ParseCord parses an algebraic square like "e4".
func ParseCord(s string) (Cord, bool) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return Cord{}, false
	}
	rank := 0
	for _, ch := range s[1:] {
		if ch < '0' || ch > '9' {
			return Cord{}, false
		}
		rank = rank*10 + int(ch-'0')
	}
	if rank < 1 {
		return Cord{}, false
	}
	return Cord{X: int(s[0] - 'a'), Y: rank - 1}, true
}

// CastleSide selects one of a color's two initial rooks.
type CastleSide int

const (
	QueenSide CastleSide = iota
	KingSide
)
