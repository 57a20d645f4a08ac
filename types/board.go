package types

// Board is an immutable position snapshot. Boards are produced by the move
// application logic and are read-only to everything else. Two boards are
// the same position node iff they compare equal as interface values.
type Board interface {
	Variant() *Variant
	// Turn returns the side to move.
	Turn() Color
	// Ply is the half-move index of the position.
	Ply() int
	// PieceAt returns the piece on a playing square or, for holding slots,
	// the piece type that slot addresses when the holding is not empty.
	PieceAt(c Cord) (Piece, bool)
	// Holding returns how many pieces of kind color holds in reserve.
	Holding(color Color, kind PieceKind) int
	// Count returns how many pieces of kind color has on the playing grid.
	Count(color Color, kind PieceKind) int
	// Virgin reports whether the piece of color on c has never moved.
	Virgin(color Color, c Cord) bool
	// InitialRook returns where color's rook on side started the game.
	InitialRook(color Color, side CastleSide) Cord
}

// HoldingPiece resolves a holding slot against a board's reserves. It is a
// helper for Board implementations.
func HoldingPiece(b Board, c Cord) (Piece, bool) {
	color, kind, ok := b.Variant().HoldingSlot(c)
	if !ok || b.Holding(color, kind) == 0 {
		return Piece{}, false
	}
	return Piece{Color: color, Kind: kind}, true
}
