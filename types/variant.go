package types

// VariantKind identifies the rule family a board follows. Only the families
// that change how board input is interpreted are distinguished.
type VariantKind int

const (
	Standard VariantKind = iota
	Crazyhouse
	Sittuyin
	Seirawan
	LightBrigade
)

// holdingOrder is the top-to-bottom order of pieces in a holding column.
var holdingOrder = []PieceKind{Pawn, Knight, Bishop, Rook, Queen}

// Variant describes the geometry and promotion rules of a chess variant.
type Variant struct {
	Kind       VariantKind
	Name       string
	Files      int
	Ranks      int
	Drops      bool
	Promotions []PieceKind

	zones [2]map[Cord]bool
}

// NewVariant builds a variant descriptor. Sittuyin gets its diagonal
// promotion squares, every other kind promotes on the last rank.
func NewVariant(kind VariantKind, name string, files, ranks int, drops bool, promotions ...PieceKind) *Variant {
	v := &Variant{
		Kind:       kind,
		Name:       name,
		Files:      files,
		Ranks:      ranks,
		Drops:      drops,
		Promotions: promotions,
	}
	for _, color := range []Color{White, Black} {
		zone := make(map[Cord]bool)
		for x := 0; x < files; x++ {
			for y := 0; y < ranks; y++ {
				c := Cord{X: x, Y: y}
				if v.inZone(color, c) {
					zone[c] = true
				}
			}
		}
		v.zones[color] = zone
	}
	return v
}

func (v *Variant) inZone(color Color, c Cord) bool {
	if v.Kind == Sittuyin {
		// the two long diagonals inside the opponent's half
		if c.X != c.Y && c.X != v.Files-1-c.Y {
			return false
		}
		if color == White {
			return c.Y >= v.Ranks/2
		}
		return c.Y < v.Ranks/2
	}
	if color == White {
		return c.Y == v.Ranks-1
	}
	return c.Y == 0
}

// InPromotionZone reports whether a pawn of the given color promotes on c.
func (v *Variant) InPromotionZone(color Color, c Cord) bool {
	return v.zones[color][c]
}

// InHoldingRange reports whether c lies outside the playing grid horizontally.
func (v *Variant) InHoldingRange(c Cord) bool {
	return c.X < 0 || c.X > v.Files-1
}

// Addressable reports whether c can be produced by pointer hit-testing.
func (v *Variant) Addressable(c Cord) bool {
	if c.Y < 0 || c.Y > v.Ranks-1 {
		return false
	}
	if v.Drops {
		return c.X >= -3 && c.X <= v.Files+1
	}
	return c.X >= 0 && c.X <= v.Files-1
}

// HoldingFile returns the column where a color's holding is laid out.
// White keeps its reserve right of the board, Black left of it, each
// separated from the grid by one empty column.
func (v *Variant) HoldingFile(color Color) int {
	if color == White {
		return v.Files + 1
	}
	return -2
}

// HoldingCord returns the slot that addresses kind in color's holding.
func (v *Variant) HoldingCord(color Color, kind PieceKind) (Cord, bool) {
	for i, k := range holdingOrder {
		if k != kind {
			continue
		}
		if i >= v.Ranks {
			return Cord{}, false
		}
		y := i
		if color == Black {
			y = v.Ranks - 1 - i
		}
		return Cord{X: v.HoldingFile(color), Y: y}, true
	}
	return Cord{}, false
}

// HoldingSlot is the inverse of HoldingCord.
func (v *Variant) HoldingSlot(c Cord) (Color, PieceKind, bool) {
	for _, color := range []Color{White, Black} {
		if c.X != v.HoldingFile(color) {
			continue
		}
		i := c.Y
		if color == Black {
			i = v.Ranks - 1 - c.Y
		}
		if i < 0 || i >= len(holdingOrder) {
			return White, NoKind, false
		}
		return color, holdingOrder[i], true
	}
	return White, NoKind, false
}

// Predefined variants.
var (
	StandardChess     = NewVariant(Standard, "standard", 8, 8, false, Queen, Rook, Bishop, Knight)
	CrazyhouseChess   = NewVariant(Crazyhouse, "crazyhouse", 8, 8, true, Queen, Rook, Bishop, Knight)
	SittuyinChess     = NewVariant(Sittuyin, "sittuyin", 8, 8, false, Queen)
	SeirawanChess     = NewVariant(Seirawan, "seirawan", 8, 8, false, Queen, Rook, Bishop, Knight, Hawk, Elephant)
	LightBrigadeChess = NewVariant(LightBrigade, "lightbrigade", 8, 8, false, Queen, Knight)
)
