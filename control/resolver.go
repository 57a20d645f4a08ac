package control

import (
	"termchess-local/types"
)

// ResolveMove completes a from/to pair on the shown board into a move,
// asking the player when a promotion or gating choice is needed. ok is
// false when a dialog was cancelled.
func (c *Controller) ResolveMove(from, to types.Cord) (types.Move, bool) {
	b := c.board()
	if b == nil {
		return types.Move{}, false
	}
	return c.resolve(b, from, to, types.NoKind)
}

// resolve completes from -> to on b. A preset promotion piece, chosen when
// a premove was queued, is used instead of asking again.
func (c *Controller) resolve(b types.Board, from, to types.Cord, preset types.PieceKind) (types.Move, bool) {
	v := b.Variant()
	color := b.Turn()
	p, _ := b.PieceAt(from)
	fromHolding := v.InHoldingRange(from)
	pawn := p.Kind == types.Pawn && !fromHolding

	promotion := types.NoKind
	if pawn && v.Kind != types.Sittuyin && v.InPromotionZone(color, to) {
		promotion = preset
		if promotion == types.NoKind {
			kind, ok := c.promotionFor(color, v)
			if !ok {
				c.log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("promotion cancelled")
				return types.Move{}, false
			}
			promotion = kind
		}
	}
	if pawn && v.Kind == types.Sittuyin && v.InPromotionZone(color, from) {
		promotion = inPlacePromotion(b, color, from, to)
	}

	if v.Kind == types.Seirawan && !fromHolding {
		hawk := b.Holding(color, types.Hawk) > 0
		elephant := b.Holding(color, types.Elephant) > 0
		if (hawk || elephant) && b.Virgin(color, from) {
			castling := p.Kind == types.King && abs(from.X-to.X) == 2
			choice, ok := c.askGating(color, castling, hawk, elephant)
			if !ok {
				c.log.Debug().Str("from", from.String()).Msg("gating cancelled")
				return types.Move{}, false
			}
			if choice.Kind != types.NoKind {
				at := from
				if choice.AtRook {
					side := types.KingSide
					if from.X-to.X == 2 {
						side = types.QueenSide
					}
					at = b.InitialRook(color, side)
				}
				return types.NewGate(from, to, choice.Kind, at), true
			}
		}
	}

	if fromHolding {
		return types.EncodeDrop(v, from, to)
	}
	return types.NewMove(from, to, promotion), true
}

// promotionFor picks the promotion piece for color. Variants with a single
// or a color-fixed promotion never ask.
func (c *Controller) promotionFor(color types.Color, v *types.Variant) (types.PieceKind, bool) {
	switch {
	case len(v.Promotions) == 1:
		return v.Promotions[0], true
	case v.Kind == types.LightBrigade:
		if color == types.White {
			return types.Queen, true
		}
		return types.Knight, true
	case c.autoPromote != nil && c.autoPromote():
		return types.Queen, true
	case c.promo == nil:
		return types.Queen, true
	}
	return c.promo.AskPromotion(color, v)
}

// inPlacePromotion returns the promotion for a pawn already standing in
// its zone: it may become a queen while its side has none, either where
// it stands or with a non-capturing diagonal step.
func inPlacePromotion(b types.Board, color types.Color, from, to types.Cord) types.PieceKind {
	v := b.Variant()
	if b.Count(color, types.Queen) > 0 {
		return types.NoKind
	}
	if v.InPromotionZone(color, to) {
		return types.Queen
	}
	if _, occupied := b.PieceAt(to); !occupied && (from.Index(v.Files)+to.Index(v.Files))%2 == 1 {
		return types.Queen
	}
	return types.NoKind
}

func (c *Controller) askGating(color types.Color, castling, hawk, elephant bool) (types.GateChoice, bool) {
	if c.gating == nil {
		return types.GateChoice{}, true
	}
	return c.gating.AskGating(color, castling, hawk, elephant)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
