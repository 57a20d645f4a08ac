package ui

import (
	"github.com/gdamore/tcell/v2"

	"termchess-local/config"
	"termchess-local/control"
	"termchess-local/types"
)

var promotionCycle = []types.PieceKind{types.Queen, types.Rook, types.Bishop, types.Knight}

// PromotionPicker answers promotion questions with a preselected piece.
// The terminal cannot pause mid-gesture for a dialog, so the piece is
// chosen ahead of time and cycled with a key.
type PromotionPicker struct {
	kind types.PieceKind
}

func NewPromotionPicker(c *config.Config) *PromotionPicker {
	kind, ok := c.PromotionKind()
	if !ok {
		kind = types.Queen
	}
	return &PromotionPicker{kind: kind}
}

// Current returns the preselected piece.
func (p *PromotionPicker) Current() types.PieceKind {
	return p.kind
}

// Cycle preselects the next piece.
func (p *PromotionPicker) Cycle() {
	for i, k := range promotionCycle {
		if k == p.kind {
			p.kind = promotionCycle[(i+1)%len(promotionCycle)]
			return
		}
	}
	p.kind = types.Queen
}

// AskPromotion implements control.PromotionAsker. Variants that do not
// allow the preselected piece get their first promotion piece.
func (p *PromotionPicker) AskPromotion(_ types.Color, v *types.Variant) (types.PieceKind, bool) {
	if len(v.Promotions) == 0 {
		return types.NoKind, false
	}
	for _, k := range v.Promotions {
		if k == p.kind {
			return k, true
		}
	}
	return v.Promotions[0], true
}

// BellPlayer rings the terminal bell for rejected moves and checks.
type BellPlayer struct {
	screen  func() tcell.Screen
	enabled func() bool
}

// Play implements control.SoundPlayer.
func (b *BellPlayer) Play(event string) {
	if b.enabled != nil && !b.enabled() {
		return
	}
	switch event {
	case control.SoundInvalidMove, control.SoundCheck:
	default:
		return
	}
	if s := b.screen(); s != nil {
		s.Beep()
	}
}
