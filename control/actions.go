package control

import "termchess-local/types"

var actionKeys = map[string]ActionKind{
	"call_flag":   FlagCall,
	"abort":       AbortOffer,
	"adjourn":     AdjournOffer,
	"draw":        DrawOffer,
	"resign":      Resignation,
	"ask_to_move": HurryAction,
	"pause1":      PauseOffer,
	"resume1":     ResumeOffer,
}

// Activate runs a menu action by key. It returns false for unknown keys.
func (c *Controller) Activate(key string) bool {
	if key == "undo1" {
		c.undo()
		return true
	}
	kind, ok := actionKeys[key]
	if !ok {
		return false
	}
	c.listener.Action(ActionEvent{Kind: kind, Player: c.actingColor()})
	return true
}

// actingColor is the local side when exactly one side is local, and the
// side to move otherwise.
func (c *Controller) actingColor() types.Color {
	turn := c.tree.LastPlayed().Turn()
	if c.local[turn] || !c.local[turn.Other()] {
		return turn
	}
	return turn.Other()
}

// undo takes back the shown move. Inside a side line the move is removed
// from the tree; on the main line a takeback is requested, two plies when
// that returns the turn to a local player facing an engine or a server.
func (c *Controller) undo() {
	b := c.board()
	if b == nil {
		return
	}
	if _, ok := c.tree.Next(b); ok {
		return
	}
	if len(c.tree.Alternatives(b)) > 0 {
		return
	}
	if c.variation != 0 {
		prev, ok := c.tree.BoardAtPly(b.Ply()-1, c.variation)
		if err := c.tree.UndoInVariation(b); err != nil {
			c.log.Warn().Err(err).Msg("undo in variation")
			return
		}
		if ok {
			c.showBoard(prev)
		}
		return
	}

	n := 1
	plies := c.tree.LastPlayed().Ply() - c.session.LowPly()
	if c.session.LocalToMove() && (c.session.OpponentArtificial() || c.session.Online()) && plies > 1 {
		n = 2
	}
	c.listener.Action(ActionEvent{Kind: TakebackOffer, Player: c.actingColor(), Param: n})
}
