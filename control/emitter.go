package control

import (
	"termchess-local/types"
)

// emitMove resolves and emits a move accepted by the state machine.
func (c *Controller) emitMove(from, to types.Cord) {
	b := c.board()
	if b == nil {
		return
	}
	if c.setup {
		p, ok := b.PieceAt(from)
		if !ok {
			return
		}
		c.listener.PieceMoved(MoveEvent{From: from, To: to, Setup: true, Color: p.Color})
		return
	}
	m, ok := c.resolve(b, from, to, types.NoKind)
	if !ok {
		c.refresh()
		return
	}
	if !c.rules.Validate(b, m) {
		c.play(SoundInvalidMove)
		c.refresh()
		return
	}
	c.dispatch(b, m)
}

// isLive reports whether a move on b is played in the game rather than
// added to the tree.
func (c *Controller) isLive(b types.Board) bool {
	return (c.session.LocalToMove() || c.session.Examined()) &&
		c.variation == 0 &&
		c.isLastPlayed(b) &&
		c.session.Status() == StatusRunning
}

// dispatch hands a complete, legal move to the host or splices it into the tree.
func (c *Controller) dispatch(b types.Board, m types.Move) {
	if c.isLive(b) {
		c.log.Info().Str("move", m.String()).Stringer("color", b.Turn()).Msg("piece moved")
		c.listener.PieceMoved(MoveEvent{Move: m, Color: b.Turn()})
		if c.session.Examined() {
			c.session.ForwardExamined(b, m)
		}
		return
	}
	c.playOrAdd(b, m)
}

// playOrAdd replays m when it matches an existing continuation of b and
// otherwise records it as a new variation.
func (c *Controller) playOrAdd(b types.Board, m types.Move) {
	c.playSound(b, m)
	next, ok := c.tree.Next(b)
	if !ok {
		if c.variation != 0 {
			if err := c.tree.AddMoveToVariation(b, m, c.variation); err != nil {
				c.log.Warn().Err(err).Str("move", m.String()).Msg("extend variation")
				return
			}
			c.showNext()
			return
		}
		c.addVariation(b, m)
		return
	}
	if lm, ok := c.tree.LastMove(next); ok && lm.Same(m) {
		c.showBoard(next)
		return
	}
	for _, alt := range c.tree.Alternatives(b) {
		if lm, ok := c.tree.LastMove(alt); ok && lm.Same(m) && alt.Ply() == b.Ply()+1 {
			c.showBoard(alt)
			return
		}
	}
	c.addVariation(b, m)
}

func (c *Controller) addVariation(b types.Board, m types.Move) {
	leaf, err := c.tree.AddVariation(b, []types.Move{m})
	if err != nil {
		c.log.Warn().Err(err).Str("move", m.String()).Msg("add variation")
		return
	}
	c.showBoard(leaf)
}

func (c *Controller) playSound(b types.Board, m types.Move) {
	sound := SoundMove
	if c.rules.IsCapture(b, m) {
		sound = SoundCapture
	}
	if c.rules.GivesCheck(b, m) {
		sound = SoundCheck
	}
	c.play(sound)
}

// tryPremove plays or discards the pending premove once the local side is
// to move at the ply before its target.
func (c *Controller) tryPremove() {
	pm, ok := c.premove.Get()
	if !ok {
		return
	}
	c.syncLine()
	if c.variation == 0 && pm.TargetPly <= c.shown {
		c.premove.Clear()
		c.log.Debug().Int("target", pm.TargetPly).Msg("stale premove discarded")
		return
	}
	b := c.board()
	if pm.TargetPly-1 != c.shown || c.state.Locked() || !c.isLive(b) {
		return
	}
	c.premove.Clear()
	if p, ok := b.PieceAt(pm.From); !ok || p != pm.Piece {
		c.log.Debug().Str("from", pm.From.String()).Msg("premove piece gone")
		c.refresh()
		return
	}
	m, ok := c.resolve(b, pm.From, pm.To, pm.Promotion)
	if !ok {
		c.log.Debug().Str("from", pm.From.String()).Str("to", pm.To.String()).Msg("premove cancelled")
		c.refresh()
		return
	}
	if !c.rules.Validate(b, m) {
		c.log.Debug().Str("move", m.String()).Msg("premove no longer legal")
		c.refresh()
		return
	}
	c.dispatch(b, m)
}
