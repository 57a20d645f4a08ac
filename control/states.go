package control

import (
	"termchess-local/types"
)

// State is one of the six interaction states. Locked states are used
// while the opponent is to move.
type State int

const (
	Normal State = iota
	Selected
	Active
	LockedNormal
	LockedSelected
	LockedActive

	numStates = 6
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Selected:
		return "selected"
	case Active:
		return "active"
	case LockedNormal:
		return "locked normal"
	case LockedSelected:
		return "locked selected"
	case LockedActive:
		return "locked active"
	default:
		return "invalid"
	}
}

// Locked reports whether s is used during the opponent's turn.
func (s State) Locked() bool {
	return s >= LockedNormal
}

func (s State) lockedVariant() State {
	if s.Locked() {
		return s
	}
	return s + LockedNormal
}

func (s State) unlockedVariant() State {
	if s.Locked() {
		return s - LockedNormal
	}
	return s
}

// pendingMove is a from/to pair to hand to the emitter once the state
// change that accepted it is in place.
type pendingMove struct {
	from types.Cord
	to   types.Cord
}

// transition enters next, mirroring the current lock, and then emits any
// pending move. Emission comes last because listeners may lock the board.
func (c *Controller) transition(next State, pending *pendingMove) {
	if next == c.state && pending == nil {
		return
	}
	if c.state.Locked() {
		next = next.lockedVariant()
	} else {
		next = next.unlockedVariant()
		c.premove.Clear()
	}
	if next.unlockedVariant() == Normal {
		c.ix.Selected = nil
		c.ix.Active = nil
		c.ix.Dragged = nil
	}
	if next != c.state {
		c.log.Debug().Stringer("from", c.state).Stringer("to", next).Msg("state")
	}
	c.state = next
	c.refresh()
	if pending != nil {
		c.emitMove(pending.from, pending.to)
	}
}

// isSelectable reports whether cord is a valid target for the next press
// or release in state s.
func (c *Controller) isSelectable(s State, cord *types.Cord) bool {
	if cord == nil {
		return false
	}
	if c.setup {
		return true
	}
	if !c.variant().Addressable(*cord) {
		return false
	}
	b := c.board()
	if b == nil {
		return false
	}
	p, occupied := b.PieceAt(*cord)
	switch s {
	case Normal:
		return occupied && p.Color == b.Turn()
	case Selected:
		if occupied && p.Color == b.Turn() {
			return true
		}
		return c.validate(c.ix.Selected, cord)
	case Active:
		return c.validate(c.ix.Active, cord)
	case LockedNormal:
		return c.allowPremove && occupied && p.Color != b.Turn()
	case LockedSelected:
		if occupied && p.Color != b.Turn() {
			return true
		}
		return c.potentiallyLegal(c.ix.Selected, cord)
	case LockedActive:
		return c.potentiallyLegal(c.ix.Active, cord)
	}
	return false
}

func (c *Controller) press(s State, x, y float64) (State, *pendingMove) {
	cord := c.point(x, y)
	switch s {
	case Normal, LockedNormal:
		next := s
		if c.isSelectable(s, cord) {
			c.grab(*cord)
			next = Active
		}
		if s == LockedNormal && c.premove.Touches(cord) {
			c.premove.Clear()
			c.refresh()
		}
		return next, nil

	case Selected, LockedSelected:
		var next State
		if c.isSelectable(s, cord) {
			if c.ix.Selected != nil && *c.ix.Selected != *cord && c.reselects(s, *cord) {
				// a different own piece was pressed and will be dragged
				// elsewhere; release resolves from the selection
				c.ix.Selected = copyCord(cord)
			}
			c.grab(*cord)
			next = Active
		} else {
			c.ix.Selected = nil
			next = Normal
			if s == Selected && !c.setup {
				c.play(SoundInvalidMove)
			}
		}
		if s == LockedSelected && c.premove.Touches(cord) {
			c.premove.Clear()
			c.refresh()
		}
		return next, nil
	}
	return s, nil
}

// reselects reports whether pressing cord while a selection exists picks
// up another friendly piece rather than marking a destination.
func (c *Controller) reselects(s State, cord types.Cord) bool {
	b := c.board()
	p, occupied := b.PieceAt(cord)
	if s == LockedSelected {
		return occupied && p.Color != b.Turn() && !c.potentiallyLegal(c.ix.Selected, &cord)
	}
	friendly := c.setup || (occupied && p.Color == b.Turn())
	return friendly && !c.validate(c.ix.Selected, &cord)
}

// grab starts dragging the piece on cord.
func (c *Controller) grab(cord types.Cord) {
	if b := c.board(); b != nil {
		if p, ok := b.PieceAt(cord); ok {
			c.ix.Dragged = &p
		}
	}
	c.ix.Active = &cord
	c.ix.DragX = float64(cord.X) + 0.5
	c.ix.DragY = float64(cord.Y) + 0.5
}

func (c *Controller) release(s State, x, y float64) (State, *pendingMove) {
	var next State
	var pending *pendingMove
	switch s {
	case Active:
		next, pending = c.releaseActive(x, y)
	case LockedActive:
		next = c.releaseLockedActive(x, y)
	default:
		return s, nil
	}
	c.selectedLast = copyCord(c.ix.Selected)
	if next.unlockedVariant() == Normal {
		c.selectedLast = nil
	}
	return next, pending
}

func (c *Controller) releaseActive(x, y float64) (State, *pendingMove) {
	cord := c.point(x, y)
	sel, act := c.ix.Selected, c.ix.Active
	if sel != nil && !cordEq(cord, act) && !c.validate(sel, cord) && !c.setup {
		c.play(SoundInvalidMove)
	}
	switch {
	case cord == nil:
		return Normal, nil

	case sel != nil:
		if c.validate(sel, cord) {
			src := *sel
			pending := &pendingMove{from: src, to: *cord}
			if c.setup && c.variant().InHoldingRange(src) {
				// keep the holding piece selected for repeated placement
				c.ix.Active = nil
				c.ix.Dragged = nil
				return Selected, pending
			}
			return Normal, pending
		}
		if cordEq(cord, act) && cordEq(act, sel) && cordEq(sel, c.selectedLast) {
			// second click on the same piece
			return Normal, nil
		}
		c.ix.Active = nil
		c.ix.Dragged = nil
		return Selected, nil

	case c.validate(act, cord):
		return Normal, &pendingMove{from: *act, to: *cord}

	case act != nil:
		c.ix.Selected = act
		c.ix.Active = nil
		c.ix.Dragged = nil
		return Selected, nil
	}
	return Normal, nil
}

func (c *Controller) releaseLockedActive(x, y float64) State {
	cord := c.point(x, y)
	sel, act := c.ix.Selected, c.ix.Active
	switch {
	case cordEq(cord, act) && cordEq(act, sel) && cordEq(sel, c.selectedLast):
		return Normal

	case c.allowPremove && sel != nil && c.potentiallyLegal(sel, cord):
		c.setPremove(*sel, *cord)
		return Normal

	case c.allowPremove && c.potentiallyLegal(act, cord):
		c.setPremove(*act, *cord)
		return Normal

	case act != nil || sel != nil:
		if act != nil {
			c.ix.Selected = act
		}
		c.ix.Active = nil
		c.ix.Dragged = nil
		return Selected
	}
	return Normal
}

// setPremove queues from -> to for the local side's next turn. A
// cancelled promotion dialog leaves no premove behind.
func (c *Controller) setPremove(from, to types.Cord) {
	b := c.board()
	if b == nil {
		return
	}
	p, _ := b.PieceAt(from)
	local := b.Turn().Other()
	v := b.Variant()
	promotion := types.NoKind
	if p.Kind == types.Pawn && !v.InHoldingRange(from) && v.Kind != types.Sittuyin && v.InPromotionZone(local, to) {
		kind, ok := c.promotionFor(local, v)
		if !ok {
			c.log.Debug().Msg("premove promotion cancelled")
			return
		}
		promotion = kind
	}
	c.premove.Set(Premove{
		Piece:     p,
		From:      from,
		To:        to,
		TargetPly: c.shown + 2,
		Promotion: promotion,
	})
	c.log.Debug().Str("from", from.String()).Str("to", to.String()).Int("target", c.shown+2).Msg("premove set")
}

func (c *Controller) motion(s State, x, y float64) {
	cord := c.point(x, y)
	before := c.ix.Hover

	if s == LockedSelected {
		if !cordEq(c.lastMotion[s], cord) {
			c.lastMotion[s] = copyCord(cord)
			if cord != nil && c.potentiallyLegal(c.ix.Selected, cord) {
				if c.hoverAllowed() {
					c.ix.Hover = cord
				}
			} else {
				c.ix.Hover = nil
			}
		}
	} else if !cordEq(c.lastMotion[s], cord) {
		c.lastMotion[s] = copyCord(cord)
		if cord != nil && c.isSelectable(s, cord) {
			if c.hoverAllowed() {
				c.ix.Hover = cord
			}
		} else {
			c.ix.Hover = nil
		}
	}

	dragged := false
	if s == Active || s == LockedActive {
		dragged = c.drag(s, x, y)
	}
	if dragged || !cordEq(before, c.ix.Hover) {
		c.refresh()
	}
}

// drag moves the dragged piece with the pointer. Only pieces of the side
// whose input the state accepts follow the pointer.
func (c *Controller) drag(s State, x, y float64) bool {
	if c.ix.Active == nil {
		return false
	}
	b := c.board()
	if b == nil {
		return false
	}
	p, ok := b.PieceAt(*c.ix.Active)
	if !ok {
		return false
	}
	own := p.Color == b.Turn()
	if s == LockedActive {
		own = !own
	}
	if !own && !c.setup {
		return false
	}
	bx, by, ok := c.BoardPoint(x, y)
	if !ok || (bx == c.ix.DragX && by == c.ix.DragY) {
		return false
	}
	c.ix.DragX, c.ix.DragY = bx, by
	return true
}

// validate reports whether from -> to is a legal move on the shown board.
func (c *Controller) validate(from, to *types.Cord) bool {
	if from == nil || to == nil {
		return false
	}
	v := c.variant()
	if *from == *to && v.Kind != types.Sittuyin {
		return false
	}
	b := c.board()
	if b == nil {
		return false
	}
	if _, ok := b.PieceAt(*from); !ok {
		return false
	}
	if c.setup {
		return !(v.InHoldingRange(*from) && v.InHoldingRange(*to))
	}
	if v.InHoldingRange(*to) {
		return false
	}
	m, ok := candidate(v, *from, *to)
	return ok && c.rules.Validate(b, m)
}

// candidate builds the plain or drop move a from/to pair stands for.
func candidate(v *types.Variant, from, to types.Cord) (types.Move, bool) {
	if v.InHoldingRange(from) {
		return types.EncodeDrop(v, from, to)
	}
	return types.NewMove(from, to, types.NoKind), true
}

// PotentiallyLegal reports whether from -> to is legal on any board
// reachable by one move from the locked ply.
func (c *Controller) PotentiallyLegal(from, to types.Cord) bool {
	return c.potentiallyLegal(&from, &to)
}

func (c *Controller) potentiallyLegal(from, to *types.Cord) bool {
	if from == nil || to == nil {
		return false
	}
	boards, ok := c.cache.Get(c.lockedPly)
	if !ok {
		return false
	}
	for _, b := range boards {
		if _, ok := b.PieceAt(*from); !ok {
			continue
		}
		m, ok := candidate(b.Variant(), *from, *to)
		if ok && c.rules.Validate(b, m) {
			return true
		}
	}
	return false
}

// possibleBoards enumerates the boards one legal move away from the
// position at ply on the shown line.
func (c *Controller) possibleBoards(ply int) []types.Board {
	if c.setup || c.session.EngineVsEngine() {
		return nil
	}
	c.syncLine()
	b, ok := c.tree.BoardAtPly(ply, c.variation)
	if !ok {
		return nil
	}
	moves := c.rules.GenAllMoves(b)
	boards := make([]types.Board, 0, len(moves))
	for _, m := range moves {
		next, err := c.rules.Apply(b, m)
		if err != nil {
			c.log.Warn().Err(err).Str("move", m.String()).Msg("generated move did not apply")
			continue
		}
		boards = append(boards, next)
	}
	c.log.Debug().Int("ply", ply).Int("boards", len(boards)).Msg("possible boards")
	return boards
}
