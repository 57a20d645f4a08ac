// Package control turns pointer and keyboard input on a chess board into
// validated moves, premoves and game actions.
package control

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"termchess-local/engine"
	"termchess-local/types"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
)

// Options configures a Controller. Rules, Tree, Session and Listener are required.
type Options struct {
	Rules     engine.Rules
	Tree      Tree
	Session   Session
	Listener  Listener
	Display   Display
	Sounds    SoundPlayer
	Promotion PromotionAsker
	Gating    GatingAsker
	Geometry  Geometry

	// SetupPosition enables free-form editing without legality checks.
	SetupPosition bool
	// Preview restricts input to the annotation layer.
	Preview bool
	// LocalPlayers marks which colors are played from this terminal.
	LocalPlayers [2]bool

	AutoPromote func() bool
	ShowHover   func() bool

	Logger zerolog.Logger
}

// Interaction is the selection and drag state rendered by the board view.
type Interaction struct {
	Selected *types.Cord
	Active   *types.Cord
	Hover    *types.Cord
	Dragged  *types.Piece
	// DragX and DragY are the board-space position of the dragged piece.
	DragX, DragY float64
}

// Controller is the board interaction state machine. It is not safe for
// concurrent use; every method must run on the UI goroutine.
type Controller struct {
	rules    engine.Rules
	tree     Tree
	session  Session
	listener Listener
	display  Display
	sounds   SoundPlayer
	promo    PromotionAsker
	gating   GatingAsker

	setup        bool
	preview      bool
	local        [2]bool
	allowPremove bool
	autoPromote  func() bool
	showHover    func() bool

	geo mapper
	log zerolog.Logger

	state        State
	ix           Interaction
	selectedLast *types.Cord
	lastMotion   [numStates]*types.Cord

	shown     int
	variation int
	line      uuid.UUID
	lockedPly int
	cache     *BoardsCache
	premove   PremoveSlot

	keys   []byte
	shapes Shapes
}

// New creates a controller showing the last played board of the tree.
func New(opts Options) *Controller {
	c := &Controller{
		rules:       opts.Rules,
		tree:        opts.Tree,
		session:     opts.Session,
		listener:    opts.Listener,
		display:     opts.Display,
		sounds:      opts.Sounds,
		promo:       opts.Promotion,
		gating:      opts.Gating,
		setup:       opts.SetupPosition,
		preview:     opts.Preview,
		local:       opts.LocalPlayers,
		autoPromote: opts.AutoPromote,
		showHover:   opts.ShowHover,
		geo:         newMapper(opts.Geometry),
		log:         opts.Logger.With().Str("component", "control").Logger(),
		state:       Normal,
		cache:       NewBoardsCache(),
		shapes:      newShapes(),
	}
	c.allowPremove = !c.setup && (c.local[types.White] || c.local[types.Black])
	last := c.tree.LastPlayed()
	c.SetShown(last.Ply(), 0)
	return c
}

// SetGeometry updates where the board is drawn.
func (c *Controller) SetGeometry(g Geometry) {
	c.geo = newMapper(g)
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.state
}

// Interaction returns a copy of the selection and drag state.
func (c *Controller) Interaction() Interaction {
	ix := c.ix
	ix.Selected = copyCord(ix.Selected)
	ix.Active = copyCord(ix.Active)
	ix.Hover = copyCord(ix.Hover)
	if ix.Dragged != nil {
		p := *ix.Dragged
		ix.Dragged = &p
	}
	return ix
}

// Premove returns the pending premove.
func (c *Controller) Premove() (Premove, bool) {
	return c.premove.Get()
}

// Shown returns the displayed ply and variation index.
func (c *Controller) Shown() (ply, variation int) {
	c.syncLine()
	return c.shown, c.variation
}

// ShownBoard returns the displayed board.
func (c *Controller) ShownBoard() types.Board {
	return c.board()
}

// PointToCord maps a widget point to a board coordinate.
func (c *Controller) PointToCord(x, y float64) (types.Cord, bool) {
	return c.geo.pointToCord(c.variant(), x, y)
}

// BoardPoint returns the continuous board-space point for a widget point.
func (c *Controller) BoardPoint(x, y float64) (float64, float64, bool) {
	return c.geo.transPoint(c.variant(), x, y)
}

func (c *Controller) point(x, y float64) *types.Cord {
	cord, ok := c.PointToCord(x, y)
	if !ok {
		return nil
	}
	return &cord
}

// syncLine looks up the index of the shown line again. It is -1 once the
// line has been removed.
func (c *Controller) syncLine() {
	if c.line == uuid.Nil {
		return
	}
	c.variation = c.tree.VariationIndex(c.line)
}

func (c *Controller) board() types.Board {
	c.syncLine()
	b, ok := c.tree.BoardAtPly(c.shown, c.variation)
	if !ok {
		return nil
	}
	return b
}

func (c *Controller) variant() *types.Variant {
	return c.tree.LastPlayed().Variant()
}

func (c *Controller) isLastPlayed(b types.Board) bool {
	return b != nil && b == c.tree.LastPlayed()
}

func (c *Controller) refresh() {
	if c.display != nil {
		c.display.Refresh()
	}
}

func (c *Controller) play(sound string) {
	if c.sounds != nil {
		c.sounds.Play(sound)
	}
}

func (c *Controller) hoverAllowed() bool {
	if c.session.Online() {
		return false
	}
	return c.showHover == nil || c.showHover()
}

// SetShown changes the displayed board. The possible boards for the new
// ply are regenerated and a pending premove is tried.
func (c *Controller) SetShown(ply, variation int) {
	c.shown = ply
	c.variation = variation
	c.line, _ = c.tree.VariationID(variation)
	c.lockedPly = ply
	c.cache.Store(ply, c.possibleBoards(ply))
	c.cache.Evict(ply - 2)
	c.tryPremove()
	c.refresh()
}

func (c *Controller) showBoard(b types.Board) {
	v := c.tree.VariationOf(b)
	if v < 0 {
		c.log.Warn().Int("ply", b.Ply()).Msg("shown board is not in the tree")
		return
	}
	c.SetShown(b.Ply(), v)
}

func (c *Controller) showNext() {
	b := c.board()
	if b == nil {
		return
	}
	if next, ok := c.tree.Next(b); ok {
		c.showBoard(next)
	}
}

// SetLocked switches between the local player's and the opponent's turn.
// Locking only takes effect while the last played board is shown and the
// game is running; otherwise the board is unlocked. Selections and drags
// carry over.
func (c *Controller) SetLocked(locked bool) {
	prev := c.state
	if locked && !c.setup && c.isLastPlayed(c.board()) && c.session.Status() == StatusRunning {
		c.state = prev.lockedVariant()
	} else {
		c.state = prev.unlockedVariant()
	}
	if c.state != prev {
		c.log.Debug().Stringer("from", prev).Stringer("to", c.state).Msg("lock changed")
	}
	if !c.state.Locked() {
		c.tryPremove()
	}
	c.refresh()
}

// MovesUndone resets interaction after moves were taken back.
func (c *Controller) MovesUndone() {
	c.clearInteraction()
	c.premove.Clear()
	if !c.session.Examined() {
		c.state = LockedNormal
	}
	c.refresh()
}

// GameEnded resets interaction and leaves the board unlocked for review.
func (c *Controller) GameEnded() {
	c.clearInteraction()
	c.selectedLast = nil
	c.premove.Clear()
	c.state = Normal
	c.refresh()
}

func (c *Controller) clearInteraction() {
	c.ix.Selected = nil
	c.ix.Active = nil
	c.ix.Hover = nil
	c.ix.Dragged = nil
}

// Press handles a pointer button press at widget point (x, y).
func (c *Controller) Press(x, y float64, button Button, mod Modifier) {
	if button == ButtonRight {
		c.shapePress(x, y, mod)
		return
	}
	c.clearShapes()
	if c.preview {
		return
	}
	next, pending := c.press(c.state, x, y)
	c.transition(next, pending)
}

// Release handles a pointer button release at widget point (x, y).
func (c *Controller) Release(x, y float64, button Button, mod Modifier) {
	if button == ButtonRight {
		c.shapeRelease(x, y)
		return
	}
	if c.preview {
		return
	}
	next, pending := c.release(c.state, x, y)
	c.transition(next, pending)
}

// Motion handles pointer movement to widget point (x, y).
func (c *Controller) Motion(x, y float64) {
	c.shapeMotion(x, y)
	if c.preview {
		return
	}
	c.motion(c.state, x, y)
}

// Leave handles the pointer leaving the widget at (x, y).
func (c *Controller) Leave(x, y float64) {
	if !c.geo.inside(x, y) && c.ix.Hover != nil {
		c.ix.Hover = nil
		c.refresh()
	}
}

func copyCord(c *types.Cord) *types.Cord {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// cordEq compares optional cords; two absent cords are equal.
func cordEq(a, b *types.Cord) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
