// Package ui specifies custom controls for tview to play chess in the terminal.
package ui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/config"
	"termchess-local/control"
	"termchess-local/game"
	"termchess-local/types"
)

const (
	// columns per square; terminal cells are about twice as tall as wide
	cellWidth = 2
	// columns left of the grid reserved for rank labels
	labelWidth = 3
)

type ChessBoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	game      *game.Game
	ctl       *control.Controller
	promo     *PromotionPicker
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	screen    tcell.Screen
	flip      bool

	// widget geometry of the last draw
	matrix    control.Matrix
	pointerIn bool
}

func NewChessBoard(c *config.Config, hint *tview.TextView) *ChessBoardUI {
	board := &ChessBoardUI{
		Box:  tview.NewBox(),
		hint: hint,
		flip: c.Board.Flip,
	}
	board.SetConfig(c)
	board.promo = NewPromotionPicker(c)
	board.Box.SetDrawFunc(board.draw)
	return board
}

// Connect shows g on the board through ctl.
func (g *ChessBoardUI) Connect(gm *game.Game, ctl *control.Controller) {
	g.game = gm
	g.ctl = ctl
	g.refreshHint()
}

// Promotion returns the promotion picker consulted by the controller.
func (g *ChessBoardUI) Promotion() *PromotionPicker {
	return g.promo
}

// Sounds returns a sound player ringing the terminal bell.
func (g *ChessBoardUI) Sounds() *BellPlayer {
	return &BellPlayer{
		screen:  func() tcell.Screen { return g.screen },
		enabled: func() bool { return g.cfg.Board.Sounds },
	}
}

// Refresh implements control.Display. The application redraws after every
// event, so only the text around the board needs updating here.
func (g *ChessBoardUI) Refresh() {
	g.refreshHint()
}

func (g *ChessBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.LightSquare), // 0
		tcell.PaletteColor(c.Theme.Colors.DarkSquare),  // 1
		tcell.PaletteColor(c.Theme.Colors.WhitePiece),  // 2
		tcell.PaletteColor(c.Theme.Colors.BlackPiece),  // 3
		tcell.PaletteColor(c.Theme.Colors.Coordinates), // 4
		tcell.PaletteColor(c.Theme.Colors.SelectedBG),  // 5
		tcell.PaletteColor(c.Theme.Colors.HoverBG),     // 6
		tcell.PaletteColor(c.Theme.Colors.LastMoveBG),  // 7
		tcell.PaletteColor(c.Theme.Colors.PremoveBG),   // 8
		tcell.PaletteColor(c.Theme.Colors.ShapeGreen),  // 9
		tcell.PaletteColor(c.Theme.Colors.ShapeRed),    // 10
		tcell.PaletteColor(c.Theme.Colors.ShapeBlue),   // 11
		tcell.PaletteColor(c.Theme.Colors.ShapeYellow), // 12
	}
	g.cfg = c
}

// ToggleFlip turns the board around and returns whether black is at the bottom.
func (g *ChessBoardUI) ToggleFlip() bool {
	g.flip = !g.flip
	return g.flip
}

// boardMatrix maps board drawing space, one unit per square with rank
// Ranks-1 on top, to widget cells.
func boardMatrix(v *types.Variant, flip bool) control.Matrix {
	left := labelWidth
	if v.Drops {
		left += 3 * cellWidth
	}
	m := control.Identity()
	if flip {
		m = control.Scale(-1, -1).Multiply(control.Translate(float64(v.Files), float64(v.Ranks)))
	}
	return m.Multiply(control.Scale(cellWidth, 1)).Multiply(control.Translate(float64(left), 0))
}

// BoardSize returns the widget cells needed to draw v.
func BoardSize(v *types.Variant) (int, int) {
	w := labelWidth + v.Files*cellWidth + 1
	if v.Drops {
		w += 6 * cellWidth
	}
	return w, v.Ranks + 2
}

// cellOf returns the widget column and row of the left cell of square c.
func (g *ChessBoardUI) cellOf(v *types.Variant, c types.Cord) (int, int) {
	x, y := g.matrix.TransformPoint(float64(c.X)+0.5, float64(v.Ranks-1-c.Y)+0.5)
	return int(math.Floor(x)) - cellWidth/2, int(math.Floor(y))
}

func (g *ChessBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	g.screen = screen
	if g.ctl == nil {
		return x, y, width, height
	}
	b := g.ctl.ShownBoard()
	if b == nil {
		return x, y, width, height
	}
	v := b.Variant()
	w, h := BoardSize(v)
	g.matrix = boardMatrix(v, g.flip)
	g.ctl.SetGeometry(control.Geometry{
		Matrix: g.matrix,
		Side:   1,
		Width:  float64(w),
		Height: float64(h),
	})

	ix := g.ctl.Interaction()
	marks := g.squareMarks(b, ix)
	for file := 0; file < v.Files; file++ {
		for rank := 0; rank < v.Ranks; rank++ {
			c := types.Cord{X: file, Y: rank}
			col, row := g.cellOf(v, c)
			bg := g.styles[0]
			if (file+rank)%2 == 0 {
				bg = g.styles[1]
			}
			if i, ok := marks[c]; ok {
				bg = g.styles[i]
			}
			r, fg := g.cfg.Theme.Symbols.Empty, g.styles[4]
			if p, ok := b.PieceAt(c); ok && !(ix.Dragged != nil && cordIs(ix.Active, c)) {
				r, fg = g.glyph(p)
			}
			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			screen.SetContent(x+col, y+row, r, nil, style)
			screen.SetContent(x+col+1, y+row, ' ', nil, style)
		}
	}
	if v.Drops {
		g.drawHoldings(screen, x, y, b)
	}
	g.drawShapes(screen, x, y, v)
	g.drawDragged(screen, x, y, v, ix)
	if g.cfg.Theme.DrawCoordinates {
		g.drawCoordinates(screen, x, y, v)
	}
	return x, y, w, h
}

// squareMarks returns the highlight style index per square, strongest last.
func (g *ChessBoardUI) squareMarks(b types.Board, ix control.Interaction) map[types.Cord]int {
	marks := make(map[types.Cord]int)
	if g.cfg.Theme.DrawLastMoveBackground {
		if m, ok := g.game.History().LastMove(b); ok && m.Special != types.Drop {
			marks[m.From] = 7
		}
		if m, ok := g.game.History().LastMove(b); ok {
			marks[m.To] = 7
		}
	}
	if pm, ok := g.ctl.Premove(); ok {
		marks[pm.From] = 8
		marks[pm.To] = 8
	}
	if ix.Hover != nil {
		marks[*ix.Hover] = 6
	}
	for _, c := range []*types.Cord{ix.Selected, ix.Active} {
		if c != nil {
			marks[*c] = 5
		}
	}
	return marks
}

func (g *ChessBoardUI) glyph(p types.Piece) (rune, tcell.Color) {
	fg := g.styles[2]
	if p.Color == types.Black {
		fg = g.styles[3]
	}
	return g.cfg.Symbol(p.Kind), fg
}

func (g *ChessBoardUI) drawHoldings(screen tcell.Screen, x, y int, b types.Board) {
	v := b.Variant()
	for _, color := range []types.Color{types.White, types.Black} {
		for _, kind := range []types.PieceKind{types.Pawn, types.Knight, types.Bishop, types.Rook, types.Queen} {
			slot, ok := v.HoldingCord(color, kind)
			if !ok {
				continue
			}
			n := b.Holding(color, kind)
			if n == 0 {
				continue
			}
			col, row := g.cellOf(v, slot)
			r, fg := g.glyph(types.Piece{Color: color, Kind: kind})
			style := tcell.StyleDefault.Foreground(fg)
			screen.SetContent(x+col, y+row, r, nil, style)
			screen.SetContent(x+col+1, y+row, rune('0'+n%10), nil, style.Foreground(g.styles[4]))
		}
	}
}

func (g *ChessBoardUI) shapeStyle(c control.ShapeColor) tcell.Color {
	switch c {
	case control.ShapeRed:
		return g.styles[10]
	case control.ShapeBlue:
		return g.styles[11]
	case control.ShapeYellow:
		return g.styles[12]
	}
	return g.styles[9]
}

// drawShapes marks annotated squares in the right cell of the square.
func (g *ChessBoardUI) drawShapes(screen tcell.Screen, x, y int, v *types.Variant) {
	mark := func(c types.Cord, r rune, color control.ShapeColor) {
		col, row := g.cellOf(v, c)
		_, _, style, _ := screen.GetContent(x+col+1, y+row)
		screen.SetContent(x+col+1, y+row, r, nil, style.Foreground(g.shapeStyle(color)))
	}
	shapes := g.ctl.Shapes()
	for _, ci := range shapes.Circles() {
		mark(ci.At, g.cfg.Theme.Symbols.Circle, ci.Color)
	}
	for _, a := range shapes.Arrows() {
		mark(a.From, g.cfg.Theme.Symbols.Circle, a.Color)
		mark(a.To, g.cfg.Theme.Symbols.Arrow, a.Color)
	}
	ci, a := shapes.Pending()
	if ci != nil {
		mark(ci.At, g.cfg.Theme.Symbols.Circle, ci.Color)
	}
	if a != nil {
		mark(a.From, g.cfg.Theme.Symbols.Circle, a.Color)
		mark(a.To, g.cfg.Theme.Symbols.Arrow, a.Color)
	}
}

// drawDragged draws the piece being dragged under the pointer.
func (g *ChessBoardUI) drawDragged(screen tcell.Screen, x, y int, v *types.Variant, ix control.Interaction) {
	if ix.Dragged == nil || ix.Active == nil {
		return
	}
	at := types.Cord{X: int(math.Floor(ix.DragX)), Y: int(math.Floor(ix.DragY))}
	if !v.Addressable(at) {
		return
	}
	col, row := g.cellOf(v, at)
	r, fg := g.glyph(*ix.Dragged)
	_, _, style, _ := screen.GetContent(x+col, y+row)
	screen.SetContent(x+col, y+row, r, nil, style.Foreground(fg).Bold(true))
}

func (g *ChessBoardUI) drawCoordinates(screen tcell.Screen, x, y int, v *types.Variant) {
	style := tcell.StyleDefault.Foreground(g.styles[4])
	for file := 0; file < v.Files; file++ {
		col, _ := g.cellOf(v, types.Cord{X: file, Y: 0})
		screen.SetContent(x+col, y+v.Ranks, rune('a'+file), nil, style)
	}
	for rank := 0; rank < v.Ranks; rank++ {
		_, row := g.cellOf(v, types.Cord{X: 0, Y: rank})
		label := fmt.Sprintf("%2d", rank+1)
		for i, r := range label {
			screen.SetContent(x+i, y+row, r, nil, style)
		}
	}
}

// HandleMouse feeds mouse events over the board, and drags that leave it,
// to the controller. Events it does not use are returned unchanged.
func (g *ChessBoardUI) HandleMouse(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	if g.ctl == nil || event == nil {
		return event, action
	}
	mx, my := event.Position()
	bx, by, bw, bh := g.Box.GetInnerRect()
	inBox := mx >= bx && mx < bx+bw && my >= by && my < by+bh
	x, y := float64(mx-bx)+0.5, float64(my-by)+0.5
	mod := modifiers(event.Modifiers())

	switch action {
	case tview.MouseLeftDown, tview.MouseRightDown:
		if !inBox {
			return event, action
		}
		g.ctl.Press(x, y, button(action), mod)
	case tview.MouseLeftUp, tview.MouseRightUp:
		g.ctl.Release(x, y, button(action), mod)
	case tview.MouseMove:
		if inBox || event.Buttons() != tcell.ButtonNone {
			g.ctl.Motion(x, y)
		}
		if !inBox && g.pointerIn {
			g.ctl.Leave(x, y)
		}
	default:
		return event, action
	}
	g.pointerIn = inBox
	g.refreshHint()
	return nil, action
}

func button(action tview.MouseAction) control.Button {
	if action == tview.MouseRightDown || action == tview.MouseRightUp {
		return control.ButtonRight
	}
	return control.ButtonLeft
}

func modifiers(m tcell.ModMask) control.Modifier {
	var mod control.Modifier
	if m&tcell.ModShift != 0 {
		mod |= control.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= control.ModCtrl
	}
	return mod
}

// Browse moves the shown position delta plies along its line.
func (g *ChessBoardUI) Browse(delta int) {
	if g.game == nil {
		return
	}
	tr := g.game.History()
	b := g.ctl.ShownBoard()
	for ; delta != 0 && b != nil; delta -= sign(delta) {
		var next types.Board
		var ok bool
		if delta > 0 {
			next, ok = tr.Next(b)
		} else {
			next, ok = tr.Prev(b)
		}
		if !ok {
			break
		}
		b = next
	}
	if b != nil {
		g.game.Show(b)
	}
}

// Variation switches to the neighbouring alternative at the shown ply.
func (g *ChessBoardUI) Variation(delta int) {
	if g.game == nil {
		return
	}
	if b, ok := g.game.History().Sibling(g.ctl.ShownBoard(), delta); ok {
		g.game.Show(b)
	}
}

// Latest shows the last played position.
func (g *ChessBoardUI) Latest() {
	if g.game != nil {
		g.game.Show(g.game.History().LastPlayed())
	}
}

// ClearBuffer empties the move entry buffer.
func (g *ChessBoardUI) ClearBuffer() {
	for g.ctl.Buffer() != "" {
		g.ctl.Backspace()
	}
	g.refreshHint()
}

// CyclePromotion selects the next promotion piece.
func (g *ChessBoardUI) CyclePromotion() {
	g.promo.Cycle()
	g.refreshHint()
}

func (g *ChessBoardUI) refreshHint() {
	if g.infoPanel != nil && g.game != nil {
		g.infoPanel.Update(g.game, g.ctl)
	}
	if g.game == nil || g.ctl == nil {
		g.hint.SetText("")
		return
	}

	var statusLine string
	switch {
	case g.game.Result() != "":
		statusLine = fmt.Sprintf("  Game over: %s (%s)", g.game.Result(), g.game.Message())
	case g.game.Message() != "":
		statusLine = "  " + g.game.Message()
	case g.game.LocalToMove():
		statusLine = fmt.Sprintf("  Your move (%s)", g.game.History().LastPlayed().Turn())
	default:
		statusLine = fmt.Sprintf("  %s is thinking...", g.game.OpponentName())
	}
	if buf := g.ctl.Buffer(); buf != "" {
		statusLine += "   > " + buf
	}
	if _, ok := g.ctl.Premove(); ok {
		statusLine += "   premove set"
	}
	controlsLine := fmt.Sprintf("\n  type SAN + ⏎   ←→ plies  ↑↓ lines  u undo  p promote=%c  ^F flip  ^R resign  q quit",
		g.cfg.Symbol(g.promo.Current()))
	g.hint.SetText(statusLine + controlsLine)
}

func cordIs(p *types.Cord, c types.Cord) bool {
	return p != nil && *p == c
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
