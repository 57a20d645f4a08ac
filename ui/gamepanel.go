package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"termchess-local/control"
	"termchess-local/game"
	"termchess-local/tree"
	"termchess-local/types"
)

// GameInfoPanel displays game information and the move list alongside the board.
type GameInfoPanel struct {
	box *tview.TextView
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// Update redraws the panel for the position shown by ctl.
func (p *GameInfoPanel) Update(g *game.Game, ctl *control.Controller) {
	shown := ctl.ShownBoard()
	if shown == nil {
		p.box.SetText("")
		return
	}
	tr := g.History()

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"
	text += fmt.Sprintf("[white]You:[-:-:-] %s\n", g.Local())
	text += fmt.Sprintf("[white]Opponent:[-:-:-] %s\n", g.OpponentName())
	text += fmt.Sprintf("[white]Status:[-:-:-] %s\n", g.Status())
	if g.Result() != "" {
		text += fmt.Sprintf("[white]Result:[-:-:-] %s\n", g.Result())
	}
	if pm, ok := ctl.Premove(); ok {
		text += fmt.Sprintf("[white]Premove:[-:-:-] %s%s\n", pm.From, pm.To)
	}
	if n := len(ctl.Shapes().Arrows()) + len(ctl.Shapes().Circles()); n > 0 {
		text += fmt.Sprintf("[white]Marks:[-:-:-] %d\n", n)
	}

	_, variation := ctl.Shown()
	if variation != 0 {
		text += "\n[yellow::b]VARIATION[-:-:-]\n"
	} else {
		text += "\n[white::b]Moves[-:-:-]\n"
	}
	text += "[dimgray]──────────────────────[-:-:-]\n"
	if n := tr.NumVariations(shown); n > 1 {
		text += fmt.Sprintf("[dimgray]var %d/%d[-]\n", tr.SiblingIndex(shown)+1, n)
	}

	line := lineBoards(tr, shown)
	if len(line) == 0 {
		text += "[dimgray]  (no moves)[-]\n"
		p.box.SetText(text)
		return
	}

	// Show last N moves that fit, keeping the shown move visible
	maxVisible := 12
	current := -1
	for i, b := range line {
		if b == shown {
			current = i
		}
	}
	start := 0
	if len(line) > maxVisible {
		start = len(line) - maxVisible
		if current >= 0 && current < start {
			start = current
		}
	}

	for i := start; i < len(line) && i < start+maxVisible; i++ {
		b := line[i]
		prev, _ := tr.Prev(b)
		m, _ := tr.LastMove(b)

		num := fmt.Sprintf("%3d.", (prev.Ply()/2)+1)
		if prev.Turn() == types.Black {
			num = "    "
		}
		marker := " "
		if i == current {
			marker = "[yellow]>[-]"
		}
		text += fmt.Sprintf("%s[dimgray]%s[-] %s\n", marker, num, g.Notation(prev, m))
	}

	if start > 0 {
		text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
	}

	p.box.SetText(text)
}

// lineBoards returns the boards after each move of the line through b,
// from the first move to the end of that line.
func lineBoards(tr *tree.Tree, b types.Board) []types.Board {
	leaf := b
	for {
		next, ok := tr.Next(leaf)
		if !ok {
			break
		}
		leaf = next
	}
	var out []types.Board
	for cur := leaf; ; {
		prev, ok := tr.Prev(cur)
		if !ok {
			break
		}
		out = append(out, cur)
		cur = prev
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *ChessBoardUI, hint *tview.TextView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint)
	return mainFlex
}

// RebuildNormalLayout restores the normal game layout with board, info panel, and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *ChessBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	// Create the info panel
	infoPanel := NewGameInfoPanel()
	hint.SetBorderColor(PanelColors.Border)
	hint.SetTitleColor(PanelColors.Title)

	// Store panel reference in board for updates
	board.infoPanel = infoPanel
	board.refreshHint()

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)         // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false) // Info panel (fixed width)

	// Main vertical flex: board area on top, compact status bar at bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *ChessBoardUI, v *types.Variant) {
	gameFrame.Clear()
	board.infoPanel = nil

	boardWidth, boardHeight := BoardSize(v)

	// Center board with flex spacers
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)               // left spacer
	centerRow.AddItem(board.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)               // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true) // center row (fixed height)
	gameFrame.AddItem(nil, 0, 1, false)                // bottom spacer
}
