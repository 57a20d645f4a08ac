package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"termchess-local/config"
	"termchess-local/types"
)

// ColorConfigUI provides a square color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()
	log       zerolog.Logger

	selectedLight int
	selectedDark  int
	editingDark   bool
}

type paletteEntry struct {
	code int
	name string
}

var lightSquareColors = []paletteEntry{
	{180, "Tan"},
	{230, "Light Cream"},
	{229, "Pale Yellow"},
	{223, "Peach"},
	{187, "Wheat"},
	{188, "Light Beige"},
	{252, "Light Gray"},
	{250, "Gray"},
	{194, "Mint"},
	{195, "Ice"},
	{225, "Pink"},
}

var darkSquareColors = []paletteEntry{
	{137, "Walnut"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{65, "Tournament Green"},
	{22, "Dark Green"},
	{24, "Dark Cyan"},
	{60, "Slate"},
	{240, "Gray"},
	{88, "Dark Red"},
}

// previewPieces is a corner of the initial position, files a-d, ranks 1-4.
var previewPieces = map[types.Cord]types.Piece{
	{X: 0, Y: 0}: {Kind: types.Rook, Color: types.White},
	{X: 1, Y: 0}: {Kind: types.Knight, Color: types.White},
	{X: 2, Y: 0}: {Kind: types.Bishop, Color: types.White},
	{X: 3, Y: 0}: {Kind: types.Queen, Color: types.White},
	{X: 0, Y: 1}: {Kind: types.Pawn, Color: types.White},
	{X: 1, Y: 1}: {Kind: types.Pawn, Color: types.White},
	{X: 3, Y: 3}: {Kind: types.Pawn, Color: types.White},
	{X: 2, Y: 2}: {Kind: types.Knight, Color: types.Black},
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, log zerolog.Logger, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:           cfg,
		onDone:        onDone,
		log:           log.With().Str("component", "colors").Logger(),
		selectedLight: cfg.Theme.Colors.LightSquare,
		selectedDark:  cfg.Theme.Colors.DarkSquare,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		palette := cc.palette()
		if index < 0 || index >= len(palette) {
			return
		}
		if cc.editingDark {
			cc.selectedDark = palette[index].code
		} else {
			cc.selectedLight = palette[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(cc.palette()) {
			return
		}
		if !cc.editingDark {
			cc.editingDark = true
			cc.populateColorList()
			return
		}
		cc.Apply()
		cc.editingDark = false
		cc.populateColorList()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 32, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) palette() []paletteEntry {
	if cc.editingDark {
		return darkSquareColors
	}
	return lightSquareColors
}

// Apply stores the selected colors in the config file.
func (cc *ColorConfigUI) Apply() {
	cc.cfg.Theme.Colors.LightSquare = cc.selectedLight
	cc.cfg.Theme.Colors.DarkSquare = cc.selectedDark
	if err := cc.cfg.Save(); err != nil {
		cc.log.Error().Err(err).Msg("save config")
	}
}

func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	current := cc.selectedLight
	if cc.editingDark {
		cc.colorList.SetTitle(" Dark Squares (Tab: light) ")
		current = cc.selectedDark
	} else {
		cc.colorList.SetTitle(" Light Squares (Tab: dark) ")
	}
	for i, c := range cc.palette() {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range cc.palette() {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const size = 4
	startX := x + 2
	startY := y + 1
	if width < 2*size+4 || height < size+4 {
		return x, y, width, height
	}

	colors := cc.cfg.Theme.Colors
	for row := 0; row < size; row++ {
		rank := size - 1 - row
		for file := 0; file < size; file++ {
			bg := tcell.PaletteColor(cc.selectedDark)
			if (file+rank)%2 == 1 {
				bg = tcell.PaletteColor(cc.selectedLight)
			}
			style := tcell.StyleDefault.Background(bg)
			glyph := ' '
			if p, ok := previewPieces[types.Cord{X: file, Y: rank}]; ok {
				glyph = cc.cfg.Symbol(p.Kind)
				fg := colors.WhitePiece
				if p.Color == types.Black {
					fg = colors.BlackPiece
				}
				style = style.Foreground(tcell.PaletteColor(fg))
			}
			screen.SetContent(startX+file*2, startY+row, glyph, nil, style)
			screen.SetContent(startX+file*2+1, startY+row, ' ', nil, style)
		}
	}

	info := fmt.Sprintf("Light: %d  Dark: %d", cc.selectedLight, cc.selectedDark)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+size+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between light and dark square editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingDark = !cc.editingDark
	cc.populateColorList()
}
