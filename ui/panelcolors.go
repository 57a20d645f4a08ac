package ui

import "github.com/gdamore/tcell/v2"

// PanelColors defines the Nord-inspired color palette for the frames around the board.
var PanelColors = struct {
	Border      tcell.Color // Muted blue-gray for borders
	BorderFocus tcell.Color // Brighter blue for the focused frame
	Title       tcell.Color // Bright white for titles
}{
	Border:      tcell.PaletteColor(60),  // Muted blue-gray
	BorderFocus: tcell.PaletteColor(109), // Brighter blue
	Title:       tcell.PaletteColor(255), // Bright white
}
