package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawLastMoveBackground: true,
		DrawCoordinates:        true,
		Colors: ConfigColors{
			LightSquare: 180,
			DarkSquare:  137,
			WhitePiece:  255,
			BlackPiece:  232,
			Coordinates: 245,
			SelectedBG:  108,
			HoverBG:     144,
			LastMoveBG:  143,
			PremoveBG:   67,
			ShapeGreen:  28,
			ShapeRed:    124,
			ShapeBlue:   25,
			ShapeYellow: 178,
		},
		Symbols: ConfigSymbols{
			Pieces:  "♚♛♜♝♞♟",
			Empty:   ' ',
			Arrow:   '•',
			Circle:  '○',
			Premove: '·',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Board: BoardConfig{
			AutoPromote: false,
			PromoteTo:   "q",
			ShowHover:   true,
			Sounds:      true,
			Flip:        false,
		},
		Opponent: OpponentConfig{
			DelayMillis: 600,
		},
	}
}
