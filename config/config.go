package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/adrg/xdg"

	"termchess-local/types"
)

var (
	cfgFile = "termchess-local/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	LightSquare int `json:"light_square"`
	DarkSquare  int `json:"dark_square"`
	WhitePiece  int `json:"white_piece"`
	BlackPiece  int `json:"black_piece"`
	Coordinates int `json:"coordinates"`
	SelectedBG  int `json:"selected_bg"`
	HoverBG     int `json:"hover_bg"`
	LastMoveBG  int `json:"last_move_bg"`
	PremoveBG   int `json:"premove_bg"`
	ShapeGreen  int `json:"shape_green"`
	ShapeRed    int `json:"shape_red"`
	ShapeBlue   int `json:"shape_blue"`
	ShapeYellow int `json:"shape_yellow"`
}

type ConfigSymbols struct {
	// Pieces holds the glyphs for king, queen, rook, bishop, knight and pawn.
	Pieces  string `json:"pieces"`
	Empty   rune   `json:"empty"`
	Arrow   rune   `json:"arrow"`
	Circle  rune   `json:"circle"`
	Premove rune   `json:"premove"`
}

type Theme struct {
	DrawLastMoveBackground bool          `json:"draw_last_move_bg"`
	DrawCoordinates        bool          `json:"draw_coordinates"`
	Colors                 ConfigColors  `json:"colors"`
	Symbols                ConfigSymbols `json:"symbols"`
}

// BoardConfig holds input preferences for the board.
type BoardConfig struct {
	AutoPromote bool   `json:"auto_promote"`
	PromoteTo   string `json:"promote_to"`
	ShowHover   bool   `json:"show_hover"`
	Sounds      bool   `json:"sounds"`
	Flip        bool   `json:"flip"`
}

// OpponentConfig holds settings for the random mover.
type OpponentConfig struct {
	DelayMillis int   `json:"delay_ms"`
	Seed        int64 `json:"seed"`
}

type Config struct {
	Theme    Theme          `json:"theme"`
	Board    BoardConfig    `json:"board"`
	Opponent OpponentConfig `json:"opponent"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	symbols := []rune(c.Theme.Symbols.Pieces)
	if len(symbols) != 6 {
		return &InvalidConfig{"pieces must list exactly 6 symbols (K Q R B N P)"}
	}
	symbols = append(symbols, c.Theme.Symbols.Empty, c.Theme.Symbols.Arrow, c.Theme.Symbols.Circle, c.Theme.Symbols.Premove)
	for _, r := range symbols {
		if r < 32 || (r >= 127 && r <= 159) || r == utf8.RuneError {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if _, ok := c.PromotionKind(); !ok {
		return &InvalidConfig{fmt.Sprintf("promote_to %q is not one of q, r, b, n", c.Board.PromoteTo)}
	}
	if c.Opponent.DelayMillis < 0 {
		return &InvalidConfig{"delay_ms must not be negative"}
	}
	return nil
}

// PromotionKind returns the piece the promotion picker starts on.
func (c *Config) PromotionKind() (types.PieceKind, bool) {
	if len(c.Board.PromoteTo) != 1 {
		return types.NoKind, false
	}
	k, ok := types.KindFromLetter(c.Board.PromoteTo[0])
	if !ok {
		return types.NoKind, false
	}
	switch k {
	case types.Queen, types.Rook, types.Bishop, types.Knight:
		return k, true
	}
	return types.NoKind, false
}

// Symbol returns the glyph drawn for kind.
func (c *Config) Symbol(kind types.PieceKind) rune {
	symbols := []rune(c.Theme.Symbols.Pieces)
	order := []types.PieceKind{types.King, types.Queen, types.Rook, types.Bishop, types.Knight, types.Pawn}
	for i, k := range order {
		if k == kind && i < len(symbols) {
			return symbols[i]
		}
	}
	return rune(kind.Letter() - 'a' + 'A')
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
