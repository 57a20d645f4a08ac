// Package engine defines the rule oracle and opponent interfaces used by the board controller.
package engine

import (
	"context"
	"errors"

	"termchess-local/types"
)

var (
	// ErrParse is returned when text cannot be read as a move.
	ErrParse = errors.New("unparsable move")
	// ErrIllegal is returned when a move is applied to a board where it is not legal.
	ErrIllegal = errors.New("illegal move")
	// ErrNoMoves is returned by opponents asked to move in a finished position.
	ErrNoMoves = errors.New("no legal moves")
)

// Rules is the legality oracle and move generator. Implementations own the
// chess rules; nothing else in the program checks legality.
type Rules interface {
	// Validate reports whether m is legal on b. A move without a promotion
	// piece to a promotion square is legal when some promotion of it is.
	Validate(b types.Board, m types.Move) bool

	// GenAllMoves enumerates every legal move on b.
	GenAllMoves(b types.Board) []types.Move

	// Apply returns the board reached by playing m on b.
	Apply(b types.Board, m types.Move) (types.Board, error)

	// Parse reads algebraic move text against b.
	Parse(b types.Board, text string) (types.Move, error)

	// IsCapture reports whether m takes a piece on b.
	IsCapture(b types.Board, m types.Move) bool

	// GivesCheck reports whether m leaves the opponent in check.
	GivesCheck(b types.Board, m types.Move) bool
}

// Opponent produces replies for the side the local player does not control.
type Opponent interface {
	// Name is shown in the status panel.
	Name() string

	// Reply picks a move on b. It may block until ctx is done.
	Reply(ctx context.Context, b types.Board) (types.Move, error)
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	FEN         string      // Starting position, empty for the initial position
	PlayerColor types.Color // Side the local player controls
	DelayMillis int         // Opponent think time
	Seed        int64       // Opponent random seed, 0 picks one
	HotSeat     bool        // Both sides played from this terminal
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		PlayerColor: types.White,
		DelayMillis: 600,
	}
}
