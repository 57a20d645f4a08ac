package control

import (
	"github.com/google/uuid"

	"termchess-local/types"
)

// Tree is the variation tree the controller reads positions from and
// splices non-live moves into.
type Tree interface {
	BoardAtPly(ply, variation int) (types.Board, bool)
	LastPlayed() types.Board
	// Next returns the continuation of b on its own line.
	Next(b types.Board) (types.Board, bool)
	// Alternatives returns the first boards of the lines branching off b.
	Alternatives(b types.Board) []types.Board
	LastMove(b types.Board) (types.Move, bool)
	VariationOf(b types.Board) int
	// VariationID and VariationIndex map line indices, which shift when a
	// line is removed, to identifiers that do not.
	VariationID(variation int) (uuid.UUID, bool)
	VariationIndex(id uuid.UUID) int
	AddVariation(b types.Board, moves []types.Move) (types.Board, error)
	AddMoveToVariation(b types.Board, m types.Move, variation int) error
	UndoInVariation(b types.Board) error
}

// Status is the lifecycle state of the game being shown.
type Status int

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return "ended"
	}
}

// Session describes the players and mode of the game.
type Session interface {
	Status() Status
	// LocalToMove reports whether the side to move on the last played
	// board is controlled from this terminal.
	LocalToMove() bool
	// OpponentArtificial reports whether the side waiting to move is an engine.
	OpponentArtificial() bool
	// Examined reports whether the game is being examined with move
	// forwarding rights.
	Examined() bool
	// Online reports whether a server decides legality.
	Online() bool
	EngineVsEngine() bool
	// LowPly is the ply of the first position in the game.
	LowPly() int
	// ForwardExamined sends a move made while examining to the session channel.
	ForwardExamined(b types.Board, m types.Move)
}

// MoveEvent is a move accepted for live play. In position setup mode
// Setup is set and From/To carry the raw cord pair instead of Move.
type MoveEvent struct {
	Move  types.Move
	From  types.Cord
	To    types.Cord
	Setup bool
	Color types.Color
}

// ActionKind is a non-move game action requested by the player.
type ActionKind int

const (
	FlagCall ActionKind = iota
	AbortOffer
	AdjournOffer
	DrawOffer
	Resignation
	HurryAction
	TakebackOffer
	PauseOffer
	ResumeOffer
)

func (k ActionKind) String() string {
	switch k {
	case FlagCall:
		return "flag call"
	case AbortOffer:
		return "abort"
	case AdjournOffer:
		return "adjourn"
	case DrawOffer:
		return "draw offer"
	case Resignation:
		return "resignation"
	case HurryAction:
		return "hurry"
	case TakebackOffer:
		return "takeback"
	case PauseOffer:
		return "pause"
	case ResumeOffer:
		return "resume"
	default:
		return "unknown"
	}
}

// ActionEvent is an action notification. Param is the number of plies
// for takebacks and zero otherwise.
type ActionEvent struct {
	Kind   ActionKind
	Player types.Color
	Param  int
}

// Listener receives the controller's notifications.
type Listener interface {
	PieceMoved(e MoveEvent)
	Action(e ActionEvent)
	ShapesChanged()
}

// Display is repainted whenever interaction state changes.
type Display interface {
	Refresh()
}

// SoundPlayer plays named cues.
type SoundPlayer interface {
	Play(event string)
}

// Sound cue names.
const (
	SoundInvalidMove = "invalidMove"
	SoundMove        = "aPlayerMoves"
	SoundCapture     = "aPlayerCaptures"
	SoundCheck       = "aPlayerChecks"
)

// PromotionAsker asks which piece a pawn promotes to. ok is false when
// the player cancelled.
type PromotionAsker interface {
	AskPromotion(color types.Color, v *types.Variant) (kind types.PieceKind, ok bool)
}

// GatingAsker asks whether a move gates in a held piece. A choice with
// Kind NoKind means the move is made without gating; ok is false when the
// player cancelled.
type GatingAsker interface {
	AskGating(color types.Color, castling, hawk, elephant bool) (choice types.GateChoice, ok bool)
}
