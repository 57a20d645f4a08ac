// Package game runs a local game between the terminal player and an
// engine.Opponent and feeds the board controller.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"termchess-local/control"
	"termchess-local/engine"
	"termchess-local/tree"
	"termchess-local/types"
)

// ErrNotRunning is returned when a move arrives after the game stopped.
var ErrNotRunning = errors.New("game is not running")

// Encoder renders moves in human notation.
type Encoder interface {
	Encode(b types.Board, m types.Move) string
}

// Options configures a Game. Rules and Root are required.
type Options struct {
	Rules    engine.Rules
	Opponent engine.Opponent
	Root     types.Board
	// Local is the side played from this terminal.
	Local types.Color
	// Queue runs f on the goroutine that owns the controller. Opponent
	// replies arrive through it. Defaults to calling f directly.
	Queue func(f func())
	// OnChange is called after anything shown in the status panel changed.
	OnChange func()
	// Sounds plays the cue for every move added to the main line.
	Sounds control.SoundPlayer
	Logger zerolog.Logger
}

// Game is the session model: it owns the tree, applies accepted moves to
// the main line and asks the opponent for replies.
type Game struct {
	rules  engine.Rules
	opp    engine.Opponent
	tree   *tree.Tree
	local  types.Color
	lowPly int

	status  control.Status
	result  string
	message string

	ctl      *control.Controller
	queue    func(func())
	onChange func()
	sounds   control.SoundPlayer
	log      zerolog.Logger

	cancel context.CancelFunc
	// gen changes whenever pending replies become stale.
	gen int
}

// New creates a running game starting at opts.Root.
func New(opts Options) *Game {
	g := &Game{
		rules:    opts.Rules,
		opp:      opts.Opponent,
		tree:     tree.New(opts.Root),
		local:    opts.Local,
		lowPly:   opts.Root.Ply(),
		status:   control.StatusRunning,
		queue:    opts.Queue,
		onChange: opts.OnChange,
		sounds:   opts.Sounds,
		log:      opts.Logger.With().Str("component", "game").Logger(),
	}
	if g.queue == nil {
		g.queue = func(f func()) { f() }
	}
	return g
}

// Attach connects the controller and starts the opponent if it moves first.
func (g *Game) Attach(ctl *control.Controller) {
	g.ctl = ctl
	g.sync()
	g.maybeThink()
}

// Tree returns the view of the game tree used by the controller.
func (g *Game) Tree() control.Tree {
	return moveTree{Tree: g.tree, rules: g.rules}
}

// History returns the game tree for browsing.
func (g *Game) History() *tree.Tree {
	return g.tree
}

// LocalPlayers returns which colors are played from this terminal.
func (g *Game) LocalPlayers() [2]bool {
	var local [2]bool
	local[g.local] = true
	if g.opp == nil {
		local[g.local.Other()] = true
	}
	return local
}

// Local returns the side played from this terminal.
func (g *Game) Local() types.Color {
	return g.local
}

// OpponentName names the other side.
func (g *Game) OpponentName() string {
	if g.opp == nil {
		return "local player"
	}
	return g.opp.Name()
}

// Result is the final score, empty while the game goes on.
func (g *Game) Result() string {
	return g.result
}

// Message is the latest note for the player.
func (g *Game) Message() string {
	return g.message
}

// Notation renders m played on b.
func (g *Game) Notation(b types.Board, m types.Move) string {
	if e, ok := g.rules.(Encoder); ok {
		return e.Encode(b, m)
	}
	return m.String()
}

// Show displays b, which must be in the tree, and locks the board when it
// is the opponent's turn on the last played position.
func (g *Game) Show(b types.Board) {
	if g.ctl == nil {
		return
	}
	v := g.tree.VariationOf(b)
	if v < 0 {
		return
	}
	g.ctl.SetShown(b.Ply(), v)
	g.ctl.SetLocked(!g.LocalToMove())
	g.changed()
}

// Close stops a pending opponent reply.
func (g *Game) Close() {
	g.stopThinking()
}

// Status implements control.Session.
func (g *Game) Status() control.Status {
	return g.status
}

// LocalToMove implements control.Session.
func (g *Game) LocalToMove() bool {
	return g.LocalPlayers()[g.tree.LastPlayed().Turn()]
}

// OpponentArtificial implements control.Session.
func (g *Game) OpponentArtificial() bool {
	return g.opp != nil
}

// Examined implements control.Session.
func (g *Game) Examined() bool { return false }

// Online implements control.Session.
func (g *Game) Online() bool { return false }

// EngineVsEngine implements control.Session.
func (g *Game) EngineVsEngine() bool { return false }

// LowPly implements control.Session.
func (g *Game) LowPly() int {
	return g.lowPly
}

// ForwardExamined implements control.Session. Local games are never examined.
func (g *Game) ForwardExamined(_ types.Board, m types.Move) {
	g.log.Warn().Stringer("move", m).Msg("examined move in a local game")
}

// PieceMoved implements control.Listener.
func (g *Game) PieceMoved(e control.MoveEvent) {
	if e.Setup {
		return
	}
	if err := g.Play(e.Move); err != nil {
		g.log.Warn().Err(err).Stringer("move", e.Move).Msg("move rejected")
	}
}

// Action implements control.Listener.
func (g *Game) Action(e control.ActionEvent) {
	g.log.Info().Stringer("action", e.Kind).Stringer("player", e.Player).Int("param", e.Param).Msg("action")
	switch e.Kind {
	case control.Resignation:
		g.end(winner(e.Player.Other()), e.Player.String()+" resigns")
	case control.AbortOffer:
		if g.status == control.StatusRunning {
			g.end("*", "game aborted")
		}
	case control.TakebackOffer:
		g.takeback(e.Param)
	case control.PauseOffer:
		g.pause()
	case control.ResumeOffer:
		g.resume()
	case control.DrawOffer:
		g.note("%s declines the draw", g.OpponentName())
	default:
		g.note("%s is not available offline", e.Kind)
	}
}

// ShapesChanged implements control.Listener.
func (g *Game) ShapesChanged() {
	g.changed()
}

// Play applies m to the last played position.
func (g *Game) Play(m types.Move) error {
	if g.status != control.StatusRunning {
		return ErrNotRunning
	}
	last := g.tree.LastPlayed()
	next, err := g.rules.Apply(last, m)
	if err != nil {
		return fmt.Errorf("play %s: %w", m, err)
	}
	g.log.Info().Int("ply", next.Ply()).Str("move", g.Notation(last, m)).Msg("move played")
	g.message = ""
	g.cue(last, m)
	g.tree.AddMainMove(tree.Step{Move: m, Board: next})
	if len(g.rules.GenAllMoves(next)) == 0 {
		if g.rules.GivesCheck(last, m) {
			g.end(winner(last.Turn()), "checkmate")
		} else {
			g.end("1/2-1/2", "stalemate")
		}
		g.sync()
		return nil
	}
	g.sync()
	g.maybeThink()
	return nil
}

// sync shows the last played board and locks it on the opponent's turn.
func (g *Game) sync() {
	if g.ctl != nil {
		last := g.tree.LastPlayed()
		g.ctl.SetShown(last.Ply(), 0)
		g.ctl.SetLocked(!g.LocalToMove())
	}
	g.changed()
}

func (g *Game) maybeThink() {
	if g.opp == nil || g.status != control.StatusRunning || g.LocalToMove() || g.cancel != nil {
		return
	}
	b := g.tree.LastPlayed()
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	gen := g.gen
	g.log.Debug().Int("ply", b.Ply()).Str("opponent", g.opp.Name()).Msg("thinking")
	go func() {
		m, err := g.opp.Reply(ctx, b)
		g.queue(func() {
			cancel()
			if gen != g.gen || g.tree.LastPlayed() != b {
				return
			}
			g.cancel = nil
			if err != nil {
				g.log.Error().Err(err).Msg("opponent reply")
				return
			}
			if err := g.Play(m); err != nil {
				g.log.Error().Err(err).Msg("opponent move")
			}
		})
	}()
}

func (g *Game) stopThinking() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.gen++
}

// takeback removes n plies from the main line. Side lines branching off
// the removed plies go with them.
func (g *Game) takeback(n int) {
	if g.status != control.StatusRunning {
		return
	}
	last := g.tree.LastPlayed()
	if avail := last.Ply() - g.lowPly; n > avail {
		n = avail
	}
	if n <= 0 {
		return
	}
	g.stopThinking()
	b := g.tree.TruncateMain(n)
	g.log.Info().Int("plies", n).Int("ply", b.Ply()).Msg("takeback")
	if g.ctl != nil {
		g.ctl.MovesUndone()
	}
	g.sync()
	g.maybeThink()
}

func (g *Game) pause() {
	if g.status != control.StatusRunning {
		return
	}
	g.stopThinking()
	g.status = control.StatusPaused
	g.note("game paused")
	g.sync()
}

func (g *Game) resume() {
	if g.status != control.StatusPaused {
		return
	}
	g.status = control.StatusRunning
	g.message = ""
	g.sync()
	g.maybeThink()
}

func (g *Game) end(result, reason string) {
	g.stopThinking()
	g.status = control.StatusEnded
	g.result = result
	g.message = reason
	g.log.Info().Str("result", result).Str("reason", reason).Msg("game over")
	if g.ctl != nil {
		g.ctl.GameEnded()
	}
	g.changed()
}

func (g *Game) cue(b types.Board, m types.Move) {
	if g.sounds == nil {
		return
	}
	switch {
	case g.rules.GivesCheck(b, m):
		g.sounds.Play(control.SoundCheck)
	case g.rules.IsCapture(b, m):
		g.sounds.Play(control.SoundCapture)
	default:
		g.sounds.Play(control.SoundMove)
	}
}

func (g *Game) note(format string, args ...interface{}) {
	g.message = fmt.Sprintf(format, args...)
	g.changed()
}

func (g *Game) changed() {
	if g.onChange != nil {
		g.onChange()
	}
}

func winner(c types.Color) string {
	if c == types.White {
		return "1-0"
	}
	return "0-1"
}
