// termchess-local is a terminal application to play chess offline.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"termchess-local/config"
	"termchess-local/control"
	"termchess-local/engine"
	"termchess-local/engine/random"
	"termchess-local/engine/standard"
	"termchess-local/game"
	"termchess-local/types"
	"termchess-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagColor      = flag.String("color", "", "Player color (white or black)")
	flagFEN        = flag.String("fen", "", "Starting position in FEN")
	flagDelay      = flag.Int("delay", -1, "Opponent think time in milliseconds")
	flagSeed       = flag.Int64("seed", 0, "Opponent random seed")
	flagHotSeat    = flag.Bool("hotseat", false, "Play both sides from this terminal")
	flagFlip       = flag.Bool("flip", false, "Draw the board with black at the bottom")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagLogLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

const logFile = "termchess-local/termchess.log"

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.ChessBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var logger zerolog.Logger

var current *game.Game
var controller *control.Controller
var focusMode bool

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termchess-local %s\n", Version)
		return
	}

	// Settings may also come from a .env file next to the binary
	_ = godotenv.Load()

	closeLog, err := setupLogging()
	if err != nil {
		fmt.Printf("Logging disabled: %s\n", err)
	}
	defer closeLog()

	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if *flagFlip {
		cfg.Board.Flip = true
	}

	quickStart := *flagQuickStart || *flagColor != "" || *flagFEN != "" || *flagDelay >= 0 || *flagHotSeat || *flagFocus

	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ♞ termchess ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewChessBoard(cfg, gameHint)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(handleGameKey)
	app.SetMouseCapture(func(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
		if name, _ := rootPage.GetFrontPage(); name != "gameview" {
			return event, action
		}
		return gameBoard.HandleMouse(event, action)
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(
		buildGameConfigFromFlags(),
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, logger, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", setupUI.Form(), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		startGame(buildGameConfigFromFlags())
		if *flagFocus && current != nil {
			focusMode = true
			ui.BuildFocusLayout(gameFrame, gameBoard, current.History().LastPlayed().Variant())
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		panic(err)
	}
	if current != nil {
		current.Close()
	}
}

// setupLogging sends zerolog output to a file in the XDG state directory.
// The terminal belongs to the board, so nothing is logged to stderr.
func setupLogging() (func(), error) {
	logger = zerolog.Nop()
	noop := func() {}

	level := zerolog.InfoLevel
	name := *flagLogLevel
	if name == "" {
		name = os.Getenv("TERMCHESS_LOG_LEVEL")
	}
	if name != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return noop, fmt.Errorf("log level %q: %w", name, err)
		}
		level = l
	}

	path, err := xdg.StateFile(logFile)
	if err != nil {
		return noop, fmt.Errorf("locate log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return noop, fmt.Errorf("open log file: %w", err)
	}
	logger = zerolog.New(f).Level(level).With().Timestamp().Logger()
	logger.Info().Str("version", Version).Msg("starting")
	return func() { f.Close() }, nil
}

// handleGameKey routes keys on the game view to the board controller.
func handleGameKey(event *tcell.EventKey) *tcell.EventKey {
	if controller == nil {
		return event
	}
	switch event.Key() {
	case tcell.KeyEsc:
		gameBoard.ClearBuffer()
	case tcell.KeyEnter:
		controller.Enter()
		gameBoard.Refresh()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		controller.Backspace()
		gameBoard.Refresh()
	case tcell.KeyLeft:
		gameBoard.Browse(-1)
	case tcell.KeyRight:
		gameBoard.Browse(1)
	case tcell.KeyUp:
		gameBoard.Variation(-1)
	case tcell.KeyDown:
		gameBoard.Variation(1)
	case tcell.KeyEnd:
		gameBoard.Latest()
	case tcell.KeyHome:
		gameBoard.Browse(-current.History().LastPlayed().Ply())
	case tcell.KeyCtrlF:
		gameBoard.ToggleFlip()
	case tcell.KeyCtrlR:
		controller.Activate("resign")
	case tcell.KeyCtrlD:
		controller.Activate("draw")
	case tcell.KeyCtrlA:
		controller.Activate("abort")
	case tcell.KeyCtrlP:
		if current.Status() == control.StatusPaused {
			controller.Activate("resume1")
		} else {
			controller.Activate("pause1")
		}
	case tcell.KeyTab:
		focusMode = !focusMode
		if focusMode {
			ui.BuildFocusLayout(gameFrame, gameBoard, current.History().LastPlayed().Variant())
		} else {
			ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
		}
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if controller.Buffer() != "" {
				gameBoard.ClearBuffer()
				return nil
			}
			current.Close()
			rootPage.SwitchToPage("setup")
		case 'u':
			controller.Activate("undo1")
		case 'p':
			gameBoard.CyclePromotion()
		default:
			if controller.TypeRune(event.Rune()) {
				gameBoard.Refresh()
			}
		}
	default:
		return event
	}
	return nil
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	root, err := standard.NewBoard(gameCfg.FEN)
	if err != nil {
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return
	}
	if current != nil {
		current.Close()
	}

	rules := standard.NewRules()
	var opp engine.Opponent
	if !gameCfg.HotSeat {
		opp = random.NewMover(rules, gameCfg)
	}
	logger.Info().Str("fen", root.FEN()).Stringer("color", gameCfg.PlayerColor).Bool("hotseat", gameCfg.HotSeat).Msg("new game")

	current = game.New(game.Options{
		Rules:    rules,
		Opponent: opp,
		Root:     root,
		Local:    gameCfg.PlayerColor,
		Queue: func(f func()) {
			app.QueueUpdateDraw(f)
		},
		OnChange: gameBoard.Refresh,
		Sounds:   gameBoard.Sounds(),
		Logger:   logger,
	})
	controller = control.New(control.Options{
		Rules:        rules,
		Tree:         current.Tree(),
		Session:      current,
		Listener:     current,
		Display:      gameBoard,
		Sounds:       gameBoard.Sounds(),
		Promotion:    gameBoard.Promotion(),
		LocalPlayers: current.LocalPlayers(),
		AutoPromote:  func() bool { return cfg.Board.AutoPromote },
		ShowHover:    func() bool { return cfg.Board.ShowHover },
		Logger:       logger,
	})
	gameBoard.Connect(current, controller)
	current.Attach(controller)

	if !focusMode {
		ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
	}
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
}

// buildGameConfigFromFlags creates a GameConfig from the config file and command-line flags.
func buildGameConfigFromFlags() engine.GameConfig {
	gameCfg := engine.DefaultConfig()
	gameCfg.DelayMillis = cfg.Opponent.DelayMillis
	gameCfg.Seed = cfg.Opponent.Seed

	switch strings.ToLower(*flagColor) {
	case "white", "w":
		gameCfg.PlayerColor = types.White
	case "black", "b":
		gameCfg.PlayerColor = types.Black
	}
	if *flagFEN != "" {
		gameCfg.FEN = *flagFEN
	}
	if *flagDelay >= 0 {
		gameCfg.DelayMillis = *flagDelay
	}
	if *flagSeed != 0 {
		gameCfg.Seed = *flagSeed
	}
	gameCfg.HotSeat = *flagHotSeat

	return gameCfg
}
