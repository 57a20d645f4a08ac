// Package ui provides terminal UI components for termchess-local.
package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termchess-local/engine"
	"termchess-local/engine/standard"
	"termchess-local/types"
)

var thinkTimes = []int{0, 300, 600, 1200, 3000}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	errText  *tview.TextView
	onStart  func(engine.GameConfig)
	onCancel func()
	onColors func()

	gameCfg engine.GameConfig
}

// NewGameSetup creates a new game setup form starting from defaults.
func NewGameSetup(defaults engine.GameConfig, onStart func(engine.GameConfig), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onColors: onColors,
		gameCfg:  defaults,
	}

	colors := []string{"White (play first)", "Black (play second)"}
	opponents := []string{"Random mover", "Nobody (play both sides)"}
	times := []string{"instant", "0.3s", "0.6s", "1.2s", "3s"}

	form := tview.NewForm()

	form.AddDropDown("Your Color", colors, int(defaults.PlayerColor), func(option string, index int) {
		setup.gameCfg.PlayerColor = types.Color(index)
	})

	opponent := 0
	if defaults.HotSeat {
		opponent = 1
	}
	form.AddDropDown("Opponent", opponents, opponent, func(option string, index int) {
		setup.gameCfg.HotSeat = index == 1
	})

	form.AddDropDown("Think Time", times, closestTime(defaults.DelayMillis), func(option string, index int) {
		setup.gameCfg.DelayMillis = thinkTimes[index]
	})

	form.AddInputField("Start FEN", defaults.FEN, 40, nil, func(text string) {
		setup.gameCfg.FEN = strings.TrimSpace(text)
	})

	form.AddButton("Start Game", func() {
		if setup.gameCfg.FEN != "" {
			if _, err := standard.NewBoard(setup.gameCfg.FEN); err != nil {
				setup.errText.SetText(err.Error())
				return
			}
		}
		setup.errText.SetText("")
		onStart(setup.gameCfg)
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(tcell.ColorDarkCyan)
	form.SetButtonTextColor(tcell.ColorWhite)

	setup.errText = tview.NewTextView().SetTextAlign(tview.AlignCenter)
	setup.errText.SetTextColor(tcell.ColorRed)

	// Create help text
	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	// Create flex layout with form and help text
	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(setup.errText, 1, 0, false).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

func closestTime(ms int) int {
	best := 0
	for i, t := range thinkTimes {
		if abs(t-ms) < abs(thinkTimes[best]-ms) {
			best = i
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
