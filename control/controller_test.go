package control

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"termchess-local/types"
)

func TestClickMove(t *testing.T) {
	h := newStandard(t, "")
	h.wantState(Normal)

	h.click("e2")
	h.wantState(Selected)
	if sel := h.ctl.Interaction().Selected; sel == nil || *sel != sq(t, "e2") {
		t.Fatalf("selected = %v, want e2", sel)
	}

	h.click("e4")
	h.wantMoves("e2e4")
	if h.rec.moves[0].Color != types.White {
		t.Fatalf("move color = %v", h.rec.moves[0].Color)
	}
	// the host applied the move and black is to move
	h.wantState(LockedNormal)
	if ix := h.ctl.Interaction(); ix.Selected != nil || ix.Active != nil || ix.Dragged != nil {
		t.Fatalf("interaction not cleared: %+v", ix)
	}
}

func TestDragMove(t *testing.T) {
	h := newStandard(t, "")
	h.press("g1")
	h.wantState(Active)
	if d := h.ctl.Interaction().Dragged; d == nil || d.Kind != types.Knight {
		t.Fatalf("dragged = %v, want knight", d)
	}
	h.drag("g1", "f3")
	h.wantMoves("g1f3")
}

func TestDoubleClickDeselects(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.wantState(Selected)
	h.click("e2")
	h.wantState(Normal)
	h.wantMoves()
	if sel := h.ctl.Interaction().Selected; sel != nil {
		t.Fatalf("selected = %v after double click", sel)
	}
	if n := h.sounds.count(SoundInvalidMove); n != 0 {
		t.Fatalf("deselect played %d invalid cues", n)
	}
}

func TestIllegalDropSelectsPiece(t *testing.T) {
	h := newStandard(t, "")
	h.drag("e2", "e5")
	h.wantMoves()
	h.wantState(Selected)
	if sel := h.ctl.Interaction().Selected; sel == nil || *sel != sq(t, "e2") {
		t.Fatalf("selected = %v, want e2", sel)
	}

	// pressing an unreachable square drops the selection with a cue
	h.press("e6")
	h.wantState(Normal)
	if n := h.sounds.count(SoundInvalidMove); n != 1 {
		t.Fatalf("invalid cues = %d, want 1", n)
	}
}

func TestIllegalReleaseAfterSelectCues(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.press("d2")
	h.release("d5")
	h.wantMoves()
	if n := h.sounds.count(SoundInvalidMove); n != 1 {
		t.Fatalf("invalid cues = %d, want 1", n)
	}
	// d2 was picked up instead of marking a destination
	if sel := h.ctl.Interaction().Selected; sel == nil || *sel != sq(t, "d2") {
		t.Fatalf("selected = %v, want d2", sel)
	}
}

func TestSelectThenDragOtherPiece(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.drag("g1", "f3")
	h.wantMoves("g1f3")
}

func TestOpponentPieceNotSelectable(t *testing.T) {
	h := newStandard(t, "")
	h.press("e7")
	h.wantState(Normal)
	h.press("e4")
	h.wantState(Normal)
}

func TestReleaseOffBoardReverts(t *testing.T) {
	h := newStandard(t, "")
	h.press("e2")
	h.ctl.Release(-5, 3, ButtonLeft, 0)
	h.wantState(Normal)
	h.wantMoves()
	if ix := h.ctl.Interaction(); ix.Active != nil || ix.Dragged != nil {
		t.Fatalf("drag not reverted: %+v", ix)
	}
}

func TestPremoveConsumed(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.wantState(LockedNormal)

	h.drag("g1", "f3")
	h.wantState(LockedNormal)
	pm, ok := h.ctl.Premove()
	if !ok {
		t.Fatal("no premove recorded")
	}
	if pm.From != sq(t, "g1") || pm.To != sq(t, "f3") || pm.TargetPly != 3 {
		t.Fatalf("premove = %+v", pm)
	}
	if pm.Piece.Kind != types.Knight {
		t.Fatalf("premove piece = %v", pm.Piece)
	}
	h.wantMoves("e2e4")

	h.opponent("e5")
	h.wantMoves("e2e4", "g1f3")
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("premove should be consumed")
	}
	if got := h.tree.LastPlayed().Ply(); got != 3 {
		t.Fatalf("last ply = %d, want 3", got)
	}
	h.wantState(LockedNormal)
}

func TestPremoveDiscardedWhenIllegal(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")

	h.drag("e4", "e5")
	if _, ok := h.ctl.Premove(); !ok {
		t.Fatal("e4-e5 is legal after most replies")
	}
	h.opponent("e5")
	h.wantMoves("e2e4")
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("blocked premove should be discarded")
	}
	h.wantState(Normal)
}

func TestPremoveRejectedWhenNeverLegal(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.drag("g1", "g4")
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("g1-g4 is never legal")
	}
	h.wantState(LockedSelected)
}

func TestPremoveOverwrites(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.drag("g1", "f3")
	h.drag("b1", "c3")
	pm, ok := h.ctl.Premove()
	if !ok || pm.From != sq(t, "b1") || pm.To != sq(t, "c3") {
		t.Fatalf("premove = %+v, %v; want b1c3", pm, ok)
	}
}

func TestPremoveClearedByTouchingItsSquare(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.drag("g1", "f3")
	h.press("f3")
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("pressing a premove square should clear it")
	}
}

func TestRightClickClearsPremoveWhenLocked(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.drag("g1", "f3")
	x, y := h.pt(sq(t, "a4"))
	h.ctl.Press(x, y, ButtonRight, 0)
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("right click should clear the premove")
	}
	h.wantState(LockedNormal)
}

func TestPromotionDialog(t *testing.T) {
	h := newStandard(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	h.promo.kind = types.Knight
	h.drag("e7", "e8")
	if h.promo.asked != 1 {
		t.Fatalf("dialog asked %d times", h.promo.asked)
	}
	h.wantMoves("e7e8n")
}

func TestPromotionCancelled(t *testing.T) {
	h := newStandard(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	h.promo.ok = false
	root := h.tree.LastPlayed()
	h.drag("e7", "e8")
	h.wantMoves()
	if h.tree.LastPlayed() != root || h.tree.NumLines() != 1 {
		t.Fatal("cancelled promotion changed the tree")
	}
	h.wantState(Normal)
}

func TestAutoPromote(t *testing.T) {
	h := newStandard(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1", withAutoPromote)
	h.drag("e7", "e8")
	if h.promo.asked != 0 {
		t.Fatal("auto promotion should not ask")
	}
	h.wantMoves("e7e8q")
}

func TestHoverSuppressedOnline(t *testing.T) {
	h := newStandard(t, "")
	x, y := h.pt(sq(t, "e2"))
	h.ctl.Motion(x, y)
	if hv := h.ctl.Interaction().Hover; hv == nil || *hv != sq(t, "e2") {
		t.Fatalf("hover = %v, want e2", hv)
	}

	h = newStandard(t, "")
	h.session.online = true
	h.ctl.Motion(x, y)
	if hv := h.ctl.Interaction().Hover; hv != nil {
		t.Fatalf("hover = %v while online", hv)
	}
}

func TestHoverOnlySelectable(t *testing.T) {
	h := newStandard(t, "")
	x, y := h.pt(sq(t, "e5"))
	h.ctl.Motion(x, y)
	if hv := h.ctl.Interaction().Hover; hv != nil {
		t.Fatalf("hover = %v on an empty square", hv)
	}
	h.press("e2")
	x, y = h.pt(sq(t, "e4"))
	h.ctl.Motion(x, y)
	if hv := h.ctl.Interaction().Hover; hv == nil || *hv != sq(t, "e4") {
		t.Fatalf("hover = %v, want legal destination e4", hv)
	}
}

func TestLeaveClearsHover(t *testing.T) {
	h := newStandard(t, "")
	x, y := h.pt(sq(t, "e2"))
	h.ctl.Motion(x, y)
	h.ctl.Leave(4, 4)
	if h.ctl.Interaction().Hover == nil {
		t.Fatal("leave inside the widget should keep hover")
	}
	h.ctl.Leave(9, 4)
	if hv := h.ctl.Interaction().Hover; hv != nil {
		t.Fatalf("hover = %v after leaving", hv)
	}
}

func TestPointToCordOutsideRange(t *testing.T) {
	h := newStandard(t, "")
	for _, p := range [][2]float64{{-0.5, 4}, {8.2, 4}, {4, -0.1}, {4, 8.5}, {-3, -3}} {
		if c, ok := h.ctl.PointToCord(p[0], p[1]); ok {
			t.Errorf("PointToCord(%v) = %v, want none", p, c)
		}
	}
	c, ok := h.ctl.PointToCord(0.1, 7.9)
	if !ok || c != sq(t, "a1") {
		t.Fatalf("PointToCord(0.1, 7.9) = %v, %v", c, ok)
	}
}

func TestPointToCordFlipped(t *testing.T) {
	h := newStandard(t, "")
	flip := Scale(-1, -1).Multiply(Translate(8, 8))
	h.ctl.SetGeometry(Geometry{Matrix: flip, Side: 1, Width: 8, Height: 8})
	c, ok := h.ctl.PointToCord(0.5, 0.5)
	if !ok || c != sq(t, "h1") {
		t.Fatalf("top-left of a flipped board = %v, %v; want h1", c, ok)
	}
}

func TestVariationAddAndReplay(t *testing.T) {
	h := newStandard(t, "")
	h.session.local = [2]bool{true, true}
	h.click("e2")
	h.click("e4")
	h.click("e7")
	h.click("e5")
	h.wantMoves("e2e4", "e7e5")

	// browse back to the start and play another first move
	h.ctl.SetShown(0, 0)
	h.ctl.SetLocked(false)
	h.drag("d2", "d4")
	h.wantMoves("e2e4", "e7e5")
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 1 {
		t.Fatalf("shown = %d/%d, want 1/1", ply, vi)
	}
	if h.tree.NumLines() != 2 {
		t.Fatalf("lines = %d, want 2", h.tree.NumLines())
	}

	// extend the side line
	h.drag("d7", "d5")
	if ply, vi := h.ctl.Shown(); ply != 2 || vi != 1 {
		t.Fatalf("shown = %d/%d, want 2/1", ply, vi)
	}

	// replaying the main move does not branch
	h.ctl.SetShown(0, 0)
	h.drag("e2", "e4")
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 0 {
		t.Fatalf("shown = %d/%d, want main line ply 1", ply, vi)
	}
	// neither does replaying the side line's first move
	h.ctl.SetShown(0, 0)
	h.drag("d2", "d4")
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 1 {
		t.Fatalf("shown = %d/%d, want side line ply 1", ply, vi)
	}
	if h.tree.NumLines() != 2 {
		t.Fatalf("lines = %d after replays, want 2", h.tree.NumLines())
	}
}

func TestExaminedForwardsMoves(t *testing.T) {
	h := newStandard(t, "")
	h.session.local = [2]bool{false, false}
	h.session.examined = true
	h.ctl.SetLocked(false)
	h.drag("e2", "e4")
	h.wantMoves("e2e4")
	if len(h.session.forwarded) != 1 {
		t.Fatalf("forwarded %d moves", len(h.session.forwarded))
	}
}

func TestNotRunningAddsVariation(t *testing.T) {
	h := newStandard(t, "")
	h.session.status = StatusEnded
	h.drag("e2", "e4")
	h.wantMoves()
	if h.tree.NumLines() != 2 {
		t.Fatal("move after the game should go into a variation")
	}
	if n := h.sounds.count(SoundMove); n != 1 {
		t.Fatalf("move cues = %d", n)
	}
}

func TestKeyEntry(t *testing.T) {
	h := newStandard(t, "")
	for _, r := range "zN9f3" {
		h.ctl.TypeRune(r)
	}
	if got := h.ctl.Buffer(); got != "Nf3" {
		t.Fatalf("buffer = %q, want Nf3", got)
	}
	h.ctl.Enter()
	h.wantMoves("g1f3")
	if h.ctl.Buffer() != "" {
		t.Fatal("buffer should reset")
	}
}

func TestKeyEntryParseFailure(t *testing.T) {
	h := newStandard(t, "")
	for _, r := range "Qh5" {
		h.ctl.TypeRune(r)
	}
	h.ctl.Enter()
	h.wantMoves()
	if h.ctl.Buffer() != "" {
		t.Fatal("buffer should reset after a parse failure")
	}
	if len(h.sounds.played) != 0 {
		t.Fatalf("parse failure played %v", h.sounds.played)
	}
}

func TestKeyBackspace(t *testing.T) {
	h := newStandard(t, "")
	h.ctl.TypeRune('e')
	h.ctl.TypeRune('4')
	h.ctl.Backspace()
	h.ctl.TypeRune('3')
	if got := h.ctl.Buffer(); got != "e3" {
		t.Fatalf("buffer = %q", got)
	}
	h.ctl.Backspace()
	h.ctl.Backspace()
	h.ctl.Backspace()
	if got := h.ctl.Buffer(); got != "" {
		t.Fatalf("buffer = %q", got)
	}
	h.ctl.Enter()
	h.wantMoves()
}

func TestMovesUndoneAndGameEnded(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.drag("g1", "f3")

	h.ctl.MovesUndone()
	h.wantState(LockedNormal)
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("undo should clear the premove")
	}

	h.drag("g1", "f3")
	h.ctl.GameEnded()
	h.wantState(Normal)
	if _, ok := h.ctl.Premove(); ok {
		t.Fatal("game end should clear the premove")
	}
}

func TestLockRequiresRunningGame(t *testing.T) {
	h := newStandard(t, "")
	h.session.status = StatusPaused
	h.ctl.SetLocked(true)
	h.wantState(Normal)
	h.session.status = StatusRunning
	h.click("e2")
	h.ctl.SetLocked(true)
	h.wantState(LockedSelected)
	h.ctl.SetLocked(false)
	h.wantState(Selected)
}

func TestPreviewOnlyAnnotates(t *testing.T) {
	h := newStandard(t, "", withPreview)
	h.drag("e2", "e4")
	h.wantMoves()
	h.wantState(Normal)
	x, y := h.pt(sq(t, "d4"))
	h.ctl.Press(x, y, ButtonRight, 0)
	h.ctl.Release(x, y, ButtonRight, 0)
	if len(h.ctl.Shapes().Circles()) != 1 {
		t.Fatal("preview should still take annotations")
	}
}

// Every event sequence keeps the machine in one of its six states.
func TestRandomEventsStayInStates(t *testing.T) {
	h := newStandard(t, "")
	h.session.local = [2]bool{true, true}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		x := rng.Float64()*10 - 1
		y := rng.Float64()*10 - 1
		switch rng.Intn(5) {
		case 0:
			h.ctl.Press(x, y, ButtonLeft, 0)
		case 1:
			h.ctl.Release(x, y, ButtonLeft, 0)
		case 2:
			h.ctl.Motion(x, y)
		case 3:
			h.ctl.Leave(x, y)
		case 4:
			b := ButtonRight
			h.ctl.Press(x, y, b, Modifier(rng.Intn(4)))
			h.ctl.Release(x, y, b, 0)
		}
		if s := h.ctl.State(); s < Normal || s > LockedActive {
			t.Fatalf("event %d left invalid state %d", i, s)
		}
		if h.tree.LastPlayed().Ply() > 40 {
			break
		}
	}
}

func TestMoveLogging(t *testing.T) {
	var buf bytes.Buffer
	h := newStandard(t, "", func(o *Options) {
		o.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	})
	h.click("e2")
	h.click("e4")

	var moved, boards bool
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var entry map[string]interface{}
		if err := dec.Decode(&entry); err != nil {
			t.Fatal(err)
		}
		switch entry["message"] {
		case "piece moved":
			moved = true
			if entry["level"] != "info" || entry["move"] != "e2e4" {
				t.Fatalf("move entry = %v", entry)
			}
		case "possible boards":
			boards = true
			if entry["level"] != "debug" {
				t.Fatalf("cache entry = %v", entry)
			}
		}
	}
	if !moved || !boards {
		t.Fatalf("logged move %v, boards %v", moved, boards)
	}
}
