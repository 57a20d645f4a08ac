package control

import (
	"testing"

	"termchess-local/types"
)

func TestActivateActions(t *testing.T) {
	h := newStandard(t, "")
	keys := map[string]ActionKind{
		"call_flag":   FlagCall,
		"abort":       AbortOffer,
		"adjourn":     AdjournOffer,
		"draw":        DrawOffer,
		"resign":      Resignation,
		"ask_to_move": HurryAction,
		"pause1":      PauseOffer,
		"resume1":     ResumeOffer,
	}
	for key, kind := range keys {
		h.rec.actions = nil
		if !h.ctl.Activate(key) {
			t.Fatalf("%s not handled", key)
		}
		if len(h.rec.actions) != 1 || h.rec.actions[0].Kind != kind {
			t.Fatalf("%s emitted %+v", key, h.rec.actions)
		}
		if h.rec.actions[0].Player != types.White {
			t.Fatalf("%s player = %v", key, h.rec.actions[0].Player)
		}
	}
	if h.ctl.Activate("castle") {
		t.Fatal("unknown key handled")
	}
}

func TestActionPlayerIsLocalSide(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.ctl.Activate("resign")
	if h.rec.actions[0].Player != types.White {
		t.Fatal("resignation during the opponent's turn is still white's")
	}
}

func TestUndoAgainstEngineTakesTwo(t *testing.T) {
	h := newStandard(t, "")
	h.session.artificial = true
	h.click("e2")
	h.click("e4")
	h.opponent("e5")
	h.ctl.Activate("undo1")
	if len(h.rec.actions) != 1 || h.rec.actions[0].Kind != TakebackOffer || h.rec.actions[0].Param != 2 {
		t.Fatalf("actions = %+v, want takeback of 2", h.rec.actions)
	}
}

func TestUndoSingleWhenEarly(t *testing.T) {
	h := newStandard(t, "")
	h.session.artificial = true
	h.click("e2")
	h.click("e4")
	h.ctl.Activate("undo1")
	if len(h.rec.actions) != 1 || h.rec.actions[0].Param != 1 {
		t.Fatalf("actions = %+v, want takeback of 1", h.rec.actions)
	}
}

func TestUndoIgnoredWithContinuation(t *testing.T) {
	h := newStandard(t, "")
	h.click("e2")
	h.click("e4")
	h.ctl.SetShown(0, 0)
	h.ctl.Activate("undo1")
	if len(h.rec.actions) != 0 {
		t.Fatal("undo needs the end of a line")
	}
}

func TestUndoInVariation(t *testing.T) {
	h := newStandard(t, "")
	h.session.local = [2]bool{true, true}
	h.click("e2")
	h.click("e4")
	h.ctl.SetShown(0, 0)
	h.drag("d2", "d4")
	h.drag("d7", "d5")
	if ply, vi := h.ctl.Shown(); ply != 2 || vi != 1 {
		t.Fatalf("shown = %d/%d", ply, vi)
	}

	h.ctl.Activate("undo1")
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 1 {
		t.Fatalf("after undo shown = %d/%d, want 1/1", ply, vi)
	}
	h.ctl.Activate("undo1")
	if ply, vi := h.ctl.Shown(); ply != 0 || vi != 0 {
		t.Fatalf("after emptying the line shown = %d/%d, want 0/0", ply, vi)
	}
	if h.tree.NumLines() != 1 {
		t.Fatal("empty side line should be gone")
	}
	if len(h.rec.actions) != 0 {
		t.Fatal("side line undo sends no takeback")
	}
}

func TestShownLineSurvivesEarlierLineRemoval(t *testing.T) {
	h := newStandard(t, "")
	h.session.local = [2]bool{true, true}
	h.click("e2")
	h.click("e4")
	h.ctl.SetShown(0, 0)
	h.drag("d2", "d4")
	d4, ok := h.tree.BoardAtPly(1, 1)
	if !ok {
		t.Fatal("first side line missing")
	}
	h.ctl.SetShown(0, 0)
	h.drag("c2", "c4")
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 2 {
		t.Fatalf("shown = %d/%d, want 1/2", ply, vi)
	}

	// dropping the earlier line moves the shown one down an index
	if err := h.tree.UndoInVariation(d4); err != nil {
		t.Fatal(err)
	}
	if ply, vi := h.ctl.Shown(); ply != 1 || vi != 1 {
		t.Fatalf("after removal shown = %d/%d, want 1/1", ply, vi)
	}

	h.drag("e7", "e5")
	if ply, vi := h.ctl.Shown(); ply != 2 || vi != 1 {
		t.Fatalf("shown = %d/%d, want 2/1", ply, vi)
	}
	c4, _ := h.tree.BoardAtPly(1, 1)
	if m, _ := h.tree.LastMove(c4); m.String() != "c2c4" {
		t.Fatalf("line 1 starts with %s, want c2c4", m)
	}
	e5, _ := h.tree.BoardAtPly(2, 1)
	if m, _ := h.tree.LastMove(e5); m.String() != "e7e5" {
		t.Fatalf("line 1 continues with %s, want e7e5", m)
	}
}
