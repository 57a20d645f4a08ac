package control

import (
	"testing"

	"termchess-local/engine"
	"termchess-local/engine/standard"
	"termchess-local/tree"
	"termchess-local/types"
)

// testTree adapts tree.Tree to the controller by applying moves with the rules.
type testTree struct {
	*tree.Tree
	rules engine.Rules
}

func (t testTree) AddVariation(b types.Board, moves []types.Move) (types.Board, error) {
	steps := make([]tree.Step, 0, len(moves))
	cur := b
	for _, m := range moves {
		next, err := t.rules.Apply(cur, m)
		if err != nil {
			return nil, err
		}
		steps = append(steps, tree.Step{Move: m, Board: next})
		cur = next
	}
	return t.Tree.AddVariation(b, steps)
}

func (t testTree) AddMoveToVariation(b types.Board, m types.Move, variation int) error {
	next, err := t.rules.Apply(b, m)
	if err != nil {
		return err
	}
	return t.Tree.AddToVariation(variation, tree.Step{Move: m, Board: next})
}

type fakeSession struct {
	tr         *tree.Tree
	local      [2]bool
	status     Status
	artificial bool
	examined   bool
	online     bool
	e2e        bool
	lowPly     int
	forwarded  []types.Move
}

func (s *fakeSession) Status() Status           { return s.status }
func (s *fakeSession) LocalToMove() bool        { return s.local[s.tr.LastPlayed().Turn()] }
func (s *fakeSession) OpponentArtificial() bool { return s.artificial }
func (s *fakeSession) Examined() bool           { return s.examined }
func (s *fakeSession) Online() bool             { return s.online }
func (s *fakeSession) EngineVsEngine() bool     { return s.e2e }
func (s *fakeSession) LowPly() int              { return s.lowPly }
func (s *fakeSession) ForwardExamined(_ types.Board, m types.Move) {
	s.forwarded = append(s.forwarded, m)
}

type recorder struct {
	moves   []MoveEvent
	actions []ActionEvent
	shapes  int
	onMove  func(MoveEvent)
}

func (r *recorder) PieceMoved(e MoveEvent) {
	r.moves = append(r.moves, e)
	if r.onMove != nil {
		r.onMove(e)
	}
}
func (r *recorder) Action(e ActionEvent) { r.actions = append(r.actions, e) }
func (r *recorder) ShapesChanged()       { r.shapes++ }

type soundLog struct {
	played []string
}

func (s *soundLog) Play(event string) { s.played = append(s.played, event) }

func (s *soundLog) count(event string) int {
	n := 0
	for _, e := range s.played {
		if e == event {
			n++
		}
	}
	return n
}

type scriptedPromotion struct {
	kind  types.PieceKind
	ok    bool
	asked int
}

func (p *scriptedPromotion) AskPromotion(types.Color, *types.Variant) (types.PieceKind, bool) {
	p.asked++
	return p.kind, p.ok
}

type scriptedGating struct {
	choice types.GateChoice
	ok     bool
	asked  int
	last   [3]bool
}

func (g *scriptedGating) AskGating(_ types.Color, castling, hawk, elephant bool) (types.GateChoice, bool) {
	g.asked++
	g.last = [3]bool{castling, hawk, elephant}
	return g.choice, g.ok
}

type harness struct {
	t       *testing.T
	rules   engine.Rules
	tree    *tree.Tree
	session *fakeSession
	rec     *recorder
	sounds  *soundLog
	promo   *scriptedPromotion
	gating  *scriptedGating
	ctl     *Controller
	// host applies local moves to the main line like a game would.
	host bool
}

type harnessOpt func(*Options)

func withSetup(o *Options)   { o.SetupPosition = true }
func withPreview(o *Options) { o.Preview = true }
func withAutoPromote(o *Options) {
	o.AutoPromote = func() bool { return true }
}

func newHarness(t *testing.T, rules engine.Rules, root types.Board, local [2]bool, opts ...harnessOpt) *harness {
	t.Helper()
	tr := tree.New(root)
	h := &harness{
		t:       t,
		rules:   rules,
		tree:    tr,
		session: &fakeSession{tr: tr, local: local, status: StatusRunning},
		rec:     &recorder{},
		sounds:  &soundLog{},
		promo:   &scriptedPromotion{kind: types.Queen, ok: true},
		gating:  &scriptedGating{ok: true},
		host:    true,
	}
	h.rec.onMove = func(e MoveEvent) {
		if h.host && !e.Setup {
			h.apply(e.Move)
		}
	}
	o := Options{
		Rules:        rules,
		Tree:         testTree{Tree: tr, rules: rules},
		Session:      h.session,
		Listener:     h.rec,
		Sounds:       h.sounds,
		Promotion:    h.promo,
		Gating:       h.gating,
		Geometry:     Geometry{Matrix: Identity(), Side: 1, Width: 8, Height: 8},
		LocalPlayers: local,
	}
	for _, opt := range opts {
		opt(&o)
	}
	h.ctl = New(o)
	h.ctl.SetLocked(!h.session.LocalToMove())
	return h
}

// newStandard starts a game from fen with White played locally.
func newStandard(t *testing.T, fen string, opts ...harnessOpt) *harness {
	t.Helper()
	b, err := standard.NewBoard(fen)
	if err != nil {
		t.Fatal(err)
	}
	return newHarness(t, standard.NewRules(), b, [2]bool{true, false}, opts...)
}

// apply plays m on the main line and syncs the controller like a host.
func (h *harness) apply(m types.Move) {
	h.t.Helper()
	last := h.tree.LastPlayed()
	next, err := h.rules.Apply(last, m)
	if err != nil {
		h.t.Fatalf("apply %s: %v", m, err)
	}
	h.tree.AddMainMove(tree.Step{Move: m, Board: next})
	h.ctl.SetShown(next.Ply(), 0)
	h.ctl.SetLocked(!h.session.LocalToMove())
}

// opponent plays text for the side not under test.
func (h *harness) opponent(text string) {
	h.t.Helper()
	m, err := h.rules.Parse(h.tree.LastPlayed(), text)
	if err != nil {
		h.t.Fatalf("parse %q: %v", text, err)
	}
	h.apply(m)
}

func (h *harness) v() *types.Variant {
	return h.tree.LastPlayed().Variant()
}

// pt returns the widget point at the center of c under the identity geometry.
func (h *harness) pt(c types.Cord) (float64, float64) {
	return float64(c.X) + 0.5, float64(h.v().Ranks-c.Y) - 0.5
}

func (h *harness) press(s string) {
	h.t.Helper()
	x, y := h.pt(sq(h.t, s))
	h.ctl.Press(x, y, ButtonLeft, 0)
}

func (h *harness) release(s string) {
	h.t.Helper()
	x, y := h.pt(sq(h.t, s))
	h.ctl.Release(x, y, ButtonLeft, 0)
}

func (h *harness) click(s string) {
	h.t.Helper()
	h.press(s)
	h.release(s)
}

func (h *harness) drag(from, to string) {
	h.t.Helper()
	h.press(from)
	x, y := h.pt(sq(h.t, to))
	h.ctl.Motion(x, y)
	h.release(to)
}

func (h *harness) pressCord(c types.Cord) {
	x, y := h.pt(c)
	h.ctl.Press(x, y, ButtonLeft, 0)
}

func (h *harness) releaseCord(c types.Cord) {
	x, y := h.pt(c)
	h.ctl.Release(x, y, ButtonLeft, 0)
}

func (h *harness) wantState(want State) {
	h.t.Helper()
	if got := h.ctl.State(); got != want {
		h.t.Fatalf("state = %s, want %s", got, want)
	}
}

func (h *harness) wantMoves(want ...string) {
	h.t.Helper()
	if len(h.rec.moves) != len(want) {
		h.t.Fatalf("emitted %d moves %v, want %v", len(h.rec.moves), h.rec.moves, want)
	}
	for i, w := range want {
		if got := h.rec.moves[i].Move.String(); got != w {
			h.t.Fatalf("move %d = %s, want %s", i, got, w)
		}
	}
}

func sq(t *testing.T, s string) types.Cord {
	t.Helper()
	c, ok := types.ParseCord(s)
	if !ok {
		t.Fatalf("bad square %q", s)
	}
	return c
}
