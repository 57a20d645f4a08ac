// Package tree stores played positions and the side variations explored from them.
package tree

import (
	"errors"

	"github.com/google/uuid"

	"termchess-local/types"
)

var (
	// ErrUnknownBoard is returned when a board is not part of the tree.
	ErrUnknownBoard = errors.New("board not in tree")
	// ErrNoVariation is returned for a variation index that does not exist.
	ErrNoVariation = errors.New("no such variation")
	// ErrNotLeaf is returned when undoing a board that has continuations.
	ErrNotLeaf = errors.New("board is not the end of its variation")
)

// Node represents a single position in the tree.
type Node struct {
	Board    types.Board
	Move     types.Move // move that produced Board, zero for the root
	Parent   *Node
	Children []*Node // First child = line continuation
	line     *Line
}

// Line is a sequence of positions. Line 0 is the main line; every other
// line branches off the node Start and ends at Leaf.
type Line struct {
	ID    uuid.UUID
	Start *Node
	Leaf  *Node
}

// Step is a move together with the board it produces.
type Step struct {
	Move  types.Move
	Board types.Board
}

// Tree tracks the game's main line plus variations keyed by board.
type Tree struct {
	Root  *Node
	lines []*Line
	nodes map[types.Board]*Node
}

// New creates a tree rooted at the given position.
func New(root types.Board) *Tree {
	main := &Line{ID: uuid.New()}
	n := &Node{Board: root, line: main}
	main.Start = n
	main.Leaf = n
	return &Tree{
		Root:  n,
		lines: []*Line{main},
		nodes: map[types.Board]*Node{root: n},
	}
}

// Node returns the node holding b.
func (t *Tree) Node(b types.Board) (*Node, bool) {
	n, ok := t.nodes[b]
	return n, ok
}

// AddMainMove appends a step to the end of the main line.
func (t *Tree) AddMainMove(s Step) *Node {
	main := t.lines[0]
	n := t.attach(main.Leaf, s, main, true)
	main.Leaf = n
	return n
}

// attach links a new node under parent. Main-line continuations go first.
func (t *Tree) attach(parent *Node, s Step, line *Line, first bool) *Node {
	n := &Node{Board: s.Board, Move: s.Move, Parent: parent, line: line}
	if first {
		parent.Children = append([]*Node{n}, parent.Children...)
	} else {
		parent.Children = append(parent.Children, n)
	}
	t.nodes[s.Board] = n
	return n
}

// LastPlayed returns the newest position of the main line.
func (t *Tree) LastPlayed() types.Board {
	return t.lines[0].Leaf.Board
}

// BoardAtPly returns the board of the given ply on a line.
func (t *Tree) BoardAtPly(ply, variation int) (types.Board, bool) {
	if variation < 0 || variation >= len(t.lines) {
		return nil, false
	}
	for n := t.lines[variation].Leaf; n != nil; n = n.Parent {
		if p := n.Board.Ply(); p == ply {
			return n.Board, true
		} else if p < ply {
			break
		}
	}
	return nil, false
}

// Next returns the continuation of b on its own line.
func (t *Tree) Next(b types.Board) (types.Board, bool) {
	n, ok := t.nodes[b]
	if !ok {
		return nil, false
	}
	for _, c := range n.Children {
		if c.line == n.line {
			return c.Board, true
		}
	}
	return nil, false
}

// Prev returns the position before b.
func (t *Tree) Prev(b types.Board) (types.Board, bool) {
	n, ok := t.nodes[b]
	if !ok || n.Parent == nil {
		return nil, false
	}
	return n.Parent.Board, true
}

// Alternatives returns the first boards of the variations branching off b.
func (t *Tree) Alternatives(b types.Board) []types.Board {
	n, ok := t.nodes[b]
	if !ok {
		return nil
	}
	var alts []types.Board
	for _, c := range n.Children {
		if c.line != n.line {
			alts = append(alts, c.Board)
		}
	}
	return alts
}

// LastMove returns the move that produced b.
func (t *Tree) LastMove(b types.Board) (types.Move, bool) {
	n, ok := t.nodes[b]
	if !ok || n.Parent == nil {
		return types.Move{}, false
	}
	return n.Move, true
}

// VariationOf returns the index of the line b belongs to, or -1.
func (t *Tree) VariationOf(b types.Board) int {
	n, ok := t.nodes[b]
	if !ok {
		return -1
	}
	return t.lineIndex(n.line)
}

func (t *Tree) lineIndex(l *Line) int {
	for i, line := range t.lines {
		if line == l {
			return i
		}
	}
	return -1
}

// VariationID returns the stable identifier of a line.
func (t *Tree) VariationID(variation int) (uuid.UUID, bool) {
	if variation < 0 || variation >= len(t.lines) {
		return uuid.Nil, false
	}
	return t.lines[variation].ID, true
}

// VariationIndex returns the index of the line with the given identifier.
func (t *Tree) VariationIndex(id uuid.UUID) int {
	for i, line := range t.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// NumLines returns the number of lines, the main line included.
func (t *Tree) NumLines() int {
	return len(t.lines)
}

// AddVariation starts a new line branching off from and returns its leaf.
func (t *Tree) AddVariation(from types.Board, steps []Step) (types.Board, error) {
	parent, ok := t.nodes[from]
	if !ok {
		return nil, ErrUnknownBoard
	}
	if len(steps) == 0 {
		return from, nil
	}
	line := &Line{ID: uuid.New(), Start: parent}
	n := parent
	for i, s := range steps {
		n = t.attach(n, s, line, i > 0)
	}
	line.Leaf = n
	t.lines = append(t.lines, line)
	return n.Board, nil
}

// AddToVariation extends a side line at its end.
func (t *Tree) AddToVariation(variation int, s Step) error {
	if variation <= 0 || variation >= len(t.lines) {
		return ErrNoVariation
	}
	line := t.lines[variation]
	line.Leaf = t.attach(line.Leaf, s, line, true)
	return nil
}

// UndoInVariation removes b from the end of its side line. A line left
// without moves is dropped.
func (t *Tree) UndoInVariation(b types.Board) error {
	n, ok := t.nodes[b]
	if !ok {
		return ErrUnknownBoard
	}
	line := n.line
	vi := t.lineIndex(line)
	if vi <= 0 {
		return ErrNoVariation
	}
	if line.Leaf != n || len(n.Children) > 0 {
		return ErrNotLeaf
	}
	t.detach(n)
	line.Leaf = n.Parent
	if line.Leaf == line.Start {
		if i := t.lineIndex(line); i > 0 {
			t.lines = append(t.lines[:i], t.lines[i+1:]...)
		}
	}
	return nil
}

func (t *Tree) detach(n *Node) {
	p := n.Parent
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	t.forget(n)
}

// forget drops n and everything below it from the index and removes the
// lines that started inside the subtree.
func (t *Tree) forget(n *Node) {
	delete(t.nodes, n.Board)
	for _, c := range n.Children {
		t.forget(c)
	}
	kept := t.lines[:0]
	for _, line := range t.lines {
		if line.Start != n {
			kept = append(kept, line)
		}
	}
	t.lines = kept
}

// TruncateMain removes the last n positions of the main line together with
// any variation branching off them. It returns the new last position.
func (t *Tree) TruncateMain(n int) types.Board {
	main := t.lines[0]
	for ; n > 0 && main.Leaf.Parent != nil; n-- {
		leaf := main.Leaf
		t.detach(leaf)
		main.Leaf = leaf.Parent
	}
	return main.Leaf.Board
}

// Sibling cycles through the alternatives at b's ply. delta is +1 or -1. Wraps around.
func (t *Tree) Sibling(b types.Board, delta int) (types.Board, bool) {
	n, ok := t.nodes[b]
	if !ok || n.Parent == nil {
		return nil, false
	}
	siblings := n.Parent.Children
	if len(siblings) < 2 {
		return nil, false
	}
	idx := childIndex(n)
	k := len(siblings)
	return siblings[((idx+delta)%k+k)%k].Board, true
}

// PathFromRoot returns the moves from the root to b.
func (t *Tree) PathFromRoot(b types.Board) []types.Move {
	n, ok := t.nodes[b]
	if !ok {
		return nil
	}
	var path []types.Move
	for ; n.Parent != nil; n = n.Parent {
		path = append(path, n.Move)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NumVariations returns the number of siblings at b's level.
// Returns 0 at the root.
func (t *Tree) NumVariations(b types.Board) int {
	n, ok := t.nodes[b]
	if !ok || n.Parent == nil {
		return 0
	}
	return len(n.Parent.Children)
}

// SiblingIndex returns which child of its parent b is (0-based).
// Returns -1 at the root.
func (t *Tree) SiblingIndex(b types.Board) int {
	n, ok := t.nodes[b]
	if !ok || n.Parent == nil {
		return -1
	}
	return childIndex(n)
}

func childIndex(n *Node) int {
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}
