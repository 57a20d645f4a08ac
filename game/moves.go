package game

import (
	"fmt"

	"termchess-local/engine"
	"termchess-local/tree"
	"termchess-local/types"
)

// moveTree exposes the game tree to the board controller, applying moves
// with the rules before splicing them in.
type moveTree struct {
	*tree.Tree
	rules engine.Rules
}

func (t moveTree) steps(from types.Board, moves []types.Move) ([]tree.Step, error) {
	steps := make([]tree.Step, 0, len(moves))
	cur := from
	for _, m := range moves {
		next, err := t.rules.Apply(cur, m)
		if err != nil {
			return nil, fmt.Errorf("variation move %s: %w", m, err)
		}
		steps = append(steps, tree.Step{Move: m, Board: next})
		cur = next
	}
	return steps, nil
}

func (t moveTree) AddVariation(b types.Board, moves []types.Move) (types.Board, error) {
	steps, err := t.steps(b, moves)
	if err != nil {
		return nil, err
	}
	return t.Tree.AddVariation(b, steps)
}

func (t moveTree) AddMoveToVariation(b types.Board, m types.Move, variation int) error {
	steps, err := t.steps(b, []types.Move{m})
	if err != nil {
		return err
	}
	return t.Tree.AddToVariation(variation, steps[0])
}
