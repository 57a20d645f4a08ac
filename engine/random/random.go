// Package random implements an opponent that plays uniformly random legal moves.
package random

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"termchess-local/engine"
	"termchess-local/types"
)

// Mover picks a random legal move after a fixed delay.
type Mover struct {
	rules engine.Rules
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMover creates a random opponent from the game configuration.
func NewMover(rules engine.Rules, cfg engine.GameConfig) *Mover {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mover{
		rules: rules,
		delay: time.Duration(cfg.DelayMillis) * time.Millisecond,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (m *Mover) Name() string {
	return "random mover"
}

// Reply waits out the delay and then picks one of the legal moves on b.
func (m *Mover) Reply(ctx context.Context, b types.Board) (types.Move, error) {
	moves := m.rules.GenAllMoves(b)
	if len(moves) == 0 {
		return types.Move{}, engine.ErrNoMoves
	}
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return types.Move{}, ctx.Err()
		case <-time.After(m.delay):
		}
	} else if err := ctx.Err(); err != nil {
		return types.Move{}, err
	}

	m.mu.Lock()
	pick := moves[m.rng.Intn(len(moves))]
	m.mu.Unlock()
	return pick, nil
}
