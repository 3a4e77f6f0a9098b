// Package engine is the automated move source. It satisfies a narrow
// contract: given a position and a color, return one legal move. The
// selection is uniformly random; the tunables exist so callers can shape a
// future search without changing the interface.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/deepcore-chess/deepcore-backend/internal/model"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoLegalMoves  = errors.New("no legal moves")
)

// Engine selects moves for an automated opponent.
type Engine struct {
	mu  sync.Mutex
	cfg map[string]any
	rng *rand.Rand
}

// New returns an engine with default tunables.
func New(seed int64) *Engine {
	return &Engine{
		cfg: map[string]any{
			"depth":        10,
			"threads":      2,
			"use_openbook": true,
			"time_limit":   60,
			"dev_mode":     false,
		},
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Configure updates tunables. An unrecognized key rejects the whole update
// and changes nothing.
func (e *Engine) Configure(settings map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key := range settings {
		if _, ok := e.cfg[key]; !ok {
			return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
		}
	}
	for key, value := range settings {
		e.cfg[key] = value
	}
	return nil
}

// Config returns a copy of the current tunables.
func (e *Engine) Config() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := make(map[string]any, len(e.cfg))
	for key, value := range e.cfg {
		cfg[key] = value
	}
	return cfg
}

// BestMove returns one legal move for color. The game must not be mutated
// concurrently; callers either hold the session lock or pass a clone.
func (e *Engine) BestMove(g *model.Game, color model.Color) (model.SimpleMove, error) {
	moves := g.LegalMoves(color)
	if len(moves) == 0 {
		return model.SimpleMove{}, ErrNoLegalMoves
	}
	e.mu.Lock()
	pick := e.rng.Intn(len(moves))
	e.mu.Unlock()
	return moves[pick], nil
}
