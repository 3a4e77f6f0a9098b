package engine

import (
	"errors"
	"testing"

	"github.com/deepcore-chess/deepcore-backend/internal/model"
)

func TestConfigureUpdatesKnownKeys(t *testing.T) {
	e := New(1)

	if err := e.Configure(map[string]any{"depth": 4, "dev_mode": true}); err != nil {
		t.Fatalf("configure: %v", err)
	}

	cfg := e.Config()
	if cfg["depth"] != 4 {
		t.Fatalf("expected depth 4, got %v", cfg["depth"])
	}
	if cfg["dev_mode"] != true {
		t.Fatalf("expected dev_mode true, got %v", cfg["dev_mode"])
	}
	if cfg["threads"] != 2 {
		t.Fatalf("untouched key should keep its default, got %v", cfg["threads"])
	}
}

func TestConfigureUnknownKeyRejectsWholeUpdate(t *testing.T) {
	e := New(1)

	err := e.Configure(map[string]any{"depth": 4, "horizon": 9})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	cfg := e.Config()
	if cfg["depth"] != 10 {
		t.Fatalf("rejected update must leave depth at its default, got %v", cfg["depth"])
	}
	if _, ok := cfg["horizon"]; ok {
		t.Fatal("rejected update must not introduce the unknown key")
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	e := New(1)

	cfg := e.Config()
	cfg["depth"] = 99

	if e.Config()["depth"] != 10 {
		t.Fatal("mutating the returned map reached the engine")
	}
}

func TestBestMoveIsLegal(t *testing.T) {
	e := New(42)
	g := model.NewGame()

	for i := 0; i < 10; i++ {
		move, err := e.BestMove(g, g.ToMove())
		if err != nil {
			t.Fatalf("best move %d: %v", i, err)
		}
		if !g.IsLegal(move.From, move.To) {
			t.Fatalf("engine picked illegal move %v", move)
		}
		if err := g.MakeMove(move.From, move.To, ""); err != nil {
			t.Fatalf("applying engine move %v: %v", move, err)
		}
		if g.Status().Terminal() {
			break
		}
	}
}

func TestBestMoveOnCheckmatedPosition(t *testing.T) {
	g := model.NewGame()
	// Fool's mate.
	seq := []model.SimpleMove{
		{From: model.Position{X: 5, Y: 6}, To: model.Position{X: 5, Y: 5}},
		{From: model.Position{X: 4, Y: 1}, To: model.Position{X: 4, Y: 3}},
		{From: model.Position{X: 6, Y: 6}, To: model.Position{X: 6, Y: 4}},
		{From: model.Position{X: 3, Y: 0}, To: model.Position{X: 7, Y: 4}},
	}
	for _, move := range seq {
		if err := g.MakeMove(move.From, move.To, ""); err != nil {
			t.Fatalf("setup move %v: %v", move, err)
		}
	}

	e := New(1)
	if _, err := e.BestMove(g, model.White); !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("expected ErrNoLegalMoves, got %v", err)
	}
}
