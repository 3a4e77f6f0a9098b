package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/deepcore-chess/deepcore-backend/internal/engine"
	"github.com/deepcore-chess/deepcore-backend/internal/model"
	"github.com/deepcore-chess/deepcore-backend/internal/record"
)

func testManager() *GameManager {
	return NewGameManager(nil, engine.New(1))
}

func TestCreateAndJoinGame(t *testing.T) {
	gm := testManager()

	gameID := gm.CreateGame()
	if gameID == "" {
		t.Fatal("expected a game ID")
	}

	color, err := gm.AddPlayerToGame(gameID, "alice")
	if err != nil || color != model.White {
		t.Fatalf("first join: got %s, %v", color, err)
	}
	color, err = gm.AddPlayerToGame(gameID, "bob")
	if err != nil || color != model.Black {
		t.Fatalf("second join: got %s, %v", color, err)
	}
	if _, err := gm.AddPlayerToGame(gameID, "carol"); !errors.Is(err, model.ErrGameFull) {
		t.Fatalf("third join: expected ErrGameFull, got %v", err)
	}
}

func TestUnknownGameID(t *testing.T) {
	gm := testManager()

	if _, err := gm.GetGameState("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("state: expected ErrGameNotFound, got %v", err)
	}
	if _, err := gm.AddPlayerToGame("missing", "alice"); !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("join: expected ErrGameNotFound, got %v", err)
	}
	err := gm.MakeMove("missing", "alice", model.Position{X: 4, Y: 6}, model.Position{X: 4, Y: 4}, "")
	if !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("move: expected ErrGameNotFound, got %v", err)
	}
	if err := gm.UndoMove("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("undo: expected ErrGameNotFound, got %v", err)
	}
	if _, err := gm.EngineMove("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("engine: expected ErrGameNotFound, got %v", err)
	}
	if _, err := gm.ExportRecord("missing"); !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("export: expected ErrGameNotFound, got %v", err)
	}
}

func TestMoveAndState(t *testing.T) {
	gm := testManager()
	gameID := gm.CreateGame()
	gm.AddPlayerToGame(gameID, "alice")

	err := gm.MakeMove(gameID, "alice", model.Position{X: 4, Y: 6}, model.Position{X: 4, Y: 4}, "")
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	state, err := gm.GetGameState(gameID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.ToMove != model.Black || len(state.MoveHistory) != 1 {
		t.Fatalf("unexpected state: toMove=%s history=%d", state.ToMove, len(state.MoveHistory))
	}
}

func TestEngineMoveAdvancesGame(t *testing.T) {
	gm := testManager()
	gameID := gm.CreateGame()

	move, err := gm.EngineMove(gameID)
	if err != nil {
		t.Fatalf("engine move: %v", err)
	}

	state, err := gm.GetGameState(gameID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.ToMove != model.Black {
		t.Fatalf("expected black to move after the engine's reply, got %s", state.ToMove)
	}
	if state.LastMove == nil || *state.LastMove != move {
		t.Fatalf("state should reflect the engine's move %v, got %v", move, state.LastMove)
	}
}

func TestUndoMove(t *testing.T) {
	gm := testManager()
	gameID := gm.CreateGame()

	if err := gm.UndoMove(gameID); !errors.Is(err, model.ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}

	gm.MakeMove(gameID, "", model.Position{X: 4, Y: 6}, model.Position{X: 4, Y: 4}, "")
	if err := gm.UndoMove(gameID); err != nil {
		t.Fatalf("undo: %v", err)
	}

	state, _ := gm.GetGameState(gameID)
	if state.ToMove != model.White || len(state.MoveHistory) != 0 {
		t.Fatalf("undo did not rewind: toMove=%s history=%d", state.ToMove, len(state.MoveHistory))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	gm := testManager()
	gameID := gm.CreateGame()

	gm.MakeMove(gameID, "", model.Position{X: 4, Y: 6}, model.Position{X: 4, Y: 4}, "")
	gm.MakeMove(gameID, "", model.Position{X: 4, Y: 1}, model.Position{X: 4, Y: 3}, "")

	rec, err := gm.ExportRecord(gameID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if rec.ID != gameID || len(rec.Moves) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	importedID, err := gm.ImportRecord(rec)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if importedID == gameID {
		t.Fatal("import must create a fresh session")
	}

	state, err := gm.GetGameState(importedID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.ToMove != model.White || len(state.MoveHistory) != 2 {
		t.Fatalf("imported game diverges: toMove=%s history=%d", state.ToMove, len(state.MoveHistory))
	}
	if state.LastMove == nil || state.LastMove.To != (model.Position{X: 4, Y: 3}) {
		t.Fatalf("imported game should surface the last move, got %v", state.LastMove)
	}
}

func TestImportRejectsCorruptRecord(t *testing.T) {
	gm := testManager()

	rec := record.GameRecord{
		ID: "bad",
		Moves: []record.MoveEntry{
			{From: model.Position{X: 0, Y: 0}, To: model.Position{X: 7, Y: 7}},
		},
	}
	if _, err := gm.ImportRecord(rec); err == nil {
		t.Fatal("expected import to fail on an illegal move")
	}
}

func TestMatchmakingPairsTwoPlayers(t *testing.T) {
	gm := testManager()

	chA := make(chan string, 1)
	chB := make(chan string, 1)
	gm.RegisterMatchmakingChannel("a", chA)
	gm.RegisterMatchmakingChannel("b", chB)

	if err := gm.JoinMatchmaking("a"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := gm.JoinMatchmaking("b"); err != nil {
		t.Fatalf("join b: %v", err)
	}

	waitEvent := func(ch chan string) model.MatchFoundEvent {
		t.Helper()
		select {
		case payload := <-ch:
			var event model.MatchFoundEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			return event
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a match")
			return model.MatchFoundEvent{}
		}
	}

	eventA := waitEvent(chA)
	eventB := waitEvent(chB)

	if eventA.GameID == "" || eventA.GameID != eventB.GameID {
		t.Fatalf("players paired into different games: %q vs %q", eventA.GameID, eventB.GameID)
	}
	if eventA.Color == eventB.Color {
		t.Fatalf("both players got color %s", eventA.Color)
	}

	if _, err := gm.GetGameState(eventA.GameID); err != nil {
		t.Fatalf("paired game should exist: %v", err)
	}
}
