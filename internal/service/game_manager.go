package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/deepcore-chess/deepcore-backend/internal/engine"
	"github.com/deepcore-chess/deepcore-backend/internal/model"
	"github.com/deepcore-chess/deepcore-backend/internal/record"
	"github.com/deepcore-chess/deepcore-backend/internal/storage"
)

// GameManager owns every live session plus the matchmaking queue. Finished
// games are persisted through the store; the engine serves move requests
// for any session.
type GameManager struct {
	mu               sync.RWMutex
	sessions         map[string]*model.Session
	queue            *model.Queue
	matchingChannels map[string]chan string

	store  *storage.Store
	engine *engine.Engine
}

// NewGameManager starts the matchmaking loop. store may be nil in tests.
func NewGameManager(store *storage.Store, eng *engine.Engine) *GameManager {
	gm := &GameManager{
		sessions:         make(map[string]*model.Session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		store:            store,
		engine:           eng,
	}
	go gm.processMatchmaking()
	return gm
}

// CreateGame registers a fresh session and returns its ID.
func (gm *GameManager) CreateGame() string {
	gameID := uuid.New().String()

	gm.mu.Lock()
	gm.sessions[gameID] = model.NewSession(gameID)
	gm.mu.Unlock()

	return gameID
}

func (gm *GameManager) session(gameID string) (*model.Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.sessions[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}
	return session, nil
}

// AddPlayerToGame seats playerID and returns the assigned color.
func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (model.Color, error) {
	session, err := gm.session(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

// GetGameState returns the client state for gameID.
func (gm *GameManager) GetGameState(gameID string) (model.ClientState, error) {
	session, err := gm.session(gameID)
	if err != nil {
		return model.ClientState{}, err
	}
	return session.State(), nil
}

// MakeMove applies a ply and persists the record once the game ends.
func (gm *GameManager) MakeMove(gameID, playerID string, from, to model.Position, promotion model.PieceType) error {
	session, err := gm.session(gameID)
	if err != nil {
		return err
	}
	if err := session.MakeMove(playerID, from, to, promotion); err != nil {
		return err
	}
	gm.saveIfFinished(gameID, session)
	return nil
}

// UndoMove rolls back the latest ply.
func (gm *GameManager) UndoMove(gameID string) error {
	session, err := gm.session(gameID)
	if err != nil {
		return err
	}
	return session.Undo()
}

// EngineMove asks the engine for a move for the side to move and applies
// it. The whole exchange runs under the session lock so the engine never
// races a human move.
func (gm *GameManager) EngineMove(gameID string) (model.SimpleMove, error) {
	session, err := gm.session(gameID)
	if err != nil {
		return model.SimpleMove{}, err
	}

	var move model.SimpleMove
	var pickErr error
	session.Game(func(g *model.Game) {
		move, pickErr = gm.engine.BestMove(g, g.ToMove())
	})
	if pickErr != nil {
		return model.SimpleMove{}, pickErr
	}

	if err := session.MakeMove("", move.From, move.To, ""); err != nil {
		return model.SimpleMove{}, err
	}
	gm.saveIfFinished(gameID, session)
	return move, nil
}

// ExportRecord captures gameID's move history as a portable record.
func (gm *GameManager) ExportRecord(gameID string) (record.GameRecord, error) {
	session, err := gm.session(gameID)
	if err != nil {
		return record.GameRecord{}, err
	}

	var rec record.GameRecord
	session.Game(func(g *model.Game) {
		rec = record.FromGame(gameID, g)
	})
	return rec, nil
}

// ImportRecord replays a record into a brand-new session and returns its ID.
func (gm *GameManager) ImportRecord(rec record.GameRecord) (string, error) {
	g, err := record.Replay(rec)
	if err != nil {
		return "", err
	}

	gameID := uuid.New().String()
	gm.mu.Lock()
	gm.sessions[gameID] = model.NewSessionFromGame(gameID, g)
	gm.mu.Unlock()
	return gameID, nil
}

func (gm *GameManager) saveIfFinished(gameID string, session *model.Session) {
	if gm.store == nil {
		return
	}
	var rec record.GameRecord
	finished := false
	session.Game(func(g *model.Game) {
		if g.Status().Terminal() {
			rec = record.FromGame(gameID, g)
			finished = true
		}
	})
	if !finished {
		return
	}
	if err := gm.store.SaveGame(rec); err != nil {
		log.Printf("save finished game %s: %v", gameID, err)
	}
}

// RegisterConnection attaches a WebSocket to a session.
func (gm *GameManager) RegisterConnection(gameID, playerID string, conn *websocket.Conn) error {
	session, err := gm.session(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

// UnregisterConnection detaches a WebSocket from a session.
func (gm *GameManager) UnregisterConnection(gameID, playerID string) {
	session, err := gm.session(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID)
}

// JoinMatchmaking enqueues playerID for pairing.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// RegisterMatchmakingChannel attaches a notification channel for playerID,
// replacing (and closing) any previous one.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel detaches playerID's channel without closing
// it; the registering caller owns the channel's lifetime.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		for gm.queue.Size() >= 2 {
			first, second := gm.queue.NextPair()
			gm.pairPlayers(first, second)
		}
	}
}

func (gm *GameManager) pairPlayers(first, second model.Player) {
	gameID := uuid.New().String()
	session := model.NewSession(gameID)

	firstColor, err := session.AddPlayer(first.ID)
	if err != nil {
		log.Printf("seat player %s: %v", first.ID, err)
		return
	}
	secondColor, err := session.AddPlayer(second.ID)
	if err != nil {
		log.Printf("seat player %s: %v", second.ID, err)
		return
	}

	gm.mu.Lock()
	gm.sessions[gameID] = session
	gm.notifyMatch(first.ID, model.MatchFoundEvent{GameID: gameID, Color: firstColor})
	gm.notifyMatch(second.ID, model.MatchFoundEvent{GameID: gameID, Color: secondColor})
	gm.mu.Unlock()
}

// notifyMatch is called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal match event: %v", err)
		return
	}
	select {
	case ch <- string(payload):
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		log.Printf("match notification for %s dropped", playerID)
	}
}
