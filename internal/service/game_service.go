package service

import (
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/deepcore-chess/deepcore-backend/internal/engine"
	"github.com/deepcore-chess/deepcore-backend/internal/model"
	"github.com/deepcore-chess/deepcore-backend/internal/record"
	"github.com/deepcore-chess/deepcore-backend/internal/storage"
)

// GameService is the boundary the controllers talk to.
type GameService struct {
	gameManager *GameManager
	store       *storage.Store
	engine      *engine.Engine
}

func NewGameService(gameManager *GameManager, store *storage.Store, eng *engine.Engine) *GameService {
	return &GameService{gameManager: gameManager, store: store, engine: eng}
}

func (gs *GameService) CreateGame() string {
	return gs.gameManager.CreateGame()
}

func (gs *GameService) JoinGame(gameID, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.ClientState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID, playerID string, from, to model.Position, promotion model.PieceType) error {
	return gs.gameManager.MakeMove(gameID, playerID, from, to, promotion)
}

func (gs *GameService) HandleUndo(gameID string) error {
	return gs.gameManager.UndoMove(gameID)
}

func (gs *GameService) EngineMove(gameID string) (model.SimpleMove, error) {
	return gs.gameManager.EngineMove(gameID)
}

func (gs *GameService) ConfigureEngine(settings map[string]any) error {
	return gs.engine.Configure(settings)
}

func (gs *GameService) EngineConfig() map[string]any {
	return gs.engine.Config()
}

func (gs *GameService) ExportRecord(gameID string) (record.GameRecord, error) {
	return gs.gameManager.ExportRecord(gameID)
}

func (gs *GameService) ImportRecord(rec record.GameRecord) (string, error) {
	gameID, err := gs.gameManager.ImportRecord(rec)
	if err != nil {
		return "", fmt.Errorf("import game record: %w", err)
	}
	return gameID, nil
}

// SavedGameIDs lists games persisted after finishing.
func (gs *GameService) SavedGameIDs() ([]string, error) {
	return gs.store.ListGameIDs()
}

// LoadSavedGame reopens a persisted record as a live session.
func (gs *GameService) LoadSavedGame(id string) (string, error) {
	rec, err := gs.store.LoadGame(id)
	if err != nil {
		return "", err
	}
	return gs.gameManager.ImportRecord(rec)
}

func (gs *GameService) Preferences() (*storage.Preferences, error) {
	return gs.store.LoadPreferences()
}

func (gs *GameService) SavePreferences(prefs *storage.Preferences) error {
	return gs.store.SavePreferences(prefs)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
