package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/deepcore-chess/deepcore-backend/internal/engine"
	"github.com/deepcore-chess/deepcore-backend/internal/model"
	"github.com/deepcore-chess/deepcore-backend/internal/record"
	"github.com/deepcore-chess/deepcore-backend/internal/service"
	"github.com/deepcore-chess/deepcore-backend/internal/storage"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// moveRequest is the REST body for a move.
type moveRequest struct {
	From      model.Position  `json:"from"`
	To        model.Position  `json:"to"`
	Promotion model.PieceType `json:"promotion"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrGameNotFound), errors.Is(err, storage.ErrGameRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrEmptyHistory),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, engine.ErrInvalidConfig),
		errors.Is(err, engine.ErrNoLegalMoves):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID := gc.gameService.CreateGame()
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed move"})
	}
	if err := gc.gameService.HandleMove(gameID, playerID, req.From, req.To, req.Promotion); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Move applied"})
}

func (gc *GameController) UndoMove(c *fiber.Ctx) error {
	if err := gc.gameService.HandleUndo(c.Params("gameId")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Move undone"})
}

// EngineMove applies one engine-selected move for the side to move.
func (gc *GameController) EngineMove(c *fiber.Ctx) error {
	move, err := gc.gameService.EngineMove(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"move": move})
}

func (gc *GameController) GetEngineConfig(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.EngineConfig())
}

func (gc *GameController) SetEngineConfig(c *fiber.Ctx) error {
	var settings map[string]any
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed configuration"})
	}
	if err := gc.gameService.ConfigureEngine(settings); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(gc.gameService.EngineConfig())
}

// ExportGame emits the game's move record, natively as JSON or as the
// positional text format with ?format=text.
func (gc *GameController) ExportGame(c *fiber.Ctx) error {
	rec, err := gc.gameService.ExportRecord(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, err)
	}
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(record.EncodeText(rec))
	}
	return c.JSON(rec)
}

// ImportGame replays a posted record into a new live session. JSON bodies
// are the native format; text/plain bodies use the positional text format.
func (gc *GameController) ImportGame(c *fiber.Ctx) error {
	var rec record.GameRecord
	var err error
	if c.Is("json") {
		rec, err = record.DecodeJSON(c.Body())
	} else {
		rec, err = record.ParseText("", string(c.Body()))
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gameID, err := gc.gameService.ImportRecord(rec)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"game_id": gameID})
}

func (gc *GameController) ListSavedGames(c *fiber.Ctx) error {
	ids, err := gc.gameService.SavedGameIDs()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"games": ids})
}

func (gc *GameController) LoadSavedGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.LoadSavedGame(c.Params("recordId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"game_id": gameID})
}

func (gc *GameController) GetPreferences(c *fiber.Ctx) error {
	prefs, err := gc.gameService.Preferences()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(prefs)
}

func (gc *GameController) SetPreferences(c *fiber.Ctx) error {
	var prefs storage.Preferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed preferences"})
	}
	if err := gc.gameService.SavePreferences(&prefs); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(prefs)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"status": "queued"})
}

// MatchmakingEvents long-polls for a pairing: it answers with the match
// event as soon as one arrives, or 204 after the wait window so the client
// can poll again.
func (gc *GameController) MatchmakingEvents(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	gc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer gc.gameService.UnregisterMatchmakingChannel(playerID)

	select {
	case payload, ok := <-ch:
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(payload)
	case <-time.After(25 * time.Second):
		return c.SendStatus(fiber.StatusNoContent)
	}
}
