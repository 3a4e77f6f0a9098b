package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/websocket/v2"

	"github.com/deepcore-chess/deepcore-backend/internal/model"
	"github.com/deepcore-chess/deepcore-backend/internal/service"
	"github.com/deepcore-chess/deepcore-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{gameService: gameService}
}

// wsMove is the payload of a MessageTypeMove frame.
type wsMove struct {
	From      model.Position  `json:"from"`
	To        model.Position  `json:"to"`
	Promotion model.PieceType `json:"promotion"`
}

// HandleConnection runs the read loop for one game socket until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("register connection: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse message: %v", err)
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(c, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move wsMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move.From, move.To, move.Promotion)

	case ws.MessageTypeUndo:
		return wsc.gameService.HandleUndo(gameID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, sendErr error) {
	payload, err := json.Marshal(fiberErrorPayload{Error: sendErr.Error()})
	if err != nil {
		return
	}
	if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload}); err != nil {
		log.Printf("send error frame: %v", err)
	}
}

type fiberErrorPayload struct {
	Error string `json:"error"`
}
