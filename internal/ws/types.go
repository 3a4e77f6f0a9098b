// Package ws defines the WebSocket message envelope shared by the
// controllers and the session broadcaster.
package ws

import "encoding/json"

// MessageType discriminates the payloads flowing over a game socket.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope for every WebSocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
