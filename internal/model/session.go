package model

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/deepcore-chess/deepcore-backend/internal/ws"
)

// Session wraps a Game with everything the service layer needs for live
// play: seated players, WebSocket observers and the outcome cue of the last
// applied move. All access to the underlying Game goes through the session
// mutex; the Game itself has no locking.
type Session struct {
	ID string

	mu       sync.Mutex
	game     *Game
	players  Players
	sound    string
	lastMove *SimpleMove

	connMu      sync.RWMutex
	connections map[string]*websocket.Conn
}

// Players holds the two seats. An empty ID means the seat is open.
type Players struct {
	White SeatedPlayer `json:"white"`
	Black SeatedPlayer `json:"black"`
}

// SeatedPlayer is the client-facing view of one seat.
type SeatedPlayer struct {
	ID    string `json:"name"`
	Color Color  `json:"color"`
}

// ClientState is the full state pushed to clients after every change.
type ClientState struct {
	Sound           string          `json:"sound"`
	Board           *BoardState     `json:"boardState"`
	ToMove          Color           `json:"toMove"`
	Status          GameStatus      `json:"status"`
	MoveHistory     []MoveRecord    `json:"moveHistory"`
	CastlingRights  CastlingRights  `json:"castlingRights"`
	EnPassantTarget *Position       `json:"enPassantTarget"`
	HalfmoveClock   int             `json:"halfmoveClock"`
	FullmoveNumber  int             `json:"fullmoveNumber"`
	LastMove        *SimpleMove     `json:"lastMove"`
	Players         Players         `json:"players"`
}

// NewSession returns an empty session around a fresh game.
func NewSession(id string) *Session {
	return &Session{
		ID:          id,
		game:        NewGame(),
		connections: make(map[string]*websocket.Conn),
	}
}

// NewSessionFromGame wraps an already-constructed game, used when replaying
// an imported record.
func NewSessionFromGame(id string, game *Game) *Session {
	s := NewSession(id)
	s.game = game
	if last := game.LastMove(); last != nil {
		s.lastMove = &SimpleMove{From: last.From, To: last.To}
	}
	return s
}

// AddPlayer seats playerID on the first open seat and returns its color.
func (s *Session) AddPlayer(playerID string) (Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players.White.ID == "" {
		s.players.White = SeatedPlayer{ID: playerID, Color: White}
		return White, nil
	}
	if s.players.Black.ID == "" {
		s.players.Black = SeatedPlayer{ID: playerID, Color: Black}
		return Black, nil
	}
	return "", ErrGameFull
}

// IsPlayerInGame reports whether playerID holds a seat.
func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPlayerInGame(playerID)
}

func (s *Session) isPlayerInGame(playerID string) bool {
	return (s.players.White.ID != "" && s.players.White.ID == playerID) ||
		(s.players.Black.ID != "" && s.players.Black.ID == playerID)
}

// CanSpectate reports whether the session still has an open seat.
func (s *Session) CanSpectate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSpectate()
}

func (s *Session) canSpectate() bool {
	return s.players.White.ID == "" || s.players.Black.ID == ""
}

func (s *Session) seatColor(playerID string) (Color, bool) {
	if s.players.White.ID == playerID && playerID != "" {
		return White, true
	}
	if s.players.Black.ID == playerID && playerID != "" {
		return Black, true
	}
	return "", false
}

// MakeMove applies one ply on behalf of playerID. A seated player may only
// move when it is their color's turn; unseated callers (imports, engine
// runs) pass an empty playerID and move for the side to move.
func (s *Session) MakeMove(playerID string, from, to Position, promotion PieceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, seated := s.seatColor(playerID); seated && color != s.game.ToMove() {
		return ErrNotYourTurn
	}
	if err := s.game.MakeMove(from, to, promotion); err != nil {
		return err
	}

	record := s.game.LastMove()
	s.sound = classifySound(record, s.game.Status())
	s.lastMove = &SimpleMove{From: record.From, To: record.To}

	go s.broadcastState()
	return nil
}

// Undo rolls back the most recent ply.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Undo(); err != nil {
		return err
	}
	s.sound = ""
	if last := s.game.LastMove(); last != nil {
		s.lastMove = &SimpleMove{From: last.From, To: last.To}
	} else {
		s.lastMove = nil
	}

	go s.broadcastState()
	return nil
}

// classifySound picks the audio cue for the last applied move. Check wins
// over everything; the cue layer is a pure consumer of this string.
func classifySound(record *MoveRecord, status GameStatus) string {
	switch {
	case status == StatusCheck || status == StatusCheckmate:
		return "check"
	case record.IsCastling:
		return "castle"
	case record.IsPromotion:
		return "promotion"
	case record.Captured != nil:
		return "capture"
	default:
		return "move"
	}
}

// Game runs fn with the session lock held, giving the service layer
// serialized access to the underlying game for reads and engine runs.
func (s *Session) Game(fn func(g *Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// State returns the client-facing state snapshot.
func (s *Session) State() ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientState()
}

func (s *Session) clientState() ClientState {
	return ClientState{
		Sound:           s.sound,
		Board:           s.game.Snapshot().Board,
		ToMove:          s.game.ToMove(),
		Status:          s.game.Status(),
		MoveHistory:     s.game.History(),
		CastlingRights:  s.game.CastlingRights(),
		EnPassantTarget: s.game.EnPassantTarget(),
		HalfmoveClock:   s.game.HalfmoveClock(),
		FullmoveNumber:  s.game.FullmoveNumber(),
		LastMove:        s.lastMove,
		Players:         s.players,
	}
}

// RegisterConnection attaches a WebSocket to the session. Duplicate
// registrations for the same player keep the existing connection.
func (s *Session) RegisterConnection(playerID string, conn *websocket.Conn) error {
	s.mu.Lock()
	authorized := s.isPlayerInGame(playerID) || s.canSpectate()
	s.mu.Unlock()
	if !authorized {
		return fmt.Errorf("player %s is not authorized to join game %s", playerID, s.ID)
	}

	s.connMu.Lock()
	if _, exists := s.connections[playerID]; exists {
		s.connMu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	s.connections[playerID] = conn
	s.connMu.Unlock()

	go s.broadcastState()
	return nil
}

// UnregisterConnection detaches playerID's WebSocket, if present.
func (s *Session) UnregisterConnection(playerID string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.connections, playerID)
}

func (s *Session) broadcastState() {
	s.mu.Lock()
	state := s.clientState()
	s.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("marshal game state: %v", err)
		return
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	for playerID, conn := range s.connections {
		err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			log.Printf("send state to %s: %v", playerID, err)
			delete(s.connections, playerID)
		}
	}
}
