package model

import "fmt"

const BoardSize = 8

// Color identifies one of the two sides.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// PieceType is the closed set of piece kinds.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Value returns the conventional point value of the piece kind, used for
// auxiliary scoring only, never for movement. The king carries no value.
func (p PieceType) Value() int {
	switch p {
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop, Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// promotionKinds are the kinds a pawn may promote to.
var promotionKinds = []PieceType{Queen, Rook, Bishop, Knight}

func isPromotionKind(p PieceType) bool {
	for _, kind := range promotionKinds {
		if p == kind {
			return true
		}
	}
	return false
}

// defaultPromotion is the kind used when the caller does not choose one:
// the most valuable kind a pawn can become.
func defaultPromotion() PieceType {
	best := promotionKinds[0]
	for _, kind := range promotionKinds[1:] {
		if kind.Value() > best.Value() {
			best = kind
		}
	}
	return best
}

// Position is a board coordinate. X is the file (0 = a-file), Y is the rank
// row with 0 at black's back rank, matching the client's screen layout.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) inBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

// Label returns the square's positional label, e.g. "e2".
func (p Position) Label() string {
	return fmt.Sprintf("%c%d", 'a'+p.X, BoardSize-p.Y)
}

func (p Position) fileLabel() string {
	return string(rune('a' + p.X))
}

// Piece is one piece on the board. Color and Type are fixed at creation
// except for promotion, which replaces the pawn with a fresh piece.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// BoardState is a fixed 8x8 mailbox plus cached king locations. Indexing is
// Squares[y][x]; a nil entry is an empty square.
type BoardState struct {
	Squares           [BoardSize][BoardSize]*Piece `json:"board"`
	WhiteKingPosition Position                     `json:"whiteKingPosition"`
	BlackKingPosition Position                     `json:"blackKingPosition"`
}

// At returns the piece on pos, or nil for an empty or out-of-range square.
func (b *BoardState) At(pos Position) *Piece {
	if !pos.inBounds() {
		return nil
	}
	return b.Squares[pos.Y][pos.X]
}

// place puts piece on pos, keeping the piece's own position in sync.
// A nil piece clears the square.
func (b *BoardState) place(pos Position, piece *Piece) {
	b.Squares[pos.Y][pos.X] = piece
	if piece != nil {
		piece.Position = pos
	}
}

// KingPosition returns the cached king square for color.
func (b *BoardState) KingPosition(color Color) Position {
	if color == White {
		return b.WhiteKingPosition
	}
	return b.BlackKingPosition
}

func (b *BoardState) setKingPosition(color Color, pos Position) {
	if color == White {
		b.WhiteKingPosition = pos
	} else {
		b.BlackKingPosition = pos
	}
}

// Clone returns a deep copy sharing no pieces with the receiver.
func (b *BoardState) Clone() *BoardState {
	clone := &BoardState{
		WhiteKingPosition: b.WhiteKingPosition,
		BlackKingPosition: b.BlackKingPosition,
	}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if piece := b.Squares[y][x]; piece != nil {
				copied := *piece
				clone.Squares[y][x] = &copied
			}
		}
	}
	return clone
}

func backRank(color Color) int {
	if color == White {
		return 7
	}
	return 0
}

func promotionRank(color Color) int {
	if color == White {
		return 0
	}
	return 7
}

// newBoard returns the standard initial position.
func newBoard() *BoardState {
	board := &BoardState{}
	order := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, kind := range order {
		board.place(Position{X: x, Y: 0}, &Piece{Type: kind, Color: Black})
		board.place(Position{X: x, Y: 7}, &Piece{Type: kind, Color: White})
	}
	for x := 0; x < BoardSize; x++ {
		board.place(Position{X: x, Y: 1}, &Piece{Type: Pawn, Color: Black})
		board.place(Position{X: x, Y: 6}, &Piece{Type: Pawn, Color: White})
	}
	board.BlackKingPosition = Position{X: 4, Y: 0}
	board.WhiteKingPosition = Position{X: 4, Y: 7}
	return board
}
