package model

import "fmt"

// CastleRookMove is the rook half of a castling move, recorded so the rook
// can be restored on undo and animated by clients.
type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MoveRecord describes one applied ply. Records are immutable once appended
// to the history; each carries a snapshot of the bookkeeping it displaced so
// undo is an exact inverse rather than a re-derivation.
type MoveRecord struct {
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Piece          *Piece          `json:"piece"`
	Captured       *Piece          `json:"capturedPiece"`
	CapturedFrom   Position        `json:"capturedFrom"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	IsCastling     bool            `json:"isCastling"`
	IsEnPassant    bool            `json:"isEnPassant"`
	IsPromotion    bool            `json:"isPromotion"`
	PromotedTo     PieceType       `json:"promotedTo,omitempty"`
	Notation       string          `json:"notation"`

	prev priorState
}

// priorState is the pre-move bookkeeping restored verbatim by Undo.
type priorState struct {
	castling       CastlingRights
	enPassant      *Position
	halfmoveClock  int
	fullmoveNumber int
	pieceHadMoved  bool
	status         GameStatus
}

// Label returns the minimal positional form of the move, e.g. "e2-e4".
func (m MoveRecord) Label() string {
	return fmt.Sprintf("%s-%s", m.From.Label(), m.To.Label())
}

func (m MoveRecord) notation() string {
	prefix := m.Piece.Type.notation()
	capture := ""
	if m.Captured != nil {
		capture = "x"
	}
	file := ""
	if m.Piece.Type == Pawn && m.From.X != m.To.X {
		file = m.From.fileLabel()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, file, capture, m.To.Label())
}
