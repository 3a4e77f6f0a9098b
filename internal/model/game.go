package model

import "fmt"

// GameStatus classifies the position after every applied move.
type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
	StatusStalemate GameStatus = "stalemate"
	StatusDraw      GameStatus = "draw"
)

// Terminal reports whether no further play is expected.
func (s GameStatus) Terminal() bool {
	return s == StatusCheckmate || s == StatusStalemate || s == StatusDraw
}

// CastleSide selects one wing for castling.
type CastleSide string

const (
	Kingside  CastleSide = "kingside"
	Queenside CastleSide = "queenside"
)

// CastlingRights tracks the four independent castling permissions. Flags
// only ever move toward false.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func newCastlingRights() CastlingRights {
	return CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
}

// Allowed reports whether color may still castle on side.
func (c CastlingRights) Allowed(color Color, side CastleSide) bool {
	switch {
	case color == White && side == Kingside:
		return c.WhiteKingside
	case color == White && side == Queenside:
		return c.WhiteQueenside
	case color == Black && side == Kingside:
		return c.BlackKingside
	default:
		return c.BlackQueenside
	}
}

func (c *CastlingRights) clear(color Color, side CastleSide) {
	switch {
	case color == White && side == Kingside:
		c.WhiteKingside = false
	case color == White && side == Queenside:
		c.WhiteQueenside = false
	case color == Black && side == Kingside:
		c.BlackKingside = false
	default:
		c.BlackQueenside = false
	}
}

func (c *CastlingRights) clearColor(color Color) {
	c.clear(color, Kingside)
	c.clear(color, Queenside)
}

// clearForRookSquare drops the right tied to a rook home square, used both
// when a rook leaves its corner and when it is captured standing there.
func (c *CastlingRights) clearForRookSquare(color Color, pos Position) {
	if pos.Y != backRank(color) {
		return
	}
	switch pos.X {
	case 0:
		c.clear(color, Queenside)
	case 7:
		c.clear(color, Kingside)
	}
}

// Game is the rules engine: it owns the board and all move bookkeeping.
// It is not safe for concurrent use; callers serialize access (see Session).
type Game struct {
	board          *BoardState
	toMove         Color
	castling       CastlingRights
	enPassant      *Position
	halfmoveClock  int
	fullmoveNumber int
	history        []MoveRecord
	status         GameStatus
}

// NewGame returns a game in the standard initial position, white to move.
func NewGame() *Game {
	return &Game{
		board:          newBoard(),
		toMove:         White,
		castling:       newCastlingRights(),
		halfmoveClock:  0,
		fullmoveNumber: 1,
		history:        make([]MoveRecord, 0),
		status:         StatusActive,
	}
}

// ToMove returns the side to move.
func (g *Game) ToMove() Color { return g.toMove }

// Status returns the classification of the current position.
func (g *Game) Status() GameStatus { return g.status }

// HalfmoveClock returns the plies since the last pawn move or capture.
func (g *Game) HalfmoveClock() int { return g.halfmoveClock }

// FullmoveNumber returns the move number, starting at 1 and incremented
// after each black move.
func (g *Game) FullmoveNumber() int { return g.fullmoveNumber }

// CastlingRights returns the current rights flags.
func (g *Game) CastlingRights() CastlingRights { return g.castling }

// EnPassantTarget returns the square a pawn may capture onto en passant, or
// nil. It is only ever set for the ply immediately after a double step.
func (g *Game) EnPassantTarget() *Position {
	if g.enPassant == nil {
		return nil
	}
	target := *g.enPassant
	return &target
}

// At returns the piece on pos. The returned piece must be treated as
// read-only.
func (g *Game) At(pos Position) *Piece { return g.board.At(pos) }

// History returns a copy of the applied move records, oldest first.
func (g *Game) History() []MoveRecord {
	history := make([]MoveRecord, len(g.history))
	copy(history, g.history)
	return history
}

// LastMove returns the most recently applied record, or nil.
func (g *Game) LastMove() *MoveRecord {
	if len(g.history) == 0 {
		return nil
	}
	record := g.history[len(g.history)-1]
	return &record
}

// Snapshot is a read-only view of the game handed to renderers, persistence
// and the move selector. The board is a deep copy.
type Snapshot struct {
	Board  *BoardState `json:"boardState"`
	ToMove Color       `json:"toMove"`
	Status GameStatus  `json:"status"`
}

// Snapshot returns a copy of the observable state. Mutating the returned
// board cannot affect the game.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{Board: g.board.Clone(), ToMove: g.toMove, Status: g.status}
}

// Clone returns an independent copy of the position sharing no pieces with
// the receiver. The move history is not carried over; clones exist so a
// long-running caller can generate and try moves without racing live play.
func (g *Game) Clone() *Game {
	clone := &Game{
		board:          g.board.Clone(),
		toMove:         g.toMove,
		castling:       g.castling,
		halfmoveClock:  g.halfmoveClock,
		fullmoveNumber: g.fullmoveNumber,
		history:        make([]MoveRecord, 0),
		status:         g.status,
	}
	clone.enPassant = g.EnPassantTarget()
	return clone
}

// InCheck reports whether color's king is currently attacked.
func (g *Game) InCheck(color Color) bool {
	return g.board.InCheck(color)
}

// LegalMoves returns every legal move for color, scanning the board in a
// fixed order so the sequence is stable for a given position.
func (g *Game) LegalMoves(color Color) []SimpleMove {
	moves := []SimpleMove{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece := g.board.Squares[y][x]
			if piece == nil || piece.Color != color {
				continue
			}
			moves = append(moves, g.legalMovesForPiece(piece)...)
		}
	}
	return moves
}

func (g *Game) legalMovesForPiece(piece *Piece) []SimpleMove {
	legal := []SimpleMove{}
	for _, move := range g.board.PseudoMoves(piece, g.enPassant) {
		if g.moveIsSafe(move) {
			legal = append(legal, move)
		}
	}
	return legal
}

// IsLegal reports whether moving from->to is legal for the side to move:
// the destination must be geometrically reachable and the move must not
// leave the mover's own king attacked.
func (g *Game) IsLegal(from, to Position) bool {
	if !from.inBounds() || !to.inBounds() {
		return false
	}
	piece := g.board.At(from)
	if piece == nil || piece.Color != g.toMove {
		return false
	}
	move := SimpleMove{From: from, To: to}
	for _, candidate := range g.board.PseudoMoves(piece, g.enPassant) {
		if candidate == move {
			return g.moveIsSafe(move)
		}
	}
	return false
}

// moveIsSafe applies move on the live board, asks whether the mover's king
// is attacked, and restores the board before returning. Castling candidates
// are routed through the full castling check instead.
func (g *Game) moveIsSafe(move SimpleMove) bool {
	piece := g.board.At(move.From)

	if piece.Type == King && abs(move.To.X-move.From.X) == 2 {
		side := Queenside
		if move.To.X > move.From.X {
			side = Kingside
		}
		return g.CanCastle(piece.Color, side)
	}

	captured := g.board.At(move.To)
	capturedFrom := move.To
	if piece.Type == Pawn && captured == nil && g.enPassant != nil && move.To == *g.enPassant && move.To.X != move.From.X {
		capturedFrom = Position{X: move.To.X, Y: move.From.Y}
		captured = g.board.At(capturedFrom)
		g.board.place(capturedFrom, nil)
	}

	g.board.place(move.To, piece)
	g.board.Squares[move.From.Y][move.From.X] = nil
	if piece.Type == King {
		g.board.setKingPosition(piece.Color, move.To)
	}

	safe := !g.board.InCheck(piece.Color)

	g.board.place(move.From, piece)
	g.board.Squares[move.To.Y][move.To.X] = nil
	if captured != nil {
		g.board.place(capturedFrom, captured)
	}
	if piece.Type == King {
		g.board.setKingPosition(piece.Color, move.From)
	}
	return safe
}

// CanCastle reports whether color may castle on side right now: not in
// check, rights intact, the path empty, and no square the king starts on,
// passes through or lands on attacked.
func (g *Game) CanCastle(color Color, side CastleSide) bool {
	if g.board.InCheck(color) {
		return false
	}
	if !g.castling.Allowed(color, side) {
		return false
	}
	row := backRank(color)
	enemy := color.Opponent()

	rookFile := 7
	pathFiles := []int{5, 6}
	safeFiles := []int{5, 6}
	if side == Queenside {
		rookFile = 0
		pathFiles = []int{1, 2, 3}
		// The rook's far square may be attacked; only the king's path matters.
		safeFiles = []int{2, 3}
	}

	rook := g.board.At(Position{X: rookFile, Y: row})
	if rook == nil || rook.Type != Rook || rook.Color != color || rook.HasMoved {
		return false
	}
	for _, file := range pathFiles {
		if g.board.At(Position{X: file, Y: row}) != nil {
			return false
		}
	}
	for _, file := range safeFiles {
		if g.board.IsSquareAttacked(Position{X: file, Y: row}, enemy) {
			return false
		}
	}
	return true
}

// MakeMove applies one ply. It validates fully before mutating anything, so
// a rejected move leaves board, turn, counters and history untouched. The
// promotion kind is consulted only when a pawn reaches the back rank; empty
// means the default (queen).
func (g *Game) MakeMove(from, to Position, promotion PieceType) error {
	if !from.inBounds() || !to.inBounds() {
		return fmt.Errorf("%w: square out of bounds", ErrInvalidMove)
	}
	piece := g.board.At(from)
	if piece == nil {
		return fmt.Errorf("%w: no piece on %s", ErrInvalidMove, from.Label())
	}
	if piece.Color != g.toMove {
		return fmt.Errorf("%w: %s to move", ErrInvalidMove, g.toMove)
	}
	if promotion != "" && !isPromotionKind(promotion) {
		return fmt.Errorf("%w: cannot promote to %s", ErrInvalidMove, promotion)
	}
	if !g.IsLegal(from, to) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidMove, from.Label(), to.Label())
	}

	record := MoveRecord{
		From:  from,
		To:    to,
		Piece: piece,
		prev: priorState{
			castling:       g.castling,
			enPassant:      g.EnPassantTarget(),
			halfmoveClock:  g.halfmoveClock,
			fullmoveNumber: g.fullmoveNumber,
			pieceHadMoved:  piece.HasMoved,
			status:         g.status,
		},
	}

	if piece.Type == King && abs(to.X-from.X) == 2 {
		g.executeCastle(piece, from, to, &record)
	} else {
		g.executeRegular(piece, from, to, &record)
	}

	// Promotion replaces the pawn in place with a fresh piece; the pawn
	// itself survives only inside the record for undo.
	if piece.Type == Pawn && to.Y == promotionRank(piece.Color) {
		kind := promotion
		if kind == "" {
			kind = defaultPromotion()
		}
		g.board.place(to, &Piece{Type: kind, Color: piece.Color, HasMoved: true})
		record.IsPromotion = true
		record.PromotedTo = kind
	}

	if piece.Type == King {
		g.castling.clearColor(piece.Color)
	}
	if piece.Type == Rook {
		g.castling.clearForRookSquare(piece.Color, from)
	}
	if record.Captured != nil && record.Captured.Type == Rook {
		g.castling.clearForRookSquare(record.Captured.Color, record.CapturedFrom)
	}

	piece.HasMoved = true

	if piece.Type == Pawn && abs(to.Y-from.Y) == 2 {
		g.enPassant = &Position{X: from.X, Y: (from.Y + to.Y) / 2}
	} else {
		g.enPassant = nil
	}

	if piece.Type == Pawn || record.Captured != nil {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}
	if g.toMove == Black {
		g.fullmoveNumber++
	}

	if record.Notation == "" {
		record.Notation = record.notation()
	}
	g.history = append(g.history, record)
	g.toMove = g.toMove.Opponent()
	g.status = g.classify()
	return nil
}

func (g *Game) executeRegular(piece *Piece, from, to Position, record *MoveRecord) {
	if captured := g.board.At(to); captured != nil {
		record.Captured = captured
		record.CapturedFrom = to
	} else if piece.Type == Pawn && g.enPassant != nil && to == *g.enPassant && to.X != from.X {
		capturedFrom := Position{X: to.X, Y: from.Y}
		record.Captured = g.board.At(capturedFrom)
		record.CapturedFrom = capturedFrom
		record.IsEnPassant = true
		g.board.place(capturedFrom, nil)
	}

	g.board.place(to, piece)
	g.board.Squares[from.Y][from.X] = nil
	if piece.Type == King {
		g.board.setKingPosition(piece.Color, to)
	}
}

// executeCastle relocates king and rook atomically and burns both of the
// mover's rights; later king or rook moves are moot.
func (g *Game) executeCastle(king *Piece, from, to Position, record *MoveRecord) {
	row := from.Y
	rookFrom := Position{X: 0, Y: row}
	rookTo := Position{X: 3, Y: row}
	record.Notation = "O-O-O"
	if to.X > from.X {
		rookFrom = Position{X: 7, Y: row}
		rookTo = Position{X: 5, Y: row}
		record.Notation = "O-O"
	}

	g.board.place(to, king)
	g.board.Squares[from.Y][from.X] = nil
	g.board.setKingPosition(king.Color, to)

	rook := g.board.At(rookFrom)
	g.board.place(rookTo, rook)
	g.board.Squares[rookFrom.Y][rookFrom.X] = nil
	rook.HasMoved = true

	record.IsCastling = true
	record.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	g.castling.clearColor(king.Color)
}

// Undo pops the most recent record and inverts it exactly, restoring board
// contents, king caches, has-moved flags, castling rights, the en-passant
// target and both counters to their pre-move values.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrEmptyHistory
	}
	record := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	piece := record.Piece
	g.board.Squares[record.To.Y][record.To.X] = nil
	g.board.place(record.From, piece)
	piece.HasMoved = record.prev.pieceHadMoved

	if record.Captured != nil {
		g.board.place(record.CapturedFrom, record.Captured)
	}
	if record.CastleRookMove != nil {
		rook := g.board.At(record.CastleRookMove.To)
		g.board.Squares[record.CastleRookMove.To.Y][record.CastleRookMove.To.X] = nil
		g.board.place(record.CastleRookMove.From, rook)
		rook.HasMoved = false
	}
	if piece.Type == King {
		g.board.setKingPosition(piece.Color, record.From)
	}

	g.castling = record.prev.castling
	g.enPassant = record.prev.enPassant
	g.halfmoveClock = record.prev.halfmoveClock
	g.fullmoveNumber = record.prev.fullmoveNumber
	g.toMove = piece.Color
	g.status = record.prev.status
	return nil
}

// classify recomputes the status for the side now to move.
func (g *Game) classify() GameStatus {
	inCheck := g.board.InCheck(g.toMove)
	if len(g.LegalMoves(g.toMove)) == 0 {
		if inCheck {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if inCheck {
		return StatusCheck
	}
	if g.halfmoveClock >= 100 {
		return StatusDraw
	}
	return StatusActive
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
