package model

// Movement geometry. Everything here is pure with respect to the board: no
// mutation, no knowledge of whose turn it is, no check handling. Off-board
// targets are silently skipped, never an error.

var (
	rookDirections   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirections = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightOffsets    = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingOffsets      = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// SimpleMove is a bare from/to pair, the shape consumed by clients for
// highlighting and by the move selector.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// PseudoMoves returns the geometric candidate destinations for piece,
// ignoring whether a move would expose its own king. The en-passant target,
// if any, extends pawn captures; castling candidates for an unmoved king are
// included so clients can highlight them, with full safety checks left to
// the legality filter.
func (b *BoardState) PseudoMoves(piece *Piece, enPassant *Position) []SimpleMove {
	switch piece.Type {
	case Pawn:
		return b.pawnMoves(piece, enPassant)
	case Knight:
		return b.offsetMoves(piece, knightOffsets)
	case Bishop:
		return b.slidingMoves(piece, bishopDirections)
	case Rook:
		return b.slidingMoves(piece, rookDirections)
	case Queen:
		return append(b.slidingMoves(piece, rookDirections), b.slidingMoves(piece, bishopDirections)...)
	case King:
		return b.kingMoves(piece)
	}
	return nil
}

func (b *BoardState) pawnMoves(piece *Piece, enPassant *Position) []SimpleMove {
	moves := []SimpleMove{}
	from := piece.Position
	dy := -1
	if piece.Color == Black {
		dy = 1
	}

	forward := Position{X: from.X, Y: from.Y + dy}
	if forward.inBounds() && b.At(forward) == nil {
		moves = append(moves, SimpleMove{From: from, To: forward})
		double := Position{X: from.X, Y: from.Y + 2*dy}
		if !piece.HasMoved && double.inBounds() && b.At(double) == nil {
			moves = append(moves, SimpleMove{From: from, To: double})
		}
	}

	for _, dx := range []int{-1, 1} {
		capture := Position{X: from.X + dx, Y: from.Y + dy}
		if !capture.inBounds() {
			continue
		}
		if target := b.At(capture); target != nil && target.Color != piece.Color {
			moves = append(moves, SimpleMove{From: from, To: capture})
		} else if target == nil && enPassant != nil && capture == *enPassant {
			moves = append(moves, SimpleMove{From: from, To: capture})
		}
	}
	return moves
}

func (b *BoardState) offsetMoves(piece *Piece, offsets []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, offset := range offsets {
		target := Position{X: piece.Position.X + offset.X, Y: piece.Position.Y + offset.Y}
		if !target.inBounds() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, SimpleMove{From: piece.Position, To: target})
		}
	}
	return moves
}

func (b *BoardState) slidingMoves(piece *Piece, directions []Position) []SimpleMove {
	moves := []SimpleMove{}
	for _, dir := range directions {
		target := Position{X: piece.Position.X + dir.X, Y: piece.Position.Y + dir.Y}
		for target.inBounds() {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, SimpleMove{From: piece.Position, To: target})
			} else if occupant.Color != piece.Color {
				// Capture terminates the ray.
				moves = append(moves, SimpleMove{From: piece.Position, To: target})
				break
			} else {
				break
			}
			target = Position{X: target.X + dir.X, Y: target.Y + dir.Y}
		}
	}
	return moves
}

func (b *BoardState) kingMoves(piece *Piece) []SimpleMove {
	moves := b.offsetMoves(piece, kingOffsets)
	if piece.HasMoved {
		return moves
	}
	row := piece.Position.Y
	// Queenside candidate: unmoved rook on the a-file and an empty path.
	if rook := b.At(Position{X: 0, Y: row}); rook != nil && rook.Type == Rook && rook.Color == piece.Color && !rook.HasMoved {
		if b.At(Position{X: 1, Y: row}) == nil && b.At(Position{X: 2, Y: row}) == nil && b.At(Position{X: 3, Y: row}) == nil {
			moves = append(moves, SimpleMove{From: piece.Position, To: Position{X: piece.Position.X - 2, Y: row}})
		}
	}
	// Kingside candidate: unmoved rook on the h-file and an empty path.
	if rook := b.At(Position{X: 7, Y: row}); rook != nil && rook.Type == Rook && rook.Color == piece.Color && !rook.HasMoved {
		if b.At(Position{X: 5, Y: row}) == nil && b.At(Position{X: 6, Y: row}) == nil {
			moves = append(moves, SimpleMove{From: piece.Position, To: Position{X: piece.Position.X + 2, Y: row}})
		}
	}
	return moves
}

// IsSquareAttacked reports whether any piece of attackingColor attacks pos.
// It scans outward from pos instead of generating every enemy move.
func (b *BoardState) IsSquareAttacked(pos Position, attackingColor Color) bool {
	for _, dir := range rookDirections {
		target := Position{X: pos.X + dir.X, Y: pos.Y + dir.Y}
		for target.inBounds() {
			if occupant := b.At(target); occupant != nil {
				if occupant.Color == attackingColor && (occupant.Type == Rook || occupant.Type == Queen) {
					return true
				}
				break
			}
			target = Position{X: target.X + dir.X, Y: target.Y + dir.Y}
		}
	}
	for _, dir := range bishopDirections {
		target := Position{X: pos.X + dir.X, Y: pos.Y + dir.Y}
		for target.inBounds() {
			if occupant := b.At(target); occupant != nil {
				if occupant.Color == attackingColor && (occupant.Type == Bishop || occupant.Type == Queen) {
					return true
				}
				break
			}
			target = Position{X: target.X + dir.X, Y: target.Y + dir.Y}
		}
	}
	for _, offset := range knightOffsets {
		target := Position{X: pos.X + offset.X, Y: pos.Y + offset.Y}
		if occupant := b.At(target); occupant != nil && occupant.Color == attackingColor && occupant.Type == Knight {
			return true
		}
	}
	for _, offset := range kingOffsets {
		target := Position{X: pos.X + offset.X, Y: pos.Y + offset.Y}
		if occupant := b.At(target); occupant != nil && occupant.Color == attackingColor && occupant.Type == King {
			return true
		}
	}
	// Pawns attack back toward the square they came from: a white pawn on
	// the row below pos, a black pawn on the row above.
	pawnRow := 1
	if attackingColor == Black {
		pawnRow = -1
	}
	for _, dx := range []int{-1, 1} {
		target := Position{X: pos.X + dx, Y: pos.Y + pawnRow}
		if occupant := b.At(target); occupant != nil && occupant.Color == attackingColor && occupant.Type == Pawn {
			return true
		}
	}
	return false
}

// InCheck reports whether color's king is attacked on the current board.
func (b *BoardState) InCheck(color Color) bool {
	return b.IsSquareAttacked(b.KingPosition(color), color.Opponent())
}
