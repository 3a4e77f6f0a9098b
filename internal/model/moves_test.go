package model

import "testing"

func sparseGame(toMove Color, pieces ...*Piece) *Game {
	g := &Game{
		board:          &BoardState{},
		toMove:         toMove,
		castling:       newCastlingRights(),
		fullmoveNumber: 1,
		history:        make([]MoveRecord, 0),
		status:         StatusActive,
	}
	for _, piece := range pieces {
		g.board.place(piece.Position, piece)
		if piece.Type == King {
			g.board.setKingPosition(piece.Color, piece.Position)
		}
	}
	return g
}

func pieceAt(kind PieceType, color Color, x, y int) *Piece {
	return &Piece{Type: kind, Color: color, Position: Position{X: x, Y: y}, HasMoved: true}
}

func unmovedPieceAt(kind PieceType, color Color, x, y int) *Piece {
	piece := pieceAt(kind, color, x, y)
	piece.HasMoved = false
	return piece
}

func destinations(moves []SimpleMove) map[Position]bool {
	dests := make(map[Position]bool, len(moves))
	for _, move := range moves {
		dests[move.To] = true
	}
	return dests
}

func TestPawnMovesInitial(t *testing.T) {
	g := NewGame()
	pawn := g.board.At(Position{X: 4, Y: 6})

	dests := destinations(g.board.PseudoMoves(pawn, nil))
	if len(dests) != 2 {
		t.Fatalf("expected 2 pawn moves, got %d", len(dests))
	}
	if !dests[Position{X: 4, Y: 5}] || !dests[Position{X: 4, Y: 4}] {
		t.Fatalf("expected single and double step, got %v", dests)
	}
}

func TestPawnMovesBlockedAndCaptures(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 4, 7),
		pieceAt(King, Black, 4, 0),
		pieceAt(Pawn, White, 3, 4),
		pieceAt(Pawn, Black, 3, 3),  // blocks the push
		pieceAt(Pawn, Black, 2, 3),  // capturable left
		pieceAt(Pawn, White, 4, 3),  // own piece, not capturable
	)
	pawn := g.board.At(Position{X: 3, Y: 4})

	dests := destinations(g.board.PseudoMoves(pawn, nil))
	if len(dests) != 1 {
		t.Fatalf("expected only the capture, got %v", dests)
	}
	if !dests[Position{X: 2, Y: 3}] {
		t.Fatalf("expected capture on (2,3), got %v", dests)
	}
}

func TestPawnMovesEnPassantTarget(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 4, 7),
		pieceAt(King, Black, 4, 0),
		pieceAt(Pawn, White, 4, 3),
		pieceAt(Pawn, Black, 3, 3),
	)
	pawn := g.board.At(Position{X: 4, Y: 3})
	target := Position{X: 3, Y: 2}

	without := destinations(g.board.PseudoMoves(pawn, nil))
	if without[target] {
		t.Fatal("en passant capture offered without a target")
	}
	with := destinations(g.board.PseudoMoves(pawn, &target))
	if !with[target] {
		t.Fatalf("expected en passant capture onto %v, got %v", target, with)
	}
}

func TestKnightMovesCorner(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 4, 7),
		pieceAt(King, Black, 4, 0),
		pieceAt(Knight, White, 0, 7),
	)
	knight := g.board.At(Position{X: 0, Y: 7})

	dests := destinations(g.board.PseudoMoves(knight, nil))
	if len(dests) != 2 {
		t.Fatalf("corner knight should have 2 moves, got %v", dests)
	}
	if !dests[Position{X: 1, Y: 5}] || !dests[Position{X: 2, Y: 6}] {
		t.Fatalf("unexpected corner knight moves %v", dests)
	}
}

func TestSlidingMovesStopAtBlockers(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 7, 7),
		pieceAt(King, Black, 0, 0),
		pieceAt(Rook, White, 3, 3),
		pieceAt(Pawn, White, 3, 1),  // own piece: stop before
		pieceAt(Pawn, Black, 6, 3),  // enemy: capture square, stop on
	)
	rook := g.board.At(Position{X: 3, Y: 3})
	dests := destinations(g.board.PseudoMoves(rook, nil))

	if dests[(Position{X: 3, Y: 1})] || dests[(Position{X: 3, Y: 0})] {
		t.Fatal("rook ray should stop before its own pawn")
	}
	if !dests[(Position{X: 3, Y: 2})] {
		t.Fatal("square before own pawn should be reachable")
	}
	if !dests[(Position{X: 6, Y: 3})] {
		t.Fatal("enemy pawn square should be a capture")
	}
	if dests[(Position{X: 7, Y: 3})] {
		t.Fatal("capture should terminate the ray")
	}
}

func TestQueenCombinesRookAndBishop(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 7, 7),
		pieceAt(King, Black, 0, 0),
		pieceAt(Queen, White, 4, 4),
	)
	queen := g.board.At(Position{X: 4, Y: 4})
	dests := destinations(g.board.PseudoMoves(queen, nil))

	for _, want := range []Position{{X: 4, Y: 0}, {X: 0, Y: 4}, {X: 1, Y: 1}, {X: 7, Y: 1}} {
		if !dests[want] {
			t.Fatalf("queen should reach %v, got %v", want, dests)
		}
	}
}

func TestKingMovesSingleStep(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 4, 4),
		pieceAt(King, Black, 0, 0),
	)
	king := g.board.At(Position{X: 4, Y: 4})
	dests := destinations(g.board.PseudoMoves(king, nil))
	if len(dests) != 8 {
		t.Fatalf("centered king should have 8 moves, got %v", dests)
	}
}

func TestIsSquareAttackedByPawnDependsOnColor(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 7, 7),
		pieceAt(King, Black, 0, 0),
		pieceAt(Pawn, White, 4, 4),
		pieceAt(Pawn, Black, 2, 2),
	)

	// White pawns attack toward row 0.
	if !g.board.IsSquareAttacked(Position{X: 3, Y: 3}, White) {
		t.Fatal("white pawn on (4,4) should attack (3,3)")
	}
	if g.board.IsSquareAttacked(Position{X: 3, Y: 5}, White) {
		t.Fatal("white pawn must not attack backward")
	}
	// Black pawns attack toward row 7.
	if !g.board.IsSquareAttacked(Position{X: 3, Y: 3}, Black) {
		t.Fatal("black pawn on (2,2) should attack (3,3)")
	}
	if g.board.IsSquareAttacked(Position{X: 3, Y: 1}, Black) {
		t.Fatal("black pawn must not attack backward")
	}
}

func TestIsSquareAttackedSliders(t *testing.T) {
	g := sparseGame(White,
		pieceAt(King, White, 7, 7),
		pieceAt(King, Black, 0, 0),
		pieceAt(Rook, Black, 0, 4),
		pieceAt(Pawn, White, 4, 4),
	)

	if !g.board.IsSquareAttacked(Position{X: 3, Y: 4}, Black) {
		t.Fatal("rook should attack along the open rank")
	}
	// The white pawn blocks the ray past it.
	if g.board.IsSquareAttacked(Position{X: 5, Y: 4}, Black) {
		t.Fatal("rook attack should stop at the blocking pawn")
	}
}
