package record

import (
	"strings"
	"testing"

	"github.com/deepcore-chess/deepcore-backend/internal/model"
)

func playedGame(t *testing.T, moves ...model.SimpleMove) *model.Game {
	t.Helper()
	g := model.NewGame()
	for _, move := range moves {
		if err := g.MakeMove(move.From, move.To, ""); err != nil {
			t.Fatalf("setup move %s-%s: %v", move.From.Label(), move.To.Label(), err)
		}
	}
	return g
}

func TestFromGameAndReplay(t *testing.T) {
	g := playedGame(t,
		model.SimpleMove{From: model.Position{X: 4, Y: 6}, To: model.Position{X: 4, Y: 4}}, // e2-e4
		model.SimpleMove{From: model.Position{X: 3, Y: 1}, To: model.Position{X: 3, Y: 3}}, // d7-d5
		model.SimpleMove{From: model.Position{X: 4, Y: 4}, To: model.Position{X: 3, Y: 3}}, // exd5
	)

	rec := FromGame("abc", g)
	if rec.ID != "abc" || len(rec.Moves) != 3 {
		t.Fatalf("unexpected record %+v", rec)
	}

	replayed, err := Replay(rec)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.ToMove() != g.ToMove() {
		t.Fatal("replayed game is not on the same turn")
	}
	if replayed.FullmoveNumber() != g.FullmoveNumber() {
		t.Fatal("replayed game disagrees on the fullmove number")
	}
	if pawn := replayed.At(model.Position{X: 3, Y: 3}); pawn == nil || pawn.Color != model.White {
		t.Fatal("replayed game is missing the capturing pawn on d5")
	}
}

func TestReplayRejectsIllegalPly(t *testing.T) {
	rec := GameRecord{
		ID: "bad",
		Moves: []MoveEntry{
			{From: model.Position{X: 4, Y: 6}, To: model.Position{X: 4, Y: 4}},
			{From: model.Position{X: 0, Y: 0}, To: model.Position{X: 0, Y: 4}}, // rook through its own pawn
		},
	}

	_, err := Replay(rec)
	if err == nil {
		t.Fatal("expected replay to fail")
	}
	if !strings.Contains(err.Error(), "ply 2") {
		t.Fatalf("error should name the failing ply, got %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	rec := GameRecord{
		ID: "rt",
		Moves: []MoveEntry{
			{From: model.Position{X: 4, Y: 6}, To: model.Position{X: 4, Y: 4}},
			{From: model.Position{X: 0, Y: 1}, To: model.Position{X: 0, Y: 0}, Promotion: model.Queen},
		},
	}

	data, err := EncodeJSON(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != rec.ID || len(got.Moves) != len(rec.Moves) {
		t.Fatalf("round trip changed the record: %+v", got)
	}
	if got.Moves[1].Promotion != model.Queen {
		t.Fatalf("promotion lost in round trip: %+v", got.Moves[1])
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	if _, err := DecodeJSON([]byte("not json")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestTextRoundTrip(t *testing.T) {
	rec := GameRecord{
		ID: "text",
		Moves: []MoveEntry{
			{From: model.Position{X: 4, Y: 6}, To: model.Position{X: 4, Y: 4}},
			{From: model.Position{X: 4, Y: 1}, To: model.Position{X: 4, Y: 3}},
			{From: model.Position{X: 0, Y: 1}, To: model.Position{X: 0, Y: 0}, Promotion: model.Knight},
		},
	}

	text := EncodeText(rec)
	want := "e2-e4\ne7-e5\na7-a8=knight\n"
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}

	got, err := ParseText("text", text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Moves) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(got.Moves))
	}
	if got.Moves[0].From != rec.Moves[0].From || got.Moves[0].To != rec.Moves[0].To {
		t.Fatalf("first move mangled: %+v", got.Moves[0])
	}
	if got.Moves[2].Promotion != model.Knight {
		t.Fatalf("promotion lost: %+v", got.Moves[2])
	}
}

func TestParseTextSkipsBlankLines(t *testing.T) {
	got, err := ParseText("id", "e2-e4\n\n  \ne7-e5\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(got.Moves))
	}
}

func TestParseTextRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"e2e4",
		"e2-e9",
		"z2-e4",
		"e2-e4-e5",
	}
	for _, text := range cases {
		if _, err := ParseText("id", text); err == nil {
			t.Fatalf("expected parse error for %q", text)
		}
	}
}
