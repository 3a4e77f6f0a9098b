// Package record converts games to and from portable move-list records.
// A record is just the replayable (from, to, promotion) triples; replaying
// them through the rules engine reconstructs every derived fact (rights,
// counters, status), so the formats stay trivial.
package record

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepcore-chess/deepcore-backend/internal/model"
)

// MoveEntry is one replayable ply.
type MoveEntry struct {
	From      model.Position  `json:"from"`
	To        model.Position  `json:"to"`
	Promotion model.PieceType `json:"promotion,omitempty"`
}

// GameRecord is the native save shape.
type GameRecord struct {
	ID    string      `json:"id"`
	Moves []MoveEntry `json:"moves"`
}

// FromGame captures id plus the game's move history as a record.
func FromGame(id string, g *model.Game) GameRecord {
	history := g.History()
	moves := make([]MoveEntry, 0, len(history))
	for _, rec := range history {
		moves = append(moves, MoveEntry{From: rec.From, To: rec.To, Promotion: rec.PromotedTo})
	}
	return GameRecord{ID: id, Moves: moves}
}

// Replay rebuilds a game by applying every move in order. Any illegal move
// aborts with the ply index in the error.
func Replay(rec GameRecord) (*model.Game, error) {
	g := model.NewGame()
	for i, move := range rec.Moves {
		if err := g.MakeMove(move.From, move.To, move.Promotion); err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return g, nil
}

// EncodeJSON renders the native save format.
func EncodeJSON(rec GameRecord) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// DecodeJSON parses the native save format.
func DecodeJSON(data []byte) (GameRecord, error) {
	var rec GameRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return GameRecord{}, fmt.Errorf("decode game record: %w", err)
	}
	return rec, nil
}

// EncodeText renders the minimal positional text format, one ply per line:
// "e2-e4", with promotions as "e7-e8=queen".
func EncodeText(rec GameRecord) string {
	var sb strings.Builder
	for _, move := range rec.Moves {
		sb.WriteString(move.From.Label())
		sb.WriteByte('-')
		sb.WriteString(move.To.Label())
		if move.Promotion != "" {
			sb.WriteByte('=')
			sb.WriteString(string(move.Promotion))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseText parses the positional text format. Blank lines are skipped.
func ParseText(id, text string) (GameRecord, error) {
	rec := GameRecord{ID: id}
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry, err := parseMoveLabel(line)
		if err != nil {
			return GameRecord{}, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		rec.Moves = append(rec.Moves, entry)
	}
	return rec, nil
}

func parseMoveLabel(line string) (MoveEntry, error) {
	var promotion model.PieceType
	if eq := strings.IndexByte(line, '='); eq >= 0 {
		promotion = model.PieceType(line[eq+1:])
		line = line[:eq]
	}
	parts := strings.Split(line, "-")
	if len(parts) != 2 {
		return MoveEntry{}, fmt.Errorf("malformed move %q", line)
	}
	from, err := parseSquareLabel(parts[0])
	if err != nil {
		return MoveEntry{}, err
	}
	to, err := parseSquareLabel(parts[1])
	if err != nil {
		return MoveEntry{}, err
	}
	return MoveEntry{From: from, To: to, Promotion: promotion}, nil
}

func parseSquareLabel(label string) (model.Position, error) {
	if len(label) != 2 {
		return model.Position{}, fmt.Errorf("malformed square %q", label)
	}
	file := int(label[0] - 'a')
	rank := int(label[1] - '1')
	if file < 0 || file >= model.BoardSize || rank < 0 || rank >= model.BoardSize {
		return model.Position{}, fmt.Errorf("square %q out of range", label)
	}
	return model.Position{X: file, Y: model.BoardSize - 1 - rank}, nil
}
