package model

// Player identifies one client across games.
type Player struct {
	ID string
}

// MatchFoundEvent notifies a queued player that a game was created for them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
