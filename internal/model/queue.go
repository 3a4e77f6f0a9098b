package model

import (
	"fmt"
	"sync"
	"time"
)

type queuedPlayer struct {
	player   Player
	joinedAt time.Time
}

// Queue is the FIFO matchmaking queue.
type Queue struct {
	mu      sync.Mutex
	players []queuedPlayer
}

func NewQueue() *Queue {
	return &Queue{players: []queuedPlayer{}}
}

// AddPlayer enqueues player; a player may only wait once.
func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, queued := range q.players {
		if queued.player.ID == player.ID {
			return fmt.Errorf("player %s already in queue", player.ID)
		}
	}
	q.players = append(q.players, queuedPlayer{player: player, joinedAt: time.Now()})
	return nil
}

// NextPair dequeues the two longest-waiting players. Callers check Size
// first; NextPair on fewer than two players returns zero values.
func (q *Queue) NextPair() (Player, Player) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}
	}
	first, second := q.players[0].player, q.players[1].player
	q.players = q.players[2:]
	return first, second
}

// Remove drops playerID from the queue if present.
func (q *Queue) Remove(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, queued := range q.players {
		if queued.player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return
		}
	}
}

// Size returns the number of waiting players.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
