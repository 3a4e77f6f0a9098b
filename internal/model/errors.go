package model

import "errors"

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrEmptyHistory = errors.New("no moves to undo")
	ErrGameFull     = errors.New("game is full")
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not your turn")
)
