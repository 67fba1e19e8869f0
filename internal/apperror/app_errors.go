package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrGameFull      = errors.New("game is already full")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrAlreadyInGame = errors.New("connection already holds a seat in a game")
)
