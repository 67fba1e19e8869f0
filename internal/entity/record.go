package entity

import "time"

// GameRecord is the durable summary of one finished game.
type GameRecord struct {
	ID         string    `json:"id"`
	Outcome    string    `json:"outcome"`
	CreatedAt  time.Time `json:"created_at"`
	EndedAt    time.Time `json:"ended_at"`
	Moves      int       `json:"moves"`
	FinalBoard string    `json:"board"`
}
