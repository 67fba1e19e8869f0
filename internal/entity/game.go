package entity

import (
	"strings"
	"time"

	"github.com/gridrush/tictactoe-server/internal/game"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// RecordEmptyCell is the placeholder for an empty cell in the persisted board string.
const RecordEmptyCell = "."

// Game is one match session with its own grid and turn state.
type Game struct {
	ID        string                 `json:"id"`
	Board     [game.BoardSize]string `json:"board"`
	Turn      string                 `json:"player_turn,omitempty"`
	Winner    string                 `json:"winner,omitempty"`
	Status    string                 `json:"status"`
	Moves     int                    `json:"moves"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	EndedAt   *time.Time             `json:"ended_at,omitempty"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Board:     [game.BoardSize]string{},
		Turn:      game.PlayerX,
		Status:    StatusOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

// ApplyMark - places mark on cell and bumps the move counter.
// Legality and turn order are the caller's responsibility.
func (that *Game) ApplyMark(mark string, cell int, now time.Time) {
	that.Board[cell] = mark
	that.Moves++
	that.UpdatedAt = now
}

// Finish - transitions the game to its terminal state. Terminal is absorbing:
// once finished the record is never mutated again.
func (that *Game) Finish(outcome string, now time.Time) {
	that.Winner = outcome
	that.Status = StatusFinished
	that.Turn = game.EmptyCell
	that.UpdatedAt = now
	that.EndedAt = &now
}

// BoardString - serializes the grid into a fixed-width string, one character
// per cell, with RecordEmptyCell standing in for empty cells.
func (that *Game) BoardString() string {
	var sb strings.Builder
	sb.Grow(game.BoardSize)

	for _, cell := range that.Board {
		if cell == game.EmptyCell {
			sb.WriteString(RecordEmptyCell)
			continue
		}
		sb.WriteString(cell)
	}

	return sb.String()
}

// Summary - snapshots a finished game for the history sink.
func (that *Game) Summary() GameRecord {
	record := GameRecord{
		ID:         that.ID,
		Outcome:    that.Winner,
		CreatedAt:  that.CreatedAt,
		Moves:      that.Moves,
		FinalBoard: that.BoardString(),
	}

	if that.EndedAt != nil {
		record.EndedAt = *that.EndedAt
	}

	return record
}
