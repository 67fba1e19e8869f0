package repository

import (
	"context"
	"sync"

	"github.com/gridrush/tictactoe-server/internal/entity"
)

// memoryGame is an in-memory GameRepository. It backs unit tests and
// redis-less runs; the coordinator stays the single writer either way.
type memoryGame struct {
	mu    sync.RWMutex
	games map[string]entity.Game
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existingGame, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return &existingGame, nil
}
