package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gridrush/tictactoe-server/internal/entity"
	"github.com/gridrush/tictactoe-server/internal/pkg"
)

type GameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type gameService struct {
	gameRepo gameRepo
}

func NewGameService(gameRepo gameRepo) GameService {
	return &gameService{
		gameRepo: gameRepo,
	}
}

func (that *gameService) CreateGame(ctx context.Context) (*entity.Game, error) {
	newGame := entity.NewGame(pkg.GenerateGameID(), time.Now().UTC())

	if err := that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	return newGame, nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return existingGame, nil
}
