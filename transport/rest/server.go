package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gridrush/tictactoe-server/internal/entity"
)

type gameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type historyRepo interface {
	ListRecent(ctx context.Context, limit int) ([]entity.GameRecord, error)
}

type Server struct {
	logger      *slog.Logger
	gameService gameService
	history     historyRepo
}

func New(logger *slog.Logger, gameService gameService, history historyRepo) *Server {
	return &Server{
		logger:      logger,
		gameService: gameService,
		history:     history,
	}
}

func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("POST /game", that.handleCreateGame)
	mux.HandleFunc("GET /game/{id}", that.handleGetGame)
	mux.HandleFunc("GET /games/recent", that.handleRecentGames)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
