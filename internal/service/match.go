package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gridrush/tictactoe-server/internal/apperror"
	"github.com/gridrush/tictactoe-server/internal/entity"
	"github.com/gridrush/tictactoe-server/internal/game"
	"github.com/gridrush/tictactoe-server/internal/repository"
)

const intentBuffer = 256

// Notifier delivers coordinator decisions back to connected clients.
// The transport owns the session-scoped subscriber sets behind it.
type Notifier interface {
	Subscribe(gameID, connID string)
	Unsubscribe(connID string)

	Joined(connID, mark string, game *entity.Game)
	Players(gameID string, occupancy Occupancy)
	GameState(gameID string, game *entity.Game)
	Error(connID, message string)
}

type historySink interface {
	Record(record entity.GameRecord)
}

type intentKind int

const (
	intentJoin intentKind = iota
	intentTurn
	intentDisconnect
)

type intent struct {
	kind   intentKind
	gameID string
	connID string
	cell   int
}

// Match is the coordinating state machine. All session and roster mutation
// happens on its single Run loop, one intent at a time to completion, so moves,
// joins and disconnects on the same game can never interleave.
type Match struct {
	logger   *slog.Logger
	games    gameRepo
	roster   *Roster
	notifier Notifier
	history  historySink

	intents chan intent
}

func NewMatch(logger *slog.Logger, games gameRepo, roster *Roster, notifier Notifier, history historySink) *Match {
	return &Match{
		logger:   logger.With("component", "match"),
		games:    games,
		roster:   roster,
		notifier: notifier,
		history:  history,

		intents: make(chan intent, intentBuffer),
	}
}

// Run - processes intents until the context is canceled.
func (that *Match) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case it := <-that.intents:
			that.process(ctx, it)
		}
	}
}

// Join - enqueues a join intent for the given game.
func (that *Match) Join(gameID, connID string) {
	that.intents <- intent{kind: intentJoin, gameID: gameID, connID: connID}
}

// MakeTurn - enqueues a move intent; the connection's binding implies the game and mark.
func (that *Match) MakeTurn(connID string, cell int) {
	that.intents <- intent{kind: intentTurn, connID: connID, cell: cell}
}

// Disconnect - enqueues a disconnect intent for the given connection.
func (that *Match) Disconnect(connID string) {
	that.intents <- intent{kind: intentDisconnect, connID: connID}
}

func (that *Match) process(ctx context.Context, it intent) {
	switch it.kind {
	case intentJoin:
		that.handleJoin(ctx, it.gameID, it.connID)
	case intentTurn:
		that.handleTurn(ctx, it.connID, it.cell)
	case intentDisconnect:
		that.handleDisconnect(it.connID)
	}
}

func (that *Match) handleJoin(ctx context.Context, gameID, connID string) {
	log := that.logger.With("method", "handleJoin", "gameID", gameID)

	existingGame, err := that.games.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		that.notifier.Error(connID, "game not found")
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		that.notifier.Error(connID, "failed to get the game")

		return
	}

	mark, err := that.roster.Join(gameID, connID)
	if err != nil {
		that.notifier.Error(connID, err.Error())
		return
	}

	that.notifier.Subscribe(gameID, connID)
	that.notifier.Joined(connID, mark, existingGame)
	that.notifier.Players(gameID, that.roster.Occupancy(gameID))

	log.Info("player joined game", "mark", mark)
}

func (that *Match) handleTurn(ctx context.Context, connID string, cell int) {
	log := that.logger.With("method", "handleTurn")

	binding, ok := that.roster.BindingOf(connID)
	if !ok {
		log.Debug("turn from unbound connection dropped")
		return
	}

	log = log.With("gameID", binding.GameID)

	currentGame, err := that.games.GetByID(ctx, binding.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		log.Debug("turn for missing game dropped")
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		that.notifier.Error(connID, "failed to get the game")

		return
	}

	if currentGame.IsFinished() {
		log.Debug("turn on finished game dropped")
		return
	}

	if currentGame.Turn != binding.Mark {
		that.notifier.Error(connID, apperror.ErrNotYourTurn.Error())
		return
	}

	if !game.IsLegalMove(currentGame.Board, cell) {
		log.Debug("illegal move dropped", "cell", cell)
		return
	}

	now := time.Now().UTC()
	currentGame.ApplyMark(binding.Mark, cell, now)

	switch {
	case game.CheckWin(currentGame.Board, binding.Mark):
		currentGame.Finish(binding.Mark, now)
	case game.CheckDraw(currentGame.Board):
		currentGame.Finish(game.PlayerTie, now)
	default:
		currentGame.Turn = game.ToggleMark(binding.Mark)
	}

	if err = that.games.CreateOrUpdate(ctx, currentGame); err != nil {
		log.Error("failed to update game", "error", err)
		that.notifier.Error(connID, "failed to apply the turn")

		return
	}

	if currentGame.IsFinished() {
		that.history.Record(currentGame.Summary())
		log.Info("game finished", "winner", currentGame.Winner, "moves", currentGame.Moves)
	}

	that.notifier.GameState(currentGame.ID, currentGame)
}

func (that *Match) handleDisconnect(connID string) {
	log := that.logger.With("method", "handleDisconnect")

	binding, ok := that.roster.Leave(connID)
	that.notifier.Unsubscribe(connID)

	if !ok {
		return
	}

	that.notifier.Players(binding.GameID, that.roster.Occupancy(binding.GameID))

	log.Info("player left game", "gameID", binding.GameID, "mark", binding.Mark)
}
