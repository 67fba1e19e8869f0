package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrush/tictactoe-server/internal/entity"
	"github.com/gridrush/tictactoe-server/internal/game"
	"github.com/gridrush/tictactoe-server/internal/repository"
)

type joinedEvent struct {
	connID string
	mark   string
}

type playersEvent struct {
	gameID    string
	occupancy Occupancy
}

// fakeNotifier records every coordinator emission in order.
type fakeNotifier struct {
	subscribed   []string
	unsubscribed []string
	joined       []joinedEvent
	players      []playersEvent
	states       []entity.Game
	errors       map[string][]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{errors: make(map[string][]string)}
}

func (that *fakeNotifier) Subscribe(gameID, connID string) {
	that.subscribed = append(that.subscribed, gameID+"/"+connID)
}

func (that *fakeNotifier) Unsubscribe(connID string) {
	that.unsubscribed = append(that.unsubscribed, connID)
}

func (that *fakeNotifier) Joined(connID, mark string, _ *entity.Game) {
	that.joined = append(that.joined, joinedEvent{connID: connID, mark: mark})
}

func (that *fakeNotifier) Players(gameID string, occupancy Occupancy) {
	that.players = append(that.players, playersEvent{gameID: gameID, occupancy: occupancy})
}

func (that *fakeNotifier) GameState(_ string, game *entity.Game) {
	that.states = append(that.states, *game)
}

func (that *fakeNotifier) Error(connID, message string) {
	that.errors[connID] = append(that.errors[connID], message)
}

type fakeSink struct {
	records []entity.GameRecord
}

func (that *fakeSink) Record(record entity.GameRecord) {
	that.records = append(that.records, record)
}

type matchFixture struct {
	match    *Match
	games    GameService
	repo     gameRepo
	notifier *fakeNotifier
	sink     *fakeSink
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryGameRepository()
	notifier := newFakeNotifier()
	sink := &fakeSink{}

	return &matchFixture{
		match:    NewMatch(logger, repo, NewRoster(), notifier, sink),
		games:    NewGameService(repo),
		repo:     repo,
		notifier: notifier,
		sink:     sink,
	}
}

func (that *matchFixture) createGame(ctx context.Context, t *testing.T) *entity.Game {
	t.Helper()

	newGame, err := that.games.CreateGame(ctx)
	require.NoError(t, err)

	return newGame
}

func (that *matchFixture) currentGame(ctx context.Context, t *testing.T, id string) *entity.Game {
	t.Helper()

	currentGame, err := that.repo.GetByID(ctx, id)
	require.NoError(t, err)

	return currentGame
}

func TestMatch_HandleJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("Two joiners get X then O and occupancy is broadcast", func(t *testing.T) {
		// Given: a fresh game
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)

		// When: two connections join
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// Then: seats go out in order and the room hears both occupancy changes
		require.Len(t, fx.notifier.joined, 2)
		assert.Equal(t, joinedEvent{connID: "conn-a", mark: game.PlayerX}, fx.notifier.joined[0])
		assert.Equal(t, joinedEvent{connID: "conn-b", mark: game.PlayerO}, fx.notifier.joined[1])

		require.Len(t, fx.notifier.players, 2)
		assert.Equal(t, Occupancy{XOccupied: true}, fx.notifier.players[0].occupancy)
		assert.Equal(t, Occupancy{XOccupied: true, OOccupied: true}, fx.notifier.players[1].occupancy)

		assert.Equal(t, []string{newGame.ID + "/conn-a", newGame.ID + "/conn-b"}, fx.notifier.subscribed)
	})

	t.Run("Third joiner gets a full-game error", func(t *testing.T) {
		// Given: a game with both seats taken
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// When: a third connection joins
		fx.match.handleJoin(ctx, newGame.ID, "conn-c")

		// Then: the error is surfaced to the third connection only
		assert.Equal(t, []string{"game is already full"}, fx.notifier.errors["conn-c"])
		assert.Len(t, fx.notifier.joined, 2)
	})

	t.Run("Joining an unknown game surfaces not-found", func(t *testing.T) {
		// Given: no games at all
		fx := newMatchFixture(t)

		// When: a connection joins a missing id
		fx.match.handleJoin(ctx, "missing", "conn-a")

		// Then: the joiner hears not-found and nothing else happens
		assert.Equal(t, []string{"game not found"}, fx.notifier.errors["conn-a"])
		assert.Empty(t, fx.notifier.joined)
		assert.Empty(t, fx.notifier.subscribed)
	})
}

func TestMatch_HandleTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Top row win finishes the game and hands off to the sink", func(t *testing.T) {
		// Given: a game with both players seated
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// When: X plays 0,1,2 around O playing 3,4
		fx.match.handleTurn(ctx, "conn-a", 0)
		fx.match.handleTurn(ctx, "conn-b", 3)
		fx.match.handleTurn(ctx, "conn-a", 1)
		fx.match.handleTurn(ctx, "conn-b", 4)
		fx.match.handleTurn(ctx, "conn-a", 2)

		// Then: X wins with the top row and the game is frozen
		finishedGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, entity.StatusFinished, finishedGame.Status)
		assert.Equal(t, game.PlayerX, finishedGame.Winner)
		assert.NotNil(t, finishedGame.EndedAt)
		assert.Equal(t, [game.BoardSize]string{
			game.PlayerX, game.PlayerX, game.PlayerX,
			game.PlayerO, game.PlayerO, game.EmptyCell,
			game.EmptyCell, game.EmptyCell, game.EmptyCell,
		}, finishedGame.Board)

		// Then: exactly one summary reached the sink
		require.Len(t, fx.sink.records, 1)
		assert.Equal(t, game.PlayerX, fx.sink.records[0].Outcome)
		assert.Equal(t, 5, fx.sink.records[0].Moves)
		assert.Equal(t, "XXXOO....", fx.sink.records[0].FinalBoard)

		// Then: every accepted transition was broadcast in order
		require.Len(t, fx.notifier.states, 5)
		assert.Equal(t, entity.StatusFinished, fx.notifier.states[4].Status)

		// When: O tries to keep playing
		fx.match.handleTurn(ctx, "conn-b", 5)

		// Then: the terminal state is sticky
		afterGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, game.EmptyCell, afterGame.Board[5])
		assert.Len(t, fx.notifier.states, 5)
		assert.Len(t, fx.sink.records, 1)
	})

	t.Run("Full board with no triple ends in a draw", func(t *testing.T) {
		// Given: a game with both players seated
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// When: the players alternate through a tie line
		moves := []struct {
			connID string
			cell   int
		}{
			{"conn-a", 0}, {"conn-b", 1},
			{"conn-a", 2}, {"conn-b", 4},
			{"conn-a", 3}, {"conn-b", 5},
			{"conn-a", 7}, {"conn-b", 6},
			{"conn-a", 8},
		}
		for _, move := range moves {
			fx.match.handleTurn(ctx, move.connID, move.cell)
		}

		// Then: the outcome is a draw
		finishedGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, entity.StatusFinished, finishedGame.Status)
		assert.Equal(t, game.PlayerTie, finishedGame.Winner)

		require.Len(t, fx.sink.records, 1)
		assert.Equal(t, game.PlayerTie, fx.sink.records[0].Outcome)
		assert.Equal(t, 9, fx.sink.records[0].Moves)
	})

	t.Run("Out-of-turn move is rejected with an error and no mutation", func(t *testing.T) {
		// Given: a game where O is seated but X has not moved yet
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// When: O tries to open the game
		fx.match.handleTurn(ctx, "conn-b", 0)

		// Then: only O hears the rejection and the grid is untouched
		assert.Equal(t, []string{"it's not your turn"}, fx.notifier.errors["conn-b"])
		assert.Empty(t, fx.notifier.errors["conn-a"])
		assert.Empty(t, fx.notifier.states)

		currentGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, game.EmptyCell, currentGame.Board[0])
		assert.Equal(t, game.PlayerX, currentGame.Turn)
	})

	t.Run("Move on an occupied cell is silently dropped", func(t *testing.T) {
		// Given: a game where X already took cell 0
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")
		fx.match.handleTurn(ctx, "conn-a", 0)

		// When: O plays the same cell
		fx.match.handleTurn(ctx, "conn-b", 0)

		// Then: no error, no broadcast, no state change
		assert.Empty(t, fx.notifier.errors["conn-b"])
		assert.Len(t, fx.notifier.states, 1)

		currentGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, game.PlayerX, currentGame.Board[0])
		assert.Equal(t, game.PlayerO, currentGame.Turn)
		assert.Equal(t, 1, currentGame.Moves)
	})

	t.Run("Out-of-range move is silently dropped", func(t *testing.T) {
		// Given: a game where it is X's turn
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")

		// When: X plays off the board
		fx.match.handleTurn(ctx, "conn-a", 9)

		// Then: nothing happens
		assert.Empty(t, fx.notifier.errors["conn-a"])
		assert.Empty(t, fx.notifier.states)

		currentGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Zero(t, currentGame.Moves)
	})

	t.Run("Turn from an unbound connection is silently dropped", func(t *testing.T) {
		// Given: a game with one seated player
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")

		// When: a stranger submits a move
		fx.match.handleTurn(ctx, "conn-ghost", 0)

		// Then: no error, no broadcast, no state change
		assert.Empty(t, fx.notifier.errors["conn-ghost"])
		assert.Empty(t, fx.notifier.states)

		currentGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Zero(t, currentGame.Moves)
	})
}

func TestMatch_HandleDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Disconnect vacates the seat and leaves the grid alone", func(t *testing.T) {
		// Given: a game mid-play
		fx := newMatchFixture(t)
		newGame := fx.createGame(ctx, t)
		fx.match.handleJoin(ctx, newGame.ID, "conn-a")
		fx.match.handleJoin(ctx, newGame.ID, "conn-b")
		fx.match.handleTurn(ctx, "conn-a", 0)

		// When: X disconnects
		fx.match.handleDisconnect("conn-a")

		// Then: the room hears the new occupancy and the game state is unchanged
		require.Len(t, fx.notifier.players, 3)
		assert.Equal(t, Occupancy{OOccupied: true}, fx.notifier.players[2].occupancy)
		assert.Equal(t, []string{"conn-a"}, fx.notifier.unsubscribed)

		currentGame := fx.currentGame(ctx, t, newGame.ID)
		assert.Equal(t, entity.StatusOngoing, currentGame.Status)
		assert.Equal(t, game.PlayerX, currentGame.Board[0])
		assert.Equal(t, game.PlayerO, currentGame.Turn)
	})

	t.Run("Disconnect of an unbound connection broadcasts nothing", func(t *testing.T) {
		// Given: an empty roster
		fx := newMatchFixture(t)

		// When: an unknown connection disconnects
		fx.match.handleDisconnect("conn-ghost")

		// Then: no occupancy broadcast goes out
		assert.Empty(t, fx.notifier.players)
	})
}
