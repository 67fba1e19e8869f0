package service

import (
	"sync"

	"github.com/gridrush/tictactoe-server/internal/apperror"
	"github.com/gridrush/tictactoe-server/internal/game"
)

// Binding ties a connection to the seat it occupies.
type Binding struct {
	GameID string
	Mark   string
}

// Occupancy is the seat snapshot broadcast to a game's room on every join or leave.
type Occupancy struct {
	XOccupied bool `json:"x_occupied"`
	OOccupied bool `json:"o_occupied"`
}

// Roster owns all role bindings: each game has two seats (X and O), a seat is
// held by at most one connection, and a connection holds at most one seat.
type Roster struct {
	mu     sync.Mutex
	byConn map[string]Binding
	seats  map[string]map[string]string // gameID -> mark -> connID
}

func NewRoster() *Roster {
	return &Roster{
		byConn: make(map[string]Binding),
		seats:  make(map[string]map[string]string),
	}
}

// Join - assigns the first vacant seat, X preferred when both are vacant.
func (that *Roster) Join(gameID, connID string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.byConn[connID]; ok {
		return "", apperror.ErrAlreadyInGame
	}

	gameSeats, ok := that.seats[gameID]
	if !ok {
		gameSeats = make(map[string]string, 2)
		that.seats[gameID] = gameSeats
	}

	var mark string

	switch {
	case gameSeats[game.PlayerX] == "":
		mark = game.PlayerX
	case gameSeats[game.PlayerO] == "":
		mark = game.PlayerO
	default:
		return "", apperror.ErrGameFull
	}

	gameSeats[mark] = connID
	that.byConn[connID] = Binding{GameID: gameID, Mark: mark}

	return mark, nil
}

// Leave - vacates the seat held by connID. No-op if the connection holds none.
func (that *Roster) Leave(connID string) (Binding, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	binding, ok := that.byConn[connID]
	if !ok {
		return Binding{}, false
	}

	delete(that.byConn, connID)

	if gameSeats, exists := that.seats[binding.GameID]; exists {
		delete(gameSeats, binding.Mark)
	}

	return binding, true
}

// BindingOf - reports which (game, seat) pair the connection holds, if any.
func (that *Roster) BindingOf(connID string) (Binding, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	binding, ok := that.byConn[connID]

	return binding, ok
}

// Occupancy - snapshots which seats of a game are currently held.
func (that *Roster) Occupancy(gameID string) Occupancy {
	that.mu.Lock()
	defer that.mu.Unlock()

	gameSeats := that.seats[gameID]

	return Occupancy{
		XOccupied: gameSeats[game.PlayerX] != "",
		OOccupied: gameSeats[game.PlayerO] != "",
	}
}
