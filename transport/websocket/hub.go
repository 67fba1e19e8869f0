package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gridrush/tictactoe-server/internal/entity"
	"github.com/gridrush/tictactoe-server/internal/service"
)

// Hub maintains the per-game subscriber sets and delivers coordinator
// decisions to connections. The coordinator only ever asks it to broadcast
// to a game's room or unicast to a single connection.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{} // gameID -> connIDs
	roomOf  map[string]string              // connID -> gameID
}

// client serializes writes: gorilla connections allow one concurrent writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
		roomOf:  make(map[string]string),
	}
}

// Add - registers a freshly upgraded connection.
func (that *Hub) Add(connID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[connID] = &client{conn: conn}
}

// Remove - forgets a connection and its room membership.
func (that *Hub) Remove(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.leaveRoom(connID)
	delete(that.clients, connID)
}

// Subscribe - places the connection into the game's room.
func (that *Hub) Subscribe(gameID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[gameID]
	if !ok {
		room = make(map[string]struct{}, 2)
		that.rooms[gameID] = room
	}

	room[connID] = struct{}{}
	that.roomOf[connID] = gameID
}

// Unsubscribe - removes the connection from whatever room it is in.
func (that *Hub) Unsubscribe(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.leaveRoom(connID)
}

func (that *Hub) leaveRoom(connID string) {
	gameID, ok := that.roomOf[connID]
	if !ok {
		return
	}

	delete(that.roomOf, connID)

	room, ok := that.rooms[gameID]
	if !ok {
		return
	}

	delete(room, connID)

	if len(room) == 0 {
		delete(that.rooms, gameID)
	}
}

func (that *Hub) Joined(connID, mark string, game *entity.Game) {
	that.unicast(connID, actionJoinedGame, ResponsePayload{Player: &Player{Mark: mark}, Game: game})
}

func (that *Hub) Players(gameID string, occupancy service.Occupancy) {
	that.broadcast(gameID, actionPlayers, ResponsePayload{GameID: gameID, Players: &occupancy})
}

func (that *Hub) GameState(gameID string, game *entity.Game) {
	that.broadcast(gameID, actionGameState, ResponsePayload{Game: game})
}

func (that *Hub) Error(connID, message string) {
	that.unicast(connID, actionError, ResponsePayload{Error: message})
}

func (that *Hub) unicast(connID, action string, payload ResponsePayload) {
	that.mu.RLock()
	receiver, ok := that.clients[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	that.send(receiver, action, payload)
}

func (that *Hub) broadcast(gameID, action string, payload ResponsePayload) {
	that.mu.RLock()
	receivers := make([]*client, 0, len(that.rooms[gameID]))
	for connID := range that.rooms[gameID] {
		if receiver, ok := that.clients[connID]; ok {
			receivers = append(receivers, receiver)
		}
	}
	that.mu.RUnlock()

	for _, receiver := range receivers {
		that.send(receiver, action, payload)
	}
}

func (that *Hub) send(receiver *client, action string, payload ResponsePayload) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	message := Message{
		Action:  action,
		Payload: payloadJSON,
	}

	receiver.mu.Lock()
	defer receiver.mu.Unlock()

	if err = receiver.conn.WriteJSON(message); err != nil {
		that.logger.Error("failed to write message", "action", action, "error", err)
	}
}
