package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gridrush/tictactoe-server/internal/pkg"
)

var ErrUnknownAction = errors.New("unknown action")

type coordinator interface {
	Join(gameID, connID string)
	MakeTurn(connID string, cell int)
	Disconnect(connID string)
}

type Server struct {
	logger   *slog.Logger
	match    coordinator
	hub      *Hub
	upgrader websocket.Upgrader

	handlers map[string]func(connID string, message *Message) error
}

func New(logger *slog.Logger, match coordinator, hub *Hub) *Server {
	server := &Server{
		logger: logger,
		match:  match,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(string, *Message) error),
	}

	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionMakeTurn] = server.handleGameTurn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveConnection)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
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

// serveConnection - upgrades the connection and pumps messages until it closes.
func (that *Server) serveConnection(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := pkg.GenerateConnectionID()
	that.hub.Add(connID, conn)

	log = log.With("connID", connID)
	log.Info("WebSocket connection established")

	defer func() {
		that.match.Disconnect(connID)
		that.hub.Remove(connID)
		conn.Close()
	}()

	that.handleMessages(connID, conn)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(connID string, conn *websocket.Conn) {
	log := that.logger.With("method", "handleMessages", "connID", connID)

	for {
		_, reqBody, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("error processing message", "error", fmt.Errorf("%w: %s", ErrUnknownAction, message.Action))
			continue
		}

		if err = handler(connID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
