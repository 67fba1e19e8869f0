package websocket

import (
	"encoding/json"
	"fmt"
)

func (that *Server) handleJoinGame(connID string, msg *Message) error {
	var payload JoinPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Game.ID == "" {
		that.hub.Error(connID, "game id is required")
		return nil
	}

	that.match.Join(payload.Game.ID, connID)

	return nil
}

func (that *Server) handleGameTurn(connID string, msg *Message) error {
	var payload TurnPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.match.MakeTurn(connID, payload.Cell)

	return nil
}
