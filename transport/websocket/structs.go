package websocket

import (
	"encoding/json"

	"github.com/gridrush/tictactoe-server/internal/entity"
	"github.com/gridrush/tictactoe-server/internal/service"
)

const (
	actionJoinGame   = "game:join"
	actionJoinedGame = "game:joined"
	actionPlayers    = "game:players"
	actionMakeTurn   = "game:turn"
	actionGameState  = "game:state"
	actionError      = "game:error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Player holds the seat assigned to the receiving connection.
type Player struct {
	Mark string `json:"mark"`
}

type JoinPayload struct {
	Game struct {
		ID string `json:"id"`
	} `json:"game"`
}

type TurnPayload struct {
	Cell int `json:"cell"`
}

type ResponsePayload struct {
	Player  *Player            `json:"player,omitempty"`
	Game    *entity.Game       `json:"game,omitempty"`
	GameID  string             `json:"game_id,omitempty"`
	Players *service.Occupancy `json:"players,omitempty"`
	Error   string             `json:"error,omitempty"`
}
