package pkg

import "github.com/google/uuid"

// GenerateGameID - generates a collision-free identifier for a new game.
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateConnectionID - generates a unique identifier for a websocket connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
