package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gridrush/tictactoe-server/internal/repository"
)

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleCreateGame")

	game, err := that.gameService.CreateGame(r.Context())
	if err != nil {
		log.Error("failed to create game", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create game"})

		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGetGame")

	id := r.PathValue("id")

	game, err := that.gameService.GetGameByID(r.Context(), id)
	if errors.Is(err, repository.ErrGameNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
		return
	}

	if err != nil {
		log.Error("failed to get game", "gameID", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get game"})

		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleRecentGames")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := that.history.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error("failed to list recent games", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list recent games"})

		return
	}

	writeJSON(w, http.StatusOK, records)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
