package handler

import (
	"context"
	"net/http"

	"rpssl/internal/model"
)

// SessionCreator starts two-player game sessions
type SessionCreator interface {
	CreateSession(ctx context.Context) (*model.GameInfo, error)
}

// RoundPlayer plays a single round against the computer
type RoundPlayer interface {
	PlayRound(ctx context.Context, playerChoice int) (*model.PlayResult, error)
}

// GameHandler handles play endpoints
type GameHandler struct {
	sessions SessionCreator
	rounds   RoundPlayer
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions SessionCreator, rounds RoundPlayer) *GameHandler {
	return &GameHandler{
		sessions: sessions,
		rounds:   rounds,
	}
}

// Create handles POST /v1/play/create
//
// @Summary Create a two-player game session
// @Tags play
// @Produce json
// @Success 200 {object} model.GameInfo
// @Failure 503 {object} ErrorResponse
// @Router /play/create [post]
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	info, err := h.sessions.CreateSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Play handles POST /v1/play
//
// @Summary Play one round against the computer
// @Tags play
// @Accept json
// @Produce json
// @Param request body model.PlayRequest true "Player choice"
// @Success 200 {object} model.PlayResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /play [post]
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req model.PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.rounds.PlayRound(r.Context(), req.PlayerChoice)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
