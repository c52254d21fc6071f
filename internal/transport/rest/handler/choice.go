package handler

import (
	"context"
	"net/http"

	"rpssl/internal/model"
)

// ChoiceProvider lists choices and picks random ones
type ChoiceProvider interface {
	Choices() []model.ChoiceInfo
	RandomChoice(ctx context.Context) (model.Choice, error)
}

// ChoiceHandler handles choice endpoints
type ChoiceHandler struct {
	choices ChoiceProvider
}

// NewChoiceHandler creates a new choice handler
func NewChoiceHandler(choices ChoiceProvider) *ChoiceHandler {
	return &ChoiceHandler{choices: choices}
}

// List handles GET /v1/choices
//
// @Summary List every choice
// @Tags choices
// @Produce json
// @Success 200 {array} model.ChoiceInfo
// @Router /choices [get]
func (h *ChoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.choices.Choices())
}

// Random handles GET /v1/choices/choice
//
// @Summary Pick a random choice
// @Tags choices
// @Produce json
// @Success 200 {object} model.ChoiceInfo
// @Failure 503 {object} ErrorResponse
// @Router /choices/choice [get]
func (h *ChoiceHandler) Random(w http.ResponseWriter, r *http.Request) {
	choice, err := h.choices.RandomChoice(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choice.Info())
}
