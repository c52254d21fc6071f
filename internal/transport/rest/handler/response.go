package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"rpssl/internal/service"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service failure onto a status code. Infrastructure
// details are logged, not returned.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidGameStatus):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		log.Printf("Session store failure: %v", err)
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
	case errors.Is(err, service.ErrRandomSource):
		log.Printf("Random source failure: %v", err)
		writeError(w, http.StatusServiceUnavailable, "random number source unavailable")
	default:
		log.Printf("Unhandled error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

const maxBodyBytes = 1 << 16

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}
