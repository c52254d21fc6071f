package rest

import (
	"net/http"

	"rpssl/internal/config"
	"rpssl/internal/transport/rest/handler"
	"rpssl/internal/transport/rest/middleware"
	"rpssl/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	Sessions handler.SessionCreator
	Rounds   handler.RoundPlayer
	Choices  handler.ChoiceProvider
	Gateway  *ws.Gateway
	CORS     config.CORSConfig
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	gameHandler := handler.NewGameHandler(c.Sessions, c.Rounds)
	choiceHandler := handler.NewChoiceHandler(c.Choices)
	wsHandler := ws.NewHandler(c.Gateway)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.CORS))
	r.Use(middleware.Tracing)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/play/create", gameHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/play", gameHandler.Play).Methods("POST", "OPTIONS")
	v1.HandleFunc("/choices", choiceHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/choices/choice", choiceHandler.Random).Methods("GET", "OPTIONS")

	// WebSocket game channel
	v1.HandleFunc("/ws/game", wsHandler.GameWS).Methods("GET")

	v1.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"api documentation unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
