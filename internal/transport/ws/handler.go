package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced by the router middleware
	},
}

// Handler handles WebSocket connections
type Handler struct {
	gateway *Gateway
}

// NewHandler creates a new WebSocket handler
func NewHandler(gateway *Gateway) *Handler {
	return &Handler{
		gateway: gateway,
	}
}

// GameWS handles GET /v1/ws/game?gameCode=
func (h *Handler) GameWS(w http.ResponseWriter, r *http.Request) {
	gameCode := r.URL.Query().Get("gameCode")

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := NewConnection(uuid.NewString())
	hub := h.gateway.Hub()
	hub.Register(conn)

	if gameCode != "" {
		ctx, cancel := messageContext(context.Background())
		h.gateway.Attach(ctx, conn, gameCode)
		cancel()
	}

	log.Printf("Connection %s opened (gameCode=%q)", conn.ID, gameCode)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.gateway.Hub().Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		ctx, cancel := messageContext(context.Background())
		h.gateway.Dispatch(ctx, conn, message)
		cancel()
	}
}

// writePump owns all writes to wsConn. Messages already queued behind the
// one received are flushed in the same wakeup, each as its own text frame.
func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			if !ok {
				writeClose(wsConn)
				return
			}
			closed, err := writeFrames(wsConn, message, conn.Send)
			if err != nil {
				log.Printf("Connection %s write error: %v", conn.ID, err)
				return
			}
			if closed {
				writeClose(wsConn)
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeFrames writes first and then whatever is queued right now. closed
// reports that the queue was closed while draining.
func writeFrames(wsConn *websocket.Conn, first []byte, queue <-chan []byte) (closed bool, err error) {
	if err := writeFrame(wsConn, first); err != nil {
		return false, err
	}
	for n := len(queue); n > 0; n-- {
		message, ok := <-queue
		if !ok {
			return true, nil
		}
		if err := writeFrame(wsConn, message); err != nil {
			return false, err
		}
	}
	return false, nil
}

func writeFrame(wsConn *websocket.Conn, message []byte) error {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsConn.WriteMessage(websocket.TextMessage, message)
}

// writeClose sends a normal closure frame; the peer may already be gone.
func writeClose(wsConn *websocket.Conn) {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
