package ws

import (
	"log"
	"sync"
)

const sendBufferSize = 256

// Connection is one client attached to the hub
type Connection struct {
	ID   string
	Send chan []byte

	// guarded by Hub.mu
	gameCode string
}

// NewConnection creates a connection with a buffered outbound queue
func NewConnection(id string) *Connection {
	return &Connection{
		ID:   id,
		Send: make(chan []byte, sendBufferSize),
	}
}

// Hub tracks live connections and the game group each belongs to
type Hub struct {
	conns  map[*Connection]bool
	groups map[string]map[*Connection]bool // gameCode -> members

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*Connection]bool),
		groups: make(map[string]map[*Connection]bool),
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	log.Printf("Connection %s registered", conn.ID)
}

// Unregister removes a connection from its group and closes its queue
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.conns[conn] {
		return
	}
	h.leaveGroup(conn)
	delete(h.conns, conn)
	close(conn.Send)
	log.Printf("Connection %s unregistered", conn.ID)
}

// AddToGroup moves a registered connection into the group for gameCode
func (h *Hub) AddToGroup(conn *Connection, gameCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.conns[conn] || conn.gameCode == gameCode {
		return
	}
	h.leaveGroup(conn)
	if h.groups[gameCode] == nil {
		h.groups[gameCode] = make(map[*Connection]bool)
	}
	h.groups[gameCode][conn] = true
	conn.gameCode = gameCode
	log.Printf("Connection %s joined game group %s", conn.ID, gameCode)
}

// GroupSize returns the number of connections in a game group
func (h *Hub) GroupSize(gameCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[gameCode])
}

// SendTo delivers msg to a single connection
func (h *Hub) SendTo(conn *Connection, msg Outbound) {
	data, ok := encode(msg)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.conns[conn] {
		deliver(conn, data)
	}
}

// SendToGroup delivers msg to every member of a game group
func (h *Hub) SendToGroup(gameCode string, msg Outbound) {
	h.sendToGroup(gameCode, nil, msg)
}

// SendToOthers delivers msg to every member of a game group except one
func (h *Hub) SendToOthers(gameCode string, except *Connection, msg Outbound) {
	h.sendToGroup(gameCode, except, msg)
}

func (h *Hub) sendToGroup(gameCode string, except *Connection, msg Outbound) {
	data, ok := encode(msg)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.groups[gameCode] {
		if conn != except {
			deliver(conn, data)
		}
	}
}

// must hold h.mu
func (h *Hub) leaveGroup(conn *Connection) {
	if conn.gameCode == "" {
		return
	}
	if members, ok := h.groups[conn.gameCode]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.groups, conn.gameCode)
		}
	}
	conn.gameCode = ""
}

func deliver(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		// Drop message if buffer full
		log.Printf("Dropping message for connection %s: send buffer full", conn.ID)
	}
}

func encode(msg Outbound) ([]byte, bool) {
	data, err := Encode(msg)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", msg.messageType(), err)
		return nil, false
	}
	return data, true
}
