package ws

import (
	"encoding/json"

	"rpssl/internal/model"
)

// MessageType names a message in either direction
type MessageType string

// Client message types
const (
	MsgJoinGame MessageType = "JoinGame"
	MsgSendMove MessageType = "SendMove"
	MsgGameOver MessageType = "GameOver"
)

// Server message types. GameOver is shared with the client side.
const (
	MsgConnected MessageType = "Connected"
	MsgPlayerID  MessageType = "PlayerId"
	MsgWaiting   MessageType = "Waiting"
	MsgResult    MessageType = "Result"
	MsgError     MessageType = "Error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JoinGameRequest asks for the second seat of a session
type JoinGameRequest struct {
	GameCode string `json:"gameCode"`
}

// SendMoveRequest submits a choice for the current round
type SendMoveRequest struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
	Choice   int    `json:"choice"`
}

// GameOverRequest ends a session
type GameOverRequest struct {
	GameCode      string `json:"gameCode"`
	IsTimeExpired *bool  `json:"isTimeExpired,omitempty"`
}

// Outbound is implemented by every message the server sends
type Outbound interface {
	messageType() MessageType
}

// Connected tells the group that both seats are taken
type Connected bool

// PlayerID hands the joining player their private id
type PlayerID string

// Waiting tells a player their move is in and the opponent has not moved yet
type Waiting string

// Result is one player's view of a finished round
type Result struct {
	Choice         int              `json:"choice"`
	OpponentChoice int              `json:"opponentChoice"`
	Status         model.GameResult `json:"status"`
}

// GameOver announces the end of a session
type GameOver string

// Error reports a failed request to the caller
type Error string

func (Connected) messageType() MessageType { return MsgConnected }
func (PlayerID) messageType() MessageType  { return MsgPlayerID }
func (Waiting) messageType() MessageType   { return MsgWaiting }
func (Result) messageType() MessageType    { return MsgResult }
func (GameOver) messageType() MessageType  { return MsgGameOver }
func (Error) messageType() MessageType     { return MsgError }

// Encode wraps msg in the envelope
func Encode(msg Outbound) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{
		Type:    msg.messageType(),
		Payload: payload,
	})
}
