package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"rpssl/internal/match"
	"rpssl/internal/model"
	"rpssl/internal/service"
)

const messageTimeout = 10 * time.Second

// Gateway messages
const (
	msgInvalidGameCode   = "Invalid game code."
	msgInvalidIdentifier = "Invalid game or player identifier."
	msgUnableToJoin      = "Unable to join game. Game session might be full or not in a waiting state."
	msgWaiting           = "Waiting for the opponent to make a move."
	msgTimeUp            = "The time is up, the game is over."
	msgPeerLeft          = "The game is over, the other player has left the game!"
	msgYouStopped        = "The game is over. You have stopped the game!"
	msgUnknownType       = "Unknown message type."
	msgInvalidPayload    = "Invalid message payload."
	msgTryAgain          = "the game service is temporarily unavailable, please try again"
)

// GameCoordinator is the session API the gateway drives
type GameCoordinator interface {
	GetSession(ctx context.Context, code string) (*model.GameSession, error)
	JoinSession(ctx context.Context, code string) (string, error)
	MakeMove(ctx context.Context, code, playerID string, choice model.Choice) (*model.GameSession, error)
	ResetForNextRound(ctx context.Context, session *model.GameSession) (*model.GameSession, error)
	RemoveSession(ctx context.Context, code string) error
}

// Gateway turns client messages into session operations and fans the
// outcome out to the game group.
type Gateway struct {
	hub   *Hub
	games GameCoordinator
}

// NewGateway creates a gateway over hub and games
func NewGateway(hub *Hub, games GameCoordinator) *Gateway {
	return &Gateway{
		hub:   hub,
		games: games,
	}
}

// Hub returns the connection registry
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// Attach puts a freshly connected client into the group of an existing
// session. It does not take a player seat.
func (g *Gateway) Attach(ctx context.Context, conn *Connection, gameCode string) {
	if gameCode == "" {
		return
	}
	session, err := g.games.GetSession(ctx, gameCode)
	if err != nil {
		log.Printf("Failed to look up game %s for connection %s: %v", gameCode, conn.ID, err)
		return
	}
	if session != nil {
		g.hub.AddToGroup(conn, gameCode)
	}
}

// Dispatch decodes one inbound frame and routes it to its handler
func (g *Gateway) Dispatch(ctx context.Context, conn *Connection, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		g.hub.SendTo(conn, Error(msgInvalidPayload))
		return
	}

	switch msg.Type {
	case MsgJoinGame:
		var req JoinGameRequest
		if !g.decode(conn, msg.Payload, &req) {
			return
		}
		g.JoinGame(ctx, conn, req)
	case MsgSendMove:
		var req SendMoveRequest
		if !g.decode(conn, msg.Payload, &req) {
			return
		}
		g.SendMove(ctx, conn, req)
	case MsgGameOver:
		var req GameOverRequest
		if !g.decode(conn, msg.Payload, &req) {
			return
		}
		g.GameOver(ctx, conn, req)
	default:
		g.hub.SendTo(conn, Error(msgUnknownType))
	}
}

func (g *Gateway) decode(conn *Connection, payload json.RawMessage, v any) bool {
	if len(payload) == 0 {
		g.hub.SendTo(conn, Error(msgInvalidPayload))
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		g.hub.SendTo(conn, Error(msgInvalidPayload))
		return false
	}
	return true
}

// JoinGame seats the caller as the second player
func (g *Gateway) JoinGame(ctx context.Context, conn *Connection, req JoinGameRequest) {
	if req.GameCode == "" {
		g.hub.SendTo(conn, Error(msgInvalidGameCode))
		return
	}

	playerID, err := g.games.JoinSession(ctx, req.GameCode)
	if err != nil {
		g.hub.SendTo(conn, Error("An error occurred while joining the game: "+describe(err)))
		return
	}
	if playerID == "" {
		g.hub.SendTo(conn, Error(msgUnableToJoin))
		return
	}

	g.hub.AddToGroup(conn, req.GameCode)
	g.hub.SendToGroup(req.GameCode, Connected(true))
	g.hub.SendTo(conn, PlayerID(playerID))
}

// SendMove records the caller's choice and, once both players have moved,
// sends each side its own view of the result and starts the next round.
func (g *Gateway) SendMove(ctx context.Context, conn *Connection, req SendMoveRequest) {
	if req.GameCode == "" || req.PlayerID == "" {
		g.hub.SendTo(conn, Error(msgInvalidIdentifier))
		return
	}

	session, err := g.games.MakeMove(ctx, req.GameCode, req.PlayerID, model.Choice(req.Choice))
	if err != nil {
		g.hub.SendTo(conn, Error("An error occurred while processing the move: "+describe(err)))
		return
	}

	if session.Status != model.GameFinished {
		g.hub.SendTo(conn, Waiting(msgWaiting))
		return
	}

	own, opponent := session.ChoicesFor(req.PlayerID)
	if own == nil || opponent == nil {
		log.Printf("Finished game %s is missing a choice for player %s", req.GameCode, req.PlayerID)
		g.hub.SendTo(conn, Error("An error occurred while processing the move: "+msgTryAgain))
		return
	}

	g.hub.SendTo(conn, Result{
		Choice:         int(*own),
		OpponentChoice: int(*opponent),
		Status:         match.Evaluate(*own, *opponent),
	})
	g.hub.SendToOthers(req.GameCode, conn, Result{
		Choice:         int(*opponent),
		OpponentChoice: int(*own),
		Status:         match.Evaluate(*opponent, *own),
	})

	if _, err := g.games.ResetForNextRound(ctx, session); err != nil {
		log.Printf("Failed to reset game %s for next round: %v", req.GameCode, err)
	}
}

// GameOver ends the session for everyone in the group
func (g *Gateway) GameOver(ctx context.Context, conn *Connection, req GameOverRequest) {
	if req.GameCode == "" {
		g.hub.SendTo(conn, Error(msgInvalidGameCode))
		return
	}

	if req.IsTimeExpired != nil && *req.IsTimeExpired {
		g.hub.SendToGroup(req.GameCode, GameOver(msgTimeUp))
	} else {
		g.hub.SendToOthers(req.GameCode, conn, GameOver(msgPeerLeft))
		g.hub.SendTo(conn, GameOver(msgYouStopped))
	}

	if err := g.games.RemoveSession(ctx, req.GameCode); err != nil {
		log.Printf("Failed to remove game %s: %v", req.GameCode, err)
		g.hub.SendTo(conn, Error("An error occurred while ending the game: "+describe(err)))
	}
}

// describe returns the client-facing text for a coordinator failure
func describe(err error) string {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrInvalidGameStatus),
		errors.Is(err, service.ErrValidation):
		return err.Error()
	default:
		log.Printf("Game coordinator failure: %v", err)
		return msgTryAgain
	}
}

func messageContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, messageTimeout)
}
