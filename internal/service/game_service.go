package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"rpssl/internal/cache"
	"rpssl/internal/model"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	GameCodeLength = 8
	PlayerIDLength = 15

	maxCodeAttempts = 10
)

// GameService owns the session state machine. Every mutation goes through
// SessionStore.Update so that concurrent writers on the same game code,
// possibly in different processes, never lose each other's changes.
type GameService struct {
	store  cache.SessionStore
	policy cache.TTLPolicy
	newID  func(length int) string
	tracer trace.Tracer
}

// NewGameService creates a new game service. policy is applied when a
// session is created.
func NewGameService(store cache.SessionStore, policy cache.TTLPolicy) *GameService {
	return &GameService{
		store:  store,
		policy: policy,
		newID:  generateID,
		tracer: otel.Tracer("rpssl/service"),
	}
}

// CreateSession opens a new session waiting for a second player
func (s *GameService) CreateSession(ctx context.Context) (info *model.GameInfo, err error) {
	ctx, span := s.tracer.Start(ctx, "GameService.CreateSession")
	defer func() { endSpan(span, err) }()

	code, err := s.generateGameCode(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("game.code", code))

	session := &model.GameSession{
		GameCode:    code,
		Status:      model.GameWaiting,
		PlayerOneID: s.newID(PlayerIDLength),
	}
	data, err := encodeSession(session)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, code, data, &s.policy); err != nil {
		return nil, s.storeError("create", code, err)
	}

	log.Printf("Created game session %s for player %s", code, session.PlayerOneID)
	return &model.GameInfo{GameCode: code, PlayerID: session.PlayerOneID}, nil
}

// JoinSession takes the second seat of a waiting session. An empty id with a
// nil error means the session is missing or no longer waiting.
func (s *GameService) JoinSession(ctx context.Context, code string) (playerID string, err error) {
	ctx, span := s.tracer.Start(ctx, "GameService.JoinSession",
		trace.WithAttributes(attribute.String("game.code", code)))
	defer func() { endSpan(span, err) }()

	if code == "" {
		return "", fmt.Errorf("%w: game code is required", ErrValidation)
	}

	err = s.store.Update(ctx, code, func(current []byte) ([]byte, error) {
		playerID = ""
		if current == nil {
			return nil, nil
		}
		session, err := decodeSession(current)
		if err != nil {
			return nil, err
		}
		if session.Status != model.GameWaiting {
			return nil, nil
		}

		id := s.newID(PlayerIDLength)
		for id == session.PlayerOneID {
			id = s.newID(PlayerIDLength)
		}
		session.PlayerTwoID = id
		session.Status = model.GameInProgress
		data, err := encodeSession(session)
		if err != nil {
			return nil, err
		}
		playerID = id
		return data, nil
	})
	if err != nil {
		return "", s.storeError("join", code, err)
	}

	if playerID == "" {
		log.Printf("Game session %s is not available or not waiting", code)
		return "", nil
	}
	log.Printf("Player %s joined game session %s", playerID, code)
	return playerID, nil
}

// MakeMove records playerID's choice for the current round and finishes the
// round once both choices are present. A later submission in the same round
// overwrites the earlier one.
func (s *GameService) MakeMove(ctx context.Context, code, playerID string, choice model.Choice) (result *model.GameSession, err error) {
	ctx, span := s.tracer.Start(ctx, "GameService.MakeMove",
		trace.WithAttributes(
			attribute.String("game.code", code),
			attribute.String("game.player", playerID),
			attribute.Int("game.choice", int(choice)),
		))
	defer func() { endSpan(span, err) }()

	if code == "" || playerID == "" {
		return nil, fmt.Errorf("%w: game code and player id are required", ErrValidation)
	}
	if !choice.Valid() {
		return nil, fmt.Errorf("%w: choice %d is not between 1 and 5", ErrValidation, int(choice))
	}

	err = s.store.Update(ctx, code, func(current []byte) ([]byte, error) {
		result = nil
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, code)
		}
		session, err := decodeSession(current)
		if err != nil {
			return nil, err
		}
		if session.Status != model.GameInProgress {
			return nil, fmt.Errorf("%w: game %s is %s", ErrInvalidGameStatus, code, session.Status)
		}

		c := choice
		switch playerID {
		case session.PlayerOneID:
			session.PlayerOneChoice = &c
		case session.PlayerTwoID:
			session.PlayerTwoChoice = &c
		default:
			return nil, fmt.Errorf("%w: player %s is not part of game %s", ErrValidation, playerID, code)
		}
		if session.RoundComplete() {
			session.Status = model.GameFinished
		}

		data, err := encodeSession(session)
		if err != nil {
			return nil, err
		}
		result = session
		return data, nil
	})
	if err != nil {
		log.Printf("Move rejected for game %s, player %s: %v", code, playerID, err)
		return nil, s.storeError("move", code, err)
	}

	if result.Status == model.GameFinished {
		log.Printf("Game session %s round completed", code)
	}
	return result, nil
}

// ResetForNextRound clears both choices and puts the session back in
// progress so the same players can play again without re-joining.
func (s *GameService) ResetForNextRound(ctx context.Context, session *model.GameSession) (result *model.GameSession, err error) {
	if session == nil {
		return nil, fmt.Errorf("%w: session is required", ErrValidation)
	}
	code := session.GameCode
	ctx, span := s.tracer.Start(ctx, "GameService.ResetForNextRound",
		trace.WithAttributes(attribute.String("game.code", code)))
	defer func() { endSpan(span, err) }()

	if code == "" {
		return nil, fmt.Errorf("%w: game code is required", ErrValidation)
	}

	err = s.store.Update(ctx, code, func(current []byte) ([]byte, error) {
		result = nil
		if current == nil {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, code)
		}
		stored, err := decodeSession(current)
		if err != nil {
			return nil, err
		}
		stored.PlayerOneChoice = nil
		stored.PlayerTwoChoice = nil
		stored.Status = model.GameInProgress

		data, err := encodeSession(stored)
		if err != nil {
			return nil, err
		}
		result = stored
		return data, nil
	})
	if err != nil {
		return nil, s.storeError("reset", code, err)
	}

	log.Printf("Game session %s reset for next round", code)
	return result, nil
}

// GetSession returns nil, nil when no session exists for code
func (s *GameService) GetSession(ctx context.Context, code string) (session *model.GameSession, err error) {
	ctx, span := s.tracer.Start(ctx, "GameService.GetSession",
		trace.WithAttributes(attribute.String("game.code", code)))
	defer func() { endSpan(span, err) }()

	if code == "" {
		return nil, nil
	}
	data, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, s.storeError("get", code, err)
	}
	if data == nil {
		return nil, nil
	}
	session, err = decodeSession(data)
	if err != nil {
		return nil, s.storeError("get", code, err)
	}
	return session, nil
}

// RemoveSession deletes the session for code
func (s *GameService) RemoveSession(ctx context.Context, code string) (err error) {
	ctx, span := s.tracer.Start(ctx, "GameService.RemoveSession",
		trace.WithAttributes(attribute.String("game.code", code)))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(code) == "" {
		log.Println("Attempted to remove a session with an empty game code")
		return fmt.Errorf("%w: game code cannot be empty", ErrValidation)
	}
	if err := s.store.Delete(ctx, code); err != nil {
		return s.storeError("remove", code, err)
	}
	log.Printf("Removed game session %s", code)
	return nil
}

// generateGameCode picks a code that is not in use yet
func (s *GameService) generateGameCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newID(GameCodeLength)
		exists, err := s.store.Exists(ctx, code)
		if err != nil {
			return "", s.storeError("create", code, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: failed to generate unique game code", ErrStoreUnavailable)
}

// storeError leaves domain errors untouched and folds store failures into
// ErrStoreUnavailable.
func (s *GameService) storeError(op, code string, err error) error {
	switch {
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrInvalidGameStatus),
		errors.Is(err, ErrValidation):
		return err
	case errors.Is(err, ErrSerialization):
		log.Printf("Failed to decode game session %s during %s: %v", code, op, err)
		return err
	case errors.Is(err, cache.ErrUnavailable), errors.Is(err, cache.ErrConflict):
		log.Printf("Session store failure during %s of game %s: %v", op, code, err)
		return fmt.Errorf("%s game %s: %w: %w", op, code, ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s game %s: %w", op, code, err)
	}
}

func encodeSession(session *model.GameSession) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

func decodeSession(data []byte) (*model.GameSession, error) {
	var session model.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return &session, nil
}

// generateID returns the first length hex digits of a random UUID
func generateID(length int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
