package service

import (
	"context"
	"fmt"
	"log"

	"rpssl/internal/match"
	"rpssl/internal/model"
)

// ChoiceService produces computer moves for single-player rounds
type ChoiceService struct {
	source RandomSource
}

// NewChoiceService creates a new choice service
func NewChoiceService(source RandomSource) *ChoiceService {
	return &ChoiceService{source: source}
}

// Choices lists every choice with its id and name
func (s *ChoiceService) Choices() []model.ChoiceInfo {
	all := match.Choices()
	out := make([]model.ChoiceInfo, len(all))
	for i, c := range all {
		out[i] = c.Info()
	}
	return out
}

// RandomChoice maps the next random number onto a choice
func (s *ChoiceService) RandomChoice(ctx context.Context) (model.Choice, error) {
	n, err := s.source.RandomNumber(ctx)
	if err != nil {
		log.Printf("Error generating random choice: %v", err)
		return 0, err
	}
	return match.SelectChoice(n), nil
}

// Opponent picks the computer's move for a single-player round
type Opponent interface {
	RandomChoice(ctx context.Context) (model.Choice, error)
}

// PlayService runs single-player rounds against the computer
type PlayService struct {
	opponent Opponent
}

// NewPlayService creates a new play service
func NewPlayService(opponent Opponent) *PlayService {
	return &PlayService{opponent: opponent}
}

// PlayRound evaluates playerChoice against a fresh computer choice
func (s *PlayService) PlayRound(ctx context.Context, playerChoice int) (*model.PlayResult, error) {
	player := model.Choice(playerChoice)
	if !player.Valid() {
		return nil, fmt.Errorf("%w: choice %d is not between 1 and 5", ErrValidation, playerChoice)
	}

	computer, err := s.opponent.RandomChoice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get computer choice: %w", err)
	}

	return &model.PlayResult{
		Results:  match.Evaluate(player, computer),
		Player:   int(player),
		Computer: int(computer),
	}, nil
}
