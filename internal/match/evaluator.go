// Package match holds the RPSSL rules: the beats relation, round evaluation
// and the mapping from a random number onto a choice.
package match

import "rpssl/internal/model"

// each choice beats exactly two others
var beats = map[model.Choice][2]model.Choice{
	model.Rock:     {model.Scissors, model.Lizard},
	model.Paper:    {model.Rock, model.Spock},
	model.Scissors: {model.Paper, model.Lizard},
	model.Lizard:   {model.Spock, model.Paper},
	model.Spock:    {model.Rock, model.Scissors},
}

// Beats reports whether a defeats b
func Beats(a, b model.Choice) bool {
	for _, c := range beats[a] {
		if c == b {
			return true
		}
	}
	return false
}

// Evaluate decides the round from a's point of view
func Evaluate(a, b model.Choice) model.GameResult {
	switch {
	case a == b:
		return model.ResultTie
	case Beats(a, b):
		return model.ResultWin
	default:
		return model.ResultLose
	}
}

// Invert returns the opponent's view of r
func Invert(r model.GameResult) model.GameResult {
	switch r {
	case model.ResultWin:
		return model.ResultLose
	case model.ResultLose:
		return model.ResultWin
	default:
		return model.ResultTie
	}
}

// Choices lists the five choices in id order
func Choices() []model.Choice {
	return []model.Choice{model.Rock, model.Paper, model.Scissors, model.Lizard, model.Spock}
}

// SelectChoice maps any integer cyclically onto the five choices:
// id = ((n-1) mod 5) + 1, with a non-negative modulo.
func SelectChoice(n int) model.Choice {
	const count = 5
	idx := (n - 1) % count
	if idx < 0 {
		idx += count
	}
	return model.Choice(idx + 1)
}
