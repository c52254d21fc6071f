package model

// GameStatus drives which session operations are legal
type GameStatus string

const (
	GameWaiting    GameStatus = "Waiting"
	GameInProgress GameStatus = "InProgress"
	GameFinished   GameStatus = "Finished"
)

// GameResult is always relative to one player
type GameResult string

const (
	ResultWin  GameResult = "Win"
	ResultLose GameResult = "Lose"
	ResultTie  GameResult = "Tie"
)

// GameSession is the record stored per game code. The JSON field names are
// the store payload format.
type GameSession struct {
	GameCode        string     `json:"gameCode"`
	Status          GameStatus `json:"status"`
	PlayerOneID     string     `json:"playerOneId"`
	PlayerTwoID     string     `json:"playerTwoId"`
	PlayerOneChoice *Choice    `json:"playerOneChoice"`
	PlayerTwoChoice *Choice    `json:"playerTwoChoice"`
}

// HasPlayer reports whether playerID took one of the two seats
func (s *GameSession) HasPlayer(playerID string) bool {
	return playerID != "" && (playerID == s.PlayerOneID || playerID == s.PlayerTwoID)
}

// ChoicesFor returns the choice recorded for playerID and the opponent's
// choice. Either may be nil.
func (s *GameSession) ChoicesFor(playerID string) (own, opponent *Choice) {
	if playerID == s.PlayerOneID {
		return s.PlayerOneChoice, s.PlayerTwoChoice
	}
	return s.PlayerTwoChoice, s.PlayerOneChoice
}

// RoundComplete reports whether both players have submitted a choice
func (s *GameSession) RoundComplete() bool {
	return s.PlayerOneChoice != nil && s.PlayerTwoChoice != nil
}

// GameInfo is handed to the creator of a session only
type GameInfo struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
}

// PlayRequest is the body of a single-player round
type PlayRequest struct {
	PlayerChoice int `json:"playerChoice"`
}

// PlayResult is the outcome of a single-player round
type PlayResult struct {
	Results  GameResult `json:"results"`
	Player   int        `json:"player"`
	Computer int        `json:"computer"`
}
