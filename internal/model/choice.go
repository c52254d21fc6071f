package model

// Choice is one of the five RPSSL moves. The numeric values are part of the
// wire format and must not change.
type Choice int

const (
	Rock     Choice = 1
	Paper    Choice = 2
	Scissors Choice = 3
	Lizard   Choice = 4
	Spock    Choice = 5
)

var choiceNames = map[Choice]string{
	Rock:     "Rock",
	Paper:    "Paper",
	Scissors: "Scissors",
	Lizard:   "Lizard",
	Spock:    "Spock",
}

// Valid reports whether c is one of the five known choices
func (c Choice) Valid() bool {
	return c >= Rock && c <= Spock
}

func (c Choice) String() string {
	if name, ok := choiceNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ChoiceInfo is the public shape of a choice
type ChoiceInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Info returns the id/name pair for c
func (c Choice) Info() ChoiceInfo {
	return ChoiceInfo{ID: int(c), Name: c.String()}
}
