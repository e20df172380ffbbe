package state

import (
	"github.com/google/uuid"
)

// GameState is the current state of a murder mystery session.
type GameState struct {
	ID          uuid.UUID `json:"id"`           // Unique ID per session
	CurrentTurn int       `json:"current_turn"` // Turns consumed so far
	MaxTurns    int       `json:"max_turns"`
	Active      bool      `json:"active"`
	Solved      bool      `json:"solved"` // Set only when the murderer was named
}

func NewGameState(maxTurns int) *GameState {
	return &GameState{
		ID:       uuid.New(),
		MaxTurns: maxTurns,
		Active:   true,
	}
}

// TurnsRemaining returns how many turns are left before time runs out.
func (gs *GameState) TurnsRemaining() int {
	return max(0, gs.MaxTurns-gs.CurrentTurn)
}
