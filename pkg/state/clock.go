package state

// Clock advances turns and ends the game. Once a game is inactive it stays
// inactive.
type Clock struct {
	gs *GameState
}

func NewClock(gs *GameState) *Clock {
	return &Clock{gs: gs}
}

// AdvanceTurn consumes one turn and ends the game as a loss when the turn cap
// is reached. It reports whether the game is still active.
func (c *Clock) AdvanceTurn() bool {
	c.gs.CurrentTurn++
	if c.gs.CurrentTurn >= c.gs.MaxTurns {
		c.End(false)
	}
	return c.gs.Active
}

// End stops the game. Calls after the first are ignored so the outcome
// cannot be rewritten.
func (c *Clock) End(win bool) {
	if !c.gs.Active {
		return
	}
	c.gs.Active = false
	c.gs.Solved = win
}

func (c *Clock) IsActive() bool {
	return c.gs.Active
}

func (c *Clock) Turn() int {
	return c.gs.CurrentTurn
}
