package actor

import (
	"fmt"
	"strings"
)

// UserID is the fixed id of the human player. Every other id is an NPC.
const UserID = 0

// Lying ability is always within [MinLyingAbility, MaxLyingAbility].
const (
	MinLyingAbility = 1
	MaxLyingAbility = 10
)

// Mood is a player's current temperament during questioning.
type Mood string

const (
	MoodNeutral     Mood = "neutral"
	MoodDefensive   Mood = "defensive"
	MoodCooperative Mood = "cooperative"
	MoodAngry       Mood = "angry"
)

// Valid reports whether m is one of the four known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodNeutral, MoodDefensive, MoodCooperative, MoodAngry:
		return true
	default:
		return false
	}
}

// Player is a guest at the manor, either the user or an NPC.
// ID, Job, Murderer and LyingAbility are fixed once setup completes.
type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Job          string `json:"job"`
	Suspicion    int    `json:"suspicion"`
	Mood         Mood   `json:"mood"`
	Murderer     bool   `json:"murderer"`
	LyingAbility int    `json:"lying_ability"`
	Inventory    []Item `json:"inventory,omitempty"`
}

// NewPlayer creates a neutral player with no suspicion and no items.
func NewPlayer(id int, name, job string, lyingAbility int) *Player {
	return &Player{
		ID:           id,
		Name:         name,
		Job:          job,
		Mood:         MoodNeutral,
		LyingAbility: lyingAbility,
		Inventory:    make([]Item, 0),
	}
}

// IsUser reports whether p is the human player.
func (p *Player) IsUser() bool {
	return p.ID == UserID
}

// AddSuspicion accumulates delta into the running total. A positive cap clamps
// the total to [0, cap]; zero or less leaves it unbounded.
func (p *Player) AddSuspicion(delta, cap int) {
	p.Suspicion += delta
	if cap <= 0 {
		return
	}
	if p.Suspicion < 0 {
		p.Suspicion = 0
	}
	if p.Suspicion > cap {
		p.Suspicion = cap
	}
}

// KnownItems returns the items other players are aware of.
func (p *Player) KnownItems() []Item {
	known := make([]Item, 0, len(p.Inventory))
	for _, item := range p.Inventory {
		if item.Known {
			known = append(known, item)
		}
	}
	return known
}

// RevealInventory marks every item except a murder weapon as known and
// returns how many items changed.
func (p *Player) RevealInventory() int {
	revealed := 0
	for i := range p.Inventory {
		if p.Inventory[i].MurderWeapon || p.Inventory[i].Known {
			continue
		}
		p.Inventory[i].Known = true
		revealed++
	}
	return revealed
}

// KnownInventoryText renders the known items for a prompt or a UI line.
func (p *Player) KnownInventoryText() string {
	known := p.KnownItems()
	if len(known) == 0 {
		return "None known to others"
	}
	parts := make([]string, 0, len(known))
	for _, item := range known {
		parts = append(parts, fmt.Sprintf("%s (%s)", item.Name, item.Description))
	}
	return strings.Join(parts, ", ")
}

// Clone returns a deep copy safe to hand to callers outside the engine.
func (p *Player) Clone() Player {
	c := *p
	c.Inventory = make([]Item, len(p.Inventory))
	copy(c.Inventory, p.Inventory)
	return c
}
