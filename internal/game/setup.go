package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jwebster45206/manor-mystery/internal/config"
	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/registry"
	"github.com/jwebster45206/manor-mystery/pkg/rules"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

// Config holds the game rules. Zero values are not useful; start from
// DefaultConfig or ConfigFrom.
type Config struct {
	MaxTurns               int
	SuspicionLimit         int
	SuspicionCap           int
	HighSuspicionThreshold int
	WrongAccusationPenalty int
	NPCMoveProbability     float64
	LyingAbilityMin        int
	LyingAbilityMax        int
	AdjacentMovesOnly      bool
	GenerationTimeout      time.Duration
	Rules                  rules.Config
}

func DefaultConfig() Config {
	return Config{
		MaxTurns:               20,
		SuspicionLimit:         35,
		SuspicionCap:           100,
		HighSuspicionThreshold: 25,
		WrongAccusationPenalty: 30,
		NPCMoveProbability:     0.01,
		LyingAbilityMin:        1,
		LyingAbilityMax:        10,
		Rules:                  rules.DefaultConfig(),
	}
}

// ConfigFrom maps the process configuration onto game rules.
func ConfigFrom(c *config.Config) Config {
	return Config{
		MaxTurns:               c.MaxTurns,
		SuspicionLimit:         c.SuspicionLimit,
		SuspicionCap:           c.SuspicionCap,
		HighSuspicionThreshold: c.HighSuspicionThreshold,
		WrongAccusationPenalty: c.WrongAccusationPenalty,
		NPCMoveProbability:     c.NPCMoveProbability,
		LyingAbilityMin:        c.LyingAbilityMin,
		LyingAbilityMax:        c.LyingAbilityMax,
		AdjacentMovesOnly:      c.AdjacentMovesOnly,
		GenerationTimeout:      c.GenerationTimeout,
		Rules:                  c.Rules(),
	}
}

// populate fills the registry: the user in the starting room, NPCs 1..n-1 in
// random rooms with space, one murderer among the NPCs, then inventories in id
// order. It returns the murderer's id.
func populate(reg *registry.Registry, loc *scenario.Location, userName string, rng *rand.Rand, cfg Config) (int, error) {
	user := actor.NewUser(userName, rng, cfg.LyingAbilityMin, cfg.LyingAbilityMax)
	if err := reg.Add(user, loc.StartingRoom().ID); err != nil {
		return 0, fmt.Errorf("place user: %w", err)
	}

	npcCount := loc.MaxPlayers - 1
	for id := 1; id <= npcCount; id++ {
		npc := actor.NewNPC(id, rng, cfg.LyingAbilityMin, cfg.LyingAbilityMax)

		var open []int
		for _, room := range loc.Rooms() {
			if reg.Occupancy(room.ID) < room.Capacity {
				open = append(open, room.ID)
			}
		}
		if len(open) == 0 {
			return 0, fmt.Errorf("no room has space for player %d", id)
		}
		if err := reg.Add(npc, open[rng.IntN(len(open))]); err != nil {
			return 0, fmt.Errorf("place player %d: %w", id, err)
		}
	}

	murdererID := 1 + rng.IntN(npcCount)
	murderer, err := reg.Player(murdererID)
	if err != nil {
		return 0, err
	}
	murderer.Murderer = true

	for _, p := range reg.Players() {
		actor.AssignInventory(p, rng)
	}
	return murdererID, nil
}
