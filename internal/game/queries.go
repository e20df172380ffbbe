package game

import (
	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
	"github.com/jwebster45206/manor-mystery/pkg/state"
)

// Queries never spend a turn. Players come back as copies.

func (g *Game) IsActive() bool {
	return g.clock.IsActive()
}

func (g *Game) Turn() int {
	return g.clock.Turn()
}

// State returns a copy of the game state.
func (g *Game) State() state.GameState {
	return *g.state
}

// EndReason is empty while the game is running.
func (g *Game) EndReason() string {
	return g.endReason
}

func (g *Game) Location() *scenario.Location {
	return g.location
}

// CurrentRoom is the room the user stands in.
func (g *Game) CurrentRoom() *scenario.Room {
	room, _ := g.registry.RoomOf(actor.UserID)
	return room
}

// OthersInCurrentRoom lists everyone sharing the user's room.
func (g *Game) OthersInCurrentRoom() []actor.Player {
	return clones(g.registry.PlayersInRoom(g.CurrentRoom().ID, actor.UserID))
}

// ConnectedRooms lists the rooms adjacent to the user's room.
func (g *Game) ConnectedRooms() []*scenario.Room {
	ids := g.CurrentRoom().Connections()
	rooms := make([]*scenario.Room, 0, len(ids))
	for _, id := range ids {
		if room, ok := g.location.Room(id); ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

func (g *Game) Rooms() []*scenario.Room {
	return g.location.Rooms()
}

func (g *Game) Players() []actor.Player {
	return clones(g.registry.Players())
}

func (g *Game) Player(id int) (actor.Player, error) {
	p, err := g.player(id)
	if err != nil {
		return actor.Player{}, err
	}
	return p.Clone(), nil
}

func (g *Game) User() actor.Player {
	p, _ := g.registry.Player(actor.UserID)
	return p.Clone()
}

// RoomOf returns the room a player is in.
func (g *Game) RoomOf(id int) (*scenario.Room, error) {
	if _, err := g.player(id); err != nil {
		return nil, err
	}
	return g.registry.RoomOf(id)
}

func (g *Game) PlayerJob(id int) (string, error) {
	p, err := g.player(id)
	if err != nil {
		return "", err
	}
	return p.Job, nil
}

// KnownItems lists what other players know a player carries.
func (g *Game) KnownItems(id int) ([]actor.Item, error) {
	p, err := g.player(id)
	if err != nil {
		return nil, err
	}
	return p.KnownItems(), nil
}

// UserInventory is everything the user carries, known or not.
func (g *Game) UserInventory() []actor.Item {
	return g.User().Inventory
}

func (g *Game) Exchanges() []state.Exchange {
	return g.exchanges.All()
}

// ExchangesWith lists the user's questions to one guest, oldest first.
func (g *Game) ExchangesWith(listenerID int) []state.Exchange {
	return g.exchanges.Between(actor.UserID, listenerID)
}

// Murderer reveals the culprit once the game is over.
func (g *Game) Murderer() (actor.Player, error) {
	if g.clock.IsActive() {
		return actor.Player{}, ErrGameActive
	}
	return g.Player(g.murdererID)
}

func clones(players []*actor.Player) []actor.Player {
	out := make([]actor.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p.Clone())
	}
	return out
}
