package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/rules"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrRoomFull        = errors.New("room is at capacity")
)

// Move records one NPC changing rooms.
type Move struct {
	PlayerID int `json:"player_id"`
	From     int `json:"from"`
	To       int `json:"to"`
}

// Registry is the arena of players keyed by id, plus the room each one
// occupies. It is not safe for concurrent use; the game driver owns it.
type Registry struct {
	location *scenario.Location
	engine   *rules.Engine
	rng      *rand.Rand
	moveProb float64
	logger   *slog.Logger

	players map[int]*actor.Player
	order   []int // ascending player ids
	rooms   map[int]int
}

func New(location *scenario.Location, engine *rules.Engine, rng *rand.Rand, moveProbability float64, logger *slog.Logger) *Registry {
	return &Registry{
		location: location,
		engine:   engine,
		rng:      rng,
		moveProb: moveProbability,
		logger:   logger,
		players:  make(map[int]*actor.Player),
		rooms:    make(map[int]int),
	}
}

// Add places a new player in a room. Setup respects capacity; it is an error
// to add a player to a full room.
func (r *Registry) Add(p *actor.Player, roomID int) error {
	if _, exists := r.players[p.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicatePlayer, p.ID)
	}
	room, ok := r.location.Room(roomID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
	}
	if r.Occupancy(roomID) >= room.Capacity {
		return fmt.Errorf("%w: %s", ErrRoomFull, room.Name)
	}

	r.players[p.ID] = p
	r.rooms[p.ID] = roomID
	idx, _ := slices.BinarySearch(r.order, p.ID)
	r.order = slices.Insert(r.order, idx, p.ID)
	return nil
}

func (r *Registry) Player(id int) (*actor.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return p, nil
}

// Players returns every player in ascending id order.
func (r *Registry) Players() []*actor.Player {
	out := make([]*actor.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) RoomOf(playerID int) (*scenario.Room, error) {
	roomID, ok := r.rooms[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}
	room, _ := r.location.Room(roomID)
	return room, nil
}

// MoveUser relocates a player to any room of the location. Adjacency and
// capacity are not checked; only unknown ids are rejected.
func (r *Registry) MoveUser(playerID, roomID int) error {
	if _, ok := r.players[playerID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}
	if _, ok := r.location.Room(roomID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
	}
	r.rooms[playerID] = roomID
	return nil
}

// PlayersInRoom lists the occupants of a room in id order, minus any
// excluded ids.
func (r *Registry) PlayersInRoom(roomID int, excluding ...int) []*actor.Player {
	out := make([]*actor.Player, 0)
	for _, id := range r.order {
		if r.rooms[id] != roomID || slices.Contains(excluding, id) {
			continue
		}
		out = append(out, r.players[id])
	}
	return out
}

func (r *Registry) Occupancy(roomID int) int {
	n := 0
	for _, id := range r.order {
		if r.rooms[id] == roomID {
			n++
		}
	}
	return n
}

// MoveNPCsRandomly walks NPCs in ascending id order. Each NPC draws once;
// below the move probability it decays its mood, picks a neighbouring room
// and moves there if the room has space. Moves apply immediately, so an
// earlier NPC can fill a room a later NPC wanted.
func (r *Registry) MoveNPCsRandomly() []Move {
	var moves []Move
	for _, id := range r.order {
		if id == actor.UserID {
			continue
		}
		p := r.players[id]
		from := r.rooms[id]
		room, _ := r.location.Room(from)
		neighbours := room.Connections()

		if r.rng.Float64() >= r.moveProb || len(neighbours) == 0 {
			continue
		}

		p.Mood = r.engine.Decay(p.Mood, r.rng)

		to := neighbours[r.rng.IntN(len(neighbours))]
		dest, _ := r.location.Room(to)
		if r.Occupancy(to) >= dest.Capacity {
			r.logger.Debug("npc move blocked", "player_id", id, "room", dest.Name)
			continue
		}

		r.rooms[id] = to
		moves = append(moves, Move{PlayerID: id, From: from, To: to})
		r.logger.Debug("npc moved", "player_id", id, "from", room.Name, "to", dest.Name)
	}
	return moves
}
