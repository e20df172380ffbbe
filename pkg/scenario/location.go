package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnreachableRoom is returned by NewLocation in strict mode when a room
// cannot be reached from the starting room.
var ErrUnreachableRoom = errors.New("room unreachable from starting room")

const (
	StartingRoomName        = "Outside Entrance"
	startingRoomDescription = "The entrance to the location."
)

// LocationSpec describes a location before its room graph is built.
type LocationSpec struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Event       string     `json:"event,omitempty"`
	MaxPlayers  int        `json:"max_players"`
	Rooms       []RoomSpec `json:"rooms"`
}

// Location is the playable map: its rooms, their connections, and the
// starting room every game begins in.
type Location struct {
	Name        string
	Description string
	Event       string
	MaxPlayers  int

	rooms []*Room
	start int
}

// NewLocation assigns room ids, appends the starting room and builds the room
// graph once. With strict set, any room unreachable from the start is an error;
// otherwise it is logged and left isolated.
func NewLocation(spec LocationSpec, strict bool, logger *slog.Logger) (*Location, error) {
	if spec.MaxPlayers < 2 {
		return nil, fmt.Errorf("location %q needs room for at least 2 players, got %d", spec.Name, spec.MaxPlayers)
	}

	loc := &Location{
		Name:        spec.Name,
		Description: spec.Description,
		Event:       spec.Event,
		MaxPlayers:  spec.MaxPlayers,
		rooms:       make([]*Room, 0, len(spec.Rooms)+1),
	}

	for _, rs := range spec.Rooms {
		if strings.TrimSpace(rs.Name) == "" {
			return nil, fmt.Errorf("location %q has a room without a name", spec.Name)
		}
		if rs.Capacity < 1 {
			return nil, fmt.Errorf("room %q must hold at least one player", rs.Name)
		}
		loc.rooms = append(loc.rooms, newRoom(len(loc.rooms), rs))
	}

	loc.start = len(loc.rooms)
	loc.rooms = append(loc.rooms, newRoom(loc.start, RoomSpec{
		Name:        StartingRoomName,
		Description: startingRoomDescription,
		Type:        RoomGeneral,
		Capacity:    spec.MaxPlayers,
	}))

	BuildGraph(loc.rooms, loc.start)

	if unreachable := loc.Unreachable(); len(unreachable) > 0 {
		names := make([]string, 0, len(unreachable))
		for _, r := range unreachable {
			names = append(names, r.Name)
		}
		if strict {
			return nil, fmt.Errorf("%w: %s", ErrUnreachableRoom, strings.Join(names, ", "))
		}
		if logger != nil {
			logger.Warn("Location has isolated rooms", "location", loc.Name, "rooms", names)
		}
	}

	return loc, nil
}

// Rooms returns every room ordered by id. The starting room is last.
func (l *Location) Rooms() []*Room {
	out := make([]*Room, len(l.rooms))
	copy(out, l.rooms)
	return out
}

// Room looks up a room by id.
func (l *Location) Room(id int) (*Room, bool) {
	if id < 0 || id >= len(l.rooms) {
		return nil, false
	}
	return l.rooms[id], true
}

// RoomByName finds a room case-insensitively.
func (l *Location) RoomByName(name string) (*Room, bool) {
	for _, r := range l.rooms {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return nil, false
}

func (l *Location) StartingRoom() *Room {
	return l.rooms[l.start]
}

// Unreachable returns rooms that no path from the starting room reaches.
func (l *Location) Unreachable() []*Room {
	seen := make([]bool, len(l.rooms))
	queue := []int{l.start}
	seen[l.start] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range l.rooms[id].connections {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []*Room
	for id, ok := range seen {
		if !ok {
			out = append(out, l.rooms[id])
		}
	}
	return out
}
