package scenario

import "slices"

// RoomType classifies a room for graph building and prompts.
type RoomType string

const (
	RoomGeneral RoomType = "general"
	RoomBedroom RoomType = "bedroom"
	RoomOutdoor RoomType = "outdoor"
	RoomService RoomType = "service"
	RoomSpecial RoomType = "special"
)

// RoomSpec is the serializable description of a room.
type RoomSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        RoomType `json:"type,omitempty"`
	Capacity    int      `json:"capacity"`
}

// Room is a node of the location graph. Capacity only limits how many players
// may stand in it at once; it has nothing to do with connectivity.
type Room struct {
	ID          int
	Name        string
	Description string
	Type        RoomType
	Capacity    int

	connections []int
}

func newRoom(id int, spec RoomSpec) *Room {
	t := spec.Type
	if t == "" {
		t = RoomGeneral
	}
	return &Room{
		ID:          id,
		Name:        spec.Name,
		Description: spec.Description,
		Type:        t,
		Capacity:    spec.Capacity,
	}
}

// Connections returns the ids of adjacent rooms in the order they were linked.
func (r *Room) Connections() []int {
	return slices.Clone(r.connections)
}

func (r *Room) ConnectedTo(id int) bool {
	return slices.Contains(r.connections, id)
}
