package scenario

import "strings"

const (
	startingRoomLinks = 3
	outdoorLinks      = 2
)

// BuildGraph links rooms in place. rooms must be indexed by id.
//
//   - the starting room links to the first three general rooms
//   - general rooms form a chain in id order
//   - the last general room links to up to two outdoor rooms
//   - any kitchen links to every service room
//
// Every link is reciprocal. Bedrooms and special rooms receive no links, so
// the graph is not guaranteed to be connected.
func BuildGraph(rooms []*Room, start int) {
	var general, outdoor, service, kitchens []*Room
	for _, r := range rooms {
		if r.ID == start {
			continue
		}
		switch r.Type {
		case RoomGeneral:
			general = append(general, r)
		case RoomOutdoor:
			outdoor = append(outdoor, r)
		case RoomService:
			service = append(service, r)
		}
		if strings.Contains(strings.ToLower(r.Name), "kitchen") {
			kitchens = append(kitchens, r)
		}
	}

	startRoom := rooms[start]
	for i := 0; i < len(general) && i < startingRoomLinks; i++ {
		link(startRoom, general[i])
	}

	for i := 0; i+1 < len(general); i++ {
		link(general[i], general[i+1])
	}

	if len(general) > 0 {
		hub := general[len(general)-1]
		for i := 0; i < len(outdoor) && i < outdoorLinks; i++ {
			link(hub, outdoor[i])
		}
	}

	for _, k := range kitchens {
		for _, s := range service {
			link(k, s)
		}
	}
}

func link(a, b *Room) {
	if a.ID == b.ID || a.ConnectedTo(b.ID) {
		return
	}
	a.connections = append(a.connections, b.ID)
	b.connections = append(b.connections, a.ID)
}
