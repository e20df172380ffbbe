package scenario

import (
	"log/slog"
	"math/rand/v2"
)

// DefaultMaxPlayers is the guest count of a generated manor, user included.
const DefaultMaxPlayers = 10

type manor struct {
	name        string
	description string
}

var manors = []manor{
	{"Haunted Manor", "An old manor at the edge of the city, surrounded by dead trees with pre-victorian furniture. While the outside looks fairly unkempt the inside is clean and luxurious."},
	{"Ravenswood Manor", "A gothic mansion shrouded in mist, with towering spires and ivy-covered walls that seem to whisper secrets of the past."},
	{"Blackwood Estate", "A sprawling estate with a dark history, where the wealthy and powerful once gathered for decadent parties that often ended in tragedy."},
}

var events = []string{
	"You were called here by a friend for a masked ball. When you get here, you find commotion, and a man has been killed. You must find out what has happened and who did it.",
	"A storm has trapped you and other guests in this remote manor. During the night, one of the guests was murdered. The killer must be among you.",
	"You arrived for what was supposed to be a weekend retreat, but found the host dead in the library. Now everyone is a suspect and no one can leave until the storm passes.",
}

type catalogRoom struct {
	name, description string
	kind              RoomType
	minCap, maxCap    int
}

var roomCatalog = []catalogRoom{
	{"Grand Entrance Hall", "A magnificent marble-floored hall with a sweeping staircase. Portraits of stern-faced ancestors line the walls, their eyes seeming to follow your every move.", RoomGeneral, 8, 15},
	{"Ballroom", "An opulent ballroom with crystal chandeliers and polished oak floors. Faded banners hang from the ceiling, and a grand piano sits silent in the corner.", RoomGeneral, 10, 20},
	{"Library", "Floor-to-ceiling bookshelves filled with leather-bound tomes. A ladder slides along a brass rail, and the scent of old paper and leather fills the air.", RoomGeneral, 4, 8},
	{"Dining Hall", "A long mahogany table set for twenty with fine china and silver candelabras. The remains of an abandoned meal suggest the party was interrupted suddenly.", RoomGeneral, 8, 12},
	{"Conservatory", "A glass-walled room filled with exotic plants, some withered and dying. The humid air carries the scent of earth and decay.", RoomGeneral, 5, 10},
	{"Study", "A cozy room with a large oak desk, green leather chairs, and a dying fire in the hearth. Papers are scattered about as if someone left in a hurry.", RoomGeneral, 3, 6},
	{"Smoking Room", "A room with dark wood paneling and leather armchairs. The air is thick with the lingering scent of cigar smoke and brandy.", RoomGeneral, 4, 8},
	{"Gallery", "A long hallway displaying paintings of landscapes and portraits. One painting hangs crookedly, as if recently disturbed.", RoomGeneral, 6, 12},
	{"Master Bedroom", "An extravagant bedroom with a four-poster bed and velvet drapes. A vanity table is covered in perfume bottles and jewelry boxes.", RoomBedroom, 3, 6},
	{"Guest Bedroom (East)", "A comfortable room with floral wallpaper and a bay window overlooking the gardens. The bed is neatly made, untouched.", RoomBedroom, 2, 4},
	{"Guest Bedroom (West)", "This room shows signs of recent occupation - clothes are strewn about and the bed is unmade. A half-packed suitcase lies open.", RoomBedroom, 2, 4},
	{"Kitchen", "A large, industrial kitchen with copper pots hanging from the ceiling. The air smells of herbs and recently baked bread.", RoomService, 4, 8},
	{"Butler's Pantry", "A small room between kitchen and dining hall, filled with silverware, linens, and serving dishes neatly arranged.", RoomService, 2, 4},
	{"Wine Cellar", "A cold, stone-walled room filled with racks of dusty wine bottles. The air is damp and carries the scent of oak and fermentation.", RoomService, 3, 6},
	{"Rose Garden", "A formal garden with manicured hedges and rose bushes, though many have withered. Marble statues stand guard along the pathways.", RoomOutdoor, 6, 15},
	{"Maze Garden", "A labyrinth of tall hedges that seems to shift and change. The sound of footsteps echoes, but you can never see who makes them.", RoomOutdoor, 5, 12},
	{"Fountain Courtyard", "A central courtyard with a moss-covered marble fountain. The water has stopped flowing, leaving the basin filled with murky water.", RoomOutdoor, 8, 18},
	{"Observatory", "A circular room at the top of the manor with a domed glass ceiling. Astronomical charts and telescopes suggest an interest in the stars.", RoomSpecial, 3, 6},
	{"Music Room", "Filled with various instruments - a grand piano, several violins, and a harp covered in a dusty cloth. Sheet music is scattered on stands.", RoomSpecial, 4, 8},
	{"Trophy Room", "Mounted animal heads line the walls, their glass eyes staring blankly. Hunting rifles are displayed in a locked glass case.", RoomSpecial, 4, 8},
}

// GenerateManorSpec picks a manor, an event and six to ten rooms with random
// capacities. Rooms keep catalog order so the graph layout stays readable.
func GenerateManorSpec(rng *rand.Rand) LocationSpec {
	m := manors[rng.IntN(len(manors))]
	event := events[rng.IntN(len(events))]

	count := 6 + rng.IntN(5)
	picked := rng.Perm(len(roomCatalog))[:count]
	chosen := make([]bool, len(roomCatalog))
	for _, idx := range picked {
		chosen[idx] = true
	}

	rooms := make([]RoomSpec, 0, count)
	for idx, c := range roomCatalog {
		if !chosen[idx] {
			continue
		}
		rooms = append(rooms, RoomSpec{
			Name:        c.name,
			Description: c.description,
			Type:        c.kind,
			Capacity:    c.minCap + rng.IntN(c.maxCap-c.minCap+1),
		})
	}

	return LocationSpec{
		Name:        m.name,
		Description: m.description,
		Event:       event,
		MaxPlayers:  DefaultMaxPlayers,
		Rooms:       rooms,
	}
}

// GenerateManor builds a random manor location.
func GenerateManor(rng *rand.Rand, strict bool, logger *slog.Logger) (*Location, error) {
	return NewLocation(GenerateManorSpec(rng), strict, logger)
}
