package actor

import "math/rand/v2"

// ItemCategory groups items by what they are used for.
type ItemCategory string

const (
	CategoryPersonal ItemCategory = "personal"
	CategoryClue     ItemCategory = "clue"
	CategoryTool     ItemCategory = "tool"
	CategoryWeapon   ItemCategory = "weapon"
)

// Item is something a player carries. Known items are visible to others.
type Item struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     ItemCategory `json:"category"`
	MurderWeapon bool         `json:"murder_weapon,omitempty"`
	Value        int          `json:"value"`
	Known        bool         `json:"known,omitempty"`
}

func commonItems() []Item {
	return []Item{
		{Name: "Pocket Watch", Description: "A silver pocket watch", Category: CategoryPersonal, Value: 5},
		{Name: "Handkerchief", Description: "A monogrammed handkerchief", Category: CategoryPersonal, Value: 1},
		{Name: "Letter", Description: "A folded letter", Category: CategoryClue, Value: 3},
		{Name: "Key", Description: "A small brass key", Category: CategoryTool, Value: 2},
		{Name: "Coin Purse", Description: "A leather coin purse", Category: CategoryPersonal, Value: 4},
	}
}

func weaponItems() []Item {
	return []Item{
		{Name: "Candlestick", Description: "A heavy silver candlestick", Category: CategoryWeapon, Value: 8},
		{Name: "Dagger", Description: "A sharp ornamental dagger", Category: CategoryWeapon, Value: 9},
		{Name: "Poison Vial", Description: "A small glass vial", Category: CategoryWeapon, Value: 7},
		{Name: "Rope", Description: "A length of strong rope", Category: CategoryWeapon, Value: 6},
	}
}

// AssignInventory replaces p's inventory. The murderer carries one weapon and
// one or two common items; everyone else carries two or three common items.
// Personal items start out known.
func AssignInventory(p *Player, rng *rand.Rand) {
	common := commonItems()
	p.Inventory = make([]Item, 0, 3)

	var count int
	if p.Murderer {
		weapons := weaponItems()
		weapon := weapons[rng.IntN(len(weapons))]
		weapon.MurderWeapon = true
		p.Inventory = append(p.Inventory, weapon)
		count = 1 + rng.IntN(2)
	} else {
		count = 2 + rng.IntN(2)
	}

	for _, idx := range rng.Perm(len(common))[:count] {
		p.Inventory = append(p.Inventory, common[idx])
	}

	for i := range p.Inventory {
		if p.Inventory[i].Category == CategoryPersonal && !p.Inventory[i].MurderWeapon {
			p.Inventory[i].Known = true
		}
	}
}
