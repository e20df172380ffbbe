package actor

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	firstNames = []string{"James", "Mary", "Michael", "Patricia", "John", "Jennifer", "Robert", "Linda", "David", "Elizabeth"}
	surnames   = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	jobs       = []string{"Doctor", "Professor", "Businessperson", "Artist", "Writer", "Engineer", "Detective", "Servant"}
)

// NewNPC creates a guest with a random name, job and lying ability in
// [lyingMin, lyingMax].
func NewNPC(id int, rng *rand.Rand, lyingMin, lyingMax int) *Player {
	name := firstNames[rng.IntN(len(firstNames))] + " " + surnames[rng.IntN(len(surnames))]
	job := jobs[rng.IntN(len(jobs))]
	return NewPlayer(id, name, job, RollLyingAbility(rng, lyingMin, lyingMax))
}

// NewUser creates the human player.
func NewUser(name string, rng *rand.Rand, lyingMin, lyingMax int) *Player {
	return NewPlayer(UserID, NormalizeName(name), "Guest", RollLyingAbility(rng, lyingMin, lyingMax))
}

// RollLyingAbility draws uniformly from [min, max].
func RollLyingAbility(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.IntN(max-min+1)
}

// NormalizeName trims and title-cases a typed name. Empty input becomes "Detective".
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Detective"
	}
	return cases.Title(language.English).String(strings.ToLower(name))
}
