package rules

import "strings"

// KeywordClass is a set of phrases matched case-insensitively as substrings.
type KeywordClass []string

// Match reports whether text contains any phrase of the class.
func (k KeywordClass) Match(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range k {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var (
	// Suspicious questions probe the crime directly.
	Suspicious = KeywordClass{"murder", "kill", "weapon", "blood", "alibi", "guilty", "crime", "dead", "body"}

	// Defensive responses push the questioner away.
	Defensive = KeywordClass{"none of your business", "stop asking", "accusation", "wrong person", "not your concern"}

	// Cooperative responses offer help.
	Cooperative = KeywordClass{"help", "assist", "truth", "honest", "cooperate", "investigation"}

	// Aggressive questions accuse the listener outright.
	Aggressive = KeywordClass{"liar", "lying", "confess", "admit it", "you did it", "you killed", "accuse"}

	// Inventory questions ask what someone carries.
	Inventory = KeywordClass{"item", "carry", "have", "possess", "belongings", "inventory", "what do you have"}

	// Location questions ask about surroundings.
	Location = KeywordClass{"room", "place", "location", "where", "here", "this room"}
)
