package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Swear words and their period-appropriate stand-ins. Guests at the manor
// answer in character, so slurs are censored and milder words softened.
var swearWordReplacements = map[string]string{
	"fuck":         "fiddlesticks",
	"shit":         "blast",
	"damn":         "dash",
	"hell":         "heavens",
	"ass":          "fool",
	"bitch":        "wretch",
	"bastard":      "scoundrel",
	"crap":         "rubbish",
	"piss":         "vex",
	"dick":         "cad",
	"prick":        "cad",
	"asshole":      "scoundrel",
	"dumbass":      "dunce",
	"jackass":      "buffoon",
	"bullshit":     "poppycock",
	"horseshit":    "balderdash",
	"motherfucker": "blackguard",
	"goddamn":      "confounded",
	"cock":         "[censored]",
	"pussy":        "[censored]",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"fag":          "[censored]",
	"retard":       "[censored]",
	"nigger":       "[censored]",
	"spic":         "[censored]",
	"chink":        "[censored]",
	"kike":         "[censored]",
}

// ProfanityFilter rewrites swear words in generated dialogue.
type ProfanityFilter struct {
	pattern *regexp.Regexp
}

func NewProfanityFilter() *ProfanityFilter {
	words := make([]string, 0, len(swearWordReplacements))
	for w := range swearWordReplacements {
		words = append(words, regexp.QuoteMeta(w))
	}
	// Longest first so compound words win over their parts.
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return &ProfanityFilter{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`),
	}
}

// FilterText replaces profanity, keeping the case shape of each match.
func (pf *ProfanityFilter) FilterText(text string) string {
	return pf.pattern.ReplaceAllStringFunc(text, func(match string) string {
		return preserveCase(match, swearWordReplacements[strings.ToLower(match)])
	})
}

func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.pattern.MatchString(text)
}

// preserveCase applies the case pattern of original to replacement.
func preserveCase(original, replacement string) string {
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: copy the shape rune by rune, lowercase past the end.
	originalRunes := []rune(original)
	result := []rune(replacement)
	for i, r := range result {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result[i] = unicode.ToUpper(r)
		} else {
			result[i] = unicode.ToLower(r)
		}
	}
	return string(result)
}
