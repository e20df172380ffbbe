package textfilter

import (
	"strings"
)

// MinResponseLength is the shortest cleaned reply accepted from a generator.
const MinResponseLength = 5

// FillerLine replaces a reply that cleans down to nothing useful.
const FillerLine = "I'm not sure how to respond to that."

var assistantMarkers = []string{
	"### Assistant:", "Assistant:", "<|assistant|>", "[/INST]", "### Response:", "Response:",
}

var humanMarkers = []string{
	"### Human:", "Human:", "human:", "Question:",
}

var specialTokens = strings.NewReplacer(
	"<|endoftext|>", "",
	"<s>", "",
	"</s>", "",
	"[INST]", "",
	"[/INST]", "",
	"<|system|>", "",
	"<|user|>", "",
	"<|assistant|>", "",
	"### System:", "",
	"### Human:", "",
	"### Instruction:", "",
	"System:", "",
	"Human:", "",
)

// Lines containing these are the model echoing its instructions.
var promptFragments = []string{
	"Respond in character", "Keep responses brief", "Stay consistent",
	"Your Role:", "Location:", "Current Room:", "Your Mood:", "Suspicion Level:",
}

// Sanitizer turns raw generator output into a single line of dialogue.
type Sanitizer struct {
	profanity *ProfanityFilter
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{profanity: NewProfanityFilter()}
}

// Clean strips chat-template markers, echoed instructions and a repeated
// question from raw. Anything shorter than MinResponseLength afterwards
// becomes FillerLine.
func (s *Sanitizer) Clean(raw, question string) string {
	text := raw

	for _, marker := range assistantMarkers {
		if _, after, found := strings.Cut(text, marker); found {
			text = after
			break
		}
	}

	for _, marker := range humanMarkers {
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		if strings.TrimSpace(text[:idx]) == "" {
			text = text[idx+len(marker):]
		} else {
			text = text[:idx]
		}
		break
	}

	text = specialTokens.Replace(text)

	kept := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || containsAny(line, promptFragments) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Trim(strings.Join(kept, " "), "\"' \n\t")

	if q := strings.TrimSpace(question); q != "" && strings.HasPrefix(strings.ToLower(text), strings.ToLower(q)) {
		if idx := strings.Index(text, "?"); idx >= 0 {
			text = strings.Trim(text[idx+1:], "\"' \n\t")
		}
	}

	if s.profanity.ContainsProfanity(text) {
		text = s.profanity.FilterText(text)
	}

	if len(text) < MinResponseLength {
		return FillerLine
	}
	return text
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
