package rules

import (
	"math/rand/v2"

	"github.com/jwebster45206/manor-mystery/pkg/actor"
)

// Per-exchange delta bounds.
const (
	SpeakerDeltaMin  = -5
	SpeakerDeltaMax  = 5
	ListenerDeltaMin = -3
	ListenerDeltaMax = 8
)

// goodLiarThreshold is the lying ability above which a calm murderer
// takes the larger direct-question penalty.
const goodLiarThreshold = 7

type Config struct {
	MurdererModifier     int     `json:"murderer_modifier"`
	MoodDecayProbability float64 `json:"mood_decay_probability"`
}

func DefaultConfig() Config {
	return Config{
		MurdererModifier:     2,
		MoodDecayProbability: 0.2,
	}
}

// Engine computes suspicion deltas and mood transitions. Everything except
// Decay is a pure function of its arguments.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// SuspicionDelta scores one exchange for the speaker and the listener.
func (e *Engine) SuspicionDelta(question, response string, isMurderer bool, lyingAbility int, mood actor.Mood) (speaker, listener int) {
	suspicious := Suspicious.Match(question)

	if suspicious {
		speaker += 2
		calm := mood != actor.MoodDefensive && mood != actor.MoodAngry
		if isMurderer && lyingAbility > goodLiarThreshold && calm {
			listener += 3
		} else {
			listener++
		}
	}

	if Defensive.Match(response) {
		listener += 3
	} else if Cooperative.Match(response) {
		listener--
		speaker--
	}

	if isMurderer && suspicious {
		listener += e.cfg.MurdererModifier
	}

	switch mood {
	case actor.MoodAngry:
		listener += 2
	case actor.MoodDefensive:
		listener++
	case actor.MoodCooperative:
		speaker--
	}

	return clamp(speaker, SpeakerDeltaMin, SpeakerDeltaMax), clamp(listener, ListenerDeltaMin, ListenerDeltaMax)
}

// FallbackSuspicion scores a canned reply used when generation is unavailable.
// It is deliberately coarser than SuspicionDelta and is not clamped.
func (e *Engine) FallbackSuspicion(question, response string, isMurderer bool) (speaker, listener int) {
	if Suspicious.Match(question) {
		speaker += 2
		if isMurderer {
			listener += 3
		} else {
			listener++
		}
	}
	if Defensive.Match(response) {
		listener += 2
	}
	return speaker, listener
}

// MoodTransition derives a participant's next mood from the exchange and the
// delta that participant received. An unknown current mood counts as neutral.
func (e *Engine) MoodTransition(current actor.Mood, question, response string, delta int) actor.Mood {
	if !current.Valid() {
		current = actor.MoodNeutral
	}
	switch {
	case delta >= 5:
		return actor.MoodAngry
	case delta >= 3:
		return actor.MoodDefensive
	case delta <= -2:
		return actor.MoodCooperative
	}

	if Aggressive.Match(question) {
		switch current {
		case actor.MoodNeutral:
			return actor.MoodDefensive
		case actor.MoodDefensive:
			return actor.MoodAngry
		default:
			return current
		}
	}

	if Defensive.Match(response) {
		return actor.MoodDefensive
	}
	if Cooperative.Match(response) {
		return actor.MoodCooperative
	}
	return current
}

// Decay eases a mood one step toward neutral with the configured probability.
// Neutral moods draw nothing from rng.
func (e *Engine) Decay(mood actor.Mood, rng *rand.Rand) actor.Mood {
	if mood == actor.MoodNeutral {
		return mood
	}
	if rng.Float64() >= e.cfg.MoodDecayProbability {
		return mood
	}
	switch mood {
	case actor.MoodAngry:
		return actor.MoodDefensive
	case actor.MoodDefensive, actor.MoodCooperative:
		return actor.MoodNeutral
	default:
		return mood
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
