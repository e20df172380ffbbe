package state

import (
	"github.com/google/uuid"
)

// Exchange is one question and answer between two players.
type Exchange struct {
	ID            uuid.UUID `json:"id"`
	SpeakerID     int       `json:"speaker_id"`
	ListenerID    int       `json:"listener_id"`
	Question      string    `json:"question"`
	Response      string    `json:"response"`
	SpeakerDelta  int       `json:"speaker_delta"`
	ListenerDelta int       `json:"listener_delta"`
	Turn          int       `json:"turn"`
	Template      string    `json:"template"`
	Fallback      bool      `json:"fallback,omitempty"` // Canned line used instead of generated text
}

// ExchangeLog is the permanent, append-only record of every exchange.
type ExchangeLog struct {
	entries []Exchange
}

// Append records ex, assigning an id when it has none, and returns the
// stored entry.
func (l *ExchangeLog) Append(ex Exchange) Exchange {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	l.entries = append(l.entries, ex)
	return ex
}

// All returns a copy of the log in append order.
func (l *ExchangeLog) All() []Exchange {
	out := make([]Exchange, len(l.entries))
	copy(out, l.entries)
	return out
}

// Between returns the exchanges with the given ordered speaker and listener.
func (l *ExchangeLog) Between(speakerID, listenerID int) []Exchange {
	var out []Exchange
	for _, ex := range l.entries {
		if ex.SpeakerID == speakerID && ex.ListenerID == listenerID {
			out = append(out, ex)
		}
	}
	return out
}

func (l *ExchangeLog) Len() int {
	return len(l.entries)
}
