package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	NoConversations     = "No previous conversations."
	NoPairConversations = "No previous conversations with this person."
	pairContextHeader   = "Previous conversations with this person:"
)

// DefaultContextDocs is how many prior exchanges a prompt carries.
const DefaultContextDocs = 3

// Document is one stored exchange between an ordered pair of players.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	SpeakerID  int       `json:"speaker_id"`
	ListenerID int       `json:"listener_id"`
	Turn       int       `json:"turn"`
}

func NewDocument(speakerID, listenerID, turn int, question, response string) Document {
	return Document{
		ID:         uuid.New(),
		Content:    FormatDocument(question, response),
		SpeakerID:  speakerID,
		ListenerID: listenerID,
		Turn:       turn,
	}
}

func (d Document) PairKey() string {
	return PairKey(d.SpeakerID, d.ListenerID)
}

// ContextStore holds prior exchanges for retrieval by similarity.
type ContextStore interface {
	Add(ctx context.Context, doc Document) error
	// Query returns up to k documents for pairKey, most relevant to text first
	Query(ctx context.Context, text string, k int, pairKey string) ([]Document, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// PairKey identifies an ordered speaker and listener.
func PairKey(speakerID, listenerID int) string {
	return fmt.Sprintf("%d-%d", speakerID, listenerID)
}

func FormatDocument(question, response string) string {
	return fmt.Sprintf("Question: %s\nResponse: %s", question, response)
}

// FormatContext renders retrieved documents for a prompt.
func FormatContext(docs []Document) string {
	if len(docs) == 0 {
		return NoPairConversations
	}
	var sb strings.Builder
	sb.WriteString(pairContextHeader)
	sb.WriteString("\n")
	for i, doc := range docs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, doc.Content)
	}
	return sb.String()
}

// LookupContext fetches and formats the prior exchanges between speaker and
// listener relevant to question.
func LookupContext(ctx context.Context, store ContextStore, question string, speakerID, listenerID int) (string, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count context documents: %w", err)
	}
	if n == 0 {
		return NoConversations, nil
	}
	docs, err := store.Query(ctx, question, DefaultContextDocs, PairKey(speakerID, listenerID))
	if err != nil {
		return "", fmt.Errorf("failed to query context: %w", err)
	}
	return FormatContext(docs), nil
}

// rank orders docs by word overlap with text. Ties go to the later turn, then
// to the later insertion. docs must be in insertion order.
func rank(docs []Document, text string, k int) []Document {
	query := tokenSet(text)
	type scored struct {
		doc   Document
		score int
		index int
	}
	all := make([]scored, len(docs))
	for i, doc := range docs {
		score := 0
		for tok := range tokenSet(doc.Content) {
			if _, ok := query[tok]; ok {
				score++
			}
		}
		all[i] = scored{doc: doc, score: score, index: i}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		if all[i].doc.Turn != all[j].doc.Turn {
			return all[i].doc.Turn > all[j].doc.Turn
		}
		return all[i].index > all[j].index
	})
	if k > 0 && len(all) > k {
		all = all[:k]
	}
	out := make([]Document, len(all))
	for i, s := range all {
		out[i] = s.doc
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
