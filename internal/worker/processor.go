package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jwebster45206/manor-mystery/internal/services"
	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/chat"
	"github.com/jwebster45206/manor-mystery/pkg/prompts"
	"github.com/jwebster45206/manor-mystery/pkg/rules"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
	"github.com/jwebster45206/manor-mystery/pkg/state"
	"github.com/jwebster45206/manor-mystery/pkg/textfilter"
)

var innocentLines = []string{
	"I don't know anything about that incident.",
	"I was in the library reading at that time.",
	"That's quite an accusation! I'm innocent!",
	"I think you should ask someone else about that.",
	"I didn't see anything unusual, sorry.",
	"That sounds serious, but I can't help you.",
	"I was talking with other guests when it happened.",
	"My memory is a bit fuzzy about that time.",
}

var murdererLines = []string{
	"I have no idea what you're talking about.",
	"Why are you asking me? I'm just a guest here.",
	"That's none of your business, really.",
	"I think you're asking the wrong person.",
	"I was alone in my room at that time.",
	"You should focus on finding real clues.",
	"I don't appreciate these accusations.",
	"Perhaps you should look elsewhere for answers.",
}

// Snapshot is everything the generation pipeline needs, copied out of the
// game so a worker can run without touching live state.
type Snapshot struct {
	Speaker  actor.Player
	Listener actor.Player
	Location *scenario.Location
	Room     *scenario.Room
	Nearby   []string
	Question string
	Template prompts.Template
	Turn     int
}

// Outcome is the terminal result of one generation task. When Fallback is set
// Response is empty and Err holds the reason.
type Outcome struct {
	Response string
	Fallback bool
	Err      error
}

// ConversationProcessor runs the question and answer pipeline. Prepare and
// Apply touch live players and must run on the game driver; Generate is safe
// to run on a worker.
type ConversationProcessor struct {
	engine                 *rules.Engine
	generator              services.Generator
	store                  services.ContextStore
	sanitizer              *textfilter.Sanitizer
	highSuspicionThreshold int
	suspicionCap           int
	logger                 *slog.Logger
}

// NewConversationProcessor creates a processor. A nil generator sends every
// conversation down the fallback path.
func NewConversationProcessor(
	engine *rules.Engine,
	generator services.Generator,
	store services.ContextStore,
	highSuspicionThreshold int,
	suspicionCap int,
	logger *slog.Logger,
) *ConversationProcessor {
	return &ConversationProcessor{
		engine:                 engine,
		generator:              generator,
		store:                  store,
		sanitizer:              textfilter.NewSanitizer(),
		highSuspicionThreshold: highSuspicionThreshold,
		suspicionCap:           suspicionCap,
		logger:                 logger,
	}
}

// Prepare snapshots the participants and picks the prompt template.
func (p *ConversationProcessor) Prepare(speaker, listener *actor.Player, loc *scenario.Location, room *scenario.Room, nearby []string, question string, turn int) Snapshot {
	return Snapshot{
		Speaker:  speaker.Clone(),
		Listener: listener.Clone(),
		Location: loc,
		Room:     room,
		Nearby:   append([]string(nil), nearby...),
		Question: question,
		Template: prompts.SelectTemplate(question, listener.Suspicion, p.highSuspicionThreshold),
		Turn:     turn,
	}
}

// Generate looks up prior exchanges, builds the prompt and asks the generator
// for an answer. It never returns a generation error directly; failures come
// back as a fallback Outcome.
func (p *ConversationProcessor) Generate(ctx context.Context, snap Snapshot) Outcome {
	if p.generator == nil {
		return Outcome{Fallback: true, Err: services.ErrGenerationUnavailable}
	}

	history, err := services.LookupContext(ctx, p.store, snap.Question, snap.Speaker.ID, snap.Listener.ID)
	if err != nil {
		p.logger.Warn("context lookup failed, continuing without history",
			"error", err,
			"speaker_id", snap.Speaker.ID,
			"listener_id", snap.Listener.ID)
		history = services.NoConversations
	}

	messages, err := prompts.New().
		WithListener(snap.Listener).
		WithLocation(snap.Location, snap.Room).
		WithNearby(snap.Nearby).
		WithContext(history).
		WithQuestion(snap.Question).
		WithTemplate(snap.Template).
		Build()
	if err != nil {
		return Outcome{Fallback: true, Err: fmt.Errorf("%w: build prompt: %w", services.ErrGenerationFailure, err)}
	}
	p.logger.Debug("generating reply",
		"listener_id", snap.Listener.ID,
		"template", snap.Template,
		"prompt", chat.Transcript(messages))

	resp, err := p.generator.Generate(ctx, messages)
	if err != nil {
		return Outcome{Fallback: true, Err: fmt.Errorf("%w: %w", services.ErrGenerationFailure, err)}
	}
	if resp == nil {
		return Outcome{Fallback: true, Err: fmt.Errorf("%w: empty response", services.ErrGenerationFailure)}
	}

	return Outcome{Response: p.sanitizer.Clean(resp.Message, snap.Question)}
}

// Apply scores a finished outcome and writes its effects to the live players,
// the context store and the exchange log. rng picks the canned line on the
// fallback path.
func (p *ConversationProcessor) Apply(ctx context.Context, snap Snapshot, out Outcome, speaker, listener *actor.Player, log *state.ExchangeLog, rng *rand.Rand) state.Exchange {
	response := out.Response
	var speakerDelta, listenerDelta int

	if out.Fallback {
		if errors.Is(out.Err, services.ErrGenerationUnavailable) {
			p.logger.Debug("no generator configured, using canned response", "listener_id", listener.ID)
		} else {
			p.logger.Warn("generation failed, using canned response", "error", out.Err, "listener_id", listener.ID)
		}
		response = cannedLine(listener.Murderer, rng)
		speakerDelta, listenerDelta = p.engine.FallbackSuspicion(snap.Question, response, listener.Murderer)
	} else {
		speakerDelta, listenerDelta = p.engine.SuspicionDelta(snap.Question, response, listener.Murderer, listener.LyingAbility, listener.Mood)
	}

	speaker.Mood = p.engine.MoodTransition(speaker.Mood, snap.Question, response, speakerDelta)
	listener.Mood = p.engine.MoodTransition(listener.Mood, snap.Question, response, listenerDelta)

	if snap.Template == prompts.TemplateInventory && !listener.Murderer {
		if n := listener.RevealInventory(); n > 0 {
			p.logger.Debug("inventory revealed", "player_id", listener.ID, "items", n)
		}
	}

	if err := p.store.Add(ctx, services.NewDocument(speaker.ID, listener.ID, snap.Turn, snap.Question, response)); err != nil {
		p.logger.Error("failed to store exchange", "error", err, "speaker_id", speaker.ID, "listener_id", listener.ID)
	}

	ex := state.Exchange{
		SpeakerID:     speaker.ID,
		ListenerID:    listener.ID,
		Question:      snap.Question,
		Response:      response,
		SpeakerDelta:  speakerDelta,
		ListenerDelta: listenerDelta,
		Turn:          snap.Turn,
		Template:      string(snap.Template),
		Fallback:      out.Fallback,
	}
	ex = log.Append(ex)

	speaker.AddSuspicion(speakerDelta, p.suspicionCap)
	listener.AddSuspicion(listenerDelta, p.suspicionCap)
	return ex
}

// StrikeConversation runs the whole pipeline inline on the caller.
func (p *ConversationProcessor) StrikeConversation(ctx context.Context, speaker, listener *actor.Player, loc *scenario.Location, room *scenario.Room, nearby []string, question string, turn int, log *state.ExchangeLog, rng *rand.Rand) state.Exchange {
	snap := p.Prepare(speaker, listener, loc, room, nearby, question, turn)
	return p.Apply(ctx, snap, p.Generate(ctx, snap), speaker, listener, log, rng)
}

func cannedLine(murderer bool, rng *rand.Rand) string {
	pool := innocentLines
	if murderer {
		pool = murdererLines
	}
	return pool[rng.IntN(len(pool))]
}
