package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypePlayerMoved  EventType = "player.moved"
	EventTypeExchange     EventType = "conversation.exchange"
	EventTypeAccusation   EventType = "accusation.made"
	EventTypeTurnAdvanced EventType = "game.turn_advanced"
	EventTypeGameEnded    EventType = "game.ended"
)

// Event represents a generic event structure
type Event struct {
	Type   EventType              `json:"type"`
	GameID string                 `json:"game_id"`
	Turn   int                    `json:"turn"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes game events to Redis Pub/Sub. A nil *Broadcaster
// accepts every call and publishes nothing.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel returns the pub/sub channel for a game.
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game:%s:events", gameID.String())
}

func (b *Broadcaster) PublishPlayerMoved(ctx context.Context, gameID uuid.UUID, turn, playerID int, from, to string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type: EventTypePlayerMoved,
		Turn: turn,
		Data: map[string]interface{}{
			"player_id": playerID,
			"from":      from,
			"to":        to,
		},
	})
}

func (b *Broadcaster) PublishExchange(ctx context.Context, gameID uuid.UUID, turn, speakerID, listenerID, speakerDelta, listenerDelta int, template string, fallback bool) error {
	return b.publishToGame(ctx, gameID, Event{
		Type: EventTypeExchange,
		Turn: turn,
		Data: map[string]interface{}{
			"speaker_id":     speakerID,
			"listener_id":    listenerID,
			"speaker_delta":  speakerDelta,
			"listener_delta": listenerDelta,
			"template":       template,
			"fallback":       fallback,
		},
	})
}

func (b *Broadcaster) PublishAccusation(ctx context.Context, gameID uuid.UUID, turn, accuserID, accusedID int, correct bool) error {
	return b.publishToGame(ctx, gameID, Event{
		Type: EventTypeAccusation,
		Turn: turn,
		Data: map[string]interface{}{
			"accuser_id": accuserID,
			"accused_id": accusedID,
			"correct":    correct,
		},
	})
}

func (b *Broadcaster) PublishTurnAdvanced(ctx context.Context, gameID uuid.UUID, turn, turnsRemaining int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type: EventTypeTurnAdvanced,
		Turn: turn,
		Data: map[string]interface{}{
			"turns_remaining": turnsRemaining,
		},
	})
}

func (b *Broadcaster) PublishGameEnded(ctx context.Context, gameID uuid.UUID, turn int, solved bool, reason string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type: EventTypeGameEnded,
		Turn: turn,
		Data: map[string]interface{}{
			"solved": solved,
			"reason": reason,
		},
	})
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	if b == nil {
		return nil
	}
	event.GameID = gameID.String()
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published", "channel", channel, "event_type", event.Type)
	return nil
}
