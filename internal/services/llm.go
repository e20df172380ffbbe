package services

import (
	"context"
	"errors"

	"github.com/jwebster45206/manor-mystery/pkg/chat"
)

var (
	// ErrGenerationUnavailable means no generator is configured.
	ErrGenerationUnavailable = errors.New("text generation unavailable")
	// ErrGenerationFailure wraps any error raised by a generator call.
	ErrGenerationFailure = errors.New("text generation failed")
)

// Generator produces in-character dialogue from prompt messages.
type Generator interface {
	// InitModel prepares the backend model on startup
	InitModel(ctx context.Context, modelName string) error

	// Generate returns the raw generated text for the messages
	Generate(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Close releases connections held by the backend
	Close() error
}
