package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/manor-mystery/pkg/chat"
)

// MockGenerator is a mock implementation of Generator for testing
type MockGenerator struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	GenerateFunc  func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	InitModelCalls []string
	GenerateCalls  []GenerateCall
	CloseCalls     int

	mu sync.Mutex // protects all fields above
}

var _ Generator = (*MockGenerator)(nil)

type GenerateCall struct {
	Messages []chat.ChatMessage
}

// NewMockGenerator creates a mock that answers every question with reply
func NewMockGenerator(reply string) *MockGenerator {
	m := &MockGenerator{
		InitModelCalls: make([]string, 0),
		GenerateCalls:  make([]GenerateCall, 0),
	}
	m.SetResponse(reply)
	return m
}

func (m *MockGenerator) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockGenerator) Generate(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, GenerateCall{Messages: messages})
	fn := m.GenerateFunc
	m.mu.Unlock()

	// Called unlocked so a blocking func does not stall other callers.
	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.ChatResponse{Message: "Mock response"}, nil
}

func (m *MockGenerator) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// SetResponse makes Generate return reply
func (m *MockGenerator) SetResponse(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: reply}, nil
	}
}

// SetGenerateError sets up the mock to return an error on Generate
func (m *MockGenerator) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// SetInitModelError sets up the mock to return an error on InitModel
func (m *MockGenerator) SetInitModelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelFunc = func(ctx context.Context, modelName string) error {
		return err
	}
}

// Calls returns a copy of the Generate calls in a thread-safe way
func (m *MockGenerator) Calls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GenerateCall, len(m.GenerateCalls))
	copy(out, m.GenerateCalls)
	return out
}

// Reset clears all call tracking
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.GenerateCalls = make([]GenerateCall, 0)
	m.CloseCalls = 0
}
