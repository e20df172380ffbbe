package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwebster45206/manor-mystery/pkg/chat"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-3-haiku-20240307"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}
	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}
	if service.baseURL != anthropicBaseURL {
		t.Errorf("Expected base url %s, got %s", anthropicBaseURL, service.baseURL)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if err := service.InitModel(context.Background(), modelName); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := service.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
}

func TestAnthropicService_SplitChatMessages(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude", log)

	tests := []struct {
		name                   string
		messages               []chat.ChatMessage
		expectedSystem         string
		expectedNonSystemCount int
	}{
		{
			name: "single system message",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are Edith."},
				{Role: chat.ChatRoleUser, Content: "Where were you?"},
			},
			expectedSystem:         "You are Edith.",
			expectedNonSystemCount: 1,
		},
		{
			name: "multiple system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You are Edith."},
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleSystem, Content: "Be brief."},
			},
			expectedSystem:         "You are Edith.\n\nBe brief.",
			expectedNonSystemCount: 1,
		},
		{
			name: "no system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleUser, Content: "Hello"},
				{Role: chat.ChatRoleAgent, Content: "Good evening."},
			},
			expectedSystem:         "",
			expectedNonSystemCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, rest := service.splitChatMessages(tt.messages)
			if system != tt.expectedSystem {
				t.Errorf("Expected system %q, got %q", tt.expectedSystem, system)
			}
			if len(rest) != tt.expectedNonSystemCount {
				t.Errorf("Expected %d non-system messages, got %d", tt.expectedNonSystemCount, len(rest))
			}
		})
	}
}

func TestAnthropicService_Generate(t *testing.T) {
	var captured AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("missing version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"I was in "},{"type":"text","text":"the library."}]}`))
	}))
	defer server.Close()

	service := NewAnthropicService("secret", "claude", slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.baseURL = server.URL

	resp, err := service.Generate(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "You are Edith."},
		{Role: chat.ChatRoleUser, Content: "Where were you?"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Message != "I was in the library." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if captured.System != "You are Edith." || len(captured.Messages) != 1 || captured.Model != "claude" {
		t.Errorf("unexpected request: %+v", captured)
	}
	if captured.MaxTokens != DefaultAnthropicMaxTokens {
		t.Errorf("expected max tokens %d, got %d", DefaultAnthropicMaxTokens, captured.MaxTokens)
	}
}

func TestAnthropicService_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errText string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":{"type":"rate_limit","message":"slow down"}}`, "status 429"},
		{"api error", http.StatusOK, `{"error":{"type":"invalid_request","message":"bad model"}}`, "bad model"},
		{"bad json", http.StatusOK, `not json`, "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			service := NewAnthropicService("k", "claude", slog.New(slog.NewTextHandler(io.Discard, nil)))
			service.baseURL = server.URL

			_, err := service.Generate(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}})
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("expected error containing %q, got %v", tt.errText, err)
			}
		})
	}
}

func TestAnthropicService_GenerateHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	service := NewAnthropicService("k", "claude", slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.baseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := service.Generate(ctx, []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}}); err == nil {
		t.Error("expected cancelled context to fail the request")
	}
}
