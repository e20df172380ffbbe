package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jwebster45206/manor-mystery/pkg/chat"
)

type fakeOllama struct {
	mu      sync.Mutex
	models  []string
	pulled  []string
	chatErr bool
}

func (f *fakeOllama) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		resp := map[string]interface{}{"models": []map[string]string{}}
		models := make([]map[string]string, 0, len(f.models))
		for _, m := range f.models {
			models = append(models, map[string]string{"name": m})
		}
		resp["models"] = models
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		name, _ := body["name"].(string)
		f.pulled = append(f.pulled, name)
		f.models = append(f.models, name)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		failing := f.chatErr
		f.mu.Unlock()
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var body struct {
			Model    string             `json:"model"`
			Messages []chat.ChatMessage `json:"messages"`
			Stream   bool               `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad chat body: %v", err)
		}
		if body.Stream {
			t.Error("expected non-streaming request")
		}
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Answer to: ` + body.Messages[len(body.Messages)-1].Content + `"}}`))
	})
	return mux
}

func newTestOllama(url string) *OllamaService {
	s := NewOllamaService(url, "llama3", slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.readyRetries = 2
	s.readyRetryDelay = 5 * time.Millisecond
	return s
}

func TestOllamaService_InitModelPullsMissingModel(t *testing.T) {
	fake := &fakeOllama{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	s := newTestOllama(server.URL)
	if err := s.InitModel(context.Background(), "llama3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.pulled) != 1 || fake.pulled[0] != "llama3" {
		t.Errorf("expected llama3 to be pulled, got %v", fake.pulled)
	}

	if err := s.InitModel(context.Background(), "llama3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.pulled) != 1 {
		t.Errorf("expected no second pull, got %v", fake.pulled)
	}
}

func TestOllamaService_InitModelNotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := newTestOllama(server.URL)
	if err := s.InitModel(context.Background(), "llama3"); err == nil {
		t.Error("expected error when ollama never becomes ready")
	}
}

func TestOllamaService_Generate(t *testing.T) {
	fake := &fakeOllama{models: []string{"llama3"}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	s := newTestOllama(server.URL)
	resp, err := s.Generate(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "You are Edith."},
		{Role: chat.ChatRoleUser, Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Message != "Answer to: Hello" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	fake.mu.Lock()
	fake.chatErr = true
	fake.mu.Unlock()
	if _, err := s.Generate(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "Hello"}}); err == nil {
		t.Error("expected error on 500")
	}
	if err := s.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
