package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxTurns != 20 {
		t.Errorf("expected 20 max turns, got %d", cfg.MaxTurns)
	}
	if cfg.SuspicionLimit != 35 {
		t.Errorf("expected suspicion limit 35, got %d", cfg.SuspicionLimit)
	}
	if cfg.NPCMoveProbability != 0.01 {
		t.Errorf("expected move probability 0.01, got %v", cfg.NPCMoveProbability)
	}
	if cfg.WrongAccusationPenalty != 30 {
		t.Errorf("expected penalty 30, got %d", cfg.WrongAccusationPenalty)
	}
	if cfg.LLMProvider != ProviderNone {
		t.Errorf("expected no provider, got %s", cfg.LLMProvider)
	}
	if cfg.ContextTTL != 24*time.Hour {
		t.Errorf("expected 24h context ttl, got %v", cfg.ContextTTL)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.Level())
	}

	r := cfg.Rules()
	if r.MurdererModifier != 2 || r.MoodDecayProbability != 0.2 {
		t.Errorf("unexpected rules config: %+v", r)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_TURNS", "5")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("GENERATION_TIMEOUT", "15s")
	t.Setenv("SEED", "42")
	t.Setenv("STRICT_ROOM_GRAPH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxTurns != 5 {
		t.Errorf("expected 5 max turns, got %d", cfg.MaxTurns)
	}
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("expected warn level, got %v", cfg.Level())
	}
	if cfg.GenerationTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.GenerationTimeout)
	}
	if cfg.Seed != 42 || !cfg.StrictRoomGraph {
		t.Errorf("unexpected seed/strict: %d %v", cfg.Seed, cfg.StrictRoomGraph)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("MAX_TURNS", "twenty")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			MaxTurns:             20,
			MaxPlayers:           10,
			NPCMoveProbability:   0.01,
			MoodDecayProbability: 0.2,
			LyingAbilityMin:      1,
			LyingAbilityMax:      10,
			WorkerCount:          2,
			LLMProvider:          ProviderNone,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		errText string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero turns", func(c *Config) { c.MaxTurns = 0 }, "MAX_TURNS"},
		{"one player", func(c *Config) { c.MaxPlayers = 1 }, "MAX_PLAYERS"},
		{"move probability", func(c *Config) { c.NPCMoveProbability = 1.5 }, "NPC_MOVE_PROBABILITY"},
		{"decay probability", func(c *Config) { c.MoodDecayProbability = -0.1 }, "MOOD_DECAY_PROBABILITY"},
		{"lying range", func(c *Config) { c.LyingAbilityMin = 8; c.LyingAbilityMax = 3 }, "LYING_ABILITY_MIN"},
		{"lying range below one", func(c *Config) { c.LyingAbilityMin = 0 }, "must be within [1,10]"},
		{"lying range above ten", func(c *Config) { c.LyingAbilityMax = 50 }, "must be within [1,10]"},
		{"no workers", func(c *Config) { c.WorkerCount = 0 }, "WORKER_COUNT"},
		{"negative timeout", func(c *Config) { c.GenerationTimeout = -time.Second }, "GENERATION_TIMEOUT"},
		{"anthropic without key", func(c *Config) { c.LLMProvider = ProviderAnthropic }, "ANTHROPIC_API_KEY"},
		{"venice without key", func(c *Config) { c.LLMProvider = ProviderVenice }, "VENICE_API_KEY"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "chatgpt" }, "unknown LLM_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errText == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Fatalf("expected error containing %q, got %v", tt.errText, err)
			}
		})
	}
}
