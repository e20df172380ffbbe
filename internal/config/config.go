package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/rules"
)

const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderVenice    = "venice"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Game rules
	MaxTurns                  int     `env:"MAX_TURNS" envDefault:"20"`
	SuspicionLimit            int     `env:"SUSPICION_LIMIT" envDefault:"35"`
	NPCMoveProbability        float64 `env:"NPC_MOVE_PROBABILITY" envDefault:"0.01"`
	MoodDecayProbability      float64 `env:"MOOD_DECAY_PROBABILITY" envDefault:"0.2"`
	HighSuspicionThreshold    int     `env:"HIGH_SUSPICION_THRESHOLD" envDefault:"25"`
	MurdererSuspicionModifier int     `env:"MURDERER_SUSPICION_MODIFIER" envDefault:"2"`
	WrongAccusationPenalty    int     `env:"WRONG_ACCUSATION_PENALTY" envDefault:"30"`
	LyingAbilityMin           int     `env:"LYING_ABILITY_MIN" envDefault:"1"`
	LyingAbilityMax           int     `env:"LYING_ABILITY_MAX" envDefault:"10"`
	MaxPlayers                int     `env:"MAX_PLAYERS" envDefault:"10"`
	SuspicionCap              int     `env:"SUSPICION_CAP" envDefault:"100"`
	StrictRoomGraph           bool    `env:"STRICT_ROOM_GRAPH" envDefault:"false"`
	AdjacentMovesOnly         bool    `env:"ADJACENT_MOVES_ONLY" envDefault:"false"`
	Seed                      uint64  `env:"SEED" envDefault:"0"` // 0 seeds from the clock

	// Workers and generation
	WorkerCount       int           `env:"WORKER_COUNT" envDefault:"2"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"0s"` // 0 disables
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"none"`
	ModelName         string        `env:"MODEL_NAME"`
	AnthropicAPIKey   string        `env:"ANTHROPIC_API_KEY"`
	OllamaURL         string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	VeniceAPIKey      string        `env:"VENICE_API_KEY"`
	VeniceURL         string        `env:"VENICE_URL"` // empty uses the public endpoint

	// Context store and events; empty REDIS_URL keeps everything in memory
	RedisURL   string        `env:"REDIS_URL"`
	ContextTTL time.Duration `env:"CONTEXT_TTL" envDefault:"24h"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("MAX_TURNS must be at least 1, got %d", c.MaxTurns))
	}
	if c.MaxPlayers < 2 {
		errs = append(errs, fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", c.MaxPlayers))
	}
	if c.NPCMoveProbability < 0 || c.NPCMoveProbability > 1 {
		errs = append(errs, fmt.Errorf("NPC_MOVE_PROBABILITY must be within [0,1], got %v", c.NPCMoveProbability))
	}
	if c.MoodDecayProbability < 0 || c.MoodDecayProbability > 1 {
		errs = append(errs, fmt.Errorf("MOOD_DECAY_PROBABILITY must be within [0,1], got %v", c.MoodDecayProbability))
	}
	if c.LyingAbilityMin < actor.MinLyingAbility || c.LyingAbilityMax > actor.MaxLyingAbility {
		errs = append(errs, fmt.Errorf("LYING_ABILITY_MIN and LYING_ABILITY_MAX must be within [%d,%d], got [%d,%d]",
			actor.MinLyingAbility, actor.MaxLyingAbility, c.LyingAbilityMin, c.LyingAbilityMax))
	}
	if c.LyingAbilityMin > c.LyingAbilityMax {
		errs = append(errs, fmt.Errorf("LYING_ABILITY_MIN %d exceeds LYING_ABILITY_MAX %d", c.LyingAbilityMin, c.LyingAbilityMax))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount))
	}
	if c.GenerationTimeout < 0 {
		errs = append(errs, fmt.Errorf("GENERATION_TIMEOUT must not be negative"))
	}
	switch c.LLMProvider {
	case ProviderNone, ProviderOllama:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	case ProviderVenice:
		if c.VeniceAPIKey == "" {
			errs = append(errs, fmt.Errorf("VENICE_API_KEY is required for the venice provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	return errors.Join(errs...)
}

// Rules projects the scoring options into the rules engine config.
func (c *Config) Rules() rules.Config {
	return rules.Config{
		MurdererModifier:     c.MurdererSuspicionModifier,
		MoodDecayProbability: c.MoodDecayProbability,
	}
}

func (c *Config) Level() slog.Level {
	return parseLogLevel(c.LogLevel)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
