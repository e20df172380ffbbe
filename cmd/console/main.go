package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/manor-mystery/internal/config"
	"github.com/jwebster45206/manor-mystery/internal/game"
	"github.com/jwebster45206/manor-mystery/internal/logger"
	"github.com/jwebster45206/manor-mystery/internal/services"
	"github.com/jwebster45206/manor-mystery/internal/services/events"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

var (
	flagSeed    uint64
	flagName    string
	flagLogFile string
	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:   "manor-mystery",
	Short: "A murder mystery played in the terminal",
	Long: `Manor Mystery drops you into a country house with a corpse and a houseful of
guests. Question them, search their pockets and name the murderer before
the turns run out.`,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "random seed, overrides SEED (0 uses the clock)")
	rootCmd.Flags().StringVar(&flagName, "name", "detective", "your name")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of discarding them")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "optional dotenv file to load first")
}

func run(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", flagEnvFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		logOut = f
	}
	log := logger.Setup(cfg, logOut)

	seed := cfg.Seed
	if flagSeed != 0 {
		seed = flagSeed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>32|1))
	log.Info("Starting game", "seed", seed, "llm_provider", cfg.LLMProvider)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	spec := scenario.GenerateManorSpec(rng)
	spec.MaxPlayers = cfg.MaxPlayers
	location, err := scenario.NewLocation(spec, cfg.StrictRoomGraph, log)
	if err != nil {
		return fmt.Errorf("generate manor: %w", err)
	}

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}

	deps := game.Deps{
		Location:  location,
		UserName:  flagName,
		Rand:      rng,
		Generator: generator,
		Workers:   cfg.WorkerCount,
		Logger:    log,
	}
	if cfg.RedisURL != "" {
		client, err := services.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() {
			_ = client.Close() // Ignore error in defer
		}()
		store := services.NewRedisContextStore(client, uuid.NewString(), cfg.ContextTTL, log)
		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = store.WaitForConnection(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		deps.Store = store
		deps.Events = events.NewBroadcaster(client, log)
	}

	g, err := game.New(game.ConfigFrom(cfg), deps)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	defer func() {
		if err := g.Cleanup(); err != nil {
			logger.WithError(log, err).Error("Cleanup failed")
		}
	}()

	p := tea.NewProgram(NewConsoleUI(ctx, g),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newGenerator builds the configured text generator. Nil means every reply
// comes from the canned lines.
func newGenerator(ctx context.Context, cfg *config.Config, log *slog.Logger) (services.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log), nil
	case config.ProviderVenice:
		return services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName, cfg.VeniceURL, log), nil
	case config.ProviderOllama:
		svc := services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		if err := svc.InitModel(ctx, cfg.ModelName); err != nil {
			return nil, fmt.Errorf("init ollama model: %w", err)
		}
		return svc, nil
	default:
		return nil, nil
	}
}
