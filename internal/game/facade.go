package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/jwebster45206/manor-mystery/internal/logger"
	"github.com/jwebster45206/manor-mystery/internal/services"
	"github.com/jwebster45206/manor-mystery/internal/services/events"
	"github.com/jwebster45206/manor-mystery/internal/worker"
	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/registry"
	"github.com/jwebster45206/manor-mystery/pkg/rules"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
	"github.com/jwebster45206/manor-mystery/pkg/state"
)

// InventoryQuestion is asked by AskAboutInventory.
const InventoryQuestion = "What items are you carrying?"

var (
	ErrUnknownPlayer       = errors.New("unknown player")
	ErrUnknownRoom         = errors.New("unknown room")
	ErrGameOver            = errors.New("game is over")
	ErrGameActive          = errors.New("game is still running")
	ErrSelfAccusation      = errors.New("players cannot accuse themselves")
	ErrSelfConversation    = errors.New("players cannot question themselves")
	ErrNotAdjacent         = errors.New("room is not connected to the current room")
	ErrNotInRoom           = errors.New("player is not in the current room")
	ErrConversationPending = errors.New("a conversation is still in progress")
	ErrNoConversation      = errors.New("no conversation in progress")
	ErrEmptyQuestion       = errors.New("question is empty")
)

// Reasons reported when the game ends.
const (
	EndSolved    = "murderer identified"
	EndOutOfTime = "out of turns"
	EndSuspicion = "suspicion limit exceeded"
)

// Deps are the collaborators a game needs. Only Location and Rand are
// required; a nil Generator plays on canned lines and a nil Store keeps
// history in memory.
type Deps struct {
	Location  *scenario.Location
	UserName  string
	Rand      *rand.Rand
	Generator services.Generator
	Store     services.ContextStore
	Events    *events.Broadcaster
	Workers   int
	Logger    *slog.Logger
}

// Game is the single entry point for a presentation layer. It is driven from
// one goroutine; only generation runs elsewhere.
type Game struct {
	cfg       Config
	state     *state.GameState
	clock     *state.Clock
	location  *scenario.Location
	registry  *registry.Registry
	resolver  *AccusationResolver
	processor *worker.ConversationProcessor
	pool      *worker.Pool
	exchanges *state.ExchangeLog
	rng       *rand.Rand
	generator services.Generator
	store     services.ContextStore
	events    *events.Broadcaster
	logger    *slog.Logger

	murdererID int
	pending    *worker.Task
	endReason  string
}

// New sets up a fresh game: roster, murderer, inventories and workers.
func New(cfg Config, deps Deps) (*Game, error) {
	if deps.Location == nil {
		return nil, fmt.Errorf("location is required")
	}
	if deps.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	store := deps.Store
	if store == nil {
		store = services.NewMemoryContextStore()
	}

	gs := state.NewGameState(cfg.MaxTurns)
	log = logger.WithGameID(log, gs.ID.String())

	engine := rules.NewEngine(cfg.Rules)
	reg := registry.New(deps.Location, engine, deps.Rand, cfg.NPCMoveProbability, log)
	murdererID, err := populate(reg, deps.Location, deps.UserName, deps.Rand, cfg)
	if err != nil {
		return nil, fmt.Errorf("setup players: %w", err)
	}

	processor := worker.NewConversationProcessor(engine, deps.Generator, store, cfg.HighSuspicionThreshold, cfg.SuspicionCap, log)

	g := &Game{
		cfg:        cfg,
		state:      gs,
		clock:      state.NewClock(gs),
		location:   deps.Location,
		registry:   reg,
		resolver:   NewAccusationResolver(cfg.WrongAccusationPenalty, cfg.SuspicionCap),
		processor:  processor,
		pool:       worker.NewPool(processor, deps.Workers, cfg.GenerationTimeout, log),
		exchanges:  &state.ExchangeLog{},
		rng:        deps.Rand,
		generator:  deps.Generator,
		store:      store,
		events:     deps.Events,
		logger:     log,
		murdererID: murdererID,
	}

	log.Info("Game started",
		"location", deps.Location.Name,
		"players", reg.Len(),
		"max_turns", cfg.MaxTurns)
	return g, nil
}

// MoveUser walks the user to a room and spends a turn.
func (g *Game) MoveUser(ctx context.Context, roomID int) error {
	if err := g.checkCanAct(); err != nil {
		return err
	}
	dest, ok := g.location.Room(roomID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
	}
	from := g.CurrentRoom()
	if g.cfg.AdjacentMovesOnly && dest.ID != from.ID && !from.ConnectedTo(dest.ID) {
		return fmt.Errorf("%w: %s", ErrNotAdjacent, dest.Name)
	}

	if err := g.registry.MoveUser(actor.UserID, roomID); err != nil {
		return err
	}
	g.logger.Debug("user moved", "from", from.Name, "to", dest.Name)
	g.publish(func() error {
		return g.events.PublishPlayerMoved(ctx, g.state.ID, g.state.CurrentTurn, actor.UserID, from.Name, dest.Name)
	})

	g.afterAction(ctx)
	return nil
}

// BeginConversation dispatches a question to a worker and returns at once.
// Finish it with PollConversation or WaitConversation; no other action is
// allowed until then.
func (g *Game) BeginConversation(ctx context.Context, listenerID int, question string) (*worker.Task, error) {
	if err := g.checkCanAct(); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if listenerID == actor.UserID {
		return nil, ErrSelfConversation
	}
	listener, err := g.player(listenerID)
	if err != nil {
		return nil, err
	}
	room := g.CurrentRoom()
	if listenerRoom, _ := g.registry.RoomOf(listenerID); listenerRoom.ID != room.ID {
		return nil, fmt.Errorf("%w: %s", ErrNotInRoom, listener.Name)
	}

	user, _ := g.registry.Player(actor.UserID)
	snap := g.processor.Prepare(user, listener, g.location, room, g.nearbyNames(room.ID, listenerID), question, g.state.CurrentTurn+1)

	task, err := g.pool.Dispatch(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("dispatch conversation: %w", err)
	}
	g.pending = task
	return task, nil
}

// PollConversation finishes the pending conversation if its result is in.
// The bool is false while generation is still running.
func (g *Game) PollConversation(ctx context.Context) (state.Exchange, bool, error) {
	if g.pending == nil {
		return state.Exchange{}, false, ErrNoConversation
	}
	out, ok := g.pending.Poll()
	if !ok {
		return state.Exchange{}, false, nil
	}
	return g.finishConversation(ctx, out), true, nil
}

// WaitConversation blocks until the pending conversation finishes. If ctx
// ends first the generation is cancelled and the canned fallback is used.
func (g *Game) WaitConversation(ctx context.Context) (state.Exchange, error) {
	if g.pending == nil {
		return state.Exchange{}, ErrNoConversation
	}
	out, err := g.pending.Wait(ctx)
	if err != nil {
		g.pending.Cancel()
		ctx = context.WithoutCancel(ctx)
		out, _ = g.pending.Wait(ctx)
	}
	return g.finishConversation(ctx, out), nil
}

// StrikeConversation asks the listener a question and waits for the answer.
func (g *Game) StrikeConversation(ctx context.Context, listenerID int, question string) (state.Exchange, error) {
	if _, err := g.BeginConversation(ctx, listenerID, question); err != nil {
		return state.Exchange{}, err
	}
	return g.WaitConversation(ctx)
}

// AskAboutInventory starts a conversation with the fixed inventory question.
func (g *Game) AskAboutInventory(ctx context.Context, listenerID int) (*worker.Task, error) {
	return g.BeginConversation(ctx, listenerID, InventoryQuestion)
}

// Pending reports whether a conversation awaits its result.
func (g *Game) Pending() bool {
	return g.pending != nil
}

func (g *Game) finishConversation(ctx context.Context, out worker.Outcome) state.Exchange {
	snap := g.pending.Snapshot
	g.pending = nil

	speaker, _ := g.registry.Player(snap.Speaker.ID)
	listener, _ := g.registry.Player(snap.Listener.ID)
	ex := g.processor.Apply(ctx, snap, out, speaker, listener, g.exchanges, g.rng)

	g.publish(func() error {
		return g.events.PublishExchange(ctx, g.state.ID, ex.Turn, ex.SpeakerID, ex.ListenerID, ex.SpeakerDelta, ex.ListenerDelta, ex.Template, ex.Fallback)
	})
	g.afterAction(ctx)
	return ex
}

// Accuse names accusedID as the murderer. A correct accusation wins the game;
// a wrong one costs the accuser suspicion. Either way a turn is spent.
func (g *Game) Accuse(ctx context.Context, accuserID, accusedID int) (bool, error) {
	if err := g.checkCanAct(); err != nil {
		return false, err
	}
	if accuserID == accusedID {
		return false, ErrSelfAccusation
	}
	accuser, err := g.player(accuserID)
	if err != nil {
		return false, err
	}
	accused, err := g.player(accusedID)
	if err != nil {
		return false, err
	}

	correct := g.resolver.Resolve(accuser, accused)
	g.logger.Info("accusation made", "accuser_id", accuserID, "accused_id", accusedID, "correct", correct)
	g.publish(func() error {
		return g.events.PublishAccusation(ctx, g.state.ID, g.state.CurrentTurn+1, accuserID, accusedID, correct)
	})

	if correct {
		g.end(ctx, true, EndSolved)
	}
	g.afterAction(ctx)
	return correct, nil
}

// afterAction spends the turn, checks the loss conditions and lets the NPCs
// wander while the game is still running.
func (g *Game) afterAction(ctx context.Context) {
	wasActive := g.clock.IsActive()
	g.clock.AdvanceTurn()
	g.publish(func() error {
		return g.events.PublishTurnAdvanced(ctx, g.state.ID, g.state.CurrentTurn, g.state.TurnsRemaining())
	})

	if wasActive && !g.clock.IsActive() {
		g.announceEnd(ctx, EndOutOfTime)
		return
	}
	if !g.clock.IsActive() {
		return
	}

	if user, _ := g.registry.Player(actor.UserID); user.Suspicion > g.cfg.SuspicionLimit {
		g.end(ctx, false, EndSuspicion)
		return
	}

	for _, mv := range g.registry.MoveNPCsRandomly() {
		from, _ := g.location.Room(mv.From)
		to, _ := g.location.Room(mv.To)
		g.publish(func() error {
			return g.events.PublishPlayerMoved(ctx, g.state.ID, g.state.CurrentTurn, mv.PlayerID, from.Name, to.Name)
		})
	}
}

func (g *Game) end(ctx context.Context, win bool, reason string) {
	if !g.clock.IsActive() {
		return
	}
	g.clock.End(win)
	g.announceEnd(ctx, reason)
}

func (g *Game) announceEnd(ctx context.Context, reason string) {
	g.endReason = reason
	g.logger.Info("Game ended", "solved", g.state.Solved, "reason", reason, "turn", g.state.CurrentTurn)
	g.publish(func() error {
		return g.events.PublishGameEnded(ctx, g.state.ID, g.state.CurrentTurn, g.state.Solved, reason)
	})
}

func (g *Game) publish(fn func() error) {
	if g.events == nil {
		return
	}
	if err := fn(); err != nil {
		logger.WithError(g.logger, err).Warn("failed to publish game event")
	}
}

func (g *Game) checkCanAct() error {
	if !g.clock.IsActive() {
		return ErrGameOver
	}
	if g.pending != nil {
		return ErrConversationPending
	}
	return nil
}

func (g *Game) player(id int) (*actor.Player, error) {
	p, err := g.registry.Player(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return p, nil
}

// nearbyNames lists everyone in the room except the listener, questioner included.
func (g *Game) nearbyNames(roomID int, listenerID int) []string {
	others := g.registry.PlayersInRoom(roomID, listenerID)
	names := make([]string, 0, len(others))
	for _, p := range others {
		names = append(names, p.Name)
	}
	return names
}

// Cleanup stops the workers and releases the generator and context store.
// An in-flight conversation is cancelled and dropped.
func (g *Game) Cleanup() error {
	if g.pending != nil {
		g.pending.Cancel()
		g.pending = nil
	}
	g.pool.Close()

	var errs []error
	if err := g.store.Clear(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("clear context store: %w", err))
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context store: %w", err))
	}
	if g.generator != nil {
		if err := g.generator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close generator: %w", err))
		}
	}
	return errors.Join(errs...)
}
