package game

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/manor-mystery/internal/services"
	"github.com/jwebster45206/manor-mystery/internal/services/events"
	"github.com/jwebster45206/manor-mystery/pkg/actor"
	"github.com/jwebster45206/manor-mystery/pkg/chat"
	"github.com/jwebster45206/manor-mystery/pkg/scenario"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Hall(0) and Library(1) are general, Kitchen(2) is service; the entrance is 3.
func testLocation(t *testing.T) *scenario.Location {
	t.Helper()
	loc, err := scenario.NewLocation(scenario.LocationSpec{
		Name:        "Blackwood Estate",
		Description: "A sprawling estate.",
		Event:       "The host was found dead.",
		MaxPlayers:  5,
		Rooms: []scenario.RoomSpec{
			{Name: "Hall", Description: "A grand hall.", Type: scenario.RoomGeneral, Capacity: 10},
			{Name: "Library", Description: "Dusty books.", Type: scenario.RoomGeneral, Capacity: 10},
			{Name: "Kitchen", Description: "Copper pots.", Type: scenario.RoomService, Capacity: 10},
		},
	}, false, testLogger())
	require.NoError(t, err)
	return loc
}

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.NPCMoveProbability = 0
	return cfg
}

func newTestGame(t *testing.T, cfg Config, seed uint64, deps Deps) *Game {
	t.Helper()
	if deps.Location == nil {
		deps.Location = testLocation(t)
	}
	deps.Rand = rand.New(rand.NewPCG(seed, seed))
	deps.Logger = testLogger()
	deps.UserName = "sherlock holmes"
	g, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Cleanup() })
	return g
}

// joinNPC moves the user next to an NPC and returns its id. It spends a turn.
func joinNPC(t *testing.T, g *Game, wantMurderer bool) int {
	t.Helper()
	for _, p := range g.Players() {
		if p.IsUser() || p.Murderer != wantMurderer {
			continue
		}
		room, err := g.RoomOf(p.ID)
		require.NoError(t, err)
		require.NoError(t, g.MoveUser(context.Background(), room.ID))
		return p.ID
	}
	t.Fatal("no matching npc")
	return 0
}

func innocentID(g *Game) int {
	for _, p := range g.Players() {
		if !p.IsUser() && !p.Murderer {
			return p.ID
		}
	}
	return -1
}

func TestNew_Setup(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		loc, err := scenario.GenerateManor(rand.New(rand.NewPCG(seed, 99)), false, testLogger())
		require.NoError(t, err)
		g := newTestGame(t, DefaultConfig(), seed, Deps{Location: loc})

		players := g.Players()
		require.Len(t, players, loc.MaxPlayers)

		murderers := 0
		for _, p := range players {
			if p.Murderer {
				murderers++
				assert.False(t, p.IsUser())
				weapons := 0
				for _, item := range p.Inventory {
					if item.MurderWeapon {
						weapons++
						assert.False(t, item.Known)
					}
				}
				assert.Equal(t, 1, weapons)
			}
			assert.GreaterOrEqual(t, p.LyingAbility, 1)
			assert.LessOrEqual(t, p.LyingAbility, 10)
			assert.NotEmpty(t, p.Inventory)

			room, err := g.RoomOf(p.ID)
			require.NoError(t, err)
			assert.LessOrEqual(t, g.registry.Occupancy(room.ID), room.Capacity)
		}
		assert.Equal(t, 1, murderers, "seed %d", seed)

		assert.Equal(t, scenario.StartingRoomName, g.CurrentRoom().Name)
		assert.Equal(t, "Sherlock Holmes", g.User().Name)
		assert.True(t, g.IsActive())
		assert.Zero(t, g.Turn())
	}
}

func TestNew_RequiresLocationAndRand(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{Rand: rand.New(rand.NewPCG(1, 1))})
	assert.Error(t, err)
	_, err = New(DefaultConfig(), Deps{Location: testLocation(t)})
	assert.Error(t, err)
}

func TestGame_EachActionSpendsOneTurn(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 3, Deps{})

	listener := joinNPC(t, g, false)
	assert.Equal(t, 1, g.Turn())

	ex, err := g.StrikeConversation(ctx, listener, "Hello there, lovely evening?")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Turn())
	assert.Equal(t, 2, ex.Turn)
	assert.True(t, ex.Fallback)
	assert.Len(t, g.Exchanges(), 1)

	correct, err := g.Accuse(ctx, actor.UserID, listener)
	require.NoError(t, err)
	assert.False(t, correct)
	assert.Equal(t, 3, g.Turn())
	assert.Equal(t, 30, g.User().Suspicion)
	assert.True(t, g.IsActive())
}

func TestGame_OutOfTurns(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, DefaultConfig(), 5, Deps{})
	rooms := g.Rooms()

	for i := 0; i < 20; i++ {
		require.True(t, g.IsActive(), "turn %d", i)
		require.NoError(t, g.MoveUser(ctx, rooms[i%len(rooms)].ID))
		assert.Equal(t, i+1, g.Turn())
	}

	assert.False(t, g.IsActive())
	st := g.State()
	assert.False(t, st.Solved)
	assert.Equal(t, 20, st.CurrentTurn)
	assert.Equal(t, EndOutOfTime, g.EndReason())

	assert.ErrorIs(t, g.MoveUser(ctx, rooms[0].ID), ErrGameOver)
	_, err := g.Accuse(ctx, actor.UserID, 1)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 20, g.Turn())
	assert.False(t, g.IsActive())
}

func TestGame_CorrectAccusation(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 11, Deps{})

	_, err := g.Murderer()
	assert.ErrorIs(t, err, ErrGameActive)

	correct, err := g.Accuse(ctx, actor.UserID, g.murdererID)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.False(t, g.IsActive())
	assert.True(t, g.State().Solved)
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, EndSolved, g.EndReason())
	assert.Zero(t, g.User().Suspicion)

	m, err := g.Murderer()
	require.NoError(t, err)
	assert.Equal(t, g.murdererID, m.ID)

	assert.ErrorIs(t, g.MoveUser(ctx, 0), ErrGameOver)
	assert.True(t, g.State().Solved, "outcome is final")
}

func TestGame_SuspicionLimitEndsGame(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 13, Deps{})
	innocent := innocentID(g)

	_, err := g.Accuse(ctx, actor.UserID, innocent)
	require.NoError(t, err)
	assert.True(t, g.IsActive(), "30 is within the limit of 35")

	_, err = g.Accuse(ctx, actor.UserID, innocent)
	require.NoError(t, err)
	assert.False(t, g.IsActive())
	assert.False(t, g.State().Solved)
	assert.Equal(t, EndSuspicion, g.EndReason())
	assert.Equal(t, 60, g.User().Suspicion)
	assert.Equal(t, 2, g.Turn())
}

func TestGame_Errors(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 17, Deps{})

	assert.ErrorIs(t, g.MoveUser(ctx, 99), ErrUnknownRoom)

	_, err := g.Accuse(ctx, actor.UserID, 42)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = g.Accuse(ctx, actor.UserID, actor.UserID)
	assert.ErrorIs(t, err, ErrSelfAccusation)

	_, err = g.BeginConversation(ctx, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	_, err = g.BeginConversation(ctx, actor.UserID, "Who am I?")
	assert.ErrorIs(t, err, ErrSelfConversation)
	_, err = g.BeginConversation(ctx, 42, "Who are you?")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, _, err = g.PollConversation(ctx)
	assert.ErrorIs(t, err, ErrNoConversation)
	_, err = g.WaitConversation(ctx)
	assert.ErrorIs(t, err, ErrNoConversation)

	_, err = g.PlayerJob(42)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = g.KnownItems(42)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	assert.Zero(t, g.Turn(), "rejected actions spend no turn")
}

func TestGame_ListenerMustShareRoom(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 19, Deps{})

	npc, err := g.Player(1)
	require.NoError(t, err)
	npcRoom, err := g.RoomOf(npc.ID)
	require.NoError(t, err)

	for _, room := range g.Rooms() {
		if room.ID != npcRoom.ID {
			require.NoError(t, g.MoveUser(ctx, room.ID))
			break
		}
	}

	_, err = g.BeginConversation(ctx, npc.ID, "Where were you?")
	assert.ErrorIs(t, err, ErrNotInRoom)
	assert.False(t, g.Pending())
}

func TestGame_AdjacentMovesOnly(t *testing.T) {
	ctx := context.Background()
	cfg := quietConfig()
	cfg.AdjacentMovesOnly = true
	g := newTestGame(t, cfg, 23, Deps{})

	kitchen, ok := g.Location().RoomByName("Kitchen")
	require.True(t, ok)
	require.False(t, g.CurrentRoom().ConnectedTo(kitchen.ID))
	assert.ErrorIs(t, g.MoveUser(ctx, kitchen.ID), ErrNotAdjacent)

	connected := g.ConnectedRooms()
	require.NotEmpty(t, connected)
	assert.NoError(t, g.MoveUser(ctx, connected[0].ID))
}

func TestGame_AsyncConversation(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	gen := services.NewMockGenerator("")
	gen.GenerateFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		<-release
		return &chat.ChatResponse{Message: "I was helping in the kitchen, honest."}, nil
	}
	g := newTestGame(t, quietConfig(), 29, Deps{Generator: gen, Workers: 1})
	listener := joinNPC(t, g, false)

	task, err := g.BeginConversation(ctx, listener, "Where were you?")
	require.NoError(t, err)
	assert.NotNil(t, task)
	assert.True(t, g.Pending())

	_, done, err := g.PollConversation(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.ErrorIs(t, g.MoveUser(ctx, 0), ErrConversationPending)
	assert.Equal(t, 1, g.Turn(), "turn waits for the result")

	close(release)
	var got bool
	assert.Eventually(t, func() bool {
		ex, done, err := g.PollConversation(ctx)
		if err != nil || !done {
			return false
		}
		got = ex.Response == "I was helping in the kitchen, honest."
		return true
	}, time.Second, 5*time.Millisecond)
	assert.True(t, got)
	assert.False(t, g.Pending())
	assert.Equal(t, 2, g.Turn())
}

func TestGame_WaitCancelledFallsBack(t *testing.T) {
	gen := services.NewMockGenerator("")
	gen.GenerateFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	g := newTestGame(t, quietConfig(), 31, Deps{Generator: gen, Workers: 1})
	listener := joinNPC(t, g, true)

	_, err := g.BeginConversation(context.Background(), listener, "Where is the weapon?")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ex, err := g.WaitConversation(ctx)
	require.NoError(t, err)
	assert.True(t, ex.Fallback)
	assert.Equal(t, 2, ex.SpeakerDelta)
	assert.Equal(t, 2, g.Turn())
}

func TestGame_PromptNamesQuestionerNearby(t *testing.T) {
	gen := services.NewMockGenerator("I have been in this room all evening.")
	g := newTestGame(t, quietConfig(), 41, Deps{Generator: gen})
	listener := joinNPC(t, g, false)

	ex, err := g.StrikeConversation(context.Background(), listener, "Who else was in this room?")
	require.NoError(t, err)
	assert.Equal(t, "location-aware", ex.Template)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	var nearby string
	for _, line := range strings.Split(calls[0].Messages[0].Content, "\n") {
		if strings.HasPrefix(line, "Nearby People:") {
			nearby = line
		}
	}
	require.NotEmpty(t, nearby)
	assert.Contains(t, nearby, g.User().Name)

	p, err := g.Player(listener)
	require.NoError(t, err)
	assert.NotContains(t, nearby, p.Name)
}

func TestGame_AskAboutInventory(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, quietConfig(), 37, Deps{Generator: services.NewMockGenerator("Only a letter and my keys, see?")})
	listener := joinNPC(t, g, false)

	_, err := g.AskAboutInventory(ctx, listener)
	require.NoError(t, err)
	ex, err := g.WaitConversation(ctx)
	require.NoError(t, err)
	assert.Equal(t, InventoryQuestion, ex.Question)
	assert.Equal(t, "inventory", ex.Template)

	p, err := g.Player(listener)
	require.NoError(t, err)
	known, err := g.KnownItems(listener)
	require.NoError(t, err)
	assert.Len(t, known, len(p.Inventory), "an innocent reveals everything")
}

func TestGame_QueriesReturnCopies(t *testing.T) {
	g := newTestGame(t, quietConfig(), 41, Deps{})

	players := g.Players()
	players[0].Suspicion = 99
	players[0].Inventory[0].Known = !players[0].Inventory[0].Known
	assert.Zero(t, g.User().Suspicion)

	inv := g.UserInventory()
	assert.NotEmpty(t, inv)
	job, err := g.PlayerJob(actor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Guest", job)
}

func TestGame_PublishesEvents(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	g := newTestGame(t, quietConfig(), 43, Deps{Events: events.NewBroadcaster(client, testLogger())})

	ctx := context.Background()
	sub := client.Subscribe(ctx, events.Channel(g.State().ID))
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	_, err = g.Accuse(ctx, actor.UserID, g.murdererID)
	require.NoError(t, err)

	want := []events.EventType{events.EventTypeAccusation, events.EventTypeGameEnded, events.EventTypeTurnAdvanced}
	ch := sub.Channel()
	for _, typ := range want {
		select {
		case msg := <-ch:
			var ev events.Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
			assert.Equal(t, typ, ev.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

func TestGame_Cleanup(t *testing.T) {
	gen := services.NewMockGenerator("fine")
	store := services.NewMockContextStore()
	g, err := New(quietConfig(), Deps{
		Location:  testLocation(t),
		Rand:      rand.New(rand.NewPCG(1, 1)),
		Generator: gen,
		Store:     store,
		Logger:    testLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, g.Cleanup())
	assert.Equal(t, 1, gen.CloseCalls)
	assert.Equal(t, 1, store.CloseCalls)

	_, err = g.BeginConversation(context.Background(), 1, "Anyone?")
	assert.Error(t, err, "workers are gone after cleanup")
}
