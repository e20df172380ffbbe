package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	opts, err := redis.ParseURL("redis://" + mr.Addr())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to parse redis url: %v", err)
	}
	return redis.NewClient(opts), mr
}

func TestBroadcaster_PublishesToGameChannel(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	gameID := uuid.New()

	sub := client.Subscribe(ctx, Channel(gameID))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, b.PublishAccusation(ctx, gameID, 4, 0, 3, false))
	require.NoError(t, b.PublishGameEnded(ctx, gameID, 5, true, "murderer named"))

	ch := sub.Channel()
	var got []Event
	for len(got) < 2 {
		select {
		case msg := <-ch:
			var ev Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
			got = append(got, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, got %d", len(got))
		}
	}

	assert.Equal(t, EventTypeAccusation, got[0].Type)
	assert.Equal(t, gameID.String(), got[0].GameID)
	assert.Equal(t, 4, got[0].Turn)
	assert.Equal(t, false, got[0].Data["correct"])
	assert.Equal(t, float64(3), got[0].Data["accused_id"])

	assert.Equal(t, EventTypeGameEnded, got[1].Type)
	assert.Equal(t, true, got[1].Data["solved"])
}

func TestBroadcaster_NilIsNoop(t *testing.T) {
	var b *Broadcaster
	ctx := context.Background()
	id := uuid.New()

	assert.NoError(t, b.PublishPlayerMoved(ctx, id, 1, 0, "Hall", "Library"))
	assert.NoError(t, b.PublishExchange(ctx, id, 1, 0, 2, 2, 1, "basic", false))
	assert.NoError(t, b.PublishTurnAdvanced(ctx, id, 1, 19))
}

func TestBroadcaster_PublishError(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer func() { _ = client.Close() }()
	mr.Close()

	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := b.PublishTurnAdvanced(context.Background(), uuid.New(), 1, 19)
	assert.Error(t, err)
}

func TestChannel(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "game:11111111-2222-3333-4444-555555555555:events", Channel(id))
}
