package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func receiveEvent(t *testing.T, sub *redis.PubSub) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	return event
}

func TestBroadcaster_PublishInventoryChanged(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, Channel("session-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	b := NewBroadcaster(client, "session-1", testLogger())
	require.NoError(t, b.PublishInventoryChanged(ctx))

	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeInventoryChanged, event.Type)
	assert.Equal(t, "session-1", event.SessionID)
}

func TestBroadcaster_PublishContainerChanged(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, Channel("session-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	b := NewBroadcaster(client, "session-1", testLogger())
	require.NoError(t, b.PublishContainerChanged(ctx, "chest-42"))

	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeContainerChanged, event.Type)
	assert.Equal(t, "chest-42", event.Data["container_id"])
}

func TestBroadcaster_PublishStatChanged(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, Channel("session-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	b := NewBroadcaster(client, "session-1", testLogger())
	require.NoError(t, b.PublishStatChanged(ctx, "knowledge", 5))

	event := receiveEvent(t, sub)
	assert.Equal(t, EventTypeStatChanged, event.Type)
	assert.Equal(t, "knowledge", event.Data["stat"])
	assert.Equal(t, float64(5), event.Data["value"], "JSON numbers decode as float64")
}

func TestBroadcaster_SessionsAreIsolated(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, Channel("session-2"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	b := NewBroadcaster(client, "session-1", testLogger())
	require.NoError(t, b.PublishGameSaved(ctx, "slot1"))

	shortCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = sub.ReceiveMessage(shortCtx)
	assert.Error(t, err, "other sessions never see the event")
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "game-events:abc", Channel("abc"))
}
