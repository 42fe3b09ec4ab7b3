package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeInventoryChanged EventType = "inventory.changed"
	EventTypeContainerChanged EventType = "container.changed"
	EventTypeStatChanged      EventType = "stat.changed"
	EventTypeGameSaved        EventType = "game.saved"
	EventTypeGameLoaded       EventType = "game.loaded"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Broadcaster publishes engine change notifications to Redis Pub/Sub so
// out-of-process observers (debug UIs, tooling) can follow the session.
// In-process observers subscribe to the engines directly; this is the
// network leg of the same notification channel.
type Broadcaster struct {
	redisClient *redis.Client
	sessionID   string
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster for one game session.
func NewBroadcaster(redisClient *redis.Client, sessionID string, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		sessionID:   sessionID,
		logger:      logger,
	}
}

// PublishInventoryChanged publishes an inventory.changed event
func (b *Broadcaster) PublishInventoryChanged(ctx context.Context) error {
	return b.publish(ctx, Event{Type: EventTypeInventoryChanged, SessionID: b.sessionID})
}

// PublishContainerChanged publishes a container.changed event
func (b *Broadcaster) PublishContainerChanged(ctx context.Context, containerID string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeContainerChanged,
		SessionID: b.sessionID,
		Data:      map[string]any{"container_id": containerID},
	})
}

// PublishStatChanged publishes a stat.changed event
func (b *Broadcaster) PublishStatChanged(ctx context.Context, stat string, value int) error {
	return b.publish(ctx, Event{
		Type:      EventTypeStatChanged,
		SessionID: b.sessionID,
		Data:      map[string]any{"stat": stat, "value": value},
	})
}

// PublishGameSaved publishes a game.saved event
func (b *Broadcaster) PublishGameSaved(ctx context.Context, baseName string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeGameSaved,
		SessionID: b.sessionID,
		Data:      map[string]any{"name": baseName},
	})
}

// PublishGameLoaded publishes a game.loaded event
func (b *Broadcaster) PublishGameLoaded(ctx context.Context, baseName string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeGameLoaded,
		SessionID: b.sessionID,
		Data:      map[string]any{"name": baseName},
	})
}

// Channel returns the pub/sub channel name for a session.
func Channel(sessionID string) string {
	return fmt.Sprintf("game-events:%s", sessionID)
}

func (b *Broadcaster) publish(ctx context.Context, event Event) error {
	channel := Channel(b.sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
