package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	userChannelPrefix    = "shell:cmds:user:"    // Pub/Sub channel per user: shell:cmds:user:{owner_id}
	projectChannelPrefix = "shell:cmds:project:" // Pub/Sub channel per project: shell:cmds:project:{project_id}
)

// RedisBus fans command events out over Redis Pub/Sub so every API instance
// sees updates regardless of which one handled the write.
type RedisBus struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisBus(client *redis.Client, log *logrus.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.Publish(ctx, userChannelPrefix+ev.OwnerID, payload)
	if ev.ProjectID != "" {
		pipe.Publish(ctx, projectChannelPrefix+ev.ProjectID, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, ownerID, projectID string) (<-chan Event, func(), error) {
	channel := userChannelPrefix + ownerID
	if projectID != "" {
		channel = projectChannelPrefix + projectID
	}

	sub := b.client.Subscribe(ctx, channel)

	// Confirm the subscription before returning so publishes after Subscribe
	// are never missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan Event, 8)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WithError(err).Warn("dropping malformed command event")
				continue
			}
			select {
			case out <- ev:
			default:
				// Slow subscriber; it re-queries on the next event anyway.
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
