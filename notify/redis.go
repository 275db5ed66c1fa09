package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
)

// Channel carries admin notifications between instances.
const Channel = "notifications:admin"

// RedisBridge publishes through redis so every instance's hub receives the
// event, including the publishing one.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisBridge(client *redis.Client, hub *Hub) *RedisBridge {
	return &RedisBridge{client: client, hub: hub}
}

func (b *RedisBridge) Publish(ctx context.Context, payload []byte) error {
	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Run forwards channel messages to the local hub until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, Channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				logger.Log.Warn("notification subscription closed", zap.String("channel", Channel))
				return
			}
			b.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
