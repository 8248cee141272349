package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Publisher pushes messages to a per-user Redis pub/sub channel for live
// clients (websocket gateways, mobile push relays).
type Publisher struct {
	client *redis.Client
	prefix string
}

func NewPublisher(client *redis.Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: prefix}
}

func (p *Publisher) Name() string { return "redis" }

func (p *Publisher) Channel(userID uint) string {
	return fmt.Sprintf("%s:user:%d", p.prefix, userID)
}

func (p *Publisher) Deliver(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(m.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
