package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisTopicPublisher implements the notification-topic boundary on Redis
// pub/sub channels. Subscribers receive a JSON envelope of subject + message.
type RedisTopicPublisher struct {
	client redis.UniversalClient
}

// NewRedisTopicPublisher creates a new RedisTopicPublisher.
func NewRedisTopicPublisher(client redis.UniversalClient) *RedisTopicPublisher {
	return &RedisTopicPublisher{client: client}
}

// Publish sends the message to every subscriber of the named channel.
func (p *RedisTopicPublisher) Publish(ctx context.Context, topic, subject string, message []byte) error {
	if topic == "" {
		return errors.New("topic name is required")
	}
	envelope, err := json.Marshal(map[string]any{
		"subject": subject,
		"message": json.RawMessage(message),
	})
	if err != nil {
		return fmt.Errorf("encode topic envelope: %w", err)
	}
	if err := p.client.Publish(ctx, topic, envelope).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
