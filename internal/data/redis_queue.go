package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisQueuePublisher implements the queue boundary on a Redis list. It
// serves deployments that drain alert queues with local workers instead of a
// managed queue service.
type RedisQueuePublisher struct {
	client redis.UniversalClient
}

// NewRedisQueuePublisher creates a new RedisQueuePublisher.
func NewRedisQueuePublisher(client redis.UniversalClient) *RedisQueuePublisher {
	return &RedisQueuePublisher{client: client}
}

// Enqueue pushes the message onto the named list.
func (p *RedisQueuePublisher) Enqueue(ctx context.Context, queue string, message []byte) error {
	if queue == "" {
		return errors.New("queue name is required")
	}
	if err := p.client.LPush(ctx, queue, message).Err(); err != nil {
		return fmt.Errorf("enqueue to %s: %w", queue, err)
	}
	return nil
}
