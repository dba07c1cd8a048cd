package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher implements the delivery-stream boundary on a Redis
// stream. It serves deployments that archive alert records with local stream
// consumers instead of a managed delivery stream.
type RedisStreamPublisher struct {
	client redis.UniversalClient
}

// NewRedisStreamPublisher creates a new RedisStreamPublisher.
func NewRedisStreamPublisher(client redis.UniversalClient) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client}
}

// PutRecord appends the record onto the named stream.
func (p *RedisStreamPublisher) PutRecord(ctx context.Context, stream string, record []byte) error {
	if stream == "" {
		return errors.New("stream name is required")
	}
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"record": record},
	}).Err()
	if err != nil {
		return fmt.Errorf("put record onto %s: %w", stream, err)
	}
	return nil
}
