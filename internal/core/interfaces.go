package core

import (
	"context"
	"time"

	"github.com/target/alert-dispatch/internal/domain/model"
)

// This file contains the ports between the dispatch core and its remote
// collaborators (hexagonal architecture). Service implementations should
// depend on these interfaces, not concrete implementations.

// KeyManagement is the remote encrypt/decrypt primitive guarding credential
// bundles. The dispatch core never holds a symmetric key itself.
type KeyManagement interface {
	// Encrypt encrypts plaintext under the key identified by alias.
	Encrypt(ctx context.Context, plaintext []byte, keyAlias string) ([]byte, error)
	// Decrypt decrypts ciphertext produced by Encrypt.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// ObjectStore is the remote blob storage boundary used for encrypted
// credential bundles and the object-storage output variant.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte) error
	// Get returns the object body, or an error satisfying errors.Is(err,
	// ErrObjectNotFound) when the key is absent.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// TopicPublisher publishes a message to a notification topic.
type TopicPublisher interface {
	Publish(ctx context.Context, topic string, subject string, message []byte) error
}

// QueuePublisher enqueues a message onto a named queue.
type QueuePublisher interface {
	Enqueue(ctx context.Context, queue string, message []byte) error
}

// StreamPublisher appends a record onto a named delivery stream.
type StreamPublisher interface {
	PutRecord(ctx context.Context, stream string, record []byte) error
}

// LogEventWriter appends an event to a named log group.
type LogEventWriter interface {
	WriteEvent(ctx context.Context, logGroup string, event []byte) error
}

// FunctionInvoker asynchronously invokes a managed function with a payload.
type FunctionInvoker interface {
	Invoke(ctx context.Context, function string, qualifier string, payload []byte) error
}

// OutputConfigStore persists the per-deployment output configuration.
type OutputConfigStore interface {
	Load(ctx context.Context) (model.OutputConfig, error)
	// ReplaceService swaps the full descriptor sequence for one service key.
	ReplaceService(ctx context.Context, serviceKey string, descriptors []string) error
}

// CacheRepository defines generic byte cache operations.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil with no error on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) (bool, error)
}
