package data

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/domain/model"
)

const outputConfigCacheKey = "alert-dispatch:output-config"

// CachedOutputConfigStore wraps an OutputConfigStore with a read-through
// cache. Every write invalidates the cached copy, so the dispatch path sees
// descriptor changes within one TTL at worst and immediately within one
// process.
type CachedOutputConfigStore struct {
	store  core.OutputConfigStore
	cache  core.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedOutputConfigStore wires the cache in front of the store.
func NewCachedOutputConfigStore(
	store core.OutputConfigStore,
	cache core.CacheRepository,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedOutputConfigStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedOutputConfigStore{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Load returns the cached configuration when fresh, falling back to the
// underlying store. Cache failures degrade to direct reads, never to errors.
func (s *CachedOutputConfigStore) Load(ctx context.Context) (model.OutputConfig, error) {
	if cached, err := s.cache.Get(ctx, outputConfigCacheKey); err != nil {
		s.logger.WarnContext(ctx, "output config cache read failed", "error", err)
	} else if cached != nil {
		var cfg model.OutputConfig
		if unmarshalErr := json.Unmarshal(cached, &cfg); unmarshalErr == nil {
			return cfg, nil
		}
		s.logger.WarnContext(ctx, "output config cache entry corrupt, reloading")
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, marshalErr := json.Marshal(cfg); marshalErr == nil {
		if setErr := s.cache.Set(ctx, outputConfigCacheKey, encoded, s.ttl); setErr != nil {
			s.logger.WarnContext(ctx, "output config cache write failed", "error", setErr)
		}
	}
	return cfg, nil
}

// ReplaceService writes through to the store and invalidates the cache.
func (s *CachedOutputConfigStore) ReplaceService(ctx context.Context, serviceKey string, descriptors []string) error {
	if err := s.store.ReplaceService(ctx, serviceKey, descriptors); err != nil {
		return err
	}
	if _, err := s.cache.Delete(ctx, outputConfigCacheKey); err != nil {
		return fmt.Errorf("invalidate output config cache: %w", err)
	}
	return nil
}
