package data

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/mocks"
)

func newCachedStore(t *testing.T) (*CachedOutputConfigStore, *mocks.MockOutputConfigStore, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mocks.NewMockOutputConfigStore(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	cached := NewCachedOutputConfigStore(store, cache, time.Minute, slog.New(slog.DiscardHandler))
	return cached, store, cache
}

func TestLoadCacheMissFallsThroughAndPrimes(t *testing.T) {
	cached, store, cache := newCachedStore(t)
	cfg := model.OutputConfig{"slack": {"unit_test_channel"}}

	cache.EXPECT().Get(gomock.Any(), outputConfigCacheKey).Return(nil, nil)
	store.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	cache.EXPECT().Set(gomock.Any(), outputConfigCacheKey, gomock.Any(), time.Minute).Return(nil)

	got, err := cached.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadCacheHitSkipsStore(t *testing.T) {
	cached, _, cache := newCachedStore(t)
	cfg := model.OutputConfig{"slack": {"unit_test_channel"}}
	encoded, err := json.Marshal(cfg)
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), outputConfigCacheKey).Return(encoded, nil)

	got, err := cached.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadCacheFailureDegradesToDirectRead(t *testing.T) {
	cached, store, cache := newCachedStore(t)
	cfg := model.OutputConfig{"pagerduty": {"unit_test_pagerduty"}}

	cache.EXPECT().Get(gomock.Any(), outputConfigCacheKey).Return(nil, errors.New("redis down"))
	store.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	cache.EXPECT().Set(gomock.Any(), outputConfigCacheKey, gomock.Any(), time.Minute).
		Return(errors.New("redis down"))

	got, err := cached.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadCorruptCacheEntryReloads(t *testing.T) {
	cached, store, cache := newCachedStore(t)
	cfg := model.OutputConfig{"slack": {"unit_test_channel"}}

	cache.EXPECT().Get(gomock.Any(), outputConfigCacheKey).Return([]byte("{not json"), nil)
	store.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	cache.EXPECT().Set(gomock.Any(), outputConfigCacheKey, gomock.Any(), time.Minute).Return(nil)

	got, err := cached.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadStoreFailurePropagates(t *testing.T) {
	cached, store, cache := newCachedStore(t)

	cache.EXPECT().Get(gomock.Any(), outputConfigCacheKey).Return(nil, nil)
	store.EXPECT().Load(gomock.Any()).Return(nil, errors.New("db unavailable"))

	_, err := cached.Load(context.Background())

	require.Error(t, err)
}

func TestReplaceServiceWritesThroughAndInvalidates(t *testing.T) {
	cached, store, cache := newCachedStore(t)
	descriptors := []string{"unit_test_channel", "test_channel"}

	store.EXPECT().ReplaceService(gomock.Any(), "slack", descriptors).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), outputConfigCacheKey).Return(true, nil)

	require.NoError(t, cached.ReplaceService(context.Background(), "slack", descriptors))
}

func TestReplaceServiceStoreFailureSkipsInvalidation(t *testing.T) {
	cached, store, _ := newCachedStore(t)

	store.EXPECT().ReplaceService(gomock.Any(), "slack", gomock.Any()).
		Return(errors.New("unique violation"))

	require.Error(t, cached.ReplaceService(context.Background(), "slack", []string{"dup"}))
}

func TestReplaceServiceInvalidationFailureSurfaces(t *testing.T) {
	cached, store, cache := newCachedStore(t)

	store.EXPECT().ReplaceService(gomock.Any(), "slack", gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), outputConfigCacheKey).
		Return(false, errors.New("redis down"))

	err := cached.ReplaceService(context.Background(), "slack", []string{"test_channel"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalidate output config cache")
}
