package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/mocks"
	"github.com/target/alert-dispatch/internal/outputs"
)

// recordingDispatcher counts sends and remembers the alerts it saw.
type recordingDispatcher struct {
	outputs.Base

	mu        sync.Mutex
	succeed   bool
	delivered []*model.Alert
}

func (d *recordingDispatcher) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty("descriptor", ""),
	}
}

func (d *recordingDispatcher) Dispatch(_ context.Context, alert *model.Alert, _ string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, alert)
	return d.succeed
}

func recordingFactory(d *recordingDispatcher) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		d.Base = outputs.NewBase(opts)
		return d
	}
}

func testRegistry(t *testing.T, dispatchers map[string]*recordingDispatcher) *outputs.Registry {
	t.Helper()
	registry := outputs.NewRegistry(slog.New(slog.DiscardHandler))
	for key, d := range dispatchers {
		require.NoError(t, registry.Register(key, recordingFactory(d)))
	}
	return registry
}

func testAlert() *model.Alert {
	return &model.Alert{
		ID:        "a31d1a0c-448c-4a2e-b123-23a8dcd3c5ae",
		RuleName:  "intrusion_detected",
		CreatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Record:    map[string]any{"source_ip": "10.0.0.8"},
	}
}

func expectLoad(store *mocks.MockOutputConfigStore, cfg model.OutputConfig) {
	store.EXPECT().Load(gomock.Any()).Return(cfg, nil).AnyTimes()
}

func newTestRouter(t *testing.T, registry *outputs.Registry, store *mocks.MockOutputConfigStore, recordPath string) *Router {
	t.Helper()
	router, err := NewRouter(RouterOptions{
		Registry:    registry,
		ConfigStore: store,
		Logger:      slog.New(slog.DiscardHandler),
		RecordPath:  recordPath,
	})
	require.NoError(t, err)
	return router
}

func TestNewRouterValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockOutputConfigStore(ctrl)

	_, err := NewRouter(RouterOptions{ConfigStore: store})
	require.Error(t, err)

	_, err = NewRouter(RouterOptions{Registry: outputs.NewRegistry(nil)})
	require.Error(t, err)

	_, err = NewRouter(RouterOptions{
		Registry:    outputs.NewRegistry(nil),
		ConfigStore: store,
		RecordPath:  "not a valid [expression",
	})
	require.Error(t, err)
}

func TestDispatchFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slackD := &recordingDispatcher{succeed: true}
	pagerdutyD := &recordingDispatcher{succeed: false}
	registry := testRegistry(t, map[string]*recordingDispatcher{
		"slack":     slackD,
		"pagerduty": pagerdutyD,
	})

	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{})

	router := newTestRouter(t, registry, store, "")
	result, err := router.Dispatch(context.Background(), testAlert(), []Target{
		{ServiceKey: "slack", Descriptor: "unit_test_channel"},
		{ServiceKey: "pagerduty", Descriptor: "unit_test_pagerduty"},
	})

	require.NoError(t, err)
	assert.Equal(t, []Target{{ServiceKey: "slack", Descriptor: "unit_test_channel"}}, result.Succeeded)
	assert.Equal(t, []Target{{ServiceKey: "pagerduty", Descriptor: "unit_test_pagerduty"}}, result.Failed)
	assert.Empty(t, result.Skipped)
	assert.Len(t, slackD.delivered, 1)
	assert.Len(t, pagerdutyD.delivered, 1)
}

func TestDispatchSkipsUnknownService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slackD := &recordingDispatcher{succeed: true}
	registry := testRegistry(t, map[string]*recordingDispatcher{"slack": slackD})

	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{})

	router := newTestRouter(t, registry, store, "")
	result, err := router.Dispatch(context.Background(), testAlert(), []Target{
		{ServiceKey: "onelogin", Descriptor: "unit_test"},
		{ServiceKey: "slack", Descriptor: "unit_test_channel"},
	})

	require.NoError(t, err)
	// The unknown key never aborts delivery to valid destinations.
	assert.Len(t, result.Succeeded, 1)
	assert.Equal(t, []Target{{ServiceKey: "onelogin", Descriptor: "unit_test"}}, result.Skipped)
}

func TestDispatchRejectsInvalidAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := testRegistry(t, nil)
	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{})

	router := newTestRouter(t, registry, store, "")
	_, err := router.Dispatch(context.Background(), &model.Alert{}, nil)

	require.Error(t, err)
}

func TestDispatchAllUsesPersistedConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slackD := &recordingDispatcher{succeed: true}
	registry := testRegistry(t, map[string]*recordingDispatcher{"slack": slackD})

	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{"slack": {"unit_test_channel", "test_channel"}})

	router := newTestRouter(t, registry, store, "")
	result, err := router.DispatchAll(context.Background(), testAlert())

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	assert.Len(t, slackD.delivered, 2)
}

func TestDispatchAllReadsConfigOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slackD := &recordingDispatcher{succeed: true}
	registry := testRegistry(t, map[string]*recordingDispatcher{"slack": slackD})

	store := mocks.NewMockOutputConfigStore(ctrl)
	store.EXPECT().
		Load(gomock.Any()).
		Return(model.OutputConfig{"slack": {"unit_test_channel"}}, nil).
		Times(1)

	router := newTestRouter(t, registry, store, "")
	result, err := router.DispatchAll(context.Background(), testAlert())

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 1)
}

func TestDispatchNarrowsRecordWithPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slackD := &recordingDispatcher{succeed: true}
	registry := testRegistry(t, map[string]*recordingDispatcher{"slack": slackD})

	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{})

	alert := testAlert()
	alert.Record = map[string]any{
		"detail": map[string]any{"source_ip": "10.0.0.8"},
		"noise":  "dropped",
	}

	router := newTestRouter(t, registry, store, "detail")
	_, err := router.Dispatch(context.Background(), alert, []Target{
		{ServiceKey: "slack", Descriptor: "unit_test_channel"},
	})

	require.NoError(t, err)
	require.Len(t, slackD.delivered, 1)
	assert.Equal(t, map[string]any{"source_ip": "10.0.0.8"}, slackD.delivered[0].Record)
	// The caller's alert is untouched.
	assert.Contains(t, alert.Record, "noise")
}

func TestDispatchRecordPathMustSelectObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := testRegistry(t, nil)
	store := mocks.NewMockOutputConfigStore(ctrl)
	expectLoad(store, model.OutputConfig{})

	alert := testAlert()
	alert.Record = map[string]any{"detail": "just a string"}

	router := newTestRouter(t, registry, store, "detail")
	_, err := router.Dispatch(context.Background(), alert, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not select an object")
}

func TestTargetString(t *testing.T) {
	target := Target{ServiceKey: "slack", Descriptor: "unit_test_channel"}
	assert.Equal(t, "slack:unit_test_channel", target.String())
}
