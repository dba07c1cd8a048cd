package pagerduty

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

type staticCreds map[string]map[string]string

func (c staticCreds) Store(_ context.Context, serviceKey, descriptor string, creds map[string]string) error {
	c[serviceKey+"/"+descriptor] = creds
	return nil
}

func (c staticCreds) Retrieve(_ context.Context, serviceKey, descriptor string) (map[string]string, error) {
	creds, ok := c[serviceKey+"/"+descriptor]
	if !ok {
		return nil, errors.New("no such bundle")
	}
	return creds, nil
}

func testAlert() *model.Alert {
	return &model.Alert{
		ID:        "5bb29e05-9364-4f26-9627-2b2b0e4bb1e6",
		RuleName:  "duplicated_koalas",
		Severity:  "HIGH",
		CreatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Record:    map[string]any{"koala_count": 2},
	}
}

func capturePayload(t *testing.T, payload *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, payload))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestDispatchV1TriggersEvent(t *testing.T) {
	var payload map[string]any
	server := capturePayload(t, &payload)
	defer server.Close()

	creds := staticCreds{"pagerduty/unit_test_pagerduty": {
		"url":         server.URL,
		"service_key": "mocked_service_key",
	}}
	output := New(outputs.Options{Creds: creds, FunctionName: "alert-dispatcher"})

	ok := output.Dispatch(context.Background(), testAlert(), "unit_test_pagerduty")

	require.True(t, ok)
	assert.Equal(t, "mocked_service_key", payload["service_key"])
	assert.Equal(t, "trigger", payload["event_type"])
	assert.Equal(t, "Security alert: duplicated_koalas", payload["description"])
	assert.Equal(t, "alert-dispatcher", payload["client"])
	assert.Contains(t, payload, "details")
}

func TestDispatchV2EnqueuesEvent(t *testing.T) {
	var payload map[string]any
	server := capturePayload(t, &payload)
	defer server.Close()

	creds := staticCreds{"pagerduty-v2/unit_test_pagerduty-v2": {
		"url":         server.URL,
		"routing_key": "mocked_routing_key",
	}}
	output := NewV2(outputs.Options{Creds: creds})

	ok := output.Dispatch(context.Background(), testAlert(), "unit_test_pagerduty-v2")

	require.True(t, ok)
	assert.Equal(t, "mocked_routing_key", payload["routing_key"])
	assert.Equal(t, "trigger", payload["event_action"])

	inner, ok2 := payload["payload"].(map[string]any)
	require.True(t, ok2)
	assert.Equal(t, "Security alert: duplicated_koalas", inner["summary"])
	assert.Equal(t, "alert-dispatch", inner["source"])
	// "HIGH" is not a valid Events API v2 severity, so it falls back.
	assert.Equal(t, "critical", inner["severity"])
}

func TestDispatchFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	creds := staticCreds{"pagerduty/unit_test_pagerduty": {
		"url":         server.URL,
		"service_key": "mocked_service_key",
	}}
	output := New(outputs.Options{Creds: creds})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "unit_test_pagerduty"))
}

func TestDispatchFailsWithoutCredentials(t *testing.T) {
	output := NewV2(outputs.Options{Creds: staticCreds{}})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "missing"))
}

func TestSeverityWhitelist(t *testing.T) {
	tcs := []struct {
		in   string
		want string
	}{
		{"critical", "critical"},
		{"Error", "error"},
		{"WARNING", "warning"},
		{"info", "info"},
		{"high", "critical"},
		{"", "critical"},
	}
	for _, tc := range tcs {
		alert := testAlert()
		alert.Severity = tc.in
		assert.Equal(t, tc.want, severityFor(alert), "severity %q", tc.in)
	}
}

func TestUserDefinedPropertiesIncludeDescriptor(t *testing.T) {
	for _, output := range []outputs.Dispatcher{New(outputs.Options{}), NewV2(outputs.Options{})} {
		props := output.UserDefinedProperties()
		require.Contains(t, props, "descriptor")
		require.Contains(t, props, "url")
	}
}
