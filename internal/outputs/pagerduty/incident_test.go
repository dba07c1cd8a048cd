package pagerduty

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/alert-dispatch/internal/outputs"
)

func TestDispatchIncidentOpensIncident(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotFrom string
		payload map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.Header.Get("From")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	creds := staticCreds{"pagerduty-incident/unit_test_pagerduty-incident": {
		"api":        server.URL,
		"token":      "mocked_token",
		"service_id": "SERVICEID123",
		"email_from": "user@example.com",
	}}
	output := NewIncident(outputs.Options{Creds: creds})

	ok := output.Dispatch(context.Background(), testAlert(), "unit_test_pagerduty-incident")

	require.True(t, ok)
	assert.Equal(t, "/incidents", gotPath)
	assert.Equal(t, "Token token=mocked_token", gotAuth)
	assert.Equal(t, "user@example.com", gotFrom)

	incident, ok2 := payload["incident"].(map[string]any)
	require.True(t, ok2)
	assert.Equal(t, "incident", incident["type"])
	assert.Equal(t, "Security alert: duplicated_koalas", incident["title"])

	service, ok3 := incident["service"].(map[string]any)
	require.True(t, ok3)
	assert.Equal(t, "SERVICEID123", service["id"])
	assert.Equal(t, "service_reference", service["type"])

	body, ok4 := incident["body"].(map[string]any)
	require.True(t, ok4)
	// Without a rule description the summary doubles as the details.
	assert.Equal(t, "Security alert: duplicated_koalas", body["details"])
}

func TestDispatchIncidentRequiresRequesterIdentity(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	creds := staticCreds{"pagerduty-incident/unit_test_pagerduty-incident": {
		"api":        server.URL,
		"token":      "mocked_token",
		"service_id": "SERVICEID123",
	}}
	output := NewIncident(outputs.Options{Creds: creds})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "unit_test_pagerduty-incident"))
	assert.False(t, called)
}

func TestIncidentPropertiesCarryAPIDefault(t *testing.T) {
	props := NewIncident(outputs.Options{}).UserDefinedProperties()

	require.Contains(t, props, "api")
	assert.Equal(t, defaultIncidentsAPI, props["api"].Value)
	assert.True(t, props["api"].CredRequirement)
	for _, name := range []string{"token", "service_id", "email_from"} {
		require.Contains(t, props, name, "property %s", name)
		assert.True(t, props[name].CredRequirement, "property %s", name)
	}
}
