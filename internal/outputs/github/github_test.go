package github

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
		ID:        "cd12dc55-a3ad-4b0e-b408-cbcf1ebf4c78",
		RuleName:  "root_account_usage",
		CreatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Record:    map[string]any{"account": "root", "region": "us-east-1"},
	}
}

func TestDispatchOpensIssue(t *testing.T) {
	var (
		gotPath string
		gotUser string
		payload map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	creds := staticCreds{"github/unit_test_repo": {
		"repository":   "target/security-alerts",
		"api_url":      server.URL,
		"username":     "alert-bot",
		"access_token": "ghp_token",
	}}
	output := New(outputs.Options{Creds: creds})

	ok := output.Dispatch(context.Background(), testAlert(), "unit_test_repo")

	require.True(t, ok)
	assert.Equal(t, "/repos/target/security-alerts/issues", gotPath)
	assert.Equal(t, "alert-bot", gotUser)
	assert.Equal(t, "Security alert: root_account_usage", payload["title"])

	body, _ := payload["body"].(string)
	assert.Contains(t, body, "cd12dc55-a3ad-4b0e-b408-cbcf1ebf4c78")
	assert.Contains(t, body, `"account": "root"`)
}

func TestDispatchFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	creds := staticCreds{"github/unit_test_repo": {
		"repository": "target/security-alerts",
		"api_url":    server.URL,
	}}
	output := New(outputs.Options{Creds: creds})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "unit_test_repo"))
}

func TestDispatchFailsWithoutCredentials(t *testing.T) {
	output := New(outputs.Options{Creds: staticCreds{}})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "missing"))
}

func TestUserDefinedPropertiesIncludeDescriptor(t *testing.T) {
	props := New(outputs.Options{}).UserDefinedProperties()

	require.Contains(t, props, "descriptor")
	require.Contains(t, props, "repository")
	require.Contains(t, props, "username")
	require.Contains(t, props, "access_token")
	assert.Equal(t, "https://api.github.com", props["api_url"].Value)
	assert.True(t, props["access_token"].MaskInput)
}
