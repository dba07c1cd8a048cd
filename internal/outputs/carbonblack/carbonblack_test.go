package carbonblack

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
		ID:        "26e171cb-ea41-4021-8afe-12eb84b76214",
		RuleName:  "cb_binarystore_file_added",
		CreatedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Record: map[string]any{
			"md5":       "9AFD3AF9D4A8CCBD2D59710B0A9A3A4B",
			"file_path": "/tmp/5DA/AD8/file.zip",
		},
	}
}

func TestDispatchBansRecordHash(t *testing.T) {
	var (
		gotPath  string
		gotToken string
		payload  map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Auth-Token")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	creds := staticCreds{"carbonblack/unit_test_carbonblack": {
		"url":   server.URL,
		"token": "mocked_cb_token",
	}}
	output := New(outputs.Options{Creds: creds})

	ok := output.Dispatch(context.Background(), testAlert(), "unit_test_carbonblack")

	require.True(t, ok)
	assert.Equal(t, "/api/v1/banning/blacklist", gotPath)
	assert.Equal(t, "mocked_cb_token", gotToken)
	assert.Equal(t, "9AFD3AF9D4A8CCBD2D59710B0A9A3A4B", payload["md5hash"])
	assert.Equal(t, true, payload["enabled"])
	text, _ := payload["text"].(string)
	assert.Contains(t, text, "cb_binarystore_file_added")
}

func TestDispatchFailsWithoutHashToBan(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	creds := staticCreds{"carbonblack/unit_test_carbonblack": {
		"url":   server.URL,
		"token": "mocked_cb_token",
	}}
	output := New(outputs.Options{Creds: creds})

	alert := testAlert()
	delete(alert.Record, "md5")

	assert.False(t, output.Dispatch(context.Background(), alert, "unit_test_carbonblack"))
	assert.False(t, called)
}

func TestDispatchFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	creds := staticCreds{"carbonblack/unit_test_carbonblack": {
		"url":   server.URL,
		"token": "expired_token",
	}}
	output := New(outputs.Options{Creds: creds})

	assert.False(t, output.Dispatch(context.Background(), testAlert(), "unit_test_carbonblack"))
}

func TestUserDefinedPropertiesAreVaultBound(t *testing.T) {
	props := New(outputs.Options{}).UserDefinedProperties()

	require.Contains(t, props, "descriptor")
	assert.False(t, props["descriptor"].CredRequirement)
	for _, name := range []string{"url", "token"} {
		require.Contains(t, props, name, "property %s", name)
		assert.True(t, props[name].CredRequirement, "property %s", name)
		assert.True(t, props[name].MaskInput, "property %s", name)
	}
}
