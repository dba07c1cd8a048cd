package outputs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCredStore is a minimal in-memory CredentialStore.
type fakeCredStore struct {
	bundles map[string]map[string]string
	err     error
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{bundles: make(map[string]map[string]string)}
}

func (f *fakeCredStore) Store(_ context.Context, serviceKey, descriptor string, creds map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.bundles[serviceKey+"/"+descriptor] = creds
	return nil
}

func (f *fakeCredStore) Retrieve(_ context.Context, serviceKey, descriptor string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	bundle, ok := f.bundles[serviceKey+"/"+descriptor]
	if !ok {
		return nil, errors.New("no such bundle")
	}
	return bundle, nil
}

func newTestBase(t *testing.T, opts Options) Base {
	t.Helper()
	if opts.ServiceKey == "" {
		opts.ServiceKey = "test_service"
	}
	return NewBase(opts)
}

func TestSecretsBucketName(t *testing.T) {
	assert.Equal(t, "123456789012.us-east-1.alert-dispatch.secrets",
		SecretsBucket("123456789012", "us-east-1"))
}

func TestBaseCredentialName(t *testing.T) {
	base := newTestBase(t, Options{})
	assert.Equal(t, "test_service/creds", base.CredentialName("creds"))
}

func TestBaseValidateResponse(t *testing.T) {
	base := newTestBase(t, Options{})

	assert.True(t, base.ValidateResponse(200))
	assert.True(t, base.ValidateResponse(204))
	assert.True(t, base.ValidateResponse(299))
	assert.False(t, base.ValidateResponse(199))
	assert.False(t, base.ValidateResponse(300))
	assert.False(t, base.ValidateResponse(440))
	assert.False(t, base.ValidateResponse(500))
}

func TestBaseRetryableErrorsDefault(t *testing.T) {
	base := newTestBase(t, Options{})

	kinds := base.RetryableErrors()
	require.Len(t, kinds, 2)
	assert.Contains(t, kinds, ErrRequestFailure)
	assert.Contains(t, kinds, ErrRequestTimeout)
}

func TestBaseRetryableErrorsWithExtras(t *testing.T) {
	extraOne := errors.New("throttled")
	extraTwo := errors.New("connection reset")

	base := newTestBase(t, Options{ExtraRetryable: []error{extraOne, extraTwo}})

	kinds := base.RetryableErrors()
	require.Len(t, kinds, 4)
	assert.Contains(t, kinds, ErrRequestFailure)
	assert.Contains(t, kinds, ErrRequestTimeout)
	assert.Contains(t, kinds, extraOne)
	assert.Contains(t, kinds, extraTwo)
}

func TestBaseRetryableErrorsDedupesBaseKinds(t *testing.T) {
	// Extending with a kind already in the base set must not duplicate it.
	base := newTestBase(t, Options{ExtraRetryable: []error{ErrRequestTimeout, ErrRequestTimeout}})

	kinds := base.RetryableErrors()
	require.Len(t, kinds, 2)
	assert.Contains(t, kinds, ErrRequestFailure)
	assert.Contains(t, kinds, ErrRequestTimeout)
}

func TestIsRetryable(t *testing.T) {
	kinds := baseRetryableErrors()

	assert.True(t, IsRetryable(ErrRequestFailure, kinds))
	assert.True(t, IsRetryable(ErrRequestTimeout, kinds))
	wrapped := errors.Join(errors.New("context"), ErrRequestTimeout)
	assert.True(t, IsRetryable(wrapped, kinds))
	assert.False(t, IsRetryable(errors.New("bad descriptor"), kinds))
	assert.False(t, IsRetryable(nil, kinds))
}

func TestBaseLoadAndStoreCredentials(t *testing.T) {
	store := newFakeCredStore()
	base := newTestBase(t, Options{Creds: store})

	require.NoError(t, base.StoreCredentials(context.Background(), "creds",
		map[string]string{"url": "https://example.com/hook"}))

	creds, err := base.LoadCredentials(context.Background(), "creds")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", creds["url"])
}

func TestBaseCredentialsWithoutStore(t *testing.T) {
	base := newTestBase(t, Options{})

	_, err := base.LoadCredentials(context.Background(), "creds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test_service/creds")

	err = base.StoreCredentials(context.Background(), "creds", map[string]string{})
	require.Error(t, err)
}

func TestBaseLogOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	base := newTestBase(t, Options{Logger: logger})

	base.LogOutcome(context.Background(), true, "creds")
	assert.Contains(t, buf.String(), "successfully sent alert")
	assert.Contains(t, buf.String(), `"service":"test_service"`)
	assert.Contains(t, buf.String(), `"descriptor":"creds"`)

	buf.Reset()
	base.LogOutcome(context.Background(), false, "creds")
	assert.Contains(t, buf.String(), "failed to send alert")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
