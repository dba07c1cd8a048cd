// Package funcinvoke invokes managed functions through their HTTP endpoints.
package funcinvoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// Invoker implements the function-invocation boundary by posting the payload
// to {baseURL}/{function}. The optional qualifier selects an alias or
// version via header.
type Invoker struct {
	baseURL string
	client  *http.Client
}

// New builds an invoker for the given function endpoint base URL.
func New(baseURL string, timeout time.Duration) (*Invoker, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("function endpoint base url %q is invalid", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Invoker{
		baseURL: u.String(),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Invoke posts the payload to the function endpoint.
func (i *Invoker) Invoke(ctx context.Context, function, qualifier string, payload []byte) error {
	if function == "" {
		return errors.New("function name is required")
	}

	endpoint, err := url.JoinPath(i.baseURL, function)
	if err != nil {
		return fmt.Errorf("build function endpoint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if qualifier != "" {
		req.Header.Set("X-Function-Qualifier", qualifier)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", function, err)
	}
	defer func() {
		// drain failure is best-effort and ignored
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invoke %s: unexpected status %s", function, resp.Status)
	}
	return nil
}
