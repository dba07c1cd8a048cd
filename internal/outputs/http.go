package outputs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPSender performs the JSON POST shared by all HTTP-based variants and
// classifies transport failures into the retry-eligible error kinds.
type HTTPSender struct {
	client *http.Client
}

// NewHTTPSender builds a sender. A zero timeout falls back to the default.
func NewHTTPSender(client *http.Client, timeout time.Duration) *HTTPSender {
	if client == nil {
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSender{client: client}
}

// HTTPRequest describes one outbound send.
type HTTPRequest struct {
	URL     string
	Body    []byte
	Headers map[string]string
	// BasicAuthUser/BasicAuthPass set HTTP basic auth when both are non-empty.
	BasicAuthUser string
	BasicAuthPass string
}

// Send posts the request and returns the response status code. Timeouts map
// to ErrRequestTimeout; transport errors and non-2xx responses map to
// ErrRequestFailure, carrying a response excerpt for the failure log.
func (s *HTTPSender) Send(ctx context.Context, req HTTPRequest) (int, error) {
	status, _, err := s.SendForBody(ctx, req)
	return status, err
}

// SendForBody behaves like Send but additionally returns the response body
// of a successful request, for variants that need to parse it.
func (s *HTTPSender) SendForBody(ctx context.Context, req HTTPRequest) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.BasicAuthUser != "" && req.BasicAuthPass != "" {
		httpReq.SetBasicAuth(req.BasicAuthUser, req.BasicAuthPass)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return 0, nil, fmt.Errorf("%w: %w", ErrRequestTimeout, err)
		}
		return 0, nil, fmt.Errorf("%w: %w", ErrRequestFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, failureFromResponse(resp)
	}

	body, err := readBody(resp)
	return resp.StatusCode, body, err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func failureFromResponse(resp *http.Response) error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
	closeErr := resp.Body.Close()
	excerpt := strings.TrimSpace(string(body))
	err := fmt.Errorf("%w: %s: %s", ErrRequestFailure, resp.Status, excerpt)
	if readErr != nil {
		err = errors.Join(err, fmt.Errorf("read response body: %w", readErr))
	}
	if closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close response body: %w", closeErr))
	}
	return err
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return nil, errors.Join(
				fmt.Errorf("read response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return nil, fmt.Errorf("close response body: %w", err)
	}
	return body, nil
}
