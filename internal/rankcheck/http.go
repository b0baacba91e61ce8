package rankcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/feedview/internal/domain/types"
)

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// checkHealth verifies the service answers on /healthz.
func (c *HTTPClient) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: healthz returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// posts fetches the service's displayed posts under order.
func (c *HTTPClient) posts(ctx context.Context, order string) (types.PostsResponse, error) {
	target := c.baseURL + "/api/posts?sort=" + url.QueryEscape(order)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return types.PostsResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return types.PostsResponse{}, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return types.PostsResponse{}, fmt.Errorf("%w: posts returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out types.PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.PostsResponse{}, fmt.Errorf("failed to decode posts: %w", err)
	}
	if out.Loading {
		return types.PostsResponse{}, ErrServiceLoading
	}
	return out, nil
}
