package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// HTTPClient wraps http.Client with a base URL and timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET request and decodes a 200 JSON body into out.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

// post sends body as JSON and decodes a 200 JSON body into out.
func (c *HTTPClient) post(ctx context.Context, path string, query url.Values, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", "probe-"+uuid.NewString())
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s: HTTP %d: %s", ErrUnexpectedStatus, req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *HTTPClient) health(ctx context.Context) error {
	if err := c.get(ctx, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

func (c *HTTPClient) predictions(ctx context.Context, limit int) ([]Prediction, error) {
	var resp struct {
		Predictions []Prediction `json:"predictions"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/predictions", q, &resp); err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

func (c *HTTPClient) evaluate(ctx context.Context, l Line) (Evaluation, error) {
	var ev Evaluation
	q := url.Values{
		"player": {l.Player},
		"line":   {strconv.FormatFloat(l.Line, 'f', -1, 64)},
	}
	err := c.get(ctx, "/evaluate", q, &ev)
	return ev, err
}

type betsResponse struct {
	Bets []Bet `json:"bets"`
}

type rankRequest struct {
	Bets []Line `json:"bets"`
}

func (c *HTTPClient) rank(ctx context.Context, lines []Line) ([]Bet, error) {
	var resp betsResponse
	if err := c.post(ctx, "/rank", nil, rankRequest{Bets: lines}, &resp); err != nil {
		return nil, err
	}
	return resp.Bets, nil
}

func (c *HTTPClient) top(ctx context.Context, lines []Line, k int) ([]Bet, error) {
	var resp betsResponse
	q := url.Values{"k": {strconv.Itoa(k)}}
	if err := c.post(ctx, "/top", q, rankRequest{Bets: lines}, &resp); err != nil {
		return nil, err
	}
	return resp.Bets, nil
}
