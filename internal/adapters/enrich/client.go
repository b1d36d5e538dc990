// Package enrich decorates evaluations with player profiles from the
// balldontlie API. It never influences evaluation results.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/betsafe/pkg/logger"
	"github.com/okian/betsafe/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.balldontlie.io/v1"
	defaultTimeout = 2 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client looks up player profiles. Concurrent lookups of the same name share
// one upstream call and successful profiles are memoised for the process
// lifetime. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	logger  logger.Logger

	group singleflight.Group

	mu   sync.RWMutex
	memo map[string]Profile
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		http:    &http.Client{},
		memo:    make(map[string]Profile),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("enrich")
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Lookup returns the profile for name, using the memo when possible.
func (c *Client) Lookup(ctx context.Context, name string) (Profile, error) {
	if !c.Enabled() {
		return Profile{}, ErrDisabled
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Profile{}, ErrEmptyQuery
	}

	c.mu.RLock()
	p, ok := c.memo[key]
	c.mu.RUnlock()
	if ok {
		metrics.RecordEnrichCacheHit()
		return p, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// The shared call outlives any single caller's ctx.
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		p, err := c.SearchPlayer(reqCtx, name)
		if err != nil {
			return Profile{}, err
		}
		c.mu.Lock()
		c.memo[key] = p
		c.mu.Unlock()
		return p, nil
	})

	select {
	case <-ctx.Done():
		return Profile{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Profile{}, res.Err
		}
		return res.Val.(Profile), nil
	}
}

// SearchPlayer queries the upstream search endpoint and returns the first hit.
func (c *Client) SearchPlayer(ctx context.Context, name string) (Profile, error) {
	if !c.Enabled() {
		return Profile{}, ErrDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrEmptyQuery
	}

	start := time.Now()
	p, err := c.search(ctx, name)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	switch {
	case err == nil:
		metrics.RecordEnrichRequest("ok", latencyMs)
	case errors.Is(err, ErrNoProfile):
		metrics.RecordEnrichRequest("not_found", latencyMs)
	default:
		metrics.RecordEnrichRequest("error", latencyMs)
		metrics.RecordErrorByComponent("enrich", "upstream")
		c.logger.Debug(ctx, "profile lookup failed", logger.String("player", name), logger.Error(err))
	}
	return p, err
}

func (c *Client) search(ctx context.Context, name string) (Profile, error) {
	endpoint := c.baseURL + "/players?search=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Profile{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return Profile{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if len(out.Data) == 0 {
		return Profile{}, ErrNoProfile
	}
	return out.Data[0], nil
}
