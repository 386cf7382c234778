package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the OpenRouter-compatible API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTTL bounds how long a fetched catalog is served without a
	// refresh.
	DefaultTTL = time.Hour

	defaultFetchTimeout = 30 * time.Second
)

// Client fetches and caches the remote model catalog. The cache is either
// empty or fully populated from one successful fetch; a failed refresh
// never partially overwrites it. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	ttl        time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	cache     map[string]Model
	fetchedAt time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the catalog endpoint root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTTL overrides the cache time-to-live.
func WithTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithHTTPClient overrides the HTTP client used for fetches.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a catalog client authenticated with the given key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		ttl: DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// modelsResponse is the wire shape of the models listing endpoint.
type modelsResponse struct {
	Data []Model `json:"data"`
}

// Models returns the catalog keyed by model identifier. A valid cache
// (non-empty and younger than the TTL) is returned without network access;
// otherwise one fetch runs, with concurrent callers coalesced into a single
// request. The returned map is owned by the cache and must not be modified.
func (c *Client) Models(ctx context.Context) (map[string]Model, error) {
	if models, ok := c.cached(); ok {
		return models, nil
	}

	result, err, _ := c.group.Do("models", func() (any, error) {
		// Another caller in the same flight may have refreshed already.
		if models, ok := c.cached(); ok {
			return models, nil
		}

		models, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache = models
		c.fetchedAt = time.Now()
		c.mu.Unlock()

		return models, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]Model), nil
}

// Get returns one model by identifier, fetching the catalog if needed.
func (c *Client) Get(ctx context.Context, id string) (*Model, error) {
	models, err := c.Models(ctx)
	if err != nil {
		return nil, err
	}
	model, ok := models[id]
	if !ok {
		return nil, nil
	}
	return &model, nil
}

// ClearCache resets the cache to empty, forcing a refetch on the next call.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = nil
	c.fetchedAt = time.Time{}
}

// CacheAge returns the time since the last successful fetch, or zero if the
// cache was never populated.
func (c *Client) CacheAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return 0
	}
	return time.Since(c.fetchedAt)
}

// CacheSize returns the number of cached models.
func (c *Client) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// cached returns the cache when it is valid: non-empty and within the TTL.
func (c *Client) cached() (map[string]Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.cache) == 0 {
		return nil, false
	}
	if time.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.cache, true
}

// fetch performs one authenticated GET against the models listing endpoint.
func (c *Client) fetch(ctx context.Context) (map[string]Model, error) {
	endpoint := c.baseURL + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &DiscoveryError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DiscoveryError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DiscoveryError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var parsed modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &DiscoveryError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(parsed.Data) == 0 {
		return nil, &DiscoveryError{Endpoint: endpoint, Err: fmt.Errorf("catalog listing is empty")}
	}

	models := make(map[string]Model, len(parsed.Data))
	for _, model := range parsed.Data {
		if model.ID == "" {
			return nil, &DiscoveryError{Endpoint: endpoint, Err: fmt.Errorf("catalog entry missing id")}
		}
		models[model.ID] = model
	}
	return models, nil
}
