package pivot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrUnauthorized marks an authorization failure (HTTP 401). Callers
// must not retry it automatically.
var ErrUnauthorized = errors.New("pivot: unauthorized")

// ErrStaleResponse marks a response that arrived for a superseded query
// identity and was discarded.
var ErrStaleResponse = errors.New("pivot: stale response")

// Response is the board query endpoint's payload.
type Response struct {
	Assets  []Row     `json:"assets"`
	Groups  []Group   `json:"groups,omitempty"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Sort    string    `json:"sort"`
	Dir     Direction `json:"dir"`
	Phase   Phase     `json:"phase"`
}

// Coordinator owns exactly one logical current query at a time,
// identified by QueryIdentity. Issuing a new identity cancels the
// in-flight request for the old one; a late response for a stale
// identity is discarded on arrival even if transport cancellation did
// not catch it. The last successful result stays available (flagged
// stale) while a new identity is loading.
type Coordinator struct {
	baseURL string
	token   string
	client  *http.Client

	mu         sync.Mutex
	current    QueryIdentity
	hasCurrent bool
	cancel     context.CancelFunc
	result     *Response
	resultID   QueryIdentity
	stale      bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Coordinator) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Coordinator) { c.client = client }
}

// NewCoordinator creates a coordinator for the board API at baseURL.
func NewCoordinator(baseURL string, opts ...Option) *Coordinator {
	c := &Coordinator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch makes id the current query and retrieves its result. Re-issuing
// the identity that already produced the held result returns it without
// a request. If a newer identity supersedes this fetch before its
// response is applied, Fetch reports ErrStaleResponse.
func (c *Coordinator) Fetch(ctx context.Context, id QueryIdentity) (*Response, error) {
	c.mu.Lock()
	if c.hasCurrent && c.current == id && c.result != nil && c.resultID == id {
		res := c.result
		c.mu.Unlock()
		return res, nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.current = id
	c.hasCurrent = true
	c.cancel = cancel
	c.stale = c.result != nil
	c.mu.Unlock()

	res, err := c.get(fetchCtx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasCurrent || c.current != id {
		return nil, fmt.Errorf("pivot: fetch %s: %w", id, ErrStaleResponse)
	}
	cancel()
	c.cancel = nil
	if err != nil {
		return nil, err
	}
	c.result = res
	c.resultID = id
	c.stale = false
	return res, nil
}

// Result returns the last successfully applied response and whether it
// is stale relative to the current query identity.
func (c *Coordinator) Result() (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.stale
}

// Cancel aborts any in-flight request and clears the current identity.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.hasCurrent = false
}

func (c *Coordinator) get(ctx context.Context, id QueryIdentity) (*Response, error) {
	endpoint := fmt.Sprintf("%s/api/projects/%s/assets?%s",
		c.baseURL, url.PathEscape(id.Project), id.Values().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("pivot: fetch %s: %w", id, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pivot: fetch %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("pivot: fetch %s: %w", id, ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("pivot: fetch %s: status %d", id, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pivot: fetch %s: decode: %w", id, err)
	}
	return &out, nil
}
