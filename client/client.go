package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	// BaseURL is the root URL of the Helix server (e.g. "http://localhost:8080").
	BaseURL string

	// HTTPClient is an optional custom HTTP client. If nil, a default
	// client with a 30-second timeout is used.
	HTTPClient *http.Client

	// Timeout applies to individual API requests. Defaults to 30 seconds.
	Timeout time.Duration

	// CacheTTL is the freshness window for cached GET responses.
	// Defaults to 5 minutes; negative disables caching.
	CacheTTL time.Duration

	// MaxRetries bounds automatic retries of idempotent GET requests.
	// Defaults to 3 (so at most 4 attempts total).
	MaxRetries int

	// RetryWrites opts POST/PATCH requests into the retry policy.
	// Off by default: a retried write can duplicate server-side effects.
	RetryWrites bool
}

// Client is an HTTP client for the Helix regulatory intelligence API.
// All methods are safe for concurrent use.
type Client struct {
	baseURL     string
	client      *http.Client
	cache       *responseCache
	maxRetries  int
	retryWrites bool
	backoffBase time.Duration
	backoffCap  time.Duration
}

// NewClient creates a Client from the given configuration.
// Returns an error if BaseURL is empty.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("helix: BaseURL is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var cache *responseCache
	if cfg.CacheTTL >= 0 {
		ttl := cfg.CacheTTL
		if ttl == 0 {
			ttl = 5 * time.Minute
		}
		cache = newResponseCache(ttl)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	return &Client{
		baseURL:     baseURL,
		client:      httpClient,
		cache:       cache,
		maxRetries:  maxRetries,
		retryWrites: cfg.RetryWrites,
		backoffBase: time.Second,
		backoffCap:  5 * time.Second,
	}, nil
}

// Invalidate drops the cached response for one request path.
func (c *Client) Invalidate(path string) {
	c.cache.invalidate(path)
}

// InvalidateAll drops every cached response.
func (c *Client) InvalidateAll() {
	c.cache.clear()
}

// LegalCases returns all legal cases.
func (c *Client) LegalCases(ctx context.Context) ([]LegalCase, error) {
	var cases []LegalCase
	if err := c.get(ctx, "/api/legal-cases", &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// LegalCase returns one legal case by id.
func (c *Client) LegalCase(ctx context.Context, id string) (*LegalCase, error) {
	var legalCase LegalCase
	if err := c.get(ctx, "/api/legal-cases/"+url.PathEscape(id), &legalCase); err != nil {
		return nil, err
	}
	return &legalCase, nil
}

// LegalCasesByJurisdiction returns the legal cases for one jurisdiction code.
func (c *Client) LegalCasesByJurisdiction(ctx context.Context, jurisdiction string) ([]LegalCase, error) {
	var cases []LegalCase
	if err := c.get(ctx, "/api/legal-cases/jurisdiction/"+url.PathEscape(jurisdiction), &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// CreateLegalCase creates one legal case and invalidates affected reads.
func (c *Client) CreateLegalCase(ctx context.Context, legalCase LegalCase) (*LegalCase, error) {
	var created LegalCase
	if err := c.write(ctx, http.MethodPost, "/api/legal-cases", legalCase, &created); err != nil {
		return nil, err
	}
	c.cache.invalidatePrefix("/api/legal-cases")
	c.cache.invalidatePrefix("/api/dashboard")
	c.cache.invalidatePrefix("/api/admin/health")
	return &created, nil
}

// RegulatoryUpdates returns all regulatory updates.
func (c *Client) RegulatoryUpdates(ctx context.Context) ([]RegulatoryUpdate, error) {
	var updates []RegulatoryUpdate
	if err := c.get(ctx, "/api/regulatory-updates", &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// RecentRegulatoryUpdates returns the limit most recent updates.
func (c *Client) RecentRegulatoryUpdates(ctx context.Context, limit int) ([]RegulatoryUpdate, error) {
	if limit <= 0 {
		limit = 10
	}
	var envelope struct {
		Data []RegulatoryUpdate `json:"data"`
	}
	path := "/api/regulatory-updates/recent?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// RegulatoryUpdate returns one regulatory update by id.
func (c *Client) RegulatoryUpdate(ctx context.Context, id string) (*RegulatoryUpdate, error) {
	var update RegulatoryUpdate
	if err := c.get(ctx, "/api/regulatory-updates/"+url.PathEscape(id), &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// CreateRegulatoryUpdate creates one regulatory update and invalidates
// affected reads.
func (c *Client) CreateRegulatoryUpdate(ctx context.Context, update RegulatoryUpdate) (*RegulatoryUpdate, error) {
	var created RegulatoryUpdate
	if err := c.write(ctx, http.MethodPost, "/api/regulatory-updates", update, &created); err != nil {
		return nil, err
	}
	c.cache.invalidatePrefix("/api/regulatory-updates")
	c.cache.invalidatePrefix("/api/dashboard")
	c.cache.invalidatePrefix("/api/sync/stats")
	return &created, nil
}

// DataSources returns all data sources.
func (c *Client) DataSources(ctx context.Context) ([]DataSource, error) {
	var sources []DataSource
	if err := c.get(ctx, "/api/data-sources", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// ActiveDataSources returns the active data sources.
func (c *Client) ActiveDataSources(ctx context.Context) ([]DataSource, error) {
	var sources []DataSource
	if err := c.get(ctx, "/api/data-sources/active", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// UpdateDataSource applies a partial update to one data source.
func (c *Client) UpdateDataSource(ctx context.Context, id string, patch DataSourcePatch) (*DataSource, error) {
	var updated DataSource
	if err := c.write(ctx, http.MethodPatch, "/api/data-sources/"+url.PathEscape(id), patch, &updated); err != nil {
		return nil, err
	}
	c.cache.invalidatePrefix("/api/data-sources")
	c.cache.invalidatePrefix("/api/dashboard")
	return &updated, nil
}

// SyncAll triggers a sync run over all active sources. A successful run
// drops the whole read cache: a sync can touch every collection.
func (c *Client) SyncAll(ctx context.Context, mode string) (*SyncSummary, error) {
	body := map[string]string{}
	if mode != "" {
		body["mode"] = mode
	}
	var summary SyncSummary
	if err := c.write(ctx, http.MethodPost, "/api/sync/all", body, &summary); err != nil {
		return nil, err
	}
	c.cache.clear()
	return &summary, nil
}

// SyncDataSource triggers a sync run for one source.
func (c *Client) SyncDataSource(ctx context.Context, id, mode string) (*SyncSummary, error) {
	body := map[string]string{}
	if mode != "" {
		body["mode"] = mode
	}
	var summary SyncSummary
	if err := c.write(ctx, http.MethodPost, "/api/data-sources/"+url.PathEscape(id)+"/sync", body, &summary); err != nil {
		return nil, err
	}
	c.cache.clear()
	return &summary, nil
}

// SyncStats returns the current synchronization statistics.
func (c *Client) SyncStats(ctx context.Context) (*SyncStats, error) {
	var stats SyncStats
	if err := c.get(ctx, "/api/sync/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DashboardStats returns the dashboard summary counters.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/api/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// get serves from the response cache when fresh, otherwise fetches with
// the retry policy and caches the body.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if body, ok := c.cache.get(path); ok {
		return json.Unmarshal(body, out)
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, c.maxRetries)
	if err != nil {
		return err
	}
	c.cache.put(path, body)
	return json.Unmarshal(body, out)
}

// write issues a POST/PATCH. Writes are not retried unless the client
// was configured with RetryWrites.
func (c *Client) write(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("helix: encoding request: %w", err)
	}

	retries := 0
	if c.retryWrites {
		retries = c.maxRetries
	}
	body, err := c.do(ctx, method, path, payload, retries)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// do performs the request with up to retries re-attempts on transport
// errors and 5xx responses, backing off exponentially from backoffBase
// up to backoffCap. Context cancellation stops the attempt loop.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, retries int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		body, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
		if !retriable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("helix: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("helix: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("helix: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: serverMessage(body, resp.Status)}
	}
	return body, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.backoffBase << (attempt - 1)
	if delay > c.backoffCap {
		delay = c.backoffCap
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retriable reports whether the failure may be transient: transport
// errors and 5xx responses qualify, client errors do not.
func retriable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}

// serverMessage extracts the server's {message} field, falling back to
// the raw body or HTTP status line.
func serverMessage(body []byte, status string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	if len(body) > 0 {
		return string(body)
	}
	return status
}
