package tpsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
)

const (
	// APIPath is the REST root of the TPS subsystem
	APIPath = "/tps/rest"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed reads
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 10 * time.Second

	// DefaultCacheDuration is how long a fetched entry is reused
	DefaultCacheDuration = 5 * time.Second

	// RequestIDHeader carries the correlation id of each request
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the configuration endpoints of a TPS server.
//
// Reads are retried with exponential backoff; writes (create, update, status
// changes) are attempted exactly once and every failure is returned to the
// caller.
type Client struct {
	// BaseURL is the server URL, e.g. "https://tps.example.com:8443"
	BaseURL string

	// Username and Password for HTTP Basic Auth (optional with client certificates)
	Username string
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed reads
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	// CacheDuration is how long to cache fetched entries (0 = no cache)
	CacheDuration time.Duration

	cache      map[string]cachedEntry
	cacheMutex sync.RWMutex
}

type cachedEntry struct {
	entry *entry.Entry
	at    time.Time
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		CacheDuration:         DefaultCacheDuration,
		cache:                 make(map[string]cachedEntry),
	}
}

// Options configures NewClientWithOptions
type Options struct {
	BaseURL    string
	Username   string
	Password   string
	CAFile     string
	ClientCert string
	ClientKey  string
	Insecure   bool
	Timeout    time.Duration
}

// NewClientWithOptions creates a client with authentication and TLS settings
func NewClientWithOptions(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	c := NewClient(opts.BaseURL)
	c.SetAuth(opts.Username, opts.Password)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}

	if strings.HasPrefix(opts.BaseURL, "https://") {
		tlsConfig, err := NewTLSConfig(opts.CAFile, opts.ClientCert, opts.ClientKey, opts.Insecure)
		if err != nil {
			return nil, err
		}
		c.HTTPClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		}
	}

	return c, nil
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

func (c *Client) collectionURL(kind entry.Kind) string {
	return c.BaseURL + APIPath + "/" + string(kind)
}

func (c *Client) entryURL(kind entry.Kind, id string) string {
	return c.collectionURL(kind) + "/" + url.PathEscape(id)
}

// Ping checks that the TPS REST API answers
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListEntries(ctx, entry.KindProfiles)
	return err
}

// ListEntries returns all entries of a collection
func (c *Client) ListEntries(ctx context.Context, kind entry.Kind) (*entry.Collection, error) {
	var coll entry.Collection
	if err := c.getWithRetry(ctx, c.collectionURL(kind), &coll); err != nil {
		return nil, err
	}
	if coll.Entries == nil {
		coll.Entries = []entry.Entry{}
	}
	return &coll, nil
}

// GetEntry returns one entry, served from cache when fresh
func (c *Client) GetEntry(ctx context.Context, kind entry.Kind, id string) (*entry.Entry, error) {
	key := c.entryURL(kind, id)

	if c.CacheDuration > 0 {
		c.cacheMutex.RLock()
		cached, ok := c.cache[key]
		c.cacheMutex.RUnlock()
		if ok && time.Since(cached.at) < c.CacheDuration {
			return cached.entry.Clone(), nil
		}
	}

	var e entry.Entry
	if err := c.getWithRetry(ctx, key, &e); err != nil {
		return nil, err
	}

	c.store(kind, &e)
	return e.Clone(), nil
}

// RefreshEntry fetches an entry from the server, bypassing the cache
func (c *Client) RefreshEntry(ctx context.Context, kind entry.Kind, id string) (*entry.Entry, error) {
	c.InvalidateEntry(kind, id)
	return c.GetEntry(ctx, kind, id)
}

// CreateEntry creates a new entry and returns the server's copy
func (c *Client) CreateEntry(ctx context.Context, kind entry.Kind, e *entry.Entry) (*entry.Entry, error) {
	var created entry.Entry
	if err := c.send(ctx, http.MethodPost, c.collectionURL(kind), e, &created); err != nil {
		return nil, err
	}
	c.store(kind, &created)
	return &created, nil
}

// UpdateEntry replaces an entry's properties and returns the server's copy
func (c *Client) UpdateEntry(ctx context.Context, kind entry.Kind, e *entry.Entry) (*entry.Entry, error) {
	var updated entry.Entry
	if err := c.send(ctx, http.MethodPut, c.entryURL(kind, e.ID), e, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		return c.RefreshEntry(ctx, kind, e.ID)
	}
	c.store(kind, &updated)
	return &updated, nil
}

// DeleteEntry removes an entry
func (c *Client) DeleteEntry(ctx context.Context, kind entry.Kind, id string) error {
	err := c.send(ctx, http.MethodDelete, c.entryURL(kind, id), nil, nil)
	c.InvalidateEntry(kind, id)
	return err
}

// ChangeStatus executes a workflow transition and returns the entry as the
// server holds it afterwards
func (c *Client) ChangeStatus(ctx context.Context, kind entry.Kind, id string, action entry.Action) (*entry.Entry, error) {
	if !action.IsTransition() {
		return nil, fmt.Errorf("%q is not a workflow action", action)
	}

	target := c.entryURL(kind, id) + "?action=" + url.QueryEscape(string(action))

	var updated entry.Entry
	if err := c.send(ctx, http.MethodPost, target, nil, &updated); err != nil {
		c.InvalidateEntry(kind, id)
		return nil, err
	}
	// some servers answer 204; read back the authoritative state
	if updated.ID == "" {
		return c.RefreshEntry(ctx, kind, id)
	}
	c.store(kind, &updated)
	return &updated, nil
}

// InvalidateEntry drops a cached entry
func (c *Client) InvalidateEntry(kind entry.Kind, id string) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	delete(c.cache, c.entryURL(kind, id))
}

// InvalidateCache drops every cached entry
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cache = make(map[string]cachedEntry)
}

func (c *Client) store(kind entry.Kind, e *entry.Entry) {
	if c.CacheDuration <= 0 || e.ID == "" {
		return
	}
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	if c.cache == nil {
		c.cache = make(map[string]cachedEntry)
	}
	c.cache[c.entryURL(kind, e.ID)] = cachedEntry{entry: e.Clone(), at: time.Now()}
}

// getWithRetry performs a GET, retrying retryable failures with backoff
func (c *Client) getWithRetry(ctx context.Context, target string, out any) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return NewNetworkError("request cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.send(ctx, http.MethodGet, target, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// send performs a single request. body and out may be nil.
func (c *Client) send(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	logging.LogHTTPRequest(requestID, method, target)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(method+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPResponse(requestID, method, target, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewHTTPError(resp.StatusCode, respBody)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}
