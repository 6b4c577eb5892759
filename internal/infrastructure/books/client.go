package books

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/accounting"
	"github.com/bookkeep/backend/internal/infrastructure/cache"
)

// maxResponseSize is the maximum allowed response size from the remote API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Configuration defaults
const (
	defaultAPIKeyHeader   = "X-API-KEY"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultPageSize       = 100
	defaultCacheTTL       = 5 * time.Minute
)

var (
	// ErrConfigMissingBaseURL indicates a client config without a tenant base URL
	ErrConfigMissingBaseURL = errors.New("books: base URL is required")
	// ErrConfigMissingAPIKey indicates a client config without an API key
	ErrConfigMissingAPIKey = errors.New("books: API key is required")
)

// Config holds the per-tenant connection settings for the remote accounting
// API. Base URL and API key come from the credential collaborator at
// runtime; the remaining knobs come from application configuration.
type Config struct {
	// BaseURL is the tenant's API root, e.g. "https://books.example.com/api2"
	BaseURL string
	// APIKey authenticates every request via APIKeyHeader
	APIKey string
	// APIKeyHeader is the header carrying the key, default "X-API-KEY"
	APIKeyHeader string
	// Timeout bounds each request attempt
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after the first for
	// transient read failures; writes are never retried
	MaxRetries int
	// InitialBackoff is the delay before the first retry
	InitialBackoff time.Duration
	// MaxBackoff caps the backoff delay
	MaxBackoff time.Duration
	// PageSize is the default page size for paginated listings
	PageSize int
	// CacheTTL bounds how long read responses are served from cache
	CacheTTL time.Duration
}

// Validate checks required fields and applies defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrConfigMissingBaseURL
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrConfigMissingAPIKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = defaultAPIKeyHeader
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	return nil
}

// Client talks to one tenant's remote accounting API. It is explicitly
// constructed and injected; there is no process-wide instance. Safe for
// concurrent use: the only mutable state is the shared connection pool and
// the optional read cache.
type Client struct {
	tenantID   uuid.UUID
	cfg        Config
	httpClient *http.Client
	cache      cache.ReadCache
	logger     *zap.Logger
}

// NewClient creates a client for the given tenant
func NewClient(tenantID uuid.UUID, cfg Config, logger *zap.Logger) (*Client, error) {
	return NewClientWithHTTPClient(tenantID, cfg, logger, nil)
}

// NewClientWithHTTPClient creates a client with a caller-supplied HTTP
// client. Useful for testing or sharing a transport across tenants.
func NewClientWithHTTPClient(tenantID uuid.UUID, cfg Config, logger *zap.Logger, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		tenantID:   tenantID,
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With(zap.String("tenant_id", tenantID.String())),
	}, nil
}

// SetReadCache attaches a read cache. Reads are memoized under a
// fingerprint that includes the tenant identity; writes always bypass it.
func (c *Client) SetReadCache(rc cache.ReadCache) {
	c.cache = rc
}

// TenantID returns the tenant this client is bound to
func (c *Client) TenantID() uuid.UUID {
	return c.tenantID
}

// ---------------------------------------------------------------------------
// Request Execution
// ---------------------------------------------------------------------------

// doOnce performs a single request attempt and classifies any failure.
// markAmbiguous is set by the write path: a timeout or cancellation after
// the request may have reached the remote makes the outcome unknown.
func (c *Client) doOnce(ctx context.Context, method, path string, params url.Values, body any, markAmbiguous bool) ([]byte, *accounting.RemoteError) {
	endpoint := c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &accounting.RemoteError{
				Kind:    accounting.ErrorKindGeneric,
				Message: "failed to encode request body: " + err.Error(),
			}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &accounting.RemoteError{
			Kind:    accounting.ErrorKindGeneric,
			Message: "failed to create request: " + err.Error(),
		}
	}
	req.Header.Set(c.cfg.APIKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		rerr := &accounting.RemoteError{
			Kind:    accounting.ErrorKindConnection,
			Message: "cannot reach accounting api: " + err.Error(),
		}
		if markAmbiguous && isTimeoutOrCancel(err) {
			rerr.Ambiguous = true
			rerr.Message = "write outcome unknown, request may have reached the remote: " + err.Error()
		}
		return nil, rerr
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &accounting.RemoteError{
			Kind:    accounting.ErrorKindConnection,
			Message: "failed to read response: " + err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, payload, resp.Header)
	}
	return payload, nil
}

// doRead executes a read-path request with bounded retry. Only transient
// classifications (connection, server, rate limit) are retried; the total
// attempt count is MaxRetries + 1.
func (c *Client) doRead(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	attempts := c.cfg.MaxRetries + 1
	var lastErr *accounting.RemoteError

	for attempt := 1; attempt <= attempts; attempt++ {
		payload, rerr := c.doOnce(ctx, method, path, params, body, false)
		if rerr == nil {
			return payload, nil
		}
		lastErr = rerr
		if !rerr.Retryable() || attempt == attempts {
			break
		}

		delay := c.backoffDelay(attempt, rerr)
		c.logger.Warn("transient accounting api failure, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(rerr),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &accounting.RemoteError{
				Kind:    accounting.ErrorKindConnection,
				Message: "request aborted: " + ctx.Err().Error(),
			}
		}
	}
	return nil, lastErr
}

// doWrite executes a write with exactly one attempt. Once the request may
// have reached the remote, a retry could post the entry twice, so writes
// are never retried regardless of the failure classification.
func (c *Client) doWrite(ctx context.Context, method, path string, body any) ([]byte, error) {
	payload, rerr := c.doOnce(ctx, method, path, nil, body, true)
	if rerr != nil {
		return nil, rerr
	}
	return payload, nil
}

// CallAPI is a raw escape hatch for collaborators that need an endpoint
// without a typed operation. GET and HEAD route through the retrying read
// path; everything else is treated as a write and never retried.
func (c *Client) CallAPI(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	switch method {
	case http.MethodGet, http.MethodHead:
		return c.doRead(ctx, method, path, params, body)
	default:
		return c.doWrite(ctx, method, path, body)
	}
}

// backoffDelay computes the delay before the next retry: the remote's
// Retry-After hint when one was provided, otherwise exponential backoff
// with jitter, capped at MaxBackoff.
func (c *Client) backoffDelay(attempt int, rerr *accounting.RemoteError) time.Duration {
	if rerr.Kind == accounting.ErrorKindRateLimit && rerr.RetryAfter > 0 {
		return min(rerr.RetryAfter, c.cfg.MaxBackoff)
	}
	delay := c.cfg.InitialBackoff << (attempt - 1)
	if delay <= 0 || delay > c.cfg.MaxBackoff {
		delay = c.cfg.MaxBackoff
	}
	if half := delay / 2; half > 0 {
		delay = half + time.Duration(rand.Int63n(int64(half)))
	}
	return delay
}

// ---------------------------------------------------------------------------
// Error Classification
// ---------------------------------------------------------------------------

// classifyStatus maps an HTTP error response onto the error taxonomy
func classifyStatus(status int, body []byte, header http.Header) *accounting.RemoteError {
	msg := extractMessage(body, status)

	rerr := &accounting.RemoteError{
		StatusCode: status,
		Message:    msg,
	}
	switch {
	case status == http.StatusUnauthorized:
		rerr.Kind = accounting.ErrorKindAuthentication
	case status == http.StatusForbidden:
		rerr.Kind = accounting.ErrorKindForbidden
	case status == http.StatusNotFound:
		rerr.Kind = accounting.ErrorKindNotFound
	case status == http.StatusUnprocessableEntity:
		rerr.Kind = accounting.ErrorKindValidation
	case status == http.StatusTooManyRequests:
		rerr.Kind = accounting.ErrorKindRateLimit
		if after := header.Get("Retry-After"); after != "" {
			if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
				rerr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	case status >= 500:
		rerr.Kind = accounting.ErrorKindServer
	default:
		rerr.Kind = accounting.ErrorKindGeneric
	}
	return rerr
}

// extractMessage pulls a human-readable message out of an error response
func extractMessage(body []byte, status int) string {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return text
	}
	return http.StatusText(status)
}

// isTimeoutOrCancel reports whether a transport error was a timeout or a
// context cancellation, i.e. the request may have been sent already
func isTimeoutOrCancel(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
