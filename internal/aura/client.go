package aura

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Backend defines every remote operation the dashboard performs.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	FetchDashboard(ctx context.Context) (*DashboardData, error)
	FetchLogs(ctx context.Context) ([]string, error)
	FetchStatus(ctx context.Context) (*SystemStatus, error)
	TriggerUpdate(ctx context.Context) (string, error)
	ClearLogs(ctx context.Context) error
	SetAPIKey(ctx context.Context, key string) error
	Health(ctx context.Context) (string, error)
	StartCycle(ctx context.Context) (string, error)
	StopCycle(ctx context.Context) (string, error)
	FetchThreshold(ctx context.Context) (float64, error)
	SetThreshold(ctx context.Context, value float64) error
	Simulate(ctx context.Context, ethPrice, bnbPrice float64) (*Decision, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the AURA gateway HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	defaultAPIURL    = "127.0.0.1:4943"
	defaultUserAgent = "aurad/0.1"
	requestTimeout   = 8 * time.Second
	maxResponseBytes = 8 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger routes request diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the gateway at apiURL (host:port or URL).
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized gateway address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchDashboard returns the latest snapshot, or nil when the backend has none.
func (c *Client) FetchDashboard(ctx context.Context) (*DashboardData, error) {
	var payload *dashboardPayload
	if err := c.do(ctx, OpFetchDashboard, http.MethodGet, "/api/dashboard", nil, &payload); err != nil {
		return nil, err
	}
	return payload.toDashboard(), nil
}

// FetchLogs returns raw log lines in backend order (oldest first).
func (c *Client) FetchLogs(ctx context.Context) ([]string, error) {
	var payload logsPayload
	if err := c.do(ctx, OpFetchLogs, http.MethodGet, "/api/logs", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Logs, nil
}

// FetchStatus returns the backend's operational counters.
func (c *Client) FetchStatus(ctx context.Context) (*SystemStatus, error) {
	var payload statusPayload
	if err := c.do(ctx, OpFetchStatus, http.MethodGet, "/api/status", nil, &payload); err != nil {
		return nil, err
	}
	return payload.toStatus(), nil
}

// TriggerUpdate asks the backend to run one update cycle now.
func (c *Client) TriggerUpdate(ctx context.Context) (string, error) {
	return c.ack(ctx, OpTriggerUpdate, http.MethodPost, "/api/update")
}

// ClearLogs empties the backend log buffer.
func (c *Client) ClearLogs(ctx context.Context) error {
	_, err := c.ack(ctx, OpClearLogs, http.MethodPost, "/api/logs/clear")
	return err
}

// SetAPIKey stores a new upstream API key. Blank keys fail with ErrEmptyKey
// before any request is made; format validation is left to the backend, whose
// rejection reason is carried in the returned *Error.
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return &Error{Op: OpSetAPIKey, Err: ErrEmptyKey}
	}
	return c.result(ctx, OpSetAPIKey, "/api/apikey", apiKeyPayload{Key: key})
}

// Health probes the backend. Any error means the backend is unreachable.
func (c *Client) Health(ctx context.Context) (string, error) {
	return c.ack(ctx, OpHealth, http.MethodGet, "/api/health")
}

// StartCycle enables the backend's automated cycle.
func (c *Client) StartCycle(ctx context.Context) (string, error) {
	return c.ack(ctx, OpStartCycle, http.MethodPost, "/api/cycle/start")
}

// StopCycle disables the backend's automated cycle.
func (c *Client) StopCycle(ctx context.Context) (string, error) {
	return c.ack(ctx, OpStopCycle, http.MethodPost, "/api/cycle/stop")
}

// FetchThreshold returns the current governance decision threshold.
func (c *Client) FetchThreshold(ctx context.Context) (float64, error) {
	var payload thresholdPayload
	if err := c.do(ctx, OpFetchThreshold, http.MethodGet, "/api/governance/threshold", nil, &payload); err != nil {
		return 0, err
	}
	return payload.Threshold, nil
}

// SetThreshold updates the governance decision threshold.
func (c *Client) SetThreshold(ctx context.Context, value float64) error {
	return c.result(ctx, OpSetThreshold, "/api/governance/threshold", thresholdPayload{Threshold: value})
}

// Simulate asks the backend for the decision it would take at the given prices.
func (c *Client) Simulate(ctx context.Context, ethPrice, bnbPrice float64) (*Decision, error) {
	var payload decisionPayload
	body := simulatePayload{ETHPrice: ethPrice, BNBPrice: bnbPrice}
	if err := c.do(ctx, OpSimulate, http.MethodPost, "/api/simulate", body, &payload); err != nil {
		return nil, err
	}
	return &Decision{Action: payload.Decision, Reason: payload.Reason, Score: payload.Score}, nil
}

func (c *Client) ack(ctx context.Context, op Op, method, path string) (string, error) {
	var payload ackPayload
	if err := c.do(ctx, op, method, path, nil, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// result posts body and interprets an {ok} / {err} response.
func (c *Client) result(ctx context.Context, op Op, path string, body any) error {
	var payload resultPayload
	if err := c.do(ctx, op, http.MethodPost, path, body, &payload); err != nil {
		return err
	}
	if payload.Err != nil {
		reason := strings.TrimSpace(*payload.Err)
		if reason == "" {
			reason = "unspecified reason"
		}
		c.log.Warn().Str("op", string(op)).Str("reason", reason).Msg("backend rejected request")
		return &Error{Op: op, Reason: reason, Err: ErrRejected}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op Op, method, path string, body, dest any) error {
	if c == nil {
		return &Error{Op: op, Err: fmt.Errorf("client is nil")}
	}
	requestID := uuid.NewString()
	start := time.Now()

	err := c.roundTrip(ctx, requestID, method, path, body, dest)
	logEvent := c.log.Debug()
	if err != nil {
		logEvent = c.log.Warn().Err(err)
	}
	logEvent.
		Str("op", string(op)).
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("gateway request")

	if err != nil {
		return &Error{Op: op, RequestID: requestID, Err: err}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, requestID, method, path string, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
