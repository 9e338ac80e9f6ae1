package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wudi/docsmith/observability"
)

const defaultTimeout = 30 * time.Second

// AuthFunc decorates an outgoing request with credentials.
type AuthFunc func(*http.Request) error

// BearerAuth authorizes requests with a static bearer token.
func BearerAuth(token string) AuthFunc {
	return func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// SourceAuth authorizes requests from a refreshing token source.
func SourceAuth(src *ExpiringTokenSource) AuthFunc {
	return func(req *http.Request) error {
		tok, err := src.Token(req.Context())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		return nil
	}
}

// QueryAuth authorizes requests by appending a query parameter, for
// APIs keyed by an api_key parameter rather than a header.
func QueryAuth(key, value string) AuthFunc {
	return func(req *http.Request) error {
		q := req.URL.Query()
		q.Set(key, value)
		req.URL.RawQuery = q.Encode()
		return nil
	}
}

// Client is the JSON-over-HTTP base every integration shares: one
// base URL, one auth decorator, an optional rate limiter, and uniform
// status-to-ErrorKind classification.
type Client struct {
	service string
	baseURL string
	httpc   *http.Client
	auth    AuthFunc
	limiter *Limiter
	log     observability.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, as tests do with
// httptest servers.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpc = hc } }

// WithAuth sets the request auth decorator.
func WithAuth(auth AuthFunc) Option { return func(c *Client) { c.auth = auth } }

// WithLimiter installs a client-side rate limiter.
func WithLimiter(l *Limiter) Option { return func(c *Client) { c.limiter = l } }

// WithLogger sets the request logger. The default is silent.
func WithLogger(log observability.Logger) Option { return func(c *Client) { c.log = log } }

// NewClient builds a client for one service. The service name tags
// every error the client produces.
func NewClient(service, baseURL string, opts ...Option) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST with a JSON body and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Do performs one JSON request. Non-2xx responses become APIErrors
// classified by status; the response body's error/message fields are
// carried into the message when present. A nil out discards the body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return WrapTransport(c.service, err)
		}
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Errorf(c.service, KindValidation, "encode request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return Errorf(c.service, KindValidation, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if err := c.auth(req); err != nil {
			return WrapTransport(c.service, err)
		}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return WrapTransport(c.service, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		observability.String("service", c.service),
		observability.String("method", method),
		observability.String("path", path),
		observability.Int("status", resp.StatusCode),
		observability.Int64(observability.MetricAPICallTime, time.Since(start).Milliseconds()))

	if c.limiter != nil {
		c.limiter.Observe(resp.StatusCode, retryAfter(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return WrapTransport(c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Service:    c.service,
			Kind:       KindFromStatus(resp.StatusCode),
			Status:     resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
			RetryAfter: retryAfter(resp),
		}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return Errorf(c.service, KindServerError, "decode response: %v", err)
	}
	return nil
}

// errorMessage digs a human-readable message out of common error body
// shapes, falling back to the status text.
func errorMessage(data []byte, status int) string {
	var body struct {
		Message     string `json:"message"`
		Description string `json:"description"`
		Error       any    `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Description != "" {
			return body.Description
		}
		switch e := body.Error.(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return http.StatusText(status)
}

// retryAfter parses the Retry-After header, in either delta-seconds
// or HTTP-date form.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
