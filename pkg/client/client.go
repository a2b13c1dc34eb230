package client

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

	"github.com/cuemby/brigada/pkg/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero
const DefaultTimeout = 15 * time.Second

// Config holds HTTP client settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// TokenSource supplies the bearer credential attached to each request
type TokenSource interface {
	Token() string
}

// Request describes one API call. Form takes precedence over Body.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   url.Values
}

// Doer performs API requests. Stores and the session manager depend on
// this interface rather than on *Client.
type Doer interface {
	Do(ctx context.Context, req *Request, out any) error
}

// Get builds a GET request
func Get(path string) *Request {
	return &Request{Method: http.MethodGet, Path: path}
}

// Post builds a POST request with a JSON body (nil for none)
func Post(path string, body any) *Request {
	return &Request{Method: http.MethodPost, Path: path, Body: body}
}

// PostForm builds a form-encoded POST request
func PostForm(path string, form url.Values) *Request {
	return &Request{Method: http.MethodPost, Path: path, Form: form}
}

// Put builds a PUT request with a JSON body
func Put(path string, body any) *Request {
	return &Request{Method: http.MethodPut, Path: path, Body: body}
}

// Delete builds a DELETE request
func Delete(path string) *Request {
	return &Request{Method: http.MethodDelete, Path: path}
}

// WithQuery sets the query string and returns the request
func (r *Request) WithQuery(q url.Values) *Request {
	r.Query = q
	return r
}

// Client talks to the brigada REST API over HTTP
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// NewClient creates a new API client
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "brigada-client"
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    log.WithComponent("client"),
	}, nil
}

// SetTokenSource installs the bearer credential source
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// Close releases idle connections
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Do sends req and decodes a successful JSON response into out (which may
// be nil). Failures are returned as *APIError.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("Request failed before a response was received")
		return &APIError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Method: req.Method, Path: req.Path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(req, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	if req == nil || req.Method == "" {
		return nil, fmt.Errorf("request method is required")
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts != nil {
		if token := ts.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, nil
}
