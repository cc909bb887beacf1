// Package api is the HTTP client for the finance REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a request whose context carries no deadline.
const DefaultTimeout = 30 * time.Second

// DefaultCSRFHeader is the header the CSRF token is sent in.
const DefaultCSRFHeader = "X-CSRF-TOKEN"

// Transport issues one JSON request and decodes the response body into out.
// It returns the HTTP status; a 204 leaves out untouched.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) (int, error)
}

// TokenSource returns the CSRF token attached to mutating requests.
type TokenSource func(ctx context.Context) (string, error)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client keeps the
// cookie jar it was given; none is added.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout applied when the caller's context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCSRF sets the token source and header used on mutating verbs.
func WithCSRF(header string, source TokenSource) Option {
	return func(c *Client) {
		if header != "" {
			c.csrfHeader = header
		}
		c.csrf = source
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks JSON to the finance API. Cookies are kept in a jar so the
// session travels with every request.
type Client struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	csrfHeader string
	csrf       TokenSource
	logger     *zap.Logger
}

var _ Transport = (*Client)(nil)

// New creates a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, goerrors.New("api base URL is required", goerrors.CategoryBadInput)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Jar: jar},
		timeout:    DefaultTimeout,
		csrfHeader: DefaultCSRFHeader,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String(logging.FieldComponent, logging.ComponentAPI))
	return c, nil
}

// Do implements Transport.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if isMutating(method) && c.csrf != nil {
		token, err := c.csrf(ctx)
		if err != nil {
			return 0, goerrors.Wrap(err, goerrors.CategoryExternal, "fetching csrf token")
		}
		if token != "" {
			req.Header.Set(c.csrfHeader, token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String(logging.FieldMethod, method),
			zap.String(logging.FieldPath, path),
			zap.Error(err),
		)
		return 0, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String(logging.FieldMethod, method),
		zap.String(logging.FieldPath, path),
		zap.Int(logging.FieldStatusCode, resp.StatusCode),
		zap.Int64(logging.FieldDuration, time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newError(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, goerrors.Wrap(err, goerrors.CategoryExternal, "reading response body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return http.StatusNoContent, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, goerrors.Wrap(err, goerrors.CategoryExternal, "decoding response body")
	}
	return resp.StatusCode, nil
}

// Call issues a request through t and returns the decoded body, or nil when
// the server answered without content.
func Call[T any](ctx context.Context, t Transport, method, path string, body any) (*T, error) {
	var out T
	status, err := t.Do(ctx, method, path, body, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &out, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
