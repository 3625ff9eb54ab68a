package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client sends authenticated requests to the catalog backend.
type Client struct {
	http    *http.Client
	baseURL string
	auth    Authenticator
	tokens  TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuthenticator sets how the token is attached to requests.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
	}
}

// WithTokenSource sets where the session token is read from on each request.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// New creates a client for the backend at baseURL. Requests use Bearer
// auth and carry no token until a TokenSource is configured.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    &BearerAuth{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// DoWithContext performs an HTTP request with authentication applied.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			c.auth.Apply(req, token)
		}
	}

	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)

	// Set common headers
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("Content-Type") == "" && req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.WrapResource(strings.ToLower(req.Method), "request", req.URL.Path, errors.Join(errors.ErrCanceled, ctx.Err()))
		}
		return nil, &errors.APIError{
			Method:    req.Method,
			Endpoint:  req.URL.Path,
			Message:   "backend unreachable",
			RequestID: requestID,
			Err:       errors.Join(errors.ErrUnavailable, err),
		}
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, nil, "")
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, path, nil, "")
}

// SendJSON performs a request with body encoded as JSON.
func (c *Client) SendJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request", err)
	}
	return c.send(ctx, method, path, bytes.NewReader(data), "application/json")
}

// SendMultipart performs a multipart/form-data request.
func (c *Client) SendMultipart(ctx context.Context, method, path string, form *Form) (*http.Response, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, body, contentType)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.DoWithContext(ctx, req)
}
