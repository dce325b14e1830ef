// Package api is the HTTP client for the warehouse REST API. It attaches the
// session token as a Bearer header and turns error payloads into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
	requestIDHeader = "X-Request-ID"
)

// Client is safe for concurrent use once configured. SetTokenSource and
// SetUnauthorizedHandler must be called before the first request.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	transport      *bearerTransport
	onUnauthorized func(ctx context.Context)
	log            zerolog.Logger
}

type Option func(*Client)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the underlying round tripper, http.DefaultTransport by default.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport.base = rt
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	t := &bearerTransport{base: http.DefaultTransport}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		transport:  t,
		httpClient: &http.Client{Timeout: defaultTimeout, Transport: t},
		log:        log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	t.log = c.log
	return c
}

// SetTokenSource sets where the Bearer token comes from. Requests go out without
// an Authorization header while the source has no token.
func (c *Client) SetTokenSource(ts oauth2.TokenSource) {
	c.transport.source = ts
}

// SetUnauthorizedHandler registers fn to run when an authenticated endpoint answers 401.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials. A 2xx answer is returned as is, even with success=false.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Do(ctx, http.MethodPost, PathLogin, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.Do(ctx, http.MethodPost, PathLogout, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*UserResponse, error) {
	var resp UserResponse
	if err := c.Do(ctx, http.MethodGet, PathCurrentUser, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Do sends body as JSON to path and decodes the JSON answer into out. Non-2xx
// answers become *Error. body and out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[Client Do] encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("[Client Do] build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set(requestIDHeader, requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[Client Do] %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("[Client Do] read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &Error{StatusCode: res.StatusCode, Message: errorMessage(data, res.StatusCode)}
		c.log.Debug().Str("request_id", requestID).Str("method", method).Str("path", path).
			Int("status", res.StatusCode).Msg(apiErr.Message)
		if res.StatusCode == http.StatusUnauthorized && path != PathLogin && path != PathLogout && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[Client Do] decode response: %w", err)
	}
	return nil
}

func errorMessage(data []byte, status int) string {
	var env Envelope
	if err := json.Unmarshal(data, &env); err == nil {
		if msg := env.ErrorMessage(); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

// bearerTransport adds the Authorization header through oauth2.Transport when
// the token source currently holds a token.
type bearerTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
	log    zerolog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.source != nil {
		tok, err := t.source.Token()
		if err == nil && tok != nil && tok.AccessToken != "" {
			rt := &oauth2.Transport{Source: oauth2.StaticTokenSource(tok), Base: t.base}
			return rt.RoundTrip(req)
		}
		if err != nil && !errors.Is(err, ErrNoSessionToken) {
			t.log.Debug().Err(err).Msg("token source failed, sending request without Authorization")
		}
	}
	return t.base.RoundTrip(req)
}

// ErrNoSessionToken is returned by token sources that currently hold no token.
var ErrNoSessionToken = errors.New("no session token")
