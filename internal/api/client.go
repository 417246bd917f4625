package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/session"
)

// Navigator moves the user interface to the login view
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to a Navigator
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultSessionExpired
	ResultNetworkError
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultSessionExpired:
		return "session-expired"
	case ResultNetworkError:
		return "network-error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one authenticated request.
// Response is set only for ResultSuccess, Err only for ResultNetworkError.
// On success the caller owns Response.Body.
type Result struct {
	Kind     ResultKind
	Response *http.Response
	Err      error
}

// Client sends requests to the planning service with the session's bearer token
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
	nav     Navigator
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, sess *session.Manager, nav Navigator, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		nav:     nav,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetNavigator swaps the navigator; the TUI installs its own once the program exists
func (c *Client) SetNavigator(nav Navigator) {
	c.nav = nav
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// Do sends req once. A token in the session is added as a bearer Authorization header on a
// copy of req, leaving the caller's other headers intact. A 401 clears the session, sends the
// navigator to login and yields ResultSessionExpired without a response.
func (c *Client) Do(ctx context.Context, req *http.Request) Result {
	out := req.Clone(ctx)
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if token := c.session.Token(); token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := out.Header.Get(constants.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		out.Header.Set(constants.RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(out)
	if err != nil {
		logger.Error("Request failed", "method", out.Method, "url", out.URL.String(), "request_id", requestID, "error", err)
		return Result{
			Kind: ResultNetworkError,
			Err:  &TransportError{Method: out.Method, URL: out.URL.String(), Err: err},
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		logger.Warn("Session rejected by server", "method", out.Method, "path", out.URL.Path, "request_id", requestID)
		c.expire()
		return Result{Kind: ResultSessionExpired}
	}

	logger.Debug("Request finished",
		"method", out.Method,
		"path", out.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)
	return Result{Kind: ResultSuccess, Response: resp}
}

// Request builds and sends a request for path relative to the base URL
func (c *Client) Request(ctx context.Context, method, path string, body io.Reader, header http.Header) Result {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return Result{Kind: ResultNetworkError, Err: &TransportError{Method: method, URL: c.url(path), Err: err}}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.Do(ctx, req)
}

func (c *Client) expire() {
	if err := c.session.Clear(); err != nil {
		logger.Error("Failed to clear session", "error", err)
	}
	if c.nav != nil {
		c.nav.ToLogin()
	}
}
