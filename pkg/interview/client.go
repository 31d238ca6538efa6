// Package interview is the client for the mock interview backend. It covers
// the JSON API and the streamed next-question endpoint, whose text is
// reconciled with the session once the stream completes.
package interview

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/papercomputeco/rehearse/pkg/credentials"
	"github.com/papercomputeco/rehearse/pkg/logger"
)

const (
	// DefaultTimeout bounds JSON calls and whole question streams. Question
	// generation runs an LLM and can be slow.
	DefaultTimeout = 10 * time.Minute

	// DefaultIdleTimeout bounds the gap between two reads of a stream.
	DefaultIdleTimeout = 60 * time.Second

	// authHeader carries the session token. The backend does not use the
	// standard Authorization header.
	authHeader = "authentication"
)

// Config holds configuration for a Client.
type Config struct {
	// BaseURL is the API root including its prefix,
	// e.g. "http://localhost:8080/api".
	BaseURL string

	// Tokens supplies the session token. Required.
	Tokens credentials.TokenSource

	// HTTPClient defaults to a client with an OpenTelemetry transport and
	// no client-level timeout.
	HTTPClient *http.Client

	// Timeout defaults to DefaultTimeout. Negative disables it.
	Timeout time.Duration

	// IdleTimeout defaults to DefaultIdleTimeout. Negative disables it.
	IdleTimeout time.Duration

	Logger *slog.Logger
}

// Client talks to the interview backend.
type Client struct {
	baseURL     string
	tokens      credentials.TokenSource
	httpClient  *http.Client
	timeout     time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("interview base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", cfg.BaseURL)
	}

	if cfg.Tokens == nil {
		return nil, errors.New("interview token source is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	timeout := cfg.Timeout
	switch {
	case timeout == 0:
		timeout = DefaultTimeout
	case timeout < 0:
		timeout = 0
	}

	idle := cfg.IdleTimeout
	switch {
	case idle == 0:
		idle = DefaultIdleTimeout
	case idle < 0:
		idle = 0
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		tokens:      cfg.Tokens,
		httpClient:  httpClient,
		timeout:     timeout,
		idleTimeout: idle,
		logger:      log,
	}, nil
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// token returns the stored token, or "" when the user is not logged in.
func (c *Client) token() (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}
	return strings.TrimSpace(tok), nil
}

func sessionPath(id int64, suffix string) string {
	return fmt.Sprintf("/interview/%d%s", id, suffix)
}
