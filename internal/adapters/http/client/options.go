package client

import (
	"net/http"
	"time"

	"github.com/okian/softcopyright/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every call. Zero leaves the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAccessToken sends token as X-Access-Token on every call.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHeader adds a static header to every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
