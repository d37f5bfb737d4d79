// Package stream issues the raw fetches used by generation endpoints. It
// bypasses the shared client so the caller gets the live response and can
// read the body as it arrives.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/okian/softcopyright/internal/adapters/http/client"
	"github.com/okian/softcopyright/pkg/logger"
	"github.com/okian/softcopyright/pkg/metrics"
)

// DefaultBaseURL is used when neither an option nor VITE_GLOB_API_URL names one.
const DefaultBaseURL = "http://localhost:8082"

// EnvBaseURL overrides the base URL, matching the web frontend's variable.
const EnvBaseURL = "VITE_GLOB_API_URL"

// ErrOpen wraps failures to obtain a response at all.
var ErrOpen = errors.New("open stream failed")

// Opener returns a live response for a streaming request descriptor.
type Opener interface {
	Open(ctx context.Context, req client.Request) (*http.Response, error)
}

// Fetcher posts JSON and hands back the unread response.
type Fetcher struct {
	base   string
	http   *http.Client
	logger logger.Logger
}

var _ Opener = (*Fetcher)(nil)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL pins the base URL, ignoring the environment.
func WithBaseURL(base string) Option {
	return func(f *Fetcher) {
		if base != "" {
			f.base = base
		}
	}
}

// WithHTTPClient replaces the underlying client. Its Timeout bounds the whole
// body read, so leave it zero for long generations.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		if hc != nil {
			f.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// ResolveBaseURL returns VITE_GLOB_API_URL when set, DefaultBaseURL otherwise.
func ResolveBaseURL() string {
	if v := os.Getenv(EnvBaseURL); v != "" {
		return v
	}
	return DefaultBaseURL
}

// New creates a Fetcher. Without WithBaseURL the base is ResolveBaseURL().
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		base:   ResolveBaseURL(),
		http:   &http.Client{},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the resolved base URL.
func (f *Fetcher) BaseURL() string { return f.base }

// Open sends req and returns the response as soon as headers arrive. The
// status is not checked and the body is not read; the caller must close it.
// Cancel ctx to abort a running generation.
func (f *Fetcher) Open(ctx context.Context, req client.Request) (*http.Response, error) {
	const op = "stream.open"
	label := req.Label()

	httpReq, err := req.Build(ctx, f.base)
	if err != nil {
		return nil, client.WrapKind(op, client.ErrEncode, err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	start := time.Now()
	resp, err := f.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordStreamOpen(label, "error", float64(elapsed.Milliseconds()))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOpen, err)
	}
	metrics.RecordStreamOpen(label, "ok", float64(elapsed.Milliseconds()))
	f.logger.Debug(ctx, "stream opened",
		logger.String("path", req.Path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", elapsed))
	return resp, nil
}
