// Package client is the shared HTTP client every non-streaming request
// builder goes through. It sends exactly one request per call and never
// retries; failures are returned to the caller unchanged apart from wrapping.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/softcopyright/pkg/logger"
	"github.com/okian/softcopyright/pkg/metrics"
)

const (
	defaultTimeout = 30 * time.Second

	// HeaderRequestID correlates client and server logs.
	HeaderRequestID = "X-Request-Id"
	// HeaderAccessToken carries the backend session token.
	HeaderAccessToken = "X-Access-Token"
)

// Doer executes a request descriptor. *Client implements it.
type Doer interface {
	Do(ctx context.Context, req Request, out any) ([]byte, error)
}

// Client wraps http.Client with a base URL and default headers.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	token   string
	headers http.Header
	logger  logger.Logger
}

var _ Doer = (*Client)(nil)

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    baseURL,
		timeout: defaultTimeout,
		headers: http.Header{},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// BaseURL returns the root every path is joined onto.
func (c *Client) BaseURL() string { return c.base }

// Do sends req and returns the response body. In ModeJSON a non-nil out is
// filled from the body; in ModeBlob the payload is returned undecoded and out
// is ignored. Non-2xx answers yield a *StatusError.
func (c *Client) Do(ctx context.Context, req Request, out any) ([]byte, error) {
	const op = "client.do"
	label := req.Label()

	if req.Mode == ModeStream {
		return nil, WrapKind(op, ErrEncode, errors.New("stream mode needs the streaming fetcher"))
	}

	httpReq, err := req.Build(ctx, c.base)
	if err != nil {
		metrics.RecordClientError(label, "encode")
		return nil, WrapKind(op, ErrEncode, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if c.token != "" {
		httpReq.Header.Set(HeaderAccessToken, c.token)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.Mode == ModeJSON {
		httpReq.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordClientError(label, "transport")
		c.logger.Debug(ctx, "request failed",
			logger.String("method", req.Method),
			logger.String("path", req.Path),
			logger.String("request_id", requestID),
			logger.Error(err))
		return nil, WrapKind(op, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.RecordClientRequest(label, req.Method, strconv.Itoa(resp.StatusCode), float64(elapsed.Milliseconds()))
	c.logger.Debug(ctx, "request done",
		logger.String("method", req.Method),
		logger.String("path", req.Path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", elapsed),
		logger.String("request_id", requestID))
	if err != nil {
		metrics.RecordClientError(label, "transport")
		return nil, WrapKind(op, ErrTransport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordClientError(label, "status")
		return body, &StatusError{Method: req.Method, Path: req.Path, Code: resp.StatusCode, Body: body}
	}

	if req.Mode == ModeBlob {
		metrics.RecordBlobBytes(label, len(body))
		return body, nil
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			metrics.RecordClientError(label, "decode")
			return body, WrapKind(op, ErrDecode, err)
		}
	}
	return body, nil
}
