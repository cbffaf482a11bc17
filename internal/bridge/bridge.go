// Package bridge is the HTTP client for the editor extension that actually
// displays markdown. The extension (the "bridge") listens on a local port and
// implements three endpoints; this package makes exactly one request per call
// and turns the reply into a [Reply] or an error.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jpl-au/principal-md/internal/config"
)

// Bridge endpoints.
const (
	PathHealth       = "/health"
	PathShowMarkdown = "/show-markdown"
	PathOpenFile     = "/open-markdown-file"
)

// HeaderRequestID carries the per-call correlation ID.
const HeaderRequestID = "X-Request-Id"

// ErrInvalidResponse is returned when a 200 reply body is not a JSON object.
var ErrInvalidResponse = errors.New("invalid response")

// StatusError is returned for any non-200 reply.
type StatusError struct {
	Code int
	Body string
	// Msg is the bridge's "error" field, if the body carried one.
	Msg string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// MarkdownContent is the body of a show-markdown request. Optional fields are
// omitted from the body when nil; an explicit "" title or {} metadata is sent.
type MarkdownContent struct {
	Content  string          `json:"content"`
	Title    *string         `json:"title,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// FileOpenRequest is the body of an open-markdown-file request.
type FileOpenRequest struct {
	FilePath   string `json:"filePath"`
	LineNumber *int   `json:"lineNumber,omitempty"`
}

// Reply is what the bridge sends back. All fields are optional.
type Reply struct {
	Success *bool  `json:"success,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

// Client talks to one bridge endpoint. It is safe for concurrent use; it holds
// no state besides the immutable endpoint and HTTP client.
type Client struct {
	endpoint config.Endpoint
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero (the default) means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the given endpoint.
//
// Keep-alives are disabled so each call uses its own connection.
func New(e config.Endpoint, opts ...Option) *Client {
	c := &Client{
		endpoint: e,
		http: &http.Client{
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the bridge address this client targets.
func (c *Client) Endpoint() config.Endpoint {
	return c.endpoint
}

// Call sends one request to path. For POST the payload is sent as JSON; for
// GET it is ignored. requestID is attached as X-Request-Id when non-empty.
func (c *Client) Call(ctx context.Context, path string, payload any, method, requestID string) (*Reply, error) {
	var body io.Reader
	var data []byte
	if method == http.MethodPost {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint.URL()+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set(HeaderRequestID, requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var reply Reply
	parseErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{Code: resp.StatusCode, Body: string(raw)}
		if parseErr == nil {
			se.Msg = reply.Error
		}
		return nil, se
	}
	if parseErr != nil || !isObject(raw) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, raw)
	}
	return &reply, nil
}

// isObject reports whether raw is a JSON object; null and scalars decode
// into Reply without error.
func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// ShowMarkdown asks the bridge to display content.
func (c *Client) ShowMarkdown(ctx context.Context, m MarkdownContent, requestID string) (*Reply, error) {
	return c.Call(ctx, PathShowMarkdown, m, http.MethodPost, requestID)
}

// OpenMarkdownFile asks the bridge to open a file, optionally at a line.
func (c *Client) OpenMarkdownFile(ctx context.Context, r FileOpenRequest, requestID string) (*Reply, error) {
	return c.Call(ctx, PathOpenFile, r, http.MethodPost, requestID)
}

// CheckHealth reports whether the bridge answers /health with status "ok".
// Any failure, network or parse, is reported as false.
func (c *Client) CheckHealth(ctx context.Context) bool {
	reply, err := c.Call(ctx, PathHealth, struct{}{}, http.MethodGet, "")
	if err != nil {
		return false
	}
	return reply.Status == "ok"
}

// NewRequestID returns a fresh correlation ID for a bridge call.
func NewRequestID() string {
	return uuid.NewString()
}
