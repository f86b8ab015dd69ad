// Package bridge serializes the editor's graph to the external
// pipeline validator's wire format and interprets the response.
//
// The validator is a plain HTTP service (POST /pipelines/parse) that
// answers with node/edge counts and a DAG verdict. The bridge makes a
// single attempt per call; any transport, status, or parse failure
// wraps pipecanvas.ErrValidateFailed and is reported to the user as
// one generic notice by the editor.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pipecanvas/pipecanvas/pkg/pipecanvas"
)

// DefaultTimeout bounds a validator round trip when the caller's
// context carries no deadline.
const DefaultTimeout = 10 * time.Second

// parsePath is the validator's endpoint.
const parsePath = "/pipelines/parse"

// Client calls the pipeline validator service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Compile-time interface check.
var _ pipecanvas.Validator = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-call timeout. Default: DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger enables request logging.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a validator client for the given base URL
// (e.g. "http://localhost:8000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate implements pipecanvas.Validator: it submits the wire-
// relevant subset of the graph and returns the validator's verdict.
func (c *Client) Validate(ctx context.Context, s pipecanvas.GraphState) (pipecanvas.ValidationReport, error) {
	url := c.baseURL + parsePath

	body, err := json.Marshal(newParseRequest(s))
	if err != nil {
		return pipecanvas.ValidationReport{}, &pipecanvas.ValidateError{URL: url, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return pipecanvas.ValidationReport{}, &pipecanvas.ValidateError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Debug("submitting pipeline",
			slog.String("url", url),
			slog.Int("nodes", len(s.Nodes)),
			slog.Int("edges", len(s.Edges)),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pipecanvas.ValidationReport{}, &pipecanvas.ValidateError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return pipecanvas.ValidationReport{}, &pipecanvas.ValidateError{
			URL:    url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status"),
		}
	}

	var report pipecanvas.ValidationReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return pipecanvas.ValidationReport{}, &pipecanvas.ValidateError{URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}
	return report, nil
}
