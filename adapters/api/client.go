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

	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const (
	// ContentTypeJSON is sent on every request
	ContentTypeJSON = "application/json"
	// RequestIDHeader carries a per-call correlation ID
	RequestIDHeader = "X-Request-ID"
)

// ErrMissingBaseURL is returned by NewClient when no base address is configured
var ErrMissingBaseURL = errors.New("api base URL is required")

// HTTPClient interface for dependency injection and testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the configuration for the API client
type Config struct {
	BaseURL    string
	HTTPClient HTTPClient
	Logger     *internal.Logger
}

// CallOptions describe a single request. A zero value issues a GET without a body.
type CallOptions struct {
	Method  string
	Headers map[string]string
	Body    io.Reader
}

// Client joins request paths onto a base address and performs exactly one
// transport attempt per call. Responses are returned uninterpreted.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     *internal.Logger
}

// NewClient creates a new API client
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	logger := config.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}

	// No client timeout: callers bound requests through their context
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base address and path with exactly one slash
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Call performs the request described by opts against path. The caller owns
// the returned response body. A non-2xx status is not an error here.
func (c *Client) Call(ctx context.Context, path string, opts *CallOptions) (*http.Response, error) {
	if opts == nil {
		opts = &CallOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, target, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", ContentTypeJSON)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug(internal.ComponentAPI, "%s %s (request %s)", method, target, req.Header.Get(RequestIDHeader))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(internal.ComponentAPI, "%s %s failed: %v", method, target, err)
		return nil, err
	}

	c.logger.Debug(internal.ComponentAPI, "%s %s -> %d", method, target, resp.StatusCode)
	return resp, nil
}

// ResourcePath builds "{collection}/{id}" with simple-style path parameter encoding
func ResourcePath(collection string, id int64) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("failed to encode id: %w", err)
	}
	return strings.TrimRight(collection, "/") + "/" + param, nil
}

// JSONBody serializes v for use as CallOptions.Body
func JSONBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
