package salessuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

/* Client is the authenticated adapter for the SalesSuite REST API
 * Uses pointer semantics as it's an API, not data
 */

const (
	DefaultBaseURL = "https://api.salessuite.com/api/v1"
	APIKeyHeader   = "x-api-key"
	defaultTimeout = 30 * time.Second
)

// Credentials are the stored connection settings
type Credentials struct {
	BaseURL string
	APIKey  string
}

// NormalizeBaseURL trims the value and its trailing slashes, falling back
// to the public API when blank
func NormalizeBaseURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(trimmed, "/")
}

// Request carries the templated parts of a call
type Request struct {
	// Path values replace {name} tokens in the path template
	Path map[string]string
	// Query values are only sent when truthy
	Query map[string]any
	Body  any
	// ContentType defaults to application/json; text/plain sends Body as a string
	ContentType string
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new SalesSuite API client
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: NormalizeBaseURL(creds.BaseURL),
		apiKey:  strings.TrimSpace(creds.APIKey),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call executes a request and returns the parsed JSON response, or the raw
// body when it is not JSON. Failures are returned as *APIError.
func (c *Client) Call(ctx context.Context, method, path string, req Request) (any, error) {
	body, err := c.send(ctx, method, path, req)
	if err != nil {
		return nil, err
	}
	return parseBody(body), nil
}

// do executes a request and decodes the JSON response into out
func (c *Client) do(ctx context.Context, method, path string, req Request, out any) error {
	body, err := c.send(ctx, method, path, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Message: fmt.Sprintf("decoding response: %v", err),
			URL:     c.buildURL(path, req),
			Method:  method,
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, req Request) ([]byte, error) {
	target := c.buildURL(path, req)

	reqBody, contentType, err := encodeBody(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), URL: target, Method: method}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, &APIError{Message: err.Error(), URL: target, Method: method}
	}
	httpReq.Header.Set(APIKeyHeader, c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err), URL: target, Method: method}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err), StatusCode: resp.StatusCode, URL: target, Method: method}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Message:    errorMessage(resp.StatusCode, body),
			StatusCode: resp.StatusCode,
			URL:        target,
			Method:     method,
		}
	}
	return body, nil
}

func (c *Client) buildURL(path string, req Request) string {
	for key, value := range req.Path {
		path = strings.Replace(path, "{"+key+"}", encodeURIComponent(value), 1)
	}
	target := c.baseURL + path
	if q := encodeQuery(req.Query); q != "" {
		target += "?" + q
	}
	return target
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Body == nil {
		return nil, "", nil
	}
	if req.ContentType == "text/plain" {
		text, ok := req.Body.(string)
		if !ok {
			return nil, "", fmt.Errorf("text/plain body must be a string, got %T", req.Body)
		}
		return strings.NewReader(text), req.ContentType, nil
	}
	data, err := json.Marshal(FiniteJSON(req.Body))
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return bytes.NewReader(data), contentType, nil
}

func parseBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultErrorMessage
}
