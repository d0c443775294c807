// Package fetch provides the HTTP plumbing shared by every registry client.
// It centralizes request construction, authentication, and response decoding.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; OrgTriage/1.0)"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// BasicAuth holds credentials sent with every request.
type BasicAuth struct {
	Username string
	Password string
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Auth      *BasicAuth
	// Client overrides the HTTP client built from Timeout.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// WithHeader returns a copy of o with an extra request header.
func (o *Options) WithHeader(key, value string) *Options {
	if o == nil {
		o = DefaultOptions()
	}
	cp := *o
	cp.Headers = make(map[string]string, len(o.Headers)+1)
	for k, v := range o.Headers {
		cp.Headers[k] = v
	}
	cp.Headers[key] = value
	return &cp
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// URL retrieves the body of urlStr with a GET request.
// A non-200 response returns both the result and an *Error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if opts.Auth != nil && (opts.Auth.Username != "" || opts.Auth.Password != "") {
		req.SetBasicAuth(opts.Auth.Username, opts.Auth.Password)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// JSON fetches urlStr and decodes the response body into v.
func JSON(ctx context.Context, urlStr string, opts *Options, v any) error {
	opts = opts.WithHeader("Accept", "application/json")
	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &Error{
			URL:        urlStr,
			Message:    "failed to decode JSON response",
			StatusCode: result.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// WithQuery returns base with params encoded as its query string.
// Existing query values on base are kept.
func WithQuery(base string, params url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", &Error{URL: base, Message: "invalid URL", Cause: err}
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
