package restclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// TenantHeader is the header ABP reads the current tenant from.
const TenantHeader = "__tenant"

// RequestInfo identifies a call in an ErrorHook.
type RequestInfo struct {
	Method string
	Path   string
}

// ErrorHook is the client-wide reaction to failed calls, e.g. surfacing a
// message or forcing a re-login. It must not block.
type ErrorHook func(ctx context.Context, req RequestInfo, err error)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// when a token source is configured.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource authenticates every request with a bearer token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithTenant sends the tenant id or name in the __tenant header.
func WithTenant(tenant string) Option {
	return func(c *Client) {
		c.tenant = tenant
	}
}

// WithErrorHook installs the client-wide error reaction.
func WithErrorHook(h ErrorHook) Option {
	return func(c *Client) {
		c.errorHook = h
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeout bounds each request. Zero or negative values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

type requestOptions struct {
	query    url.Values
	headers  http.Header
	skipHook bool
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

// Query adds a query parameter. Empty values are skipped.
func Query(key, value string) RequestOption {
	return func(o *requestOptions) {
		if value != "" {
			o.query.Add(key, value)
		}
	}
}

// QueryValues merges a set of query parameters.
func QueryValues(v url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vals := range v {
			for _, val := range vals {
				o.query.Add(k, val)
			}
		}
	}
}

// Header sets a request header.
func Header(key, value string) RequestOption {
	return func(o *requestOptions) {
		if key != "" {
			o.headers.Set(key, value)
		}
	}
}

// SkipErrorHandling keeps the client's ErrorHook out of this call.
func SkipErrorHandling() RequestOption {
	return func(o *requestOptions) {
		o.skipHook = true
	}
}
