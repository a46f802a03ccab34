package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/abpadmin/pkg/correlation"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Client performs JSON requests against one ABP host.
// Zero value is not usable; use New.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	tokenSource oauth2.TokenSource
	tenant      string
	userAgent   string
	timeout     time.Duration
	errorHook   ErrorHook
	logger      *slog.Logger
}

// New creates a Client for the ABP host at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "abpadmin/1.0",
		timeout:   30 * time.Second,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.tokenSource != nil {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.http
		hc.Transport = &oauth2.Transport{Source: oauth2.ReuseTokenSource(nil, c.tokenSource), Base: base}
		c.http = &hc
	}

	return c, nil
}

// Tenant returns the tenant sent in the __tenant header, if any.
func (c *Client) Tenant() string {
	return c.tenant
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with in as body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, in, out, opts...)
}

// Put issues a PUT with in as body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, in, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Do performs one request. in may be nil, a BodyEncoder or any JSON value.
// out may be nil, *string, *[]byte or a pointer to a JSON target.
func (c *Client) Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	ro := &requestOptions{query: url.Values{}, headers: http.Header{}}
	for _, opt := range opts {
		opt(ro)
	}

	err := c.do(ctx, method, path, in, out, ro)
	if err != nil && c.errorHook != nil && !ro.skipHook {
		c.errorHook(ctx, RequestInfo{Method: method, Path: path}, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, ro *requestOptions) error {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(reqCtx, method, path, in, ro)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed",
			logger.Method(method), logger.Path(path), logger.Duration(time.Since(start)), logger.Error(err))
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	c.logger.DebugContext(ctx, "request completed",
		logger.Method(method), logger.Path(path), logger.StatusCode(resp.StatusCode), logger.Duration(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}
	return decodeBody(resp.Header.Get("Content-Type"), body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any, ro *requestOptions) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(ro.query) > 0 {
		u.RawQuery = ro.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch v := in.(type) {
	case nil:
	case BodyEncoder:
		ct, r, err := v.Encode()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeRequest, err)
		}
		body, contentType = r, ct
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeRequest, err)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tenant != "" {
		req.Header.Set(TenantHeader, c.tenant)
	}
	if id := correlation.FromContext(ctx); id != "" {
		req.Header.Set(correlation.Header, id)
	} else {
		req.Header.Set(correlation.Header, correlation.New())
	}
	for k, vals := range ro.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func decodeError(status int, body []byte) error {
	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Error != nil {
		env.Error.StatusCode = status
		return env.Error
	}
	re := &RemoteError{StatusCode: status}
	if msg := strings.TrimSpace(string(body)); msg != "" && !strings.HasPrefix(msg, "{") && !strings.HasPrefix(msg, "<") {
		re.Message = truncate(msg, maxErrorTextLen)
	}
	return re
}

const maxErrorTextLen = 200

// truncate cuts s to at most n bytes on a rune boundary and marks the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func decodeBody(contentType string, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	switch v := out.(type) {
	case *[]byte:
		*v = append((*v)[:0], body...)
		return nil
	case *string:
		// ABP returns plain strings either JSON-quoted or as text/plain.
		if strings.HasPrefix(contentType, "application/json") || bytes.HasPrefix(body, []byte(`"`)) {
			if err := json.Unmarshal(body, v); err == nil {
				return nil
			}
		}
		*v = string(body)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return nil
}
