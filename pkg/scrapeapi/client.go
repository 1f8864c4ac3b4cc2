package scrapeapi

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/Adda-Baaj/shifter-go/pkg/httpclient"
	"golang.org/x/net/http/httpguts"
)

const (
	// DefaultBaseURL is the scraping API endpoint.
	DefaultBaseURL = "https://scrape.shifter.io/v1"

	defaultTimeout = 30 * time.Second
	redacted       = "REDACTED"
)

// Client issues requests against the scraping API. It holds the API key and a
// transport shared by every call, and is safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	http    httpclient.Client
	log     Logger
}

type clientOptions struct {
	http    httpclient.Client
	baseURL string
	timeout time.Duration
	log     Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *clientOptions) { o.http = c }
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "?") }
}

// WithTimeout sets the timeout of the default transport. Ignored with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// NewClient builds a client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	o := clientOptions{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.baseURL == "" {
		o.baseURL = DefaultBaseURL
	}
	if o.http == nil {
		o.http = httpclient.NewRestyClient(o.timeout)
	}
	if o.log == nil {
		o.log = noopLogger{}
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: o.baseURL,
		http:    o.http,
		log:     o.log,
	}
}

// ParamsToAPIURL builds the request URL for params. Segments follow map iteration order.
//
// Only the url parameter is percent-encoded; all other values are inserted verbatim,
// so callers must pre-encode them if they contain reserved characters. The upstream
// API depends on this exact encoding.
func (c *Client) ParamsToAPIURL(params map[string]string) string {
	var sb strings.Builder
	sb.WriteString(c.baseURL)
	sb.WriteString("?api_key=")
	sb.WriteString(c.apiKey)

	for name, value := range params {
		if name == string(ParamURL) {
			value = encodeParam(value)
		}
		sb.WriteByte('&')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(value)
	}
	return sb.String()
}

// encodeParam escapes everything outside the RFC 3986 unreserved set, spaces as %20.
func encodeParam(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Get issues a GET for the builder's params and headers.
func (c *Client) Get(ctx context.Context, qb *QueryBuilder) (httpclient.Response, error) {
	qb = ensureBuilder(qb)
	return c.RawGet(ctx, qb.params, qb.headers)
}

// Post issues a POST with the builder's body as a JSON object.
func (c *Client) Post(ctx context.Context, qb *QueryBuilder) (httpclient.Response, error) {
	qb = ensureBuilder(qb)
	return c.RawPost(ctx, qb.params, qb.headers, qb.body)
}

// Put issues a PUT with the builder's body as a JSON object.
func (c *Client) Put(ctx context.Context, qb *QueryBuilder) (httpclient.Response, error) {
	qb = ensureBuilder(qb)
	return c.RawPut(ctx, qb.params, qb.headers, qb.body)
}

// RawGet issues a GET from plain maps, bypassing the builder.
func (c *Client) RawGet(ctx context.Context, params, headers map[string]string) (httpclient.Response, error) {
	return c.send(ctx, http.MethodGet, params, headers, nil)
}

// RawPost issues a POST from plain maps. A nil body is sent as {}.
func (c *Client) RawPost(ctx context.Context, params, headers, body map[string]string) (httpclient.Response, error) {
	return c.send(ctx, http.MethodPost, params, headers, copyMap(body))
}

// RawPut issues a PUT from plain maps. A nil body is sent as {}.
func (c *Client) RawPut(ctx context.Context, params, headers, body map[string]string) (httpclient.Response, error) {
	return c.send(ctx, http.MethodPut, params, headers, copyMap(body))
}

// Do dispatches qb with the named HTTP method.
func (c *Client) Do(ctx context.Context, method string, qb *QueryBuilder) (httpclient.Response, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "", http.MethodGet:
		return c.Get(ctx, qb)
	case http.MethodPost:
		return c.Post(ctx, qb)
	case http.MethodPut:
		return c.Put(ctx, qb)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMethod, method)
	}
}

func (c *Client) send(ctx context.Context, method string, params, headers map[string]string, body any) (httpclient.Response, error) {
	if err := validateHeaders(headers); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	names := slices.Sorted(maps.Keys(params))
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     c.ParamsToAPIURL(params),
		Headers: copyMap(headers),
		Body:    body,
	})
	if err != nil {
		reqErr := &RequestError{Method: method, Err: err}
		reqErr.msg = c.redact(reqErr.Error())
		c.log.DebugObj("scrape request failed", "scrape_request", map[string]any{
			"method": method,
			"params": names,
			"error":  reqErr.msg,
		})
		return nil, reqErr
	}

	c.log.DebugObj("scrape request completed", "scrape_request", map[string]any{
		"method": method,
		"params": names,
		"status": resp.StatusCode(),
	})
	return resp, nil
}

// redact masks the api_key query value only; the rest of the message is left as is.
func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, "api_key="+c.apiKey, "api_key="+redacted)
}

// validateHeaders rejects names and values net/http would refuse to write.
func validateHeaders(headers map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		if !httpguts.ValidHeaderFieldName(name) {
			return &InvalidHeadersError{Name: name, Reason: "is not a valid header name"}
		}
		if !httpguts.ValidHeaderFieldValue(headers[name]) {
			return &InvalidHeadersError{Name: name, Reason: "has an invalid value"}
		}
	}
	return nil
}

func ensureBuilder(qb *QueryBuilder) *QueryBuilder {
	if qb == nil {
		return NewQueryBuilder()
	}
	return qb
}
