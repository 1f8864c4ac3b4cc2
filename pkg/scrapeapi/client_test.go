package scrapeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Adda-Baaj/shifter-go/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponse struct {
	status int
	body   []byte
}

func (s stubResponse) Body() []byte        { return s.body }
func (s stubResponse) StatusCode() int     { return s.status }
func (s stubResponse) Status() string      { return http.StatusText(s.status) }
func (s stubResponse) Header() http.Header { return http.Header{} }

// recordingTransport captures outbound requests instead of sending them.
type recordingTransport struct {
	mu    sync.Mutex
	calls []httpclient.Request
	err   error
}

func (r *recordingTransport) Do(_ context.Context, req httpclient.Request) (httpclient.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	if r.err != nil {
		return nil, r.err
	}
	return stubResponse{status: http.StatusOK, body: []byte("<html></html>")}, nil
}

const testPrefix = DefaultBaseURL + "?api_key=test-key"

// querySegments splits the part after the api_key into name=value segments.
func querySegments(t *testing.T, u string) map[string]string {
	t.Helper()
	require.True(t, strings.HasPrefix(u, testPrefix), "url %q", u)

	rest := strings.TrimPrefix(u, testPrefix)
	out := make(map[string]string)
	if rest == "" {
		return out
	}
	require.True(t, strings.HasPrefix(rest, "&"), "url %q", u)
	for _, seg := range strings.Split(rest[1:], "&") {
		name, value, ok := strings.Cut(seg, "=")
		require.True(t, ok, "segment %q", seg)
		_, dup := out[name]
		require.False(t, dup, "duplicate segment %q", name)
		out[name] = value
	}
	return out
}

func TestParamsToAPIURLPrefixAndSegments(t *testing.T) {
	c := NewClient("test-key", WithHTTPClient(&recordingTransport{}))

	assert.Equal(t, testPrefix, c.ParamsToAPIURL(nil))

	params := map[string]string{
		"render_js": "1",
		"country":   "us",
		"session":   "100",
	}
	got := querySegments(t, c.ParamsToAPIURL(params))
	assert.Equal(t, params, got)
}

func TestParamsToAPIURLEncodesOnlyURL(t *testing.T) {
	c := NewClient("test-key", WithHTTPClient(&recordingTransport{}))

	u := c.ParamsToAPIURL(map[string]string{
		"url":       "http://a.com/b c",
		"wait_for":  "a b",
		"js_params": "x/y?z",
	})
	got := querySegments(t, u)

	assert.Equal(t, "http%3A%2F%2Fa.com%2Fb%20c", got["url"])
	assert.Equal(t, "a b", got["wait_for"])
	assert.Equal(t, "x/y?z", got["js_params"])
}

func TestEncodeParamKeepsUnreserved(t *testing.T) {
	assert.Equal(t, "AZaz09-._~", encodeParam("AZaz09-._~"))
	assert.Equal(t, "a%2Bb%26c%3Dd%20e", encodeParam("a+b&c=d e"))
}

func TestClientGetRecordsSingleCall(t *testing.T) {
	tr := &recordingTransport{}
	c := NewClient("test-key", WithHTTPClient(tr))

	qb := NewQueryBuilder().
		Set(ParamURL, "http://httpbin.org/headers").
		Set(ParamRenderJS, "1").
		SetHeaders(map[string]string{"Wsa-Test": "abcd"})

	resp, err := c.Get(context.Background(), qb)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	require.Len(t, tr.calls, 1)
	call := tr.calls[0]
	assert.Equal(t, http.MethodGet, call.Method)
	assert.Nil(t, call.Body)
	assert.Equal(t, map[string]string{"Wsa-Test": "abcd"}, call.Headers)
	assert.Equal(t, map[string]string{
		"url":       "http%3A%2F%2Fhttpbin.org%2Fheaders",
		"render_js": "1",
	}, querySegments(t, call.URL))
}

func TestClientPostAndPutSendBody(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			tr := &recordingTransport{}
			c := NewClient("test-key", WithHTTPClient(tr))
			qb := NewQueryBuilder().
				Set(ParamURL, "http://a.com").
				SetBody(map[string]string{"q": "search"})

			_, err := c.Do(context.Background(), strings.ToLower(method), qb)
			require.NoError(t, err)

			require.Len(t, tr.calls, 1)
			assert.Equal(t, method, tr.calls[0].Method)
			assert.Equal(t, map[string]string{"q": "search"}, tr.calls[0].Body)
		})
	}
}

func TestClientRawPostNilBodyIsEmptyObject(t *testing.T) {
	tr := &recordingTransport{}
	c := NewClient("test-key", WithHTTPClient(tr))

	_, err := c.RawPost(context.Background(), map[string]string{"url": "http://a.com"}, nil, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(tr.calls[0].Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestClientNilBuilder(t *testing.T) {
	tr := &recordingTransport{}
	c := NewClient("test-key", WithHTTPClient(tr))

	_, err := c.Get(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tr.calls, 1)
	assert.Equal(t, testPrefix, tr.calls[0].URL)
}

func TestClientInvalidHeadersFailBeforeSend(t *testing.T) {
	cases := map[string]map[string]string{
		"control char value": {"X-Test": "a\nb"},
		"bad name":           {"Bad Header": "v"},
		"empty name":         {"": "v"},
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			tr := &recordingTransport{}
			c := NewClient("test-key", WithHTTPClient(tr))

			_, err := c.RawPut(context.Background(), map[string]string{"url": "http://a.com"}, headers, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidHeaders)

			var invalid *InvalidHeadersError
			assert.ErrorAs(t, err, &invalid)
			assert.Empty(t, tr.calls)
		})
	}
}

func TestClientUnsupportedMethod(t *testing.T) {
	tr := &recordingTransport{}
	c := NewClient("test-key", WithHTTPClient(tr))

	_, err := c.Do(context.Background(), http.MethodDelete, NewQueryBuilder())
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.Empty(t, tr.calls)
}

func TestClientTransportErrorIsWrappedAndRedacted(t *testing.T) {
	cause := errors.New(`Get "https://scrape.shifter.io/v1?api_key=test-key": dial tcp: connection refused`)
	tr := &recordingTransport{err: cause}
	c := NewClient("test-key", WithHTTPClient(tr))

	_, err := c.Get(context.Background(), NewQueryBuilder())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "test-key")
	assert.Contains(t, err.Error(), "connection refused")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.MethodGet, reqErr.Method)
	assert.Len(t, tr.calls, 1)
}

func TestClientRedactsOnlyTheAPIKeyValue(t *testing.T) {
	cause := errors.New(`Get "https://scrape.shifter.io/v1?api_key=e&url=x": dial tcp: connection refused`)
	tr := &recordingTransport{err: cause}
	c := NewClient("e", WithHTTPClient(tr))

	_, err := c.Get(context.Background(), NewQueryBuilder())
	require.Error(t, err)
	assert.Equal(t,
		`GET request: Get "https://scrape.shifter.io/v1?api_key=REDACTED&url=x": dial tcp: connection refused`,
		err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestClientConcurrentCallsShareTransport(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		_, _ = w.Write([]byte(r.Method + ":" + r.URL.Query().Get("session") + ":" + string(raw)))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := strconv.Itoa(i)
			qb := NewQueryBuilder().
				Set(ParamURL, "http://example.com/"+session).
				Set(ParamSession, session).
				SetBody(map[string]string{"n": session})

			var (
				resp httpclient.Response
				err  error
				want string
			)
			if i%2 == 0 {
				resp, err = c.Get(context.Background(), qb)
				want = "GET:" + session + ":"
			} else {
				resp, err = c.Post(context.Background(), qb)
				want = `POST:` + session + `:{"n":"` + session + `"}`
			}
			if err != nil {
				errs <- err
				return
			}
			if got := string(resp.Body()); got != want {
				errs <- fmt.Errorf("worker %d: got %q, want %q", i, got, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.EqualValues(t, workers, hits.Load())
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" || q.Get("url") != "http://example.com/a b" {
			http.Error(w, "bad query "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		if r.Header.Get("Wsa-Test") != "abcd" {
			http.Error(w, "missing header", http.StatusBadRequest)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(r.Method + ":" + string(raw)))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	qb := NewQueryBuilder().
		Set(ParamURL, "http://example.com/a b").
		SetHeaders(map[string]string{"Wsa-Test": "abcd"}).
		SetBody(map[string]string{"k": "v"})

	resp, err := c.Get(context.Background(), qb)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "GET:", string(resp.Body()))

	resp, err = c.Post(context.Background(), qb)
	require.NoError(t, err)
	method, body, ok := strings.Cut(string(resp.Body()), ":")
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, method)
	assert.JSONEq(t, `{"k":"v"}`, body)
	assert.Equal(t, "text/plain", resp.Header().Get("Content-Type"))
}
