package proxy_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/application/port/mocks"
	"github.com/bnema/startpage/internal/infrastructure/proxy"
	"github.com/bnema/startpage/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// newProxy starts the proxy under test. Hosts are added to the configured
// allow-list.
func newProxy(t *testing.T, opts proxy.Options, meta port.MetadataSource, hosts ...string) *httptest.Server {
	t.Helper()
	srv := proxy.NewServer(opts, proxy.NewAllowList(hosts, nil), meta, nil)
	ts := httptest.NewServer(srv.Handler(testContext()))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, base, path string, params url.Values) (int, string) {
	t.Helper()
	resp, err := http.Get(base + path + "?" + params.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func suggestParams(target, q string) url.Values {
	return url.Values{"engine": {"g"}, "q": {q}, "target_url": {target}}
}

func TestSuggest_ForwardsToUpstream(t *testing.T) {
	var gotQuery url.Values
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "text/javascript; charset=UTF-8")
		_, _ = w.Write([]byte(`["go",["golang","gopher"]]`))
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{}, nil, "127.0.0.1")

	status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL+"/complete/search?client=firefox", "go lang"))
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `["go",["golang","gopher"]]`, body)
	assert.Equal(t, "go lang", gotQuery.Get("q"))
	assert.Equal(t, "firefox", gotQuery.Get("client"))
}

func TestSuggest_BadRequests(t *testing.T) {
	ts := newProxy(t, proxy.Options{}, nil, "127.0.0.1")

	tests := []struct {
		name   string
		params url.Values
	}{
		{"missing engine", url.Values{"q": {"go"}, "target_url": {"https://x.test"}}},
		{"missing query", url.Values{"engine": {"g"}, "target_url": {"https://x.test"}}},
		{"blank query", url.Values{"engine": {"g"}, "q": {"  "}, "target_url": {"https://x.test"}}},
		{"missing target", url.Values{"engine": {"g"}, "q": {"go"}}},
		{"relative target", suggestParams("/complete", "go")},
		{"non-http target", suggestParams("ftp://127.0.0.1/x", "go")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts.URL, "/suggest", tt.params)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, `"error"`)
		})
	}
}

func TestSuggest_HostNotAllowed(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{}, nil, "suggestqueries.google.com")

	status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "go"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"error":"target host is not allowed"}`, body)
	assert.Zero(t, calls.Load())
}

func TestSuggest_RedirectToDisallowedHost(t *testing.T) {
	var internalHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		internalHits.Add(1)
		_, _ = w.Write([]byte(`["secret",["internal-data"]]`))
	}))
	defer internal.Close()

	internalURL, err := url.Parse(internal.URL)
	require.NoError(t, err)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://localhost:"+internalURL.Port()+"/admin", http.StatusFound)
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{}, nil, "127.0.0.1")

	status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "go"))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body, "not allowed")
	assert.NotContains(t, body, "internal-data")
	assert.Zero(t, internalHits.Load())
}

func TestSuggest_RedirectWithinAllowList(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["go",["golang"]]`))
	}))
	defer final.Close()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/complete", http.StatusFound)
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{}, nil, "127.0.0.1")

	status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "go"))
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `["go",["golang"]]`, body)
}

func TestSuggest_EngineHostsAreAllowed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"phrase":"golang"}]`))
	}))
	defer upstream.Close()

	allow := proxy.NewAllowList(nil, func(context.Context) []string { return []string{"127.0.0.1"} })
	ts := httptest.NewServer(proxy.NewServer(proxy.Options{}, allow, nil, nil).Handler(testContext()))
	defer ts.Close()

	status, _ := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "go"))
	assert.Equal(t, http.StatusOK, status)
}

func TestSuggest_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		opts    proxy.Options
		want    int
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: http.StatusBadGateway,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>captcha</html>"))
			},
			want: http.StatusBadGateway,
		},
		{
			name: "too large",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`["` + strings.Repeat("a", 64) + `"]`))
			},
			opts: proxy.Options{MaxSuggestBytes: 16},
			want: http.StatusBadGateway,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			opts: proxy.Options{UpstreamTimeout: 50 * time.Millisecond},
			want: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			ts := newProxy(t, tt.opts, nil, "127.0.0.1")
			status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "go"))
			assert.Equal(t, tt.want, status, body)
			assert.Contains(t, body, `"error"`)
		})
	}
}

func TestSuggest_TranscodesLegacyCharset(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=Shift_JIS")
		_, _ = w.Write([]byte("[\"n\",[\"\x93\xfa\x96\x7b\"]]"))
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{}, nil, "127.0.0.1")
	status, body := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "n"))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["n",["日本"]]`, body)
}

func TestSuggest_RateLimited(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	ts := newProxy(t, proxy.Options{RateLimit: 0.001, RateBurst: 1}, nil, "127.0.0.1")

	status, _ := get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "a"))
	assert.Equal(t, http.StatusOK, status)
	status, _ = get(t, ts.URL, "/suggest", suggestParams(upstream.URL, "b"))
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestTermParam(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"api.bing.com", "query"},
		{"ja.wikipedia.org", "search"},
		{"EN.Wikipedia.org", "search"},
		{"suggestqueries.google.com", "q"},
		{"duckduckgo.com", "q"},
		{"notwikipedia.org", "q"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, proxy.TermParam(tt.host), tt.host)
	}
}

func TestUpstreamURL(t *testing.T) {
	u, err := proxy.UpstreamURL("https://ja.wikipedia.org/w/api.php?action=opensearch", "東京 タワー")
	require.NoError(t, err)
	assert.Equal(t, "東京 タワー", u.Query().Get("search"))
	assert.Equal(t, "opensearch", u.Query().Get("action"))

	u, err = proxy.UpstreamURL("https://api.bing.com/osjson.aspx", "go")
	require.NoError(t, err)
	assert.Equal(t, "https://api.bing.com/osjson.aspx?query=go", u.String())

	_, err = proxy.UpstreamURL("not a url", "go")
	assert.Error(t, err)
}

func TestFetchTitle(t *testing.T) {
	meta := mocks.NewMockMetadataSource(t)
	meta.EXPECT().FetchTitle(mock.Anything, "https://go.dev").Return("The Go Programming Language", nil).Once()
	meta.EXPECT().FetchTitle(mock.Anything, "https://down.test").Return("", errors.New("connection refused")).Twice()

	ts := newProxy(t, proxy.Options{}, meta)

	// The second lookup is served from the cache.
	for range 2 {
		status, body := get(t, ts.URL, "/fetch-title", url.Values{"url": {"https://go.dev"}})
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"title":"The Go Programming Language"}`, body)
	}

	// Failures are not cached.
	for range 2 {
		status, body := get(t, ts.URL, "/fetch-title", url.Values{"url": {"https://down.test"}})
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"title":null}`, body)
	}

	status, _ := get(t, ts.URL, "/fetch-title", url.Values{"url": {"go.dev"}})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = get(t, ts.URL, "/fetch-title", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFetchFavicon(t *testing.T) {
	meta := mocks.NewMockMetadataSource(t)
	meta.EXPECT().FetchFavicon(mock.Anything, "https://go.dev").Return("data:image/png;base64,AAAA", nil).Once()
	meta.EXPECT().FetchFavicon(mock.Anything, "https://slow.test").RunAndReturn(
		func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}).Once()

	ts := newProxy(t, proxy.Options{MetadataTimeout: 50 * time.Millisecond}, meta)

	status, body := get(t, ts.URL, "/fetch-favicon", url.Values{"url": {"https://go.dev"}})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"faviconDataUrl":"data:image/png;base64,AAAA"}`, body)

	status, body = get(t, ts.URL, "/fetch-favicon", url.Values{"url": {"https://slow.test"}})
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"faviconDataUrl":null}`, body)

	status, _ = get(t, ts.URL, "/fetch-favicon", url.Values{"url": {"javascript:alert(1)"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthz(t *testing.T) {
	ts := newProxy(t, proxy.Options{}, nil)
	status, body := get(t, ts.URL, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestAllowList(t *testing.T) {
	ctx := testContext()
	engines := []string{"api.bing.com"}
	a := proxy.NewAllowList([]string{"Example.COM."}, func(context.Context) []string { return engines })

	assert.True(t, a.Allowed(ctx, "example.com"))
	assert.True(t, a.Allowed(ctx, "API.bing.com"))
	assert.False(t, a.Allowed(ctx, "evil.test"))
	assert.False(t, a.Allowed(ctx, ""))

	a.SetConfigured([]string{"evil.test"})
	assert.False(t, a.Allowed(ctx, "example.com"))
	assert.True(t, a.Allowed(ctx, "evil.test"))

	engines = nil
	assert.False(t, a.Allowed(ctx, "api.bing.com"))
}
