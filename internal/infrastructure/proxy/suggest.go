package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/bnema/startpage/internal/logging"
)

var (
	errUpstreamTimeout  = errors.New("upstream timed out")
	errUpstreamStatus   = errors.New("upstream returned an error status")
	errUpstreamTooLarge = errors.New("upstream response too large")
	errUpstreamNotJSON  = errors.New("upstream response is not JSON")

	errRedirectNotAllowed = errors.New("upstream redirected to a host that is not allowed")
	errTooManyRedirects   = errors.New("upstream redirected too many times")
)

const maxRedirects = 5

// TermParam returns the query parameter an upstream host expects the search
// term under.
func TermParam(host string) string {
	host = normalizeHost(host)
	switch {
	case host == "api.bing.com":
		return "query"
	case host == "wikipedia.org" || strings.HasSuffix(host, ".wikipedia.org"):
		return "search"
	default:
		return "q"
	}
}

// UpstreamURL re-adds term to a stripped suggest URL.
func UpstreamURL(target, term string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid target_url: must be an absolute http(s) url")
	}
	values := u.Query()
	values.Set(TermParam(u.Hostname()), term)
	u.RawQuery = values.Encode()
	return u, nil
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()
	engine, term, target := params.Get("engine"), params.Get("q"), params.Get("target_url")

	log := logging.FromContext(ctx).With().Str("engine", engine).Logger()

	if engine == "" || strings.TrimSpace(term) == "" || target == "" {
		writeError(w, http.StatusBadRequest, "engine, q and target_url are required")
		return
	}

	upstream, err := UpstreamURL(target, term)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.allow.Allowed(ctx, upstream.Hostname()) {
		log.Warn().Str("host", upstream.Hostname()).Msg("suggest target not on allow-list")
		writeError(w, http.StatusForbidden, "target host is not allowed")
		return
	}
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, err := s.fetchSuggestions(ctx, upstream.String())
	if err != nil {
		if errors.Is(err, errRedirectNotAllowed) {
			log.Warn().Err(err).Str("host", upstream.Hostname()).Msg("suggest redirect blocked")
		} else {
			log.Debug().Err(err).Str("host", upstream.Hostname()).Msg("suggest upstream failed")
		}
		if errors.Is(err, errUpstreamTimeout) {
			writeError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// fetchSuggestions collapses identical concurrent requests into one upstream
// call. The call is detached from the first caller's cancellation and bounded
// by the upstream timeout instead.
func (s *Server) fetchSuggestions(ctx context.Context, upstream string) ([]byte, error) {
	v, err, shared := s.inflight.Do("suggest:"+upstream, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.UpstreamTimeout)
		defer cancel()
		return s.callUpstream(callCtx, upstream)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.FromContext(ctx).Trace().Str("url", upstream).Msg("suggest response shared")
	}
	return v.([]byte), nil
}

func (s *Server) callUpstream(ctx context.Context, upstream string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstream, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errUpstreamTimeout
		}
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.opts.MaxSuggestBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, errUpstreamTimeout
		}
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}
	if int64(len(body)) > s.opts.MaxSuggestBytes {
		return nil, errUpstreamTooLarge
	}

	body, err = toUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errUpstreamNotJSON
	}
	return body, nil
}

// toUTF8 transcodes body when the Content-Type declares a non-UTF-8 charset.
// Some engines answer in the locale's legacy encoding.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return body, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unsupported upstream charset %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
