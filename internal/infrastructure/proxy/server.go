// Package proxy serves the HTTP endpoints the start page depends on:
// /suggest forwards autocomplete requests to allow-listed engines, and
// /fetch-title and /fetch-favicon scrape speed dial metadata.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/infrastructure/cache"
)

// Options tunes the proxy. Zero values fall back to DefaultOptions.
type Options struct {
	UpstreamTimeout      time.Duration
	MetadataTimeout      time.Duration
	MaxSuggestBytes      int64
	RateLimit            float64
	RateBurst            int
	MaxConcurrentFetches int
	UserAgent            string
	MetadataCacheSize    int
	MetadataCacheTTL     time.Duration
	// AllowedOrigins enables CORS for a browser front end. Empty disables it.
	AllowedOrigins []string
}

// DefaultOptions returns the built-in limits.
func DefaultOptions() Options {
	return Options{
		UpstreamTimeout:      4 * time.Second,
		MetadataTimeout:      8 * time.Second,
		MaxSuggestBytes:      64 << 10,
		RateLimit:            20,
		RateBurst:            40,
		MaxConcurrentFetches: 8,
		UserAgent:            "Mozilla/5.0 (compatible; startpage/1.0)",
		MetadataCacheSize:    256,
		MetadataCacheTTL:     30 * time.Minute,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UpstreamTimeout <= 0 {
		o.UpstreamTimeout = d.UpstreamTimeout
	}
	if o.MetadataTimeout <= 0 {
		o.MetadataTimeout = d.MetadataTimeout
	}
	if o.MaxSuggestBytes <= 0 {
		o.MaxSuggestBytes = d.MaxSuggestBytes
	}
	if o.RateLimit <= 0 {
		o.RateLimit = d.RateLimit
	}
	if o.RateBurst <= 0 {
		o.RateBurst = d.RateBurst
	}
	if o.MaxConcurrentFetches <= 0 {
		o.MaxConcurrentFetches = d.MaxConcurrentFetches
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.MetadataCacheSize <= 0 {
		o.MetadataCacheSize = d.MetadataCacheSize
	}
	if o.MetadataCacheTTL < 0 {
		o.MetadataCacheTTL = 0
	}
	return o
}

// Server holds the proxy's shared state. Handlers are safe for concurrent use.
type Server struct {
	opts     Options
	allow    *AllowList
	client   *http.Client
	limiter  *rate.Limiter
	inflight singleflight.Group
	fetches  *semaphore.Weighted
	metadata port.MetadataSource
	titles   *cache.Bounded[string, string]
	favicons *cache.Bounded[string, string]
}

// NewServer creates a proxy server. client may be nil.
func NewServer(opts Options, allow *AllowList, metadata port.MetadataSource, client *http.Client) *Server {
	opts = opts.withDefaults()
	if client == nil {
		client = &http.Client{}
	}
	if allow == nil {
		allow = NewAllowList(nil, nil)
	}
	s := &Server{
		opts:     opts,
		allow:    allow,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		fetches:  semaphore.NewWeighted(int64(opts.MaxConcurrentFetches)),
		metadata: metadata,
		titles: cache.NewBounded[string, string](opts.MetadataCacheSize, cache.EvictLeastRecent,
			cache.WithTTL(opts.MetadataCacheTTL)),
		favicons: cache.NewBounded[string, string](opts.MetadataCacheSize, cache.EvictLeastRecent,
			cache.WithTTL(opts.MetadataCacheTTL)),
	}
	s.client = s.guardRedirects(client)
	return s
}

// guardRedirects returns a copy of client that re-checks every redirect hop
// against the allow-list. A hop to a host outside it aborts the request.
func (s *Server) guardRedirects(client *http.Client) *http.Client {
	guarded := *client
	next := client.CheckRedirect
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errTooManyRedirects
		}
		if !s.allow.Allowed(req.Context(), req.URL.Hostname()) {
			return fmt.Errorf("%w: %s", errRedirectNotAllowed, req.URL.Hostname())
		}
		if next != nil {
			return next(req, via)
		}
		return nil
	}
	return &guarded
}

// AllowList returns the server's allow-list so callers can refresh it.
func (s *Server) AllowList() *AllowList {
	return s.allow
}

// Handler builds the router. baseCtx carries the logger used for requests.
func (s *Server) Handler(baseCtx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(baseCtx))
	r.Use(chimiddleware.Recoverer)
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}).Handler)
	}

	r.Get("/suggest", s.handleSuggest)
	r.Get("/fetch-title", s.handleFetchTitle)
	r.Get("/fetch-favicon", s.handleFetchFavicon)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
