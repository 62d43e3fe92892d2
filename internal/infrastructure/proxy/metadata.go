package proxy

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/startpage/internal/infrastructure/cache"
	"github.com/bnema/startpage/internal/logging"
)

type titleResponse struct {
	Title *string `json:"title"`
}

type faviconResponse struct {
	FaviconDataURL *string `json:"faviconDataUrl"`
}

type fetchFunc func(ctx context.Context, pageURL string) (string, error)

func (s *Server) handleFetchTitle(w http.ResponseWriter, r *http.Request) {
	pageURL, ok := pageURLParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "url must be an absolute http(s) url")
		return
	}

	var fetch fetchFunc
	if s.metadata != nil {
		fetch = s.metadata.FetchTitle
	}
	var resp titleResponse
	if title, found := s.lookupMetadata(r.Context(), "title", s.titles, pageURL, fetch); found {
		resp.Title = &title
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFetchFavicon(w http.ResponseWriter, r *http.Request) {
	pageURL, ok := pageURLParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "url must be an absolute http(s) url")
		return
	}

	var fetch fetchFunc
	if s.metadata != nil {
		fetch = s.metadata.FetchFavicon
	}
	var resp faviconResponse
	if icon, found := s.lookupMetadata(r.Context(), "favicon", s.favicons, pageURL, fetch); found {
		resp.FaviconDataURL = &icon
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookupMetadata serves from the cache, otherwise fetches under the
// concurrency bound and the metadata timeout. Failures are logged and
// reported as not found. Only successes are cached.
func (s *Server) lookupMetadata(
	ctx context.Context,
	kind string,
	store *cache.Bounded[string, string],
	pageURL string,
	fetch fetchFunc,
) (string, bool) {
	log := logging.FromContext(ctx).With().Str("kind", kind).Str("url", pageURL).Logger()

	if v, ok := store.Get(pageURL); ok {
		log.Trace().Msg("metadata cache hit")
		return v, true
	}
	if fetch == nil {
		return "", false
	}

	v, err, _ := s.inflight.Do(kind+":"+pageURL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.MetadataTimeout)
		defer cancel()

		if err := s.fetches.Acquire(fetchCtx, 1); err != nil {
			return "", err
		}
		defer s.fetches.Release(1)

		value, err := fetch(fetchCtx, pageURL)
		if err != nil {
			return "", err
		}
		if value != "" {
			store.Set(pageURL, value)
		}
		return value, nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("metadata fetch failed")
		return "", false
	}
	value, _ := v.(string)
	return value, value != ""
}

func pageURLParam(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return raw, true
}
