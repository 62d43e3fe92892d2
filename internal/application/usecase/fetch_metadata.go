package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/repository"
	domainurl "github.com/bnema/startpage/internal/domain/url"
	"github.com/bnema/startpage/internal/logging"
)

// FetchMetadataUseCase looks up page titles and favicons for speed dial
// entries. Favicons are cached per domain in the settings store.
// Every failure degrades to an empty result.
type FetchMetadataUseCase struct {
	source       port.MetadataSource
	settingsRepo repository.SettingsRepository
	maxAge       time.Duration
	maxEntries   int
	now          func() time.Time

	mu sync.Mutex
}

// NewFetchMetadataUseCase creates a new metadata use case.
func NewFetchMetadataUseCase(
	source port.MetadataSource,
	settingsRepo repository.SettingsRepository,
	maxAge time.Duration,
	maxEntries int,
) *FetchMetadataUseCase {
	return &FetchMetadataUseCase{
		source:       source,
		settingsRepo: settingsRepo,
		maxAge:       maxAge,
		maxEntries:   maxEntries,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *FetchMetadataUseCase) WithClock(now func() time.Time) *FetchMetadataUseCase {
	uc.now = now
	return uc
}

// Title returns the page title, or "" when it cannot be determined.
func (uc *FetchMetadataUseCase) Title(ctx context.Context, pageURL string) string {
	title, err := uc.source.FetchTitle(ctx, pageURL)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("url", pageURL).Msg("title lookup failed")
		return ""
	}
	return title
}

// FaviconOutput is the result of a favicon lookup.
type FaviconOutput struct {
	Domain    string
	DataURL   string
	FromCache bool
}

// Favicon returns the icon data URL for the page's domain.
func (uc *FetchMetadataUseCase) Favicon(ctx context.Context, pageURL string) FaviconOutput {
	log := logging.FromContext(ctx)
	domain := domainurl.ExtractDomain(domainurl.Normalize(pageURL))
	out := FaviconOutput{Domain: domain}
	if domain == "" {
		return out
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	settings, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("settings unavailable, favicon cache bypassed")
		settings = nil
	}

	var cache entity.FaviconCache
	if settings != nil {
		cache = entity.ParseFaviconCache(settings.Favicons)
		if dataURL, ok := cache.Lookup(domain, uc.now(), uc.maxAge); ok {
			out.DataURL = dataURL
			out.FromCache = true
			return out
		}
	}

	dataURL, err := uc.source.FetchFavicon(ctx, pageURL)
	if err != nil {
		log.Debug().Err(err).Str("domain", domain).Msg("favicon lookup failed")
		return out
	}
	out.DataURL = dataURL
	if dataURL == "" || settings == nil {
		return out
	}

	cache.Put(domain, dataURL, uc.now(), uc.maxAge, uc.maxEntries)
	settings.Favicons = cache.Marshal()
	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("failed to persist favicon cache")
	}
	return out
}
