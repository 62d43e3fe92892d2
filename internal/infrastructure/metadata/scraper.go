// Package metadata scrapes page titles and favicons for speed dial entries.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

const (
	defaultTimeout      = 8 * time.Second
	defaultMaxPageBytes = 2 << 20
	defaultMaxIconBytes = 512 << 10
	defaultUserAgent    = "Mozilla/5.0 (compatible; startpage/1.0)"

	// duckduckgoIconURL is the last favicon candidate, keyed by hostname.
	duckduckgoIconURL = "https://icons.duckduckgo.com/ip3/%s.ico"
)

// Scraper errors.
var (
	ErrInvalidURL       = errors.New("url must be an absolute http(s) url")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNoTitle          = errors.New("page has no title")
	ErrNoFavicon        = errors.New("no favicon found")
	ErrTooLarge         = errors.New("response body too large")
)

// Scraper fetches pages over HTTP and extracts their metadata.
// It implements port.MetadataSource.
type Scraper struct {
	client       *http.Client
	userAgent    string
	maxPageBytes int64
	maxIconBytes int64
	// fallbackIcon is a fmt template taking the hostname; overridable for tests.
	fallbackIcon string
}

var _ port.MetadataSource = (*Scraper)(nil)

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) { s.client = client }
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxPageBytes bounds how much of a page is parsed.
func WithMaxPageBytes(n int64) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPageBytes = n
		}
	}
}

// WithFallbackIconURL replaces the DuckDuckGo icon service template.
// The template receives the hostname through a single %s. Empty disables it.
func WithFallbackIconURL(template string) Option {
	return func(s *Scraper) { s.fallbackIcon = template }
}

// NewScraper creates a scraper with an 8s client timeout unless a client is given.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		client:       &http.Client{Timeout: defaultTimeout},
		userAgent:    defaultUserAgent,
		maxPageBytes: defaultMaxPageBytes,
		maxIconBytes: defaultMaxIconBytes,
		fallbackIcon: duckduckgoIconURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchTitle returns the page's <title>, or og:title when the title is blank.
func (s *Scraper) FetchTitle(ctx context.Context, pageURL string) (string, error) {
	target, err := parsePageURL(pageURL)
	if err != nil {
		return "", err
	}

	doc, _, err := s.fetchDocument(ctx, target)
	if err != nil {
		return "", err
	}

	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := collapseSpace(og); title != "" {
			return title, nil
		}
	}
	return "", ErrNoTitle
}

// fetchDocument GETs target and parses it as HTML, decoding legacy charsets
// to UTF-8. The returned URL is the final one after redirects.
func (s *Scraper) fetchDocument(ctx context.Context, target *url.URL) (*goquery.Document, *url.URL, error) {
	log := logging.FromContext(ctx).With().Str("component", "metadata").Logger()

	resp, err := s.get(ctx, target.String(), "text/html,application/xhtml+xml")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("failed to close page body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, s.maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse page: %w", err)
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	log.Debug().Str("url", final.String()).Int("status", resp.StatusCode).Msg("page fetched")
	return doc, final, nil
}

func (s *Scraper) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	return resp, nil
}

func parsePageURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// ValidatePageURL reports whether raw is acceptable to the scraper.
func ValidatePageURL(raw string) error {
	_, err := parsePageURL(raw)
	return err
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
