package metadata

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bnema/startpage/internal/logging"
)

// iconSelector matches rel="icon", rel="shortcut icon" and apple-touch-icon links.
const iconSelector = `link[rel~="icon"], link[rel="apple-touch-icon"]`

// FetchFavicon discovers the page's icon and returns it as a data URL.
// Candidates are tried in order: <link rel=icon> hrefs, /favicon.ico at the
// page's origin, then the DuckDuckGo icon service for the hostname.
func (s *Scraper) FetchFavicon(ctx context.Context, pageURL string) (string, error) {
	log := logging.FromContext(ctx).With().Str("component", "metadata").Logger()

	target, err := parsePageURL(pageURL)
	if err != nil {
		return "", err
	}

	for _, candidate := range s.iconCandidates(ctx, target) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		dataURL, err := s.downloadIcon(ctx, candidate)
		if err != nil {
			log.Debug().Err(err).Str("icon", candidate).Msg("favicon candidate rejected")
			continue
		}
		log.Debug().Str("icon", candidate).Str("page", target.String()).Msg("favicon resolved")
		return dataURL, nil
	}
	return "", ErrNoFavicon
}

// iconCandidates lists icon URLs without duplicates. A page that cannot be
// fetched still yields the origin and fallback candidates.
func (s *Scraper) iconCandidates(ctx context.Context, target *url.URL) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}

	base := target
	doc, final, err := s.fetchDocument(ctx, target)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("page", target.String()).Msg("page unavailable for icon discovery")
	} else {
		base = final
		doc.Find(iconSelector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			add(resolveHref(base, href))
		})
	}

	origin := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/favicon.ico"}
	add(origin.String())
	if s.fallbackIcon != "" && base.Hostname() != "" {
		add(fmt.Sprintf(s.fallbackIcon, base.Hostname()))
	}
	return out
}

// resolveHref resolves a link href against base. data: hrefs are kept as is.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(href), "data:image/") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func (s *Scraper) downloadIcon(ctx context.Context, iconURL string) (string, error) {
	if strings.HasPrefix(iconURL, "data:") {
		return iconURL, nil
	}

	resp, err := s.get(ctx, iconURL, "image/*")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxIconBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read icon: %w", err)
	}
	if int64(len(data)) > s.maxIconBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty icon body")
	}

	mediaType := iconMediaType(resp.Header.Get("Content-Type"), data)
	if mediaType == "" {
		return "", fmt.Errorf("not an image")
	}
	return EncodeDataURL(mediaType, data), nil
}

// iconMediaType trusts an image/* Content-Type header and otherwise sniffs
// the body. Returns "" when neither says image.
func iconMediaType(header string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return ""
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
