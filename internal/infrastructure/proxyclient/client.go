// Package proxyclient talks to the startpage proxy over HTTP. It is the
// suggestion and metadata source used by the CLI and the search box.
package proxyclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/domain/entity"
	domainurl "github.com/bnema/startpage/internal/domain/url"
	"github.com/bnema/startpage/internal/logging"
)

const (
	defaultSuggestTimeout  = 5 * time.Second
	defaultMetadataTimeout = 10 * time.Second
	maxResponseBytes       = 1 << 20
)

// Client errors.
var (
	ErrNoSuggestURL = errors.New("engine has no suggest url")
	ErrProxyStatus  = errors.New("proxy returned an error")
	ErrNotFound     = errors.New("metadata not found")
)

// Client implements port.SuggestionSource and port.MetadataSource.
type Client struct {
	baseURL         string
	http            *http.Client
	suggestTimeout  time.Duration
	metadataTimeout time.Duration
}

var (
	_ port.SuggestionSource = (*Client)(nil)
	_ port.MetadataSource   = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithSuggestTimeout bounds one /suggest round trip.
func WithSuggestTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.suggestTimeout = d
		}
	}
}

// WithMetadataTimeout bounds one /fetch-title or /fetch-favicon round trip.
func WithMetadataTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.metadataTimeout = d
		}
	}
}

// New creates a client for the proxy at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		http:            &http.Client{},
		suggestTimeout:  defaultSuggestTimeout,
		metadataTimeout: defaultMetadataTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSuggestions asks the proxy for the engine's raw autocomplete payload.
func (c *Client) FetchSuggestions(ctx context.Context, engine entity.Engine, query string) ([]byte, error) {
	if !engine.HasSuggest() {
		return nil, ErrNoSuggestURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.suggestTimeout)
	defer cancel()

	params := url.Values{
		"engine":     {engine.Nickname},
		"q":          {query},
		"target_url": {domainurl.StripSuggestTarget(engine.SuggestURLTemplate)},
	}
	return c.get(ctx, "/suggest", params)
}

// FetchTitle returns the page title resolved by the proxy.
func (c *Client) FetchTitle(ctx context.Context, pageURL string) (string, error) {
	var resp struct {
		Title *string `json:"title"`
	}
	if err := c.getMetadata(ctx, "/fetch-title", pageURL, &resp); err != nil {
		return "", err
	}
	if resp.Title == nil || *resp.Title == "" {
		return "", ErrNotFound
	}
	return *resp.Title, nil
}

// FetchFavicon returns the page icon as a data URL.
func (c *Client) FetchFavicon(ctx context.Context, pageURL string) (string, error) {
	var resp struct {
		FaviconDataURL *string `json:"faviconDataUrl"`
	}
	if err := c.getMetadata(ctx, "/fetch-favicon", pageURL, &resp); err != nil {
		return "", err
	}
	if resp.FaviconDataURL == nil || *resp.FaviconDataURL == "" {
		return "", ErrNotFound
	}
	return *resp.FaviconDataURL, nil
}

func (c *Client) getMetadata(ctx context.Context, path, pageURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.metadataTimeout)
	defer cancel()

	body, err := c.get(ctx, path, url.Values{"url": {pageURL}})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	log := logging.FromContext(ctx)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request %s failed: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("failed to close proxy response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}

	log.Trace().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("proxy round trip")

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: %d %s", ErrProxyStatus, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: %d", ErrProxyStatus, resp.StatusCode)
	}
	return body, nil
}
