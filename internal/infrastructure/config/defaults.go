package config

import (
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/suggest"
	domainurl "github.com/bnema/startpage/internal/domain/url"
)

const (
	defaultListenAddr = "127.0.0.1:3000"
	defaultBaseURL    = "http://127.0.0.1:3000"

	defaultReadTimeoutMs     = 10000
	defaultWriteTimeoutMs    = 15000
	defaultShutdownTimeoutMs = 5000

	defaultClientTimeoutMs   = 5000
	defaultUpstreamTimeoutMs = 4000
	defaultMetadataTimeoutMs = 8000

	defaultRateLimitPerSecond   = 20
	defaultRateLimitBurst       = 40
	defaultMaxSuggestBytes      = 64 << 10
	defaultMaxPageBytes         = 2 << 20
	defaultMaxConcurrentFetches = 8
	defaultUserAgent            = "Mozilla/5.0 (compatible; startpage/1.0)"
	defaultMetadataCacheSize    = 256
	defaultMetadataCacheTTLMin  = 30

	defaultDebounceMs     = 150
	defaultCacheSize      = 500
	defaultFaviconMaxAge  = 30
	defaultFaviconEntries = 100

	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7
)

// DefaultConfig returns the built-in configuration.
// Database.Path is filled in by the loader from the XDG data directory.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:        defaultListenAddr,
			ReadTimeoutMs:     defaultReadTimeoutMs,
			WriteTimeoutMs:    defaultWriteTimeoutMs,
			ShutdownTimeoutMs: defaultShutdownTimeoutMs,
			AllowedOrigins:    []string{},
		},
		Proxy: ProxyConfig{
			BaseURL:              defaultBaseURL,
			ClientTimeoutMs:      defaultClientTimeoutMs,
			UpstreamTimeoutMs:    defaultUpstreamTimeoutMs,
			MetadataTimeoutMs:    defaultMetadataTimeoutMs,
			AllowedSuggestHosts:  []string{},
			RateLimitPerSecond:   defaultRateLimitPerSecond,
			RateLimitBurst:       defaultRateLimitBurst,
			MaxSuggestBytes:      defaultMaxSuggestBytes,
			MaxPageBytes:         defaultMaxPageBytes,
			MaxConcurrentFetches: defaultMaxConcurrentFetches,
			UserAgent:            defaultUserAgent,
			MetadataCacheSize:    defaultMetadataCacheSize,
			MetadataCacheTTLMin:  defaultMetadataCacheTTLMin,
		},
		Search: SearchConfig{
			DebounceMs:       defaultDebounceMs,
			FallbackEngine:   engine.FallbackNickname,
			MaxSuggestions:   suggest.MaxSuggestions,
			CacheSize:        defaultCacheSize,
			FallbackTemplate: domainurl.FallbackResultTemplate,
		},
		Favicon: FaviconConfig{
			MaxAgeDays: defaultFaviconMaxAge,
			MaxEntries: defaultFaviconEntries,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
		Appearance: AppearanceConfig{
			ColorScheme: ThemeDefault,
			LightPalette: ColorPalette{
				Background: "#fafafa",
				Surface:    "#eeeeee",
				Text:       "#1a1a1a",
				Muted:      "#6b6b6b",
				Accent:     "#2563eb",
				Border:     "#d4d4d4",
			},
			DarkPalette: ColorPalette{
				Background: "#0f0f0f",
				Surface:    "#1c1c1c",
				Text:       "#e5e5e5",
				Muted:      "#8a8a8a",
				Accent:     "#4ade80",
				Border:     "#333333",
			},
		},
	}
}
