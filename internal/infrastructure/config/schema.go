// Package config loads, validates and watches the startpage configuration.
package config

import "time"

// Config is the complete startpage configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" toml:"server" json:"server"`
	Proxy      ProxyConfig      `mapstructure:"proxy" toml:"proxy" json:"proxy"`
	Search     SearchConfig     `mapstructure:"search" toml:"search" json:"search"`
	Favicon    FaviconConfig    `mapstructure:"favicon" toml:"favicon" json:"favicon"`
	Database   DatabaseConfig   `mapstructure:"database" toml:"database" json:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging" json:"logging"`
	Appearance AppearanceConfig `mapstructure:"appearance" toml:"appearance" json:"appearance"`
}

// ServerConfig holds the HTTP listener settings of `startpage serve`.
type ServerConfig struct {
	ListenAddr        string `mapstructure:"listen_addr" toml:"listen_addr" json:"listen_addr"`
	ReadTimeoutMs     int    `mapstructure:"read_timeout_ms" toml:"read_timeout_ms" json:"read_timeout_ms"`
	WriteTimeoutMs    int    `mapstructure:"write_timeout_ms" toml:"write_timeout_ms" json:"write_timeout_ms"`
	ShutdownTimeoutMs int    `mapstructure:"shutdown_timeout_ms" toml:"shutdown_timeout_ms" json:"shutdown_timeout_ms"`
	// AllowedOrigins enables CORS for a browser-based start page. Empty disables CORS.
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins"`
}

// ProxyConfig covers both sides of the proxy: the client used by the search
// box and the server that relays to upstream engines.
type ProxyConfig struct {
	// BaseURL is where the search box reaches the proxy.
	BaseURL           string `mapstructure:"base_url" toml:"base_url" json:"base_url"`
	ClientTimeoutMs   int    `mapstructure:"client_timeout_ms" toml:"client_timeout_ms" json:"client_timeout_ms"`
	UpstreamTimeoutMs int    `mapstructure:"upstream_timeout_ms" toml:"upstream_timeout_ms" json:"upstream_timeout_ms"`
	MetadataTimeoutMs int    `mapstructure:"metadata_timeout_ms" toml:"metadata_timeout_ms" json:"metadata_timeout_ms"`
	// AllowedSuggestHosts extends the hosts derived from the live engines.
	AllowedSuggestHosts  []string `mapstructure:"allowed_suggest_hosts" toml:"allowed_suggest_hosts" json:"allowed_suggest_hosts"`
	RateLimitPerSecond   float64  `mapstructure:"rate_limit_per_second" toml:"rate_limit_per_second" json:"rate_limit_per_second"`
	RateLimitBurst       int      `mapstructure:"rate_limit_burst" toml:"rate_limit_burst" json:"rate_limit_burst"`
	MaxSuggestBytes      int64    `mapstructure:"max_suggest_bytes" toml:"max_suggest_bytes" json:"max_suggest_bytes"`
	MaxPageBytes         int64    `mapstructure:"max_page_bytes" toml:"max_page_bytes" json:"max_page_bytes"`
	MaxConcurrentFetches int      `mapstructure:"max_concurrent_fetches" toml:"max_concurrent_fetches" json:"max_concurrent_fetches"`
	UserAgent            string   `mapstructure:"user_agent" toml:"user_agent" json:"user_agent"`
	MetadataCacheSize    int      `mapstructure:"metadata_cache_size" toml:"metadata_cache_size" json:"metadata_cache_size"`
	MetadataCacheTTLMin  int      `mapstructure:"metadata_cache_ttl_minutes" toml:"metadata_cache_ttl_minutes" json:"metadata_cache_ttl_minutes"`
}

// SearchConfig tunes the search box.
type SearchConfig struct {
	DebounceMs     int    `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms"`
	FallbackEngine string `mapstructure:"fallback_engine" toml:"fallback_engine" json:"fallback_engine"`
	MaxSuggestions int    `mapstructure:"max_suggestions" toml:"max_suggestions" json:"max_suggestions"`
	CacheSize      int    `mapstructure:"cache_size" toml:"cache_size" json:"cache_size"`
	// FallbackTemplate is used when no engine resolves. Empty disables it.
	FallbackTemplate string `mapstructure:"fallback_template" toml:"fallback_template" json:"fallback_template"`
}

// FaviconConfig bounds the favicon data URL cache.
type FaviconConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days"`
	MaxEntries int `mapstructure:"max_entries" toml:"max_entries" json:"max_entries"`
}

// DatabaseConfig holds the settings store location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" toml:"format" json:"format"`
	// EnableFileLog makes `startpage serve` also write JSON logs to LogDir.
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAgeDays    int    `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days"`
	Compress      bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}

// AppearanceConfig holds the terminal theme.
type AppearanceConfig struct {
	// ColorScheme is one of "prefer-dark", "prefer-light" or "default".
	ColorScheme  string       `mapstructure:"color_scheme" toml:"color_scheme" json:"color_scheme"`
	LightPalette ColorPalette `mapstructure:"light_palette" toml:"light_palette" json:"light_palette"`
	DarkPalette  ColorPalette `mapstructure:"dark_palette" toml:"dark_palette" json:"dark_palette"`
}

// ColorPalette is a set of hex colors for one theme variant.
type ColorPalette struct {
	Background string `mapstructure:"background" toml:"background" json:"background"`
	Surface    string `mapstructure:"surface" toml:"surface" json:"surface"`
	Text       string `mapstructure:"text" toml:"text" json:"text"`
	Muted      string `mapstructure:"muted" toml:"muted" json:"muted"`
	Accent     string `mapstructure:"accent" toml:"accent" json:"accent"`
	Border     string `mapstructure:"border" toml:"border" json:"border"`
}

// Colors returns the palette keyed by its TOML field names.
func (p ColorPalette) Colors() map[string]string {
	return map[string]string{
		"background": p.Background,
		"surface":    p.Surface,
		"text":       p.Text,
		"muted":      p.Muted,
		"accent":     p.Accent,
		"border":     p.Border,
	}
}

const (
	// ThemeDefault follows the terminal background.
	ThemeDefault = "default"
	// ThemePreferDark explicitly selects the dark palette.
	ThemePreferDark = "prefer-dark"
	// ThemePreferLight explicitly selects the light palette.
	ThemePreferLight = "prefer-light"
)

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func (c ServerConfig) ReadTimeout() time.Duration     { return millis(c.ReadTimeoutMs) }
func (c ServerConfig) WriteTimeout() time.Duration    { return millis(c.WriteTimeoutMs) }
func (c ServerConfig) ShutdownTimeout() time.Duration { return millis(c.ShutdownTimeoutMs) }

func (c ProxyConfig) ClientTimeout() time.Duration   { return millis(c.ClientTimeoutMs) }
func (c ProxyConfig) UpstreamTimeout() time.Duration { return millis(c.UpstreamTimeoutMs) }
func (c ProxyConfig) MetadataTimeout() time.Duration { return millis(c.MetadataTimeoutMs) }

// MetadataCacheTTL is how long fetched titles and favicons are reused.
func (c ProxyConfig) MetadataCacheTTL() time.Duration {
	return time.Duration(c.MetadataCacheTTLMin) * time.Minute
}

func (c SearchConfig) Debounce() time.Duration { return millis(c.DebounceMs) }

// MaxAge is the favicon cache entry lifetime.
func (c FaviconConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}
