package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/bnema/startpage/internal/domain/suggest"
	domainvalidation "github.com/bnema/startpage/internal/domain/validation"
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	validLogFormats = []string{"console", "json"}
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateProxy(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateFavicon(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateAppearance(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Server.ListenAddr); err != nil {
		validationErrors = append(validationErrors, "server.listen_addr must be host:port")
	}
	validationErrors = append(validationErrors, positive("server.read_timeout_ms", config.Server.ReadTimeoutMs)...)
	validationErrors = append(validationErrors, positive("server.write_timeout_ms", config.Server.WriteTimeoutMs)...)
	validationErrors = append(validationErrors, positive("server.shutdown_timeout_ms", config.Server.ShutdownTimeoutMs)...)
	for _, origin := range config.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			validationErrors = append(validationErrors, fmt.Sprintf("server.allowed_origins: %q must be an http(s) origin or *", origin))
		}
	}
	return validationErrors
}

func validateProxy(config *Config) []string {
	p := config.Proxy
	var validationErrors []string

	parsed, err := url.Parse(p.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		validationErrors = append(validationErrors, "proxy.base_url must be an absolute http(s) URL")
	}

	validationErrors = append(validationErrors, positive("proxy.client_timeout_ms", p.ClientTimeoutMs)...)
	validationErrors = append(validationErrors, positive("proxy.upstream_timeout_ms", p.UpstreamTimeoutMs)...)
	validationErrors = append(validationErrors, positive("proxy.metadata_timeout_ms", p.MetadataTimeoutMs)...)

	for _, host := range p.AllowedSuggestHosts {
		validationErrors = append(validationErrors, domainvalidation.ValidateHostname("proxy.allowed_suggest_hosts", host)...)
	}

	if p.RateLimitPerSecond <= 0 {
		validationErrors = append(validationErrors, "proxy.rate_limit_per_second must be positive")
	}
	validationErrors = append(validationErrors, positive("proxy.rate_limit_burst", p.RateLimitBurst)...)
	if p.MaxSuggestBytes <= 0 {
		validationErrors = append(validationErrors, "proxy.max_suggest_bytes must be positive")
	}
	if p.MaxPageBytes <= 0 {
		validationErrors = append(validationErrors, "proxy.max_page_bytes must be positive")
	}
	validationErrors = append(validationErrors, positive("proxy.max_concurrent_fetches", p.MaxConcurrentFetches)...)
	validationErrors = append(validationErrors, positive("proxy.metadata_cache_size", p.MetadataCacheSize)...)
	if p.MetadataCacheTTLMin < 0 {
		validationErrors = append(validationErrors, "proxy.metadata_cache_ttl_minutes must be non-negative")
	}
	return validationErrors
}

func validateSearch(config *Config) []string {
	s := config.Search
	var validationErrors []string

	if s.DebounceMs < 0 {
		validationErrors = append(validationErrors, "search.debounce_ms must be non-negative")
	}
	validationErrors = append(validationErrors, domainvalidation.ValidateNickname("search.fallback_engine", s.FallbackEngine)...)
	if s.MaxSuggestions < 1 || s.MaxSuggestions > suggest.MaxSuggestions {
		validationErrors = append(validationErrors,
			fmt.Sprintf("search.max_suggestions must be between 1 and %d", suggest.MaxSuggestions))
	}
	validationErrors = append(validationErrors, positive("search.cache_size", s.CacheSize)...)
	if s.FallbackTemplate != "" {
		validationErrors = append(validationErrors,
			domainvalidation.ValidateResultTemplate("search.fallback_template", s.FallbackTemplate)...)
	}
	return validationErrors
}

func validateFavicon(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors, positive("favicon.max_age_days", config.Favicon.MaxAgeDays)...)
	validationErrors = append(validationErrors, positive("favicon.max_entries", config.Favicon.MaxEntries)...)
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !contains(validLogLevels, config.Logging.Level) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	if !contains(validLogFormats, config.Logging.Format) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: %s", strings.Join(validLogFormats, ", ")))
	}
	if config.Logging.EnableFileLog {
		validationErrors = append(validationErrors, positive("logging.max_size_mb", config.Logging.MaxSizeMB)...)
	}
	if config.Logging.MaxBackups < 0 || config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.max_backups and logging.max_age_days must not be negative")
	}
	return validationErrors
}

func validateAppearance(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors,
		domainvalidation.ValidatePaletteHex("appearance.light_palette", config.Appearance.LightPalette.Colors())...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidatePaletteHex("appearance.dark_palette", config.Appearance.DarkPalette.Colors())...)
	return validationErrors
}

func positive(field string, value int) []string {
	if value <= 0 {
		return []string{field + " must be positive"}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
