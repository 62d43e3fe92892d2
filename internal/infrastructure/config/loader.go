package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/startpage/internal/logging"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	configDir string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return newManager(configDir)
}

func newManager(configDir string) (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// STARTPAGE_SERVER_LISTEN_ADDR, STARTPAGE_PROXY_BASE_URL, ...
	v.SetEnvPrefix("STARTPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "STARTPAGE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind STARTPAGE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "STARTPAGE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind STARTPAGE_LOG_FORMAT: %w", err)
	}
	if err := v.BindEnv("database.path", "STARTPAGE_DB"); err != nil {
		return nil, fmt.Errorf("failed to bind STARTPAGE_DB: %w", err)
	}

	return &Manager{
		viper:     v,
		configDir: configDir,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.apply()
}

// apply decodes viper state into a validated Config. Callers hold m.mu.
func (m *Manager) apply() error {
	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile = filepath.Join(m.configDir, configFileName)
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	if config.Logging.LogDir == "" {
		if dir, err := GetLogDir(); err == nil {
			config.Logging.LogDir = dir
		}
	}

	switch config.Appearance.ColorScheme {
	case ThemePreferDark, ThemePreferLight, ThemeDefault:
	default:
		config.Appearance.ColorScheme = ThemeDefault
	}

	config.Proxy.BaseURL = strings.TrimRight(strings.TrimSpace(config.Proxy.BaseURL), "/")
	config.Search.FallbackEngine = strings.ToLower(strings.TrimSpace(config.Search.FallbackEngine))
	config.Search.FallbackTemplate = strings.TrimSpace(config.Search.FallbackTemplate)

	hosts := make([]string, 0, len(config.Proxy.AllowedSuggestHosts))
	for _, h := range config.Proxy.AllowedSuggestHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	config.Proxy.AllowedSuggestHosts = hosts

	origins := make([]string, 0, len(config.Server.AllowedOrigins))
	for _, o := range config.Server.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && !slices.Contains(origins, o) {
			origins = append(origins, o)
		}
	}
	config.Server.AllowedOrigins = origins
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Proxy.AllowedSuggestHosts = slices.Clone(m.config.Proxy.AllowedSuggestHosts)
	configCopy.Server.AllowedOrigins = slices.Clone(m.config.Server.AllowedOrigins)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(m.configDir, configFileName)
}

// AllSettings returns the effective merged settings (file, env, defaults).
func (m *Manager) AllSettings() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.AllSettings()
}

func (m *Manager) createDefaultConfig() error {
	configFile := filepath.Join(m.configDir, configFileName)
	if err := os.MkdirAll(m.configDir, dirPerm); err != nil {
		return err
	}

	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}

	log := logging.NewFromEnv()
	log.Info().Str("path", configFile).Msg("created default configuration file")
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Database.Path is resolved in Load, no default needed.
	m.setServerDefaults(defaults)
	m.setProxyDefaults(defaults)
	m.setSearchDefaults(defaults)
	m.setFaviconDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.setAppearanceDefaults(defaults)
}

func (m *Manager) setServerDefaults(defaults *Config) {
	m.viper.SetDefault("server.listen_addr", defaults.Server.ListenAddr)
	m.viper.SetDefault("server.read_timeout_ms", defaults.Server.ReadTimeoutMs)
	m.viper.SetDefault("server.write_timeout_ms", defaults.Server.WriteTimeoutMs)
	m.viper.SetDefault("server.shutdown_timeout_ms", defaults.Server.ShutdownTimeoutMs)
	m.viper.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)
}

func (m *Manager) setProxyDefaults(defaults *Config) {
	p := defaults.Proxy
	m.viper.SetDefault("proxy.base_url", p.BaseURL)
	m.viper.SetDefault("proxy.client_timeout_ms", p.ClientTimeoutMs)
	m.viper.SetDefault("proxy.upstream_timeout_ms", p.UpstreamTimeoutMs)
	m.viper.SetDefault("proxy.metadata_timeout_ms", p.MetadataTimeoutMs)
	m.viper.SetDefault("proxy.allowed_suggest_hosts", p.AllowedSuggestHosts)
	m.viper.SetDefault("proxy.rate_limit_per_second", p.RateLimitPerSecond)
	m.viper.SetDefault("proxy.rate_limit_burst", p.RateLimitBurst)
	m.viper.SetDefault("proxy.max_suggest_bytes", p.MaxSuggestBytes)
	m.viper.SetDefault("proxy.max_page_bytes", p.MaxPageBytes)
	m.viper.SetDefault("proxy.max_concurrent_fetches", p.MaxConcurrentFetches)
	m.viper.SetDefault("proxy.user_agent", p.UserAgent)
	m.viper.SetDefault("proxy.metadata_cache_size", p.MetadataCacheSize)
	m.viper.SetDefault("proxy.metadata_cache_ttl_minutes", p.MetadataCacheTTLMin)
}

func (m *Manager) setSearchDefaults(defaults *Config) {
	m.viper.SetDefault("search.debounce_ms", defaults.Search.DebounceMs)
	m.viper.SetDefault("search.fallback_engine", defaults.Search.FallbackEngine)
	m.viper.SetDefault("search.max_suggestions", defaults.Search.MaxSuggestions)
	m.viper.SetDefault("search.cache_size", defaults.Search.CacheSize)
	m.viper.SetDefault("search.fallback_template", defaults.Search.FallbackTemplate)
}

func (m *Manager) setFaviconDefaults(defaults *Config) {
	m.viper.SetDefault("favicon.max_age_days", defaults.Favicon.MaxAgeDays)
	m.viper.SetDefault("favicon.max_entries", defaults.Favicon.MaxEntries)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	m.viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

func (m *Manager) setAppearanceDefaults(defaults *Config) {
	m.viper.SetDefault("appearance.color_scheme", defaults.Appearance.ColorScheme)
	m.viper.SetDefault("appearance.light_palette", defaults.Appearance.LightPalette)
	m.viper.SetDefault("appearance.dark_palette", defaults.Appearance.DarkPalette)
}
