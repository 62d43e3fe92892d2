package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points every XDG directory at a fresh temp dir.
func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return root
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "127.0.0.1:3000", mgr.viper.GetString("server.listen_addr"))
	assert.Equal(t, 5000, mgr.viper.GetInt("proxy.client_timeout_ms"))
	assert.Equal(t, 4000, mgr.viper.GetInt("proxy.upstream_timeout_ms"))
	assert.Equal(t, 8000, mgr.viper.GetInt("proxy.metadata_timeout_ms"))
	assert.Equal(t, "g", mgr.viper.GetString("search.fallback_engine"))
	assert.Equal(t, 10, mgr.viper.GetInt("search.max_suggestions"))
	assert.Equal(t, 500, mgr.viper.GetInt("search.cache_size"))
	assert.Equal(t, 30, mgr.viper.GetInt("favicon.max_age_days"))
	assert.Equal(t, 100, mgr.viper.GetInt("favicon.max_entries"))
}

func TestLoad_CreatesDefaultConfigOnFirstRun(t *testing.T) {
	root := isolateXDG(t)
	configDir := filepath.Join(root, "config", "startpage")

	mgr, err := newManager(configDir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.FileExists(t, filepath.Join(configDir, "config.toml"))

	cfg := mgr.Get()
	assert.Equal(t, filepath.Join(root, "data", "startpage", "startpage.sqlite"), cfg.Database.Path)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, 5*time.Second, cfg.Proxy.ClientTimeout())
	assert.Equal(t, 30*24*time.Hour, cfg.Favicon.MaxAge())
	assert.Equal(t, "https://www.google.com/search?q=%s", cfg.Search.FallbackTemplate)
	assert.Equal(t, DefaultConfig().Appearance.DarkPalette, cfg.Appearance.DarkPalette)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	root := isolateXDG(t)
	configDir := filepath.Join(root, "config", "startpage")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[search]
fallback_engine = "D"
debounce_ms = 200

[proxy]
base_url = "http://localhost:8080/"
allowed_suggest_hosts = ["Example.com", "example.com", " api.example.org "]
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
	t.Setenv("STARTPAGE_SEARCH_DEBOUNCE_MS", "300")
	t.Setenv("STARTPAGE_LOG_LEVEL", "DEBUG")

	mgr, err := newManager(configDir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "d", cfg.Search.FallbackEngine)
	assert.Equal(t, 300, cfg.Search.DebounceMs, "env wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:8080", cfg.Proxy.BaseURL)
	assert.Equal(t, []string{"example.com", "api.example.org"}, cfg.Proxy.AllowedSuggestHosts)
	assert.Equal(t, 4000, cfg.Proxy.UpstreamTimeoutMs, "unset keys keep defaults")
}

func TestLoad_InvalidFileFailsValidation(t *testing.T) {
	root := isolateXDG(t)
	configDir := filepath.Join(root, "config", "startpage")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `
[search]
max_suggestions = 50
fallback_template = "https://example.com/search"
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	mgr, err := newManager(configDir)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.max_suggestions")
	assert.Contains(t, err.Error(), "search.fallback_template")
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Appearance.ColorScheme = "neon"
	cfg.Logging.Level = ""
	cfg.Logging.Format = " JSON "
	cfg.Proxy.AllowedSuggestHosts = []string{"", "A.example", "a.example"}
	cfg.Server.AllowedOrigins = []string{" http://localhost:8080/ ", "http://localhost:8080", ""}

	normalizeConfig(cfg)

	assert.Equal(t, ThemeDefault, cfg.Appearance.ColorScheme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"a.example"}, cfg.Proxy.AllowedSuggestHosts)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Server.AllowedOrigins)
	assert.NotEmpty(t, cfg.Logging.LogDir)
}

func TestGet_ReturnsCopy(t *testing.T) {
	mgr := &Manager{viper: viper.New(), config: DefaultConfig()}
	mgr.config.Proxy.AllowedSuggestHosts = []string{"a.example"}

	cfg := mgr.Get()
	cfg.Search.FallbackEngine = "changed"
	cfg.Proxy.AllowedSuggestHosts[0] = "changed"

	assert.Equal(t, "g", mgr.config.Search.FallbackEngine)
	assert.Equal(t, "a.example", mgr.config.Proxy.AllowedSuggestHosts[0])
}

func TestGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestOnConfigChange_CallbacksReceiveCopies(t *testing.T) {
	mgr := &Manager{viper: viper.New(), config: DefaultConfig()}

	var got []*Config
	mgr.OnConfigChange(func(c *Config) { got = append(got, c) })
	mgr.OnConfigChange(func(c *Config) {
		c.Search.FallbackEngine = "mutated"
		got = append(got, c)
	})

	mgr.mu.Lock()
	mgr.notifyCallbacksLocked()

	require.Len(t, got, 2)
	assert.Equal(t, "g", mgr.config.Search.FallbackEngine)
	assert.Equal(t, "g", got[0].Search.FallbackEngine)
}

func TestWatch_ReloadsFileAndNotifies(t *testing.T) {
	root := isolateXDG(t)
	configDir := filepath.Join(root, "config", "startpage")

	mgr, err := newManager(configDir)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changes := make(chan string, 16)
	mgr.OnConfigChange(func(c *Config) {
		select {
		case changes <- c.Search.FallbackEngine:
		default:
		}
	})
	require.NoError(t, mgr.Watch())
	require.NoError(t, mgr.Watch(), "second call is a no-op")

	content := "[search]\nfallback_engine = \"d\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case engine := <-changes:
			if engine == "d" {
				assert.Equal(t, "d", mgr.Get().Search.FallbackEngine)
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
