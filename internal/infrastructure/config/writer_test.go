package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeConfig_SectionsInDefinitionOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeConfig(&buf, DefaultConfig()))

	var sections []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}

	assert.Equal(t, []string{
		"[server]",
		"[proxy]",
		"[search]",
		"[favicon]",
		"[database]",
		"[logging]",
		"[appearance]",
		"[appearance.light_palette]",
		"[appearance.dark_palette]",
	}, sections)
}

func TestEncodeConfig_Nil(t *testing.T) {
	assert.Error(t, EncodeConfig(&bytes.Buffer{}, nil))
}

func TestWriteConfigOrdered_ReadsBackThroughViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Search.FallbackEngine = "d"
	cfg.Proxy.AllowedSuggestHosts = []string{"example.com"}
	require.NoError(t, WriteConfigOrdered(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var got Config
	require.NoError(t, v.Unmarshal(&got))
	assert.Equal(t, "d", got.Search.FallbackEngine)
	assert.Equal(t, []string{"example.com"}, got.Proxy.AllowedSuggestHosts)
	assert.Equal(t, cfg.Proxy.MaxSuggestBytes, got.Proxy.MaxSuggestBytes)
	assert.Equal(t, cfg.Appearance.LightPalette, got.Appearance.LightPalette)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}
