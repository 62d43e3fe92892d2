package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/startpage/internal/infrastructure/config"
)

func TestProxyOptions_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Proxy.UpstreamTimeoutMs = 2500
	cfg.Server.AllowedOrigins = []string{"http://localhost:8080"}

	opts := proxyOptions(cfg)

	assert.Equal(t, 2500*time.Millisecond, opts.UpstreamTimeout)
	assert.Equal(t, cfg.Proxy.MetadataTimeout(), opts.MetadataTimeout)
	assert.Equal(t, cfg.Proxy.MaxSuggestBytes, opts.MaxSuggestBytes)
	assert.Equal(t, cfg.Proxy.RateLimitBurst, opts.RateBurst)
	assert.Equal(t, 30*time.Minute, opts.MetadataCacheTTL)
	assert.Equal(t, []string{"http://localhost:8080"}, opts.AllowedOrigins)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := []string{"serve", "search", "suggest", "engines", "config", "clipboard", "settings", "title", "favicon", "version"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, c.Name())
		}
	}

	c, _, err := rootCmd.Find([]string{"open"})
	assert.NoError(t, err)
	assert.Equal(t, "search", c.Name())
}

func TestPageArg(t *testing.T) {
	got, err := pageArg("go.dev")
	assert.NoError(t, err)
	assert.Equal(t, "https://go.dev", got)

	_, err = pageArg("")
	assert.Error(t, err)
}
