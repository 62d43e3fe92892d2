package desktop_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/infrastructure/desktop"
)

func TestOpener_NoCommand(t *testing.T) {
	err := desktop.NewOpenerCommand("").Open(context.Background(), "https://go.dev")
	assert.ErrorIs(t, err, desktop.ErrNoOpener)
}

func TestOpener_PrefersBrowserEnv(t *testing.T) {
	t.Setenv("BROWSER", "firefox --new-tab:chromium")
	assert.Equal(t, "firefox", desktop.NewOpener().Command())
}

func TestOpener_RunsCommandWithURL(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}

	out := filepath.Join(t.TempDir(), "opened")
	script := filepath.Join(t.TempDir(), "fake-browser")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > "+out+"\n"), 0o700))

	o := desktop.NewOpenerCommand(script, "--new-tab")
	require.NoError(t, o.Open(context.Background(), "https://go.dev/?q=a%20b"))

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "--new-tab https://go.dev/?q=a%20b\n"
	}, 2*time.Second, 20*time.Millisecond)
}
