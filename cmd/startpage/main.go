// Command startpage is a keyboard-driven start page: a search box that routes
// "nickname query" input to search engines, plus the proxy that relays their
// autocomplete and page metadata requests.
package main

import (
	"github.com/bnema/startpage/internal/cli/cmd"
	"github.com/bnema/startpage/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
	cmd.Execute()
}
