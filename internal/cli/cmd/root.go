// Package cmd provides Cobra CLI commands for startpage.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/cli"
	"github.com/bnema/startpage/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "startpage",
		Short: "A keyboard start page with multi-engine search and autocomplete",
		Long: `startpage - a search dispatcher with per-engine autocomplete.

Type a query, optionally prefixed with an engine nickname ("d rust async",
"w tokyo"), and startpage opens the right result page. URLs are opened
directly. Autocomplete suggestions are fetched through a small local proxy
started with 'startpage serve'.

Examples:
  startpage serve                 # run the suggestion and metadata proxy
  startpage search -i             # interactive search box
  startpage search g openai       # open a Google search for "openai"
  startpage engines list          # show the configured engines`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version", "path":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{FileLog: cmd.Name() == "serve"})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info.WithDefaults()
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}
