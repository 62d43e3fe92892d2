package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/domain/build"
	"github.com/bnema/startpage/internal/infrastructure/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		r := styles.NewRenderer(styles.NewTheme(config.DefaultConfig()))
		fmt.Print(r.KeyValues(styles.IconGlobe, "startpage", [][2]string{
			{"version", buildInfo.Version},
			{"commit", buildInfo.Commit},
			{"built", buildInfo.BuildDate},
			{"go", buildInfo.GoVersion},
			{"source", build.RepoURL()},
		}))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
