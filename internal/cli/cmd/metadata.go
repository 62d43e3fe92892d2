package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/domain/url"
	"github.com/bnema/startpage/internal/infrastructure/metadata"
)

func pageArg(raw string) (string, error) {
	pageURL := url.Normalize(raw)
	if err := metadata.ValidatePageURL(pageURL); err != nil {
		return "", fmt.Errorf("%s: %w", raw, err)
	}
	return pageURL, nil
}

var titleCmd = &cobra.Command{
	Use:   "title <url>",
	Short: "Print a page title as resolved by the proxy",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		pageURL, err := pageArg(args[0])
		if err != nil {
			return err
		}
		title := a.MetadataUC.Title(a.Ctx(), pageURL)
		if title == "" {
			return fmt.Errorf("no title found for %s", args[0])
		}
		fmt.Println(title)
		return nil
	},
}

var faviconCmd = &cobra.Command{
	Use:   "favicon <url>",
	Short: "Print a site's favicon as a data URL, caching it per domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		pageURL, err := pageArg(args[0])
		if err != nil {
			return err
		}
		out := a.MetadataUC.Favicon(a.Ctx(), pageURL)
		if out.DataURL == "" {
			return fmt.Errorf("no favicon found for %s", args[0])
		}
		fmt.Println(out.DataURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(titleCmd, faviconCmd)
}
