package cmd

import (
	"github.com/spf13/cobra"
)

var clipboardCmd = &cobra.Command{
	Use:     "clipboard",
	Aliases: []string{"clip"},
	Short:   "Open or search the clipboard contents",
	Long: `Read the clipboard and open it as a URL when it looks like one, otherwise
search it with the fallback engine. Nickname prefixes are not interpreted.

Honors --print like 'startpage search'.`,
	RunE: runClipboard,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.Flags().BoolVarP(&searchPrint, "print", "p", false, "print the target URL instead of opening it")
}

func runClipboard(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	text, err := a.ClipboardUC.Read(a.Ctx())
	if err != nil {
		return err
	}

	intent, err := a.Resolver(a.Registry()).ResolveClipboard(a.Ctx(), text)
	if err != nil {
		return err
	}
	return deliver(intent)
}
