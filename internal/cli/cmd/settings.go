package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsOutput string
	settingsYes    bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Export or import the stored settings",
	Long: `Export the settings store (custom engines, removed builtins, speed dial,
columns and favicon cache) to a JSON file, or replace it from one.`,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the settings as JSON",
	RunE:  runSettingsExport,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the settings from an export file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImport,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsExportCmd, settingsImportCmd)

	settingsExportCmd.Flags().StringVarP(&settingsOutput, "output", "o", "", "write to file instead of stdout")
	settingsImportCmd.Flags().BoolVarP(&settingsYes, "yes", "y", false, "skip confirmation prompt")
}

func runSettingsExport(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	data, err := a.TransferUC.Export(a.Ctx())
	if err != nil {
		return err
	}

	if settingsOutput == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(settingsOutput, data, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprint(os.Stderr, a.Renderer().Success("settings exported to %s", settingsOutput))
	return nil
}

func runSettingsImport(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}

	if !settingsYes && args[0] != "-" {
		ok, err := confirm(a.Theme, "Replace the stored engines, speed dial and favicons?")
		if err != nil || !ok {
			return err
		}
	}

	if err := a.TransferUC.Import(a.Ctx(), data); err != nil {
		return err
	}
	fmt.Print(a.Renderer().Success("settings imported"))
	return nil
}
