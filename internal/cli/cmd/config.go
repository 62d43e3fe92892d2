package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/infrastructure/config"
)

var configYes bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Show the effective configuration, print the config file path, or reset the
file to the defaults. Values can also be overridden with STARTPAGE_* environment
variables, e.g. STARTPAGE_PROXY_BASE_URL.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the config file with the defaults",
	RunE:  runConfigReset,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configResetCmd)
	configResetCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "skip confirmation prompt")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	return config.EncodeConfig(os.Stdout, a.Config)
}

func runConfigReset(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	path, err := config.GetConfigFile()
	if err != nil {
		return err
	}

	if !configYes {
		ok, err := confirm(a.Theme, fmt.Sprintf("Overwrite %s with the defaults?", path))
		if err != nil || !ok {
			return err
		}
	}

	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Print(a.Renderer().Success("config reset: %s", path))
	return nil
}

// confirm shows a yes/no prompt and returns the answer.
func confirm(theme *styles.Theme, message string) (bool, error) {
	final, err := tea.NewProgram(styles.NewConfirm(theme, message)).Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m, ok := final.(styles.ConfirmModel)
	return ok && m.Result(), nil
}
