package cmd

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/cli/model"
)

var (
	searchInteractive bool
	searchPrint       bool
	searchCopy        bool
)

var searchCmd = &cobra.Command{
	Use:     "search [text...]",
	Aliases: []string{"open", "s"},
	Short:   "Search with an engine or open a URL",
	Long: `Resolve the text the way the start page search box does and open the result.

The first word selects an engine when it is a known nickname. Text that looks
like a URL is opened directly. Without arguments, or with -i, an interactive
search box with autocomplete is shown.

Examples:
  startpage search github.com          # opens https://github.com
  startpage search d rust async        # DuckDuckGo search
  startpage search --print w tokyo     # print the Wikipedia URL only
  startpage search -i g                # search box prefilled with "g"`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "open the interactive search box")
	searchCmd.Flags().BoolVarP(&searchPrint, "print", "p", false, "print the target URL instead of opening it")
	searchCmd.Flags().BoolVarP(&searchCopy, "copy", "c", false, "copy the target URL to the clipboard instead of opening it")
}

func runSearch(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if searchInteractive || len(args) == 0 {
		submitted, err := runSearchBox(text)
		if err != nil || submitted == "" {
			return err
		}
		text = submitted
	}

	reg := a.Registry()
	intent, err := a.Resolver(reg).Resolve(a.Ctx(), usecase.ResolveNavigationInput{Input: text})
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyInput) {
			return nil
		}
		return err
	}
	return deliver(intent)
}

// runSearchBox shows the interactive box and returns the submitted text,
// or "" when the user cancelled.
func runSearchBox(initial string) (string, error) {
	a := GetApp()
	reg := a.Registry()

	m := model.NewSearchModel(a.Ctx(), a.Theme, model.SearchModelConfig{
		Autocomplete: usecase.NewAutocompleteUseCase(reg, a.SuggestionsUC(reg)),
		Engines:      reg,
		Debounce:     a.Debounce(),
		InitialText:  initial,
	})

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("search box: %w", err)
	}
	result, ok := final.(model.SearchModel)
	if !ok || result.Canceled() {
		return "", nil
	}
	return result.Submitted(), nil
}

// deliver prints, copies or opens the resolved target according to flags.
func deliver(intent *usecase.NavigationIntent) error {
	a := GetApp()

	switch {
	case searchPrint:
		fmt.Println(intent.TargetURL)
		return nil
	case searchCopy:
		if err := a.ClipboardUC.Copy(a.Ctx(), intent.TargetURL); err != nil {
			return err
		}
		fmt.Print(a.Renderer().Success("copied %s", intent.TargetURL))
		return nil
	}
	return a.NavigateUC.Execute(a.Ctx(), intent)
}
