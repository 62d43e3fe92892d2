package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/domain/autocomplete"
)

var suggestJSON bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <text...>",
	Short: "Print autocomplete suggestions for the text",
	Long: `Parse the text like the search box, fetch suggestions through the proxy and
print them. The proxy started by 'startpage serve' must be reachable.

Examples:
  startpage suggest golang      # default suggestion engine
  startpage suggest d rust      # DuckDuckGo suggestions for "rust"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output as JSON")
}

type suggestOutput struct {
	Engine      string   `json:"engine"`
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

func runSuggest(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	reg := a.Registry()
	state := autocomplete.Parse(strings.Join(args, " "), reg)

	out := suggestOutput{Engine: state.SuggestEngine, Query: state.QueryForSuggest, Suggestions: []string{}}
	if !state.SuppressSuggestions {
		res := a.SuggestionsUC(reg).Execute(a.Ctx(), usecase.FetchSuggestionsInput{
			Engine: state.SuggestEngine,
			Query:  state.QueryForSuggest,
		})
		out.Suggestions = res.Suggestions
	}

	if suggestJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Print(a.Renderer().Suggestions(out.Suggestions))
	return nil
}
