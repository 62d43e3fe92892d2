package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/domain/entity"
)

var (
	enginesJSON bool

	engineName       string
	engineSuggestURL string
	engineIconURL    string
	engineRename     string

	defaultSearch  string
	defaultSuggest string
)

var enginesCmd = &cobra.Command{
	Use:     "engines",
	Aliases: []string{"engine"},
	Short:   "Manage search engines",
	Long: `List, add, edit and remove search engines, and choose the defaults.

Builtin engines that are removed stay removed until an engine with the same
nickname is added again.`,
}

var enginesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the live engines",
	RunE:    runEnginesList,
}

var enginesAddCmd = &cobra.Command{
	Use:   "add <nickname> <result-url-template>",
	Short: "Add or replace an engine",
	Long: `Add an engine. The result URL template must contain %s, which is replaced
with the encoded query.

Examples:
  startpage engines add gh 'https://github.com/search?q=%s' --name GitHub
  startpage engines add mdn 'https://developer.mozilla.org/search?q=%s' \
      --suggest 'https://developer.mozilla.org/api/v1/search?q='`,
	Args: cobra.ExactArgs(2),
	RunE: runEnginesAdd,
}

var enginesEditCmd = &cobra.Command{
	Use:   "edit <nickname>",
	Short: "Edit an engine's fields or nickname",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnginesEdit,
}

var enginesRemoveCmd = &cobra.Command{
	Use:     "rm <nickname>",
	Aliases: []string{"remove"},
	Short:   "Remove an engine",
	Args:    cobra.ExactArgs(1),
	RunE:    runEnginesRemove,
}

var enginesDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Show or set the default search and suggestion engines",
	RunE:  runEnginesDefault,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
	enginesCmd.AddCommand(enginesListCmd, enginesAddCmd, enginesEditCmd, enginesRemoveCmd, enginesDefaultCmd)

	enginesListCmd.Flags().BoolVar(&enginesJSON, "json", false, "output as JSON")

	for _, c := range []*cobra.Command{enginesAddCmd, enginesEditCmd} {
		c.Flags().StringVar(&engineName, "name", "", "display name")
		c.Flags().StringVar(&engineSuggestURL, "suggest", "", "autocomplete URL without the term parameter")
		c.Flags().StringVar(&engineIconURL, "icon", "", "icon URL (http(s) or data:image/...)")
	}
	enginesEditCmd.Flags().StringVar(&engineRename, "nickname", "", "new nickname")
	enginesEditCmd.Flags().String("template", "", "result URL template containing %s")

	enginesDefaultCmd.Flags().StringVar(&defaultSearch, "search", "", "default search engine nickname")
	enginesDefaultCmd.Flags().StringVar(&defaultSuggest, "suggest", "", "default suggestion engine nickname")
}

func runEnginesList(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	out, err := a.EnginesUC.List(a.Ctx())
	if err != nil {
		return err
	}

	if enginesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rows := make([]table.Row, 0, len(out.Engines))
	for _, l := range out.Engines {
		rows = append(rows, styles.EngineRow{
			Engine:         l.Engine,
			Builtin:        l.Builtin,
			DefaultSearch:  l.DefaultSearch,
			DefaultSuggest: l.DefaultSuggest,
		}.ToRow())
	}
	t := styles.NewStyledTable(a.Theme, styles.EngineTableColumns(), rows)

	parts := []string{t.View()}
	if len(out.Deleted) > 0 {
		parts = append(parts, a.Theme.Subtle.Render("removed builtins: "+strings.Join(out.Deleted, ", ")))
	}
	fmt.Println(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return nil
}

func runEnginesAdd(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	e := entity.Engine{
		Nickname:           args[0],
		Name:               engineName,
		ResultURLTemplate:  args[1],
		SuggestURLTemplate: engineSuggestURL,
		IconURL:            engineIconURL,
	}
	if e.Name == "" {
		e.Name = e.Nickname
	}
	if err := a.EnginesUC.Save(a.Ctx(), usecase.SaveEngineInput{Engine: e}); err != nil {
		return err
	}
	fmt.Print(a.Renderer().Success("engine %s saved", entity.NormalizeNickname(e.Nickname)))
	return nil
}

func runEnginesEdit(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	current, ok := a.Registry().Resolve(entity.NormalizeNickname(args[0]))
	if !ok {
		return fmt.Errorf("unknown engine %q", args[0])
	}

	updated := current
	flags := cmd.Flags()
	if flags.Changed("name") {
		updated.Name = engineName
	}
	if flags.Changed("suggest") {
		updated.SuggestURLTemplate = engineSuggestURL
	}
	if flags.Changed("icon") {
		updated.IconURL = engineIconURL
	}
	if flags.Changed("template") {
		updated.ResultURLTemplate, _ = flags.GetString("template")
	}
	if flags.Changed("nickname") {
		updated.Nickname = engineRename
	}

	err = a.EnginesUC.Save(a.Ctx(), usecase.SaveEngineInput{Engine: updated, PreviousNickname: current.Nickname})
	if err != nil {
		return err
	}
	fmt.Print(a.Renderer().Success("engine %s saved", entity.NormalizeNickname(updated.Nickname)))
	return nil
}

func runEnginesRemove(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.EnginesUC.Remove(a.Ctx(), args[0]); err != nil {
		return err
	}
	fmt.Print(a.Renderer().Success("engine %s removed", args[0]))
	return nil
}

func runEnginesDefault(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	if defaultSearch != "" || defaultSuggest != "" {
		err := a.EnginesUC.SetDefaults(a.Ctx(), usecase.SetDefaultsInput{
			Search:  defaultSearch,
			Suggest: defaultSuggest,
		})
		if err != nil {
			return err
		}
	}

	out, err := a.EnginesUC.List(a.Ctx())
	if err != nil {
		return err
	}
	fmt.Print(a.Renderer().KeyValues(styles.IconStar, "Default engines", [][2]string{
		{"search", out.DefaultSearch},
		{"suggest", out.DefaultSuggest},
	}))
	return nil
}
