package styles

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/startpage/internal/domain/entity"
)

// NewStyledTable creates a themed, non-interactive table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// Unfocused tables still paint the first row as selected.
	s.Selected = s.Cell.Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// EngineTableColumns returns columns for `engines list`.
func EngineTableColumns() []table.Column {
	return []table.Column{
		{Title: "", Width: 4},
		{Title: "Nick", Width: 6},
		{Title: "Name", Width: 22},
		{Title: "Flags", Width: 18},
		{Title: "Search URL", Width: 56},
	}
}

// EngineRow is one line of the engine table.
type EngineRow struct {
	Engine         entity.Engine
	Builtin        bool
	DefaultSearch  bool
	DefaultSuggest bool
}

// ToRow converts to table.Row.
func (r EngineRow) ToRow() table.Row {
	var flags []string
	if r.DefaultSearch {
		flags = append(flags, "search")
	}
	if r.DefaultSuggest {
		flags = append(flags, "suggest")
	}
	if !r.Builtin {
		flags = append(flags, "custom")
	}
	if !r.Engine.HasSuggest() {
		flags = append(flags, "no-ac")
	}
	return table.Row{
		r.Engine.Initials(),
		r.Engine.Nickname,
		r.Engine.Name,
		strings.Join(flags, " "),
		r.Engine.ResultURLTemplate,
	}
}
