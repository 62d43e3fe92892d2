// Package model holds the Bubble Tea models behind the interactive commands.
package model

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/domain/autocomplete"
	"github.com/bnema/startpage/internal/logging"
)

const defaultDebounce = 150 * time.Millisecond

// SearchModelConfig holds the search box dependencies.
type SearchModelConfig struct {
	Autocomplete *usecase.AutocompleteUseCase
	Engines      autocomplete.EngineLookup
	Debounce     time.Duration
	InitialText  string
}

// SearchModel is the interactive start page search box.
//
// Keystrokes reparse the input synchronously. A cache miss schedules a
// debounce tick tagged with the input generation; ticks and results from an
// older generation are dropped in Update.
type SearchModel struct {
	input   textinput.Model
	help    help.Model
	keys    styles.SearchKeyMap
	spinner spinner.Model

	phase       Phase
	state       autocomplete.InputState
	generation  uint64
	suggestions []string
	// selected is -1 while the typed text is shown.
	selected int
	// original is the typed text before Up/Down previews replaced it.
	original  string
	loading   bool
	submitted string
	canceled  bool
	width     int

	ctx          context.Context
	autocomplete *usecase.AutocompleteUseCase
	engines      autocomplete.EngineLookup
	debounce     time.Duration
	theme        *styles.Theme
}

// NewSearchModel creates a new search box model.
func NewSearchModel(ctx context.Context, theme *styles.Theme, cfg SearchModelConfig) SearchModel {
	input := styles.NewSearchInput(theme)
	input.Focus()

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	m := SearchModel{
		input:        input,
		help:         styles.NewStyledHelp(theme),
		keys:         styles.DefaultSearchKeyMap(),
		spinner:      styles.NewStyledSpinner(theme),
		selected:     -1,
		width:        80,
		ctx:          logging.WithComponent(ctx, "search-box"),
		autocomplete: cfg.Autocomplete,
		engines:      cfg.Engines,
		debounce:     debounce,
		theme:        theme,
	}
	m.state = m.autocomplete.State()
	if cfg.InitialText != "" {
		m.input.SetValue(cfg.InitialText)
		m.input.CursorEnd()
	}
	return m
}

// debounceMsg fires when the input has been quiet for the debounce interval.
type debounceMsg struct {
	generation uint64
}

// suggestionsMsg carries a finished suggestion request.
type suggestionsMsg struct {
	generation uint64
	result     *usecase.SuggestionResult
}

// Init implements tea.Model.
func (m SearchModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.input.Value() != "" {
		cmds = append(cmds, func() tea.Msg { return initialInputMsg{} })
	}
	return tea.Batch(cmds...)
}

// initialInputMsg triggers the first parse for a prefilled box.
type initialInputMsg struct{}

// Update implements tea.Model.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case initialInputMsg:
		return m, m.onInput(m.input.Value())

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.fetch(msg.generation), m.spinner.Tick)

	case suggestionsMsg:
		if msg.generation == m.generation {
			m.loading = false
		}
		if msg.result == nil || !m.autocomplete.Accept(msg.result) {
			return m, nil
		}
		m.loading = false
		m.suggestions = msg.result.Suggestions
		m.selected = -1
		m.phase = listPhase(m.suggestions)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.canceled = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		if m.selected >= 0 {
			text = m.applied(m.selected)
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.submitted = text
		m.phase = PhaseSubmitted
		return m, tea.Quit

	case key.Matches(msg, m.keys.Revert):
		if len(m.suggestions) == 0 && m.selected < 0 {
			m.canceled = true
			return m, tea.Quit
		}
		m.setText(m.original)
		m.suggestions = nil
		m.selected = -1
		m.phase = PhaseTyping
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cycle(-1)
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		if len(m.suggestions) == 0 {
			return m, nil
		}
		idx := max(m.selected, 0)
		text := m.applied(idx)
		m.setText(text)
		return m, m.onInput(text)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.onInput(m.input.Value()))
}

// onInput records typed text and schedules a fetch when the cache misses.
// The previous list is dropped on a miss.
func (m *SearchModel) onInput(text string) tea.Cmd {
	m.original = text
	m.selected = -1

	update := m.autocomplete.Update(m.ctx, text)
	m.state = update.State
	m.generation = update.Generation
	m.loading = false

	if !update.NeedsFetch {
		m.suggestions = update.Suggestions
		m.phase = listPhase(m.suggestions)
		if strings.TrimSpace(text) == "" {
			m.phase = PhaseIdle
		}
		return nil
	}
	// Suggestions for the previous query are not selectable while the new
	// one is in flight.
	m.suggestions = nil
	m.phase = PhaseTyping

	gen := update.Generation
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{generation: gen}
	})
}

func (m SearchModel) fetch(gen uint64) tea.Cmd {
	ctx := m.ctx
	uc := m.autocomplete
	return func() tea.Msg {
		return suggestionsMsg{generation: gen, result: uc.Fetch(ctx, gen)}
	}
}

// cycle moves the selection through -1 (typed text) and the suggestions,
// previewing the selected suggestion in the box.
func (m *SearchModel) cycle(step int) {
	n := len(m.suggestions)
	if n == 0 {
		return
	}
	// Positions 0..n map to selections -1..n-1.
	pos := (m.selected + 1 + step + n + 1) % (n + 1)
	m.selected = pos - 1

	if m.selected < 0 {
		m.setText(m.original)
		return
	}
	m.setText(m.applied(m.selected))
}

func (m SearchModel) applied(idx int) string {
	defaultSearch, _ := m.engines.DefaultSearchEngine()
	return autocomplete.ApplySuggestion(m.state, m.suggestions[idx], defaultSearch)
}

func (m *SearchModel) setText(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
}

// View implements tea.Model.
func (m SearchModel) View() string {
	t := m.theme

	badge := t.MutedBadge("??")
	if e, ok := m.engines.Resolve(m.state.DisplayEngine); ok {
		badge = t.EngineBadge(e)
	}
	status := " "
	if m.loading {
		status = m.spinner.View()
	}
	box := m.input.View()
	if ghost := m.completionHint(); ghost != "" {
		box += t.Subtle.Render(ghost)
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		badge, " ", t.InputBox(box, m.input.Focused()), " ", status)

	rows := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		if i == m.selected {
			rows = append(rows, t.SuggestionSelected.Render(styles.IconArrow+" "+s))
			continue
		}
		rows = append(rows, t.Suggestion.Render("  "+s))
	}

	parts := []string{bar}
	if len(rows) > 0 {
		parts = append(parts, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
	}
	parts = append(parts, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// completionHint is the rest of the first suggestion when the typed query
// is a prefix of it. It is hidden while a suggestion is previewed.
func (m SearchModel) completionHint() string {
	if m.selected >= 0 || len(m.suggestions) == 0 || m.state.QueryForSuggest == "" {
		return ""
	}
	suffix, ok := autocomplete.ComputeCompletionSuffix(m.state.QueryForSuggest, m.suggestions[0])
	if !ok {
		return ""
	}
	return suffix
}

// Phase returns the search box lifecycle phase.
func (m SearchModel) Phase() Phase {
	return m.phase
}

// Submitted returns the text the user searched for, or "".
func (m SearchModel) Submitted() string {
	return m.submitted
}

// Canceled reports whether the user left without searching.
func (m SearchModel) Canceled() bool {
	return m.canceled
}

var _ tea.Model = (*SearchModel)(nil)
