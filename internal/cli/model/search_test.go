package model

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/startpage/internal/application/port/mocks"
	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/infrastructure/cache"
	"github.com/bnema/startpage/internal/infrastructure/config"
	"github.com/bnema/startpage/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newTestSearchModel(t *testing.T) (SearchModel, *portmocks.MockSuggestionSource) {
	t.Helper()
	reg := engine.NewRegistry(engine.Builtins(), nil, nil)
	source := portmocks.NewMockSuggestionSource(t)
	fetch := usecase.NewFetchSuggestionsUseCase(reg, source, cache.NewSuggestionCache(0), 0)
	ac := usecase.NewAutocompleteUseCase(reg, fetch)

	m := NewSearchModel(testContext(), styles.NewTheme(config.DefaultConfig()), SearchModelConfig{
		Autocomplete: ac,
		Engines:      reg,
		Debounce:     time.Millisecond,
	})
	return m, source
}

func typeText(t *testing.T, m SearchModel, text string) (SearchModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range text {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(SearchModel)
	}
	return m, cmd
}

func send(m SearchModel, msg tea.Msg) (SearchModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SearchModel), cmd
}

// settle delivers the debounce tick and the fetch result for the current
// generation.
func settle(t *testing.T, m SearchModel) SearchModel {
	t.Helper()
	m, _ = send(m, debounceMsg{generation: m.generation})
	require.True(t, m.loading)
	m, _ = send(m, m.fetch(m.generation)())
	return m
}

func withSuggestions(t *testing.T, source *portmocks.MockSuggestionSource, nick, query, payload string) {
	t.Helper()
	source.EXPECT().
		FetchSuggestions(mock.Anything, mock.MatchedBy(func(e entity.Engine) bool { return e.Nickname == nick }), query).
		Return([]byte(payload), nil).
		Once()
}

func TestSearchModel_TypingTracksEngines(t *testing.T) {
	m, _ := newTestSearchModel(t)

	m, _ = typeText(t, m, "d")
	assert.Equal(t, "d", m.state.DisplayEngine)
	assert.True(t, m.state.SuppressSuggestions)

	m, cmd := typeText(t, m, " rust")
	assert.Equal(t, "d", m.state.SuggestEngine)
	assert.Equal(t, "rust", m.state.QueryForSuggest)
	assert.NotNil(t, cmd, "cache miss schedules a debounce tick")
}

func TestSearchModel_DebounceDropsOlderTicks(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "gol", `["gol",["golang"]]`)

	m, _ = typeText(t, m, "go")
	stale := m.generation
	m, _ = typeText(t, m, "l")

	m, cmd := send(m, debounceMsg{generation: stale})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)

	m = settle(t, m)
	assert.Equal(t, []string{"golang"}, m.suggestions)
	assert.False(t, m.loading)
}

func TestSearchModel_StaleResultDiscarded(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "go", `["go",["golang"]]`)

	m, _ = typeText(t, m, "go")
	older := m.fetch(m.generation)()

	m, _ = typeText(t, m, "pher")
	m, _ = send(m, older)

	assert.Empty(t, m.suggestions, "a response for an older query must not render")
}

func TestSearchModel_CacheMissClearsPreviousSuggestions(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "go", `["go",["golang","gopher"]]`)

	m, _ = typeText(t, m, "go")
	m = settle(t, m)
	require.Equal(t, []string{"golang", "gopher"}, m.suggestions)

	m, cmd := typeText(t, m, "x")
	assert.NotNil(t, cmd, "cache miss schedules a debounce tick")
	assert.Empty(t, m.suggestions)
	assert.Equal(t, PhaseTyping, m.Phase())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, -1, m.selected)
	assert.Equal(t, "gox", m.input.Value())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "gox", m.input.Value())
}

func TestSearchModel_CycleApplyAndRevert(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "d", "rust", `[{"phrase":"rust async"},{"phrase":"rust book"}]`)

	m, _ = typeText(t, m, "d rust")
	m = settle(t, m)
	require.Equal(t, []string{"rust async", "rust book"}, m.suggestions)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "d rust async", m.input.Value(), "non-default engine keeps its nickname")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, -1, m.selected)
	assert.Equal(t, "d rust", m.input.Value())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.selected)
	assert.Equal(t, "d rust book", m.input.Value())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "d rust", m.input.Value())
	assert.Equal(t, -1, m.selected)
	assert.Empty(t, m.suggestions)
	assert.False(t, m.Canceled())
}

func TestSearchModel_TabAppliesFirstSuggestion(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "gola", `["gola",["golang generics"]]`)

	m, _ = typeText(t, m, "gola")
	m = settle(t, m)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "golang generics", m.input.Value(), "default engine suggestions are applied bare")
	assert.Equal(t, "golang generics", m.state.QueryForSuggest)
	assert.NotNil(t, cmd)
}

func TestSearchModel_Submit(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "go", `["go",["golang","gopher"]]`)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "empty input does not submit")

	m, _ = typeText(t, m, "go")
	m = settle(t, m)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "gopher", m.Submitted())
}

func TestSearchModel_EscWithoutSuggestionsCancels(t *testing.T) {
	m, _ := newTestSearchModel(t)
	m, _ = typeText(t, m, "d")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
	assert.True(t, m.Canceled())
	assert.Empty(t, m.Submitted())
}

func TestSearchModel_ViewShowsBadgeAndSuggestions(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "w", "tokyo", `["tokyo",["Tokyo Tower","Tokyo Station"]]`)

	m, _ = typeText(t, m, "w tokyo")
	m = settle(t, m)

	view := m.View()
	assert.Contains(t, view, "W")
	assert.Contains(t, view, "Tokyo Tower")
	assert.Contains(t, view, "Tokyo Station")
}

func TestSearchModel_Phases(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "go", `["go",["golang"]]`)
	assert.Equal(t, PhaseIdle, m.Phase())

	m, _ = typeText(t, m, "go")
	assert.Equal(t, PhaseTyping, m.Phase())

	m = settle(t, m)
	assert.Equal(t, PhaseSuggestionsShown, m.Phase())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, PhaseTyping, m.Phase(), "escape returns to typing")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, PhaseSubmitted, m.Phase())
	assert.Equal(t, "go", m.Submitted())
}

func TestSearchModel_SuppressedAndClearedPhases(t *testing.T) {
	m, _ := newTestSearchModel(t)

	m, _ = typeText(t, m, "m")
	assert.Equal(t, PhaseSuggestionsEmpty, m.Phase(), "a bare nickname shows nothing")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, "idle", m.Phase().String())
}

func TestSearchModel_CompletionHint(t *testing.T) {
	m, source := newTestSearchModel(t)
	withSuggestions(t, source, "g", "gol", `["gol",["golang","goldfish"]]`)

	m, _ = typeText(t, m, "gol")
	m = settle(t, m)
	assert.Equal(t, "ang", m.completionHint())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, m.completionHint(), "no hint while previewing")
}
