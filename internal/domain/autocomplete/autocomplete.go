// Package autocomplete splits search box input into an engine nickname and a
// query, and decides which engines supply suggestions and the indicator icon.
package autocomplete

import (
	"strings"
	"unicode"

	"github.com/bnema/startpage/internal/domain/entity"
)

// EngineLookup is the registry view the parser needs.
type EngineLookup interface {
	Resolve(nickname string) (entity.Engine, bool)
	DefaultSearchEngine() (string, error)
	DefaultSuggestEngine() (string, error)
}

// InputState is the parsed view of the search box text.
// It is recomputed in full on every input event.
type InputState struct {
	RawText string
	// DetectedNickname is set only when the first token names a live engine.
	DetectedNickname string
	QueryForSuggest  string
	SuggestEngine    string
	DisplayEngine    string
	// SuppressSuggestions is set when no request should be made for this state.
	SuppressSuggestions bool
}

// HasNickname reports whether the first token matched an engine.
func (s InputState) HasNickname() bool {
	return s.DetectedNickname != ""
}

// SuggestKey is the (engine, query) pair a suggestion response must match.
type SuggestKey struct {
	Engine string
	Query  string
}

// Key returns the pair used by the staleness guard and the cache.
func (s InputState) Key() SuggestKey {
	return SuggestKey{Engine: s.SuggestEngine, Query: s.QueryForSuggest}
}

// SplitFirstToken splits s on its first whitespace run.
// s is expected to be trimmed.
func SplitFirstToken(s string) (first, rest string) {
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
}

// Parse computes the InputState for raw search box text.
func Parse(rawText string, engines EngineLookup) InputState {
	state := InputState{RawText: rawText}
	trimmed := strings.TrimSpace(rawText)

	defaultSearch, _ := engines.DefaultSearchEngine()
	defaultSuggest, suggestErr := engines.DefaultSuggestEngine()

	if trimmed == "" {
		state.DisplayEngine = defaultSearch
		state.SuppressSuggestions = true
		return state
	}

	first, rest := SplitFirstToken(trimmed)
	if e, ok := engines.Resolve(strings.ToLower(first)); ok {
		state.DetectedNickname = e.Nickname
		state.DisplayEngine = e.Nickname

		if rest == "" {
			state.SuggestEngine = e.Nickname
			state.SuppressSuggestions = true
			return state
		}

		if e.HasSuggest() {
			state.SuggestEngine = e.Nickname
			state.QueryForSuggest = rest
			return state
		}

		state.SuggestEngine = defaultSuggest
		state.QueryForSuggest = trimmed
		state.SuppressSuggestions = suggestErr != nil
		return state
	}

	state.DisplayEngine = defaultSearch
	state.SuggestEngine = defaultSuggest
	state.QueryForSuggest = trimmed
	state.SuppressSuggestions = suggestErr != nil
	return state
}

// ApplySuggestion returns the search box text after choosing suggestion.
// The detected nickname is kept as a prefix unless it is the default search
// engine, or the suggestion already carries it.
func ApplySuggestion(state InputState, suggestion, defaultSearch string) string {
	if !state.HasNickname() || state.DetectedNickname == defaultSearch {
		return suggestion
	}
	prefix := state.DetectedNickname + " "
	if strings.HasPrefix(strings.ToLower(suggestion), prefix) {
		return suggestion
	}
	return prefix + suggestion
}

// ComputeCompletionSuffix returns the suffix if input is a case-insensitive prefix of fullText.
// Returns the suffix and true if input matches as a prefix, otherwise empty string and false.
func ComputeCompletionSuffix(input, fullText string) (string, bool) {
	if input == "" || fullText == "" {
		return "", false
	}

	if len(fullText) < len(input) || !strings.EqualFold(fullText[:len(input)], input) {
		return "", false
	}

	// Return the original-case suffix from fullText
	suffix := fullText[len(input):]
	return suffix, suffix != ""
}
