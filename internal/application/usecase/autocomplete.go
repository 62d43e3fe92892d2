package usecase

import (
	"context"
	"sync"

	"github.com/bnema/startpage/internal/domain/autocomplete"
	"github.com/bnema/startpage/internal/logging"
)

// AutocompleteUseCase tracks the search box input across keystrokes.
// Every input bumps a generation number; suggestion results are applied only
// while the box still asks for the same (engine, query) pair.
type AutocompleteUseCase struct {
	engines     autocomplete.EngineLookup
	suggestions *FetchSuggestionsUseCase

	mu         sync.Mutex
	generation uint64
	state      autocomplete.InputState
	inflight   autocomplete.SuggestKey
	cancel     context.CancelFunc
	fetchSeq   uint64
	inflightID uint64
}

// NewAutocompleteUseCase creates a new autocomplete use case.
func NewAutocompleteUseCase(
	engines autocomplete.EngineLookup,
	suggestions *FetchSuggestionsUseCase,
) *AutocompleteUseCase {
	return &AutocompleteUseCase{
		engines:     engines,
		suggestions: suggestions,
		state:       autocomplete.Parse("", engines),
	}
}

// InputUpdate is the synchronous result of one input event.
type InputUpdate struct {
	State      autocomplete.InputState
	Generation uint64
	// Suggestions is set from the cache, or empty when the state suppresses them.
	Suggestions []string
	// NeedsFetch is set when the caller should schedule a debounced Fetch.
	NeedsFetch bool
}

// SuggestionResult is what a Fetch produced and for which request.
type SuggestionResult struct {
	Generation  uint64
	Key         autocomplete.SuggestKey
	Suggestions []string
}

// Update parses text and records it as the current input.
func (uc *AutocompleteUseCase) Update(ctx context.Context, text string) InputUpdate {
	state := autocomplete.Parse(text, uc.engines)

	uc.mu.Lock()
	uc.generation++
	uc.state = state
	gen := uc.generation
	if uc.cancel != nil && uc.inflight != state.Key() {
		uc.cancel()
		uc.cancel = nil
	}
	uc.mu.Unlock()

	update := InputUpdate{State: state, Generation: gen, Suggestions: []string{}}
	if state.SuppressSuggestions || state.QueryForSuggest == "" {
		return update
	}

	input := FetchSuggestionsInput{Engine: state.SuggestEngine, Query: state.QueryForSuggest}
	if list, ok := uc.suggestions.Cached(input); ok {
		logging.FromContext(ctx).Trace().
			Str("engine", input.Engine).
			Str("query", input.Query).
			Msg("suggestions served from cache")
		update.Suggestions = list
		return update
	}
	update.NeedsFetch = true
	return update
}

// State returns the current parsed input.
func (uc *AutocompleteUseCase) State() autocomplete.InputState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}

// Fetch runs the suggestion request for generation gen. It returns nil when a
// newer input arrived before the request started, or when a newer input with
// a different key cancelled it.
func (uc *AutocompleteUseCase) Fetch(ctx context.Context, gen uint64) *SuggestionResult {
	uc.mu.Lock()
	if gen != uc.generation {
		uc.mu.Unlock()
		return nil
	}
	key := uc.state.Key()
	if uc.cancel != nil {
		uc.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	uc.fetchSeq++
	id := uc.fetchSeq
	uc.cancel = cancel
	uc.inflight = key
	uc.inflightID = id
	uc.mu.Unlock()

	out := uc.suggestions.Execute(fetchCtx, FetchSuggestionsInput{Engine: key.Engine, Query: key.Query})

	// A newer Fetch for the same key may have replaced this one.
	uc.mu.Lock()
	if uc.inflightID == id {
		uc.cancel = nil
		uc.inflight = autocomplete.SuggestKey{}
		uc.inflightID = 0
	}
	uc.mu.Unlock()
	cancelled := fetchCtx.Err() != nil
	cancel()

	if cancelled {
		logging.FromContext(ctx).Trace().
			Str("engine", key.Engine).
			Str("query", key.Query).
			Msg("superseded suggestion request dropped")
		return nil
	}
	return &SuggestionResult{Generation: gen, Key: key, Suggestions: out.Suggestions}
}

// Accept reports whether result still answers the current input.
func (uc *AutocompleteUseCase) Accept(result *SuggestionResult) bool {
	if result == nil {
		return false
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return !uc.state.SuppressSuggestions && result.Key == uc.state.Key()
}
