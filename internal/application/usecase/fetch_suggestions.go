package usecase

import (
	"context"
	"errors"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/suggest"
	"github.com/bnema/startpage/internal/logging"
)

// EngineResolver looks up a live engine by nickname.
type EngineResolver interface {
	Resolve(nickname string) (entity.Engine, bool)
}

// FetchSuggestionsUseCase turns an (engine, query) pair into a normalized
// suggestion list. It never fails: upstream problems yield an empty list.
type FetchSuggestionsUseCase struct {
	engines EngineResolver
	source  port.SuggestionSource
	cache   port.SuggestionCache
	max     int
}

// NewFetchSuggestionsUseCase creates a new suggestion fetching use case.
// maxSuggestions is clamped to suggest.MaxSuggestions.
func NewFetchSuggestionsUseCase(
	engines EngineResolver,
	source port.SuggestionSource,
	cache port.SuggestionCache,
	maxSuggestions int,
) *FetchSuggestionsUseCase {
	if maxSuggestions <= 0 || maxSuggestions > suggest.MaxSuggestions {
		maxSuggestions = suggest.MaxSuggestions
	}
	return &FetchSuggestionsUseCase{
		engines: engines,
		source:  source,
		cache:   cache,
		max:     maxSuggestions,
	}
}

// FetchSuggestionsInput identifies the request. Query is used verbatim.
type FetchSuggestionsInput struct {
	Engine string
	Query  string
}

// FetchSuggestionsOutput echoes the request key so callers can apply the
// staleness guard against their current input state.
type FetchSuggestionsOutput struct {
	Engine      string
	Query       string
	Suggestions []string
	FromCache   bool
}

// Cached returns the cached list without touching the network.
func (uc *FetchSuggestionsUseCase) Cached(input FetchSuggestionsInput) ([]string, bool) {
	if uc.cache == nil {
		return nil, false
	}
	return uc.cache.Get(input.Engine, input.Query)
}

// Execute returns the suggestions for input, from the cache when possible.
func (uc *FetchSuggestionsUseCase) Execute(ctx context.Context, input FetchSuggestionsInput) *FetchSuggestionsOutput {
	ctx = logging.WithEngine(ctx, input.Engine)
	log := logging.FromContext(ctx).With().Str("query", input.Query).Logger()

	out := &FetchSuggestionsOutput{
		Engine:      input.Engine,
		Query:       input.Query,
		Suggestions: []string{},
	}

	if input.Query == "" {
		return out
	}
	e, ok := uc.engines.Resolve(input.Engine)
	if !ok || !e.HasSuggest() {
		log.Debug().Msg("engine has no suggest endpoint")
		return out
	}

	if list, hit := uc.Cached(input); hit {
		out.Suggestions = list
		out.FromCache = true
		return out
	}

	payload, err := uc.source.FetchSuggestions(ctx, e, input.Query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Trace().Msg("suggestion request cancelled")
		} else {
			log.Debug().Err(err).Msg("suggestion request failed")
		}
		return out
	}

	list := suggest.Normalize(e.Nickname, payload)
	if len(list) > uc.max {
		list = list[:uc.max]
	}
	if uc.cache != nil {
		uc.cache.Put(input.Engine, input.Query, list)
	}

	log.Debug().Int("count", len(list)).Msg("suggestions fetched")
	out.Suggestions = list
	return out
}
