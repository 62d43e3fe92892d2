package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/startpage/internal/domain/autocomplete"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/url"
	"github.com/bnema/startpage/internal/logging"
)

// Navigation errors.
var (
	ErrEmptyInput         = errors.New("nothing to navigate to")
	ErrNoNavigationTarget = errors.New("no search engine is available for this query")
)

// NavigationKind tells a direct URL apart from an engine search.
type NavigationKind int

const (
	NavigationDirectURL NavigationKind = iota
	NavigationEngineSearch
)

func (k NavigationKind) String() string {
	if k == NavigationDirectURL {
		return "url"
	}
	return "search"
}

// NavigationIntent is the resolved destination of one submit action.
type NavigationIntent struct {
	Kind      NavigationKind
	TargetURL string
	// Engine and Terms are set for NavigationEngineSearch.
	Engine string
	Terms  string
	// ViaNickname is set when the engine was chosen by a nickname prefix.
	ViaNickname bool
}

// EngineCatalog is the registry view the resolver needs.
type EngineCatalog interface {
	Resolve(nickname string) (entity.Engine, bool)
	DefaultSearchEngine() (string, error)
	Engines() []entity.Engine
}

// ResolveNavigationUseCase turns submitted text into a navigation target.
type ResolveNavigationUseCase struct {
	engines          EngineCatalog
	fallbackNickname string
	fallbackTemplate string
}

// NewResolveNavigationUseCase creates a navigation resolver.
// fallbackTemplate is used when no engine resolves at all; empty disables it.
func NewResolveNavigationUseCase(engines EngineCatalog, fallbackNickname, fallbackTemplate string) *ResolveNavigationUseCase {
	return &ResolveNavigationUseCase{
		engines:          engines,
		fallbackNickname: entity.NormalizeNickname(fallbackNickname),
		fallbackTemplate: fallbackTemplate,
	}
}

// ResolveNavigationInput contains the submitted text.
type ResolveNavigationInput struct {
	Input string
}

// Resolve decides between a direct URL and an engine search.
// Only ErrEmptyInput and ErrNoNavigationTarget are returned.
func (uc *ResolveNavigationUseCase) Resolve(ctx context.Context, input ResolveNavigationInput) (*NavigationIntent, error) {
	log := logging.FromContext(ctx)

	text := strings.TrimSpace(input.Input)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if url.LooksLikeURL(text) {
		if target, ok := url.ToDirectURL(text); ok {
			log.Debug().Str("url", target).Msg("input resolved as direct URL")
			return &NavigationIntent{Kind: NavigationDirectURL, TargetURL: target}, nil
		}
		log.Debug().Str("input", text).Msg("input looked like a URL but did not parse, searching instead")
	}

	first, rest := autocomplete.SplitFirstToken(text)
	if rest != "" {
		if e, ok := uc.engines.Resolve(strings.ToLower(first)); ok {
			intent := uc.search(ctx, e.Nickname, e.ResultURLTemplate, rest)
			intent.ViaNickname = true
			return intent, nil
		}
	}

	nickname, err := uc.engines.DefaultSearchEngine()
	if err == nil {
		if e, ok := uc.engines.Resolve(nickname); ok {
			return uc.search(ctx, e.Nickname, e.ResultURLTemplate, text), nil
		}
	}
	return uc.lastResort(ctx, text, err)
}

// ResolveClipboard treats clipboard text as a URL when it looks like one,
// otherwise searches it with the fallback engine or the first engine.
// The nickname prefix is not interpreted.
func (uc *ResolveNavigationUseCase) ResolveClipboard(ctx context.Context, text string) (*NavigationIntent, error) {
	log := logging.FromContext(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if url.LooksLikeClipboardURL(text) {
		if target, ok := url.ToDirectURL(text); ok {
			log.Debug().Str("url", target).Msg("clipboard resolved as direct URL")
			return &NavigationIntent{Kind: NavigationDirectURL, TargetURL: target}, nil
		}
	}

	if e, ok := uc.engines.Resolve(uc.fallbackNickname); ok {
		return uc.search(ctx, e.Nickname, e.ResultURLTemplate, text), nil
	}
	if all := uc.engines.Engines(); len(all) > 0 {
		return uc.search(ctx, all[0].Nickname, all[0].ResultURLTemplate, text), nil
	}
	return uc.lastResort(ctx, text, nil)
}

func (uc *ResolveNavigationUseCase) search(ctx context.Context, nickname, template, terms string) *NavigationIntent {
	target := url.BuildResultURL(template, terms)
	logging.FromContext(ctx).Debug().
		Str("engine", nickname).
		Str("url", target).
		Msg("input resolved as engine search")
	return &NavigationIntent{
		Kind:      NavigationEngineSearch,
		TargetURL: target,
		Engine:    nickname,
		Terms:     terms,
	}
}

func (uc *ResolveNavigationUseCase) lastResort(ctx context.Context, terms string, cause error) (*NavigationIntent, error) {
	log := logging.FromContext(ctx)
	if uc.fallbackTemplate == "" {
		log.Error().Err(cause).Msg("no search engine available")
		if cause != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoNavigationTarget, cause)
		}
		return nil, ErrNoNavigationTarget
	}
	log.Warn().Err(cause).Msg("default search engine unavailable, using fallback template")
	return uc.search(ctx, "", uc.fallbackTemplate, terms), nil
}
