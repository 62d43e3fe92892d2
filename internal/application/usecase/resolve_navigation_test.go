package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/url"
)

func TestResolveNavigationUseCase_Resolve(t *testing.T) {
	reg := builtinRegistry()
	uc := usecase.NewResolveNavigationUseCase(reg, engine.FallbackNickname, url.FallbackResultTemplate)

	tests := []struct {
		name       string
		input      string
		wantKind   usecase.NavigationKind
		wantURL    string
		wantEngine string
		wantTerms  string

		viaNickname bool
	}{
		{
			name:     "bare domain",
			input:    "github.com",
			wantKind: usecase.NavigationDirectURL,
			wantURL:  "https://github.com",
		},
		{
			name:     "www prefix",
			input:    "  www.example.org/path  ",
			wantKind: usecase.NavigationDirectURL,
			wantURL:  "https://www.example.org/path",
		},
		{
			name:     "explicit scheme kept",
			input:    "http://intranet.local",
			wantKind: usecase.NavigationDirectURL,
			wantURL:  "http://intranet.local",
		},
		{
			name:       "nickname and terms",
			input:      "g openai",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=openai&hl=ja",
			wantEngine: "g",
			wantTerms:  "openai",

			viaNickname: true,
		},
		{
			name:       "nickname is case insensitive",
			input:      "D rust async",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://duckduckgo.com/?q=rust%20async",
			wantEngine: "d",
			wantTerms:  "rust async",

			viaNickname: true,
		},
		{
			name:       "unknown first token searches whole input",
			input:      "openai gpt",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=openai%20gpt&hl=ja",
			wantEngine: "g",
			wantTerms:  "openai gpt",
		},
		{
			name:       "bare nickname searches the nickname",
			input:      "y",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=y&hl=ja",
			wantEngine: "g",
			wantTerms:  "y",
		},
		{
			name:       "localhost is a search",
			input:      "localhost:3000/test",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=localhost%3A3000%2Ftest&hl=ja",
			wantEngine: "g",
			wantTerms:  "localhost:3000/test",
		},
		{
			name:       "url-like but unparseable falls back to search",
			input:      "http://",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=http%3A%2F%2F&hl=ja",
			wantEngine: "g",
			wantTerms:  "http://",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, intent.Kind)
			assert.Equal(t, tt.wantURL, intent.TargetURL)
			assert.Equal(t, tt.wantEngine, intent.Engine)
			assert.Equal(t, tt.wantTerms, intent.Terms)
			assert.Equal(t, tt.viaNickname, intent.ViaNickname)
		})
	}
}

func TestResolveNavigationUseCase_EmptyInput(t *testing.T) {
	uc := usecase.NewResolveNavigationUseCase(builtinRegistry(), "g", url.FallbackResultTemplate)
	_, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: " \t "})
	assert.ErrorIs(t, err, usecase.ErrEmptyInput)
}

func TestResolveNavigationUseCase_RepeatedPlaceholder(t *testing.T) {
	reg := engine.NewRegistry([]entity.Engine{
		{Nickname: "x", Name: "X", ResultURLTemplate: "https://x/?q=%s&alt=%s"},
	}, nil, nil)
	uc := usecase.NewResolveNavigationUseCase(reg, "g", "")

	intent, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: "x a b"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/?q=a%20b&alt=a%20b", intent.TargetURL)
}

func TestResolveNavigationUseCase_EmptyRegistry(t *testing.T) {
	empty := engine.NewRegistry(nil, nil, nil)

	t.Run("fallback template", func(t *testing.T) {
		uc := usecase.NewResolveNavigationUseCase(empty, "g", url.FallbackResultTemplate)
		intent, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: "golang"})
		require.NoError(t, err)
		assert.Equal(t, "https://www.google.com/search?q=golang", intent.TargetURL)
		assert.Empty(t, intent.Engine)
	})

	t.Run("no fallback", func(t *testing.T) {
		uc := usecase.NewResolveNavigationUseCase(empty, "g", "")
		_, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: "golang"})
		assert.ErrorIs(t, err, usecase.ErrNoNavigationTarget)
		assert.ErrorIs(t, err, engine.ErrNoEngines)
	})
}

func TestResolveNavigationUseCase_StaleDefaultUsesFallbackChain(t *testing.T) {
	reg := engine.FromSettings(engine.Builtins(), &entity.Settings{DefaultSearchEngine: "deleted"})
	uc := usecase.NewResolveNavigationUseCase(reg, "g", "")

	intent, err := uc.Resolve(testContext(), usecase.ResolveNavigationInput{Input: "weather"})
	require.NoError(t, err)
	assert.Equal(t, "g", intent.Engine)
}

func TestResolveNavigationUseCase_ResolveClipboard(t *testing.T) {
	reg := builtinRegistry()

	tests := []struct {
		name       string
		reg        *engine.Registry
		text       string
		wantKind   usecase.NavigationKind
		wantURL    string
		wantEngine string
	}{
		{
			name:     "url",
			reg:      reg,
			text:     "example.com/a\n",
			wantKind: usecase.NavigationDirectURL,
			wantURL:  "https://example.com/a",
		},
		{
			name:     "localhost allowed from clipboard",
			reg:      reg,
			text:     "localhost.test:8080",
			wantKind: usecase.NavigationDirectURL,
			wantURL:  "https://localhost.test:8080",
		},
		{
			name:       "nickname is not interpreted",
			reg:        reg,
			text:       "y lofi",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=y%20lofi&hl=ja",
			wantEngine: "g",
		},
		{
			name:       "first engine when fallback is gone",
			reg:        engine.NewRegistry(engine.Builtins(), nil, []string{"g"}),
			text:       "hello world",
			wantKind:   usecase.NavigationEngineSearch,
			wantURL:    "https://www.google.com/search?q=hello%20world&hl=en",
			wantEngine: "gs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewResolveNavigationUseCase(tt.reg, "g", "")
			intent, err := uc.ResolveClipboard(testContext(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, intent.Kind)
			assert.Equal(t, tt.wantURL, intent.TargetURL)
			assert.Equal(t, tt.wantEngine, intent.Engine)
		})
	}

	uc := usecase.NewResolveNavigationUseCase(reg, "g", "")
	_, err := uc.ResolveClipboard(testContext(), "")
	assert.ErrorIs(t, err, usecase.ErrEmptyInput)
}
