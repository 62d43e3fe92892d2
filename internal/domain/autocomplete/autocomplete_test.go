package autocomplete_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/startpage/internal/domain/autocomplete"
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/entity"
)

func newRegistry() *engine.Registry {
	return engine.NewRegistry(engine.Builtins(), nil, nil)
}

func TestParse(t *testing.T) {
	reg := newRegistry()

	tests := []struct {
		name  string
		input string
		want  autocomplete.InputState
	}{
		{
			name:  "empty input",
			input: "   ",
			want: autocomplete.InputState{
				RawText:             "   ",
				DisplayEngine:       "g",
				SuppressSuggestions: true,
			},
		},
		{
			name:  "nickname with terms and suggest url",
			input: "y lofi beats",
			want: autocomplete.InputState{
				RawText:          "y lofi beats",
				DetectedNickname: "y",
				QueryForSuggest:  "lofi beats",
				SuggestEngine:    "y",
				DisplayEngine:    "y",
			},
		},
		{
			name:  "nickname is case insensitive",
			input: "D  golang",
			want: autocomplete.InputState{
				RawText:          "D  golang",
				DetectedNickname: "d",
				QueryForSuggest:  "golang",
				SuggestEngine:    "d",
				DisplayEngine:    "d",
			},
		},
		{
			name:  "nickname without suggest url uses default suggest on whole input",
			input: "m tokyo station",
			want: autocomplete.InputState{
				RawText:          "m tokyo station",
				DetectedNickname: "m",
				QueryForSuggest:  "m tokyo station",
				SuggestEngine:    "g",
				DisplayEngine:    "m",
			},
		},
		{
			name:  "bare nickname suppresses suggestions",
			input: "w",
			want: autocomplete.InputState{
				RawText:             "w",
				DetectedNickname:    "w",
				SuggestEngine:       "w",
				DisplayEngine:       "w",
				SuppressSuggestions: true,
			},
		},
		{
			name:  "unknown first token searches whole input",
			input: "openai gpt",
			want: autocomplete.InputState{
				RawText:         "openai gpt",
				QueryForSuggest: "openai gpt",
				SuggestEngine:   "g",
				DisplayEngine:   "g",
			},
		},
		{
			name:  "leading and trailing space trimmed",
			input: "  golang  ",
			want: autocomplete.InputState{
				RawText:         "  golang  ",
				QueryForSuggest: "golang",
				SuggestEngine:   "g",
				DisplayEngine:   "g",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, autocomplete.Parse(tt.input, reg))
		})
	}
}

func TestParse_NicknameRoundTrip(t *testing.T) {
	reg := newRegistry()
	terms := []string{"openai", "a b c", "東京 タワー", "x"}

	for _, e := range reg.Engines() {
		for _, term := range terms {
			state := autocomplete.Parse(e.Nickname+" "+term, reg)
			assert.Equal(t, e.Nickname, state.DetectedNickname)
			if e.HasSuggest() {
				assert.Equal(t, term, state.QueryForSuggest)
			}
		}
	}
}

func TestParse_DisplayAndSuggestDiffer(t *testing.T) {
	reg := engine.FromSettings(engine.Builtins(), &entity.Settings{
		DefaultSearchEngine:  "d",
		DefaultSuggestEngine: "b",
	})

	state := autocomplete.Parse("rust async", reg)
	assert.Equal(t, "d", state.DisplayEngine)
	assert.Equal(t, "b", state.SuggestEngine)
}

func TestParse_NoSuggestEngineSuppresses(t *testing.T) {
	reg := engine.NewRegistry([]entity.Engine{
		{Nickname: "m", Name: "Maps", ResultURLTemplate: "https://maps/?q=%s"},
	}, nil, nil)

	state := autocomplete.Parse("coffee", reg)
	assert.Equal(t, "m", state.DisplayEngine)
	assert.True(t, state.SuppressSuggestions)
}

func TestSplitFirstToken(t *testing.T) {
	first, rest := autocomplete.SplitFirstToken("g  hello world")
	assert.Equal(t, "g", first)
	assert.Equal(t, "hello world", rest)

	first, rest = autocomplete.SplitFirstToken("single")
	assert.Equal(t, "single", first)
	assert.Empty(t, rest)

	first, rest = autocomplete.SplitFirstToken("a\tb")
	assert.Equal(t, "a", first)
	assert.Equal(t, "b", rest)
}

func TestApplySuggestion(t *testing.T) {
	reg := newRegistry()

	tests := []struct {
		name       string
		input      string
		suggestion string
		want       string
	}{
		{name: "no nickname", input: "gola", suggestion: "golang", want: "golang"},
		{name: "default engine nickname dropped", input: "g gola", suggestion: "golang", want: "golang"},
		{name: "other engine keeps nickname", input: "y lofi", suggestion: "lofi hip hop", want: "y lofi hip hop"},
		{name: "no double prefix", input: "m tokyo", suggestion: "m tokyo station", want: "m tokyo station"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := autocomplete.Parse(tt.input, reg)
			assert.Equal(t, tt.want, autocomplete.ApplySuggestion(state, tt.suggestion, "g"))
		})
	}
}

func TestComputeCompletionSuffix(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		fullText   string
		wantSuffix string
		wantOK     bool
	}{
		{name: "empty input", input: "", fullText: "golang", wantOK: false},
		{name: "empty fullText", input: "go", fullText: "", wantOK: false},
		{name: "exact match returns false", input: "golang", fullText: "golang", wantOK: false},
		{name: "prefix", input: "gol", fullText: "golang", wantSuffix: "ang", wantOK: true},
		{name: "case insensitive keeps original case", input: "GOL", fullText: "GoLang", wantSuffix: "ang", wantOK: true},
		{name: "not a prefix", input: "rust", fullText: "golang", wantOK: false},
		{name: "input longer than fullText", input: "golang generics", fullText: "golang", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := autocomplete.ComputeCompletionSuffix(tt.input, tt.fullText)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}
