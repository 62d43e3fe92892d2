package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/entity"
	repomocks "github.com/bnema/startpage/internal/domain/repository/mocks"
)

func TestManageEnginesUseCase_Registry_DegradesOnStoreError(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Load(ctx).Return(nil, errors.New("disk on fire"))

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	reg := uc.Registry(ctx)

	assert.Equal(t, len(engine.Builtins()), reg.Len())
	def, err := reg.DefaultSearchEngine()
	require.NoError(t, err)
	assert.Equal(t, "g", def)
}

func TestManageEnginesUseCase_Registry_FallbackNickname(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Load(ctx).Return(&entity.Settings{DefaultSearchEngine: "gone"}, nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "d")
	def, err := uc.Registry(ctx).DefaultSearchEngine()
	require.NoError(t, err)
	assert.Equal(t, "d", def)
}

func TestManageEnginesUseCase_Save_PersistsCustomEngine(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Load(ctx).Return(entity.NewSettings(), nil)

	var saved *entity.Settings
	repo.EXPECT().Save(ctx, mock.AnythingOfType("*entity.Settings")).
		Run(func(_ context.Context, s *entity.Settings) { saved = s }).
		Return(nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	err := uc.Save(ctx, usecase.SaveEngineInput{Engine: entity.Engine{
		Nickname:          "GH",
		Name:              "GitHub",
		ResultURLTemplate: "https://github.com/search?q=%s",
	}})
	require.NoError(t, err)

	require.NotNil(t, saved)
	require.Contains(t, saved.CustomEngines, "gh")
	assert.Equal(t, "GitHub", saved.CustomEngines["gh"].Name)
}

func TestManageEnginesUseCase_Save_ValidationErrorDoesNotSave(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Load(ctx).Return(entity.NewSettings(), nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	err := uc.Save(ctx, usecase.SaveEngineInput{Engine: entity.Engine{
		Nickname:          "gh",
		Name:              "GitHub",
		ResultURLTemplate: "https://github.com/search",
	}})
	assert.ErrorIs(t, err, entity.ErrMissingPlaceholder)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestManageEnginesUseCase_Remove_TombstonesBuiltinAndClearsCurrent(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	stored := entity.NewSettings()
	stored.CurrentEngine = "b"
	repo.EXPECT().Load(ctx).Return(stored, nil)

	var saved *entity.Settings
	repo.EXPECT().Save(ctx, mock.Anything).
		Run(func(_ context.Context, s *entity.Settings) { saved = s }).
		Return(nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	require.NoError(t, uc.Remove(ctx, "B"))

	assert.Equal(t, []string{"b"}, saved.DeletedBuiltins)
	assert.Empty(t, saved.CurrentEngine)
}

func TestManageEnginesUseCase_Remove_Unknown(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Load(ctx).Return(entity.NewSettings(), nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	assert.ErrorIs(t, uc.Remove(ctx, "nope"), engine.ErrUnknownEngine)
}

func TestManageEnginesUseCase_SetDefaults(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.SetDefaultsInput
		wantErr     error
		wantSearch  string
		wantSuggest string
	}{
		{
			name:        "both",
			input:       usecase.SetDefaultsInput{Search: "d", Suggest: "b"},
			wantSearch:  "d",
			wantSuggest: "b",
		},
		{
			name:    "suggest engine without endpoint",
			input:   usecase.SetDefaultsInput{Suggest: "m"},
			wantErr: engine.ErrNoSuggestEngine,
		},
		{
			name:    "unknown search engine",
			input:   usecase.SetDefaultsInput{Search: "zz"},
			wantErr: engine.ErrUnknownEngine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			repo := repomocks.NewMockSettingsRepository(t)
			repo.EXPECT().Load(ctx).Return(entity.NewSettings(), nil)

			var saved *entity.Settings
			if tt.wantErr == nil {
				repo.EXPECT().Save(ctx, mock.Anything).
					Run(func(_ context.Context, s *entity.Settings) { saved = s }).
					Return(nil)
			}

			uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
			err := uc.SetDefaults(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSearch, saved.DefaultSearchEngine)
			assert.Equal(t, tt.wantSuggest, saved.DefaultSuggestEngine)
			assert.Equal(t, tt.wantSearch, saved.CurrentEngine)
		})
	}
}

func TestManageEnginesUseCase_List(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	stored := entity.NewSettings()
	stored.DeletedBuiltins = []string{"x"}
	stored.DefaultSearchEngine = "d"
	stored.CurrentEngine = "d"
	stored.CustomEngines["gh"] = entity.Engine{Nickname: "gh", Name: "GitHub", ResultURLTemplate: "https://github.com/search?q=%s"}
	repo.EXPECT().Load(ctx).Return(stored, nil)

	uc := usecase.NewManageEnginesUseCase(repo, engine.Builtins(), "")
	out, err := uc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, "d", out.DefaultSearch)
	assert.Equal(t, "g", out.DefaultSuggest)
	assert.Equal(t, []string{"x"}, out.Deleted)

	byNick := map[string]usecase.EngineListing{}
	for _, l := range out.Engines {
		byNick[l.Engine.Nickname] = l
	}
	assert.NotContains(t, byNick, "x")
	assert.True(t, byNick["d"].DefaultSearch)
	assert.True(t, byNick["d"].Current)
	assert.True(t, byNick["g"].DefaultSuggest)
	assert.True(t, byNick["g"].Builtin)
	assert.False(t, byNick["gh"].Builtin)
	assert.False(t, byNick["m"].SuggestAvailable)
	assert.Equal(t, "gh", out.Engines[len(out.Engines)-1].Engine.Nickname)
}
