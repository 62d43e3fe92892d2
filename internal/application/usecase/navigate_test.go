package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/startpage/internal/application/port/mocks"
	"github.com/bnema/startpage/internal/application/usecase"
)

type recordedEngines struct {
	names []string
	err   error
}

func (r *recordedEngines) SetCurrent(_ context.Context, nickname string) error {
	r.names = append(r.names, nickname)
	return r.err
}

func TestNavigateUseCase_Execute(t *testing.T) {
	tests := []struct {
		name       string
		intent     *usecase.NavigationIntent
		wantRecord []string
	}{
		{
			name:   "direct url",
			intent: &usecase.NavigationIntent{Kind: usecase.NavigationDirectURL, TargetURL: "https://github.com"},
		},
		{
			name: "default engine search is not recorded",
			intent: &usecase.NavigationIntent{
				Kind: usecase.NavigationEngineSearch, TargetURL: "https://www.google.com/search?q=go",
				Engine: "g", Terms: "go",
			},
		},
		{
			name: "nickname search is recorded",
			intent: &usecase.NavigationIntent{
				Kind: usecase.NavigationEngineSearch, TargetURL: "https://duckduckgo.com/?q=go",
				Engine: "d", Terms: "go", ViaNickname: true,
			},
			wantRecord: []string{"d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := mocks.NewMockURLOpener(t)
			opener.EXPECT().Open(mock.Anything, tt.intent.TargetURL).Return(nil).Once()
			rec := &recordedEngines{}

			err := usecase.NewNavigateUseCase(opener, rec).Execute(testContext(), tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecord, rec.names)
		})
	}
}

func TestNavigateUseCase_Errors(t *testing.T) {
	opener := mocks.NewMockURLOpener(t)
	uc := usecase.NewNavigateUseCase(opener, nil)

	assert.ErrorIs(t, uc.Execute(testContext(), nil), usecase.ErrEmptyInput)

	boom := errors.New("exec: xdg-open not found")
	opener.EXPECT().Open(mock.Anything, "https://go.dev").Return(boom).Once()
	assert.ErrorIs(t, uc.Execute(testContext(), &usecase.NavigationIntent{TargetURL: "https://go.dev"}), boom)
}

func TestNavigateUseCase_RecordFailureIsSoft(t *testing.T) {
	opener := mocks.NewMockURLOpener(t)
	opener.EXPECT().Open(mock.Anything, mock.Anything).Return(nil).Once()
	rec := &recordedEngines{err: errors.New("database is locked")}

	err := usecase.NewNavigateUseCase(opener, rec).Execute(testContext(), &usecase.NavigationIntent{
		Kind: usecase.NavigationEngineSearch, TargetURL: "https://x.test/?q=a", Engine: "x", ViaNickname: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"x"}, rec.names)
}

func TestClipboardUseCase(t *testing.T) {
	cb := mocks.NewMockClipboard(t)
	uc := usecase.NewClipboardUseCase(cb)

	cb.EXPECT().ReadText(mock.Anything).Return("  github.com \n", nil).Once()
	text, err := uc.Read(testContext())
	require.NoError(t, err)
	assert.Equal(t, "github.com", text)

	cb.EXPECT().ReadText(mock.Anything).Return("   ", nil).Once()
	_, err = uc.Read(testContext())
	assert.ErrorIs(t, err, usecase.ErrClipboardEmpty)

	cb.EXPECT().WriteText(mock.Anything, "https://go.dev").Return(nil).Once()
	require.NoError(t, uc.Copy(testContext(), "https://go.dev"))
	assert.Error(t, uc.Copy(testContext(), ""))
}
