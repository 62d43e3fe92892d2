package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

// CurrentEngineRecorder persists the engine the user picked explicitly.
type CurrentEngineRecorder interface {
	SetCurrent(ctx context.Context, nickname string) error
}

// NavigateUseCase opens a resolved navigation intent in the browser.
type NavigateUseCase struct {
	opener   port.URLOpener
	recorder CurrentEngineRecorder
}

// NewNavigateUseCase creates a navigation use case. recorder may be nil.
func NewNavigateUseCase(opener port.URLOpener, recorder CurrentEngineRecorder) *NavigateUseCase {
	return &NavigateUseCase{opener: opener, recorder: recorder}
}

// Execute opens intent.TargetURL. An engine chosen by nickname becomes the
// current engine; failing to record it is logged, not returned.
func (uc *NavigateUseCase) Execute(ctx context.Context, intent *NavigationIntent) error {
	log := logging.FromContext(ctx)

	if intent == nil || intent.TargetURL == "" {
		return ErrEmptyInput
	}

	if err := uc.opener.Open(ctx, intent.TargetURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	log.Info().Str("kind", intent.Kind.String()).Str("url", intent.TargetURL).Msg("navigated")

	if intent.ViaNickname && intent.Engine != "" && uc.recorder != nil {
		if err := uc.recorder.SetCurrent(ctx, intent.Engine); err != nil {
			log.Warn().Err(err).Str("engine", intent.Engine).Msg("failed to record current engine")
		}
	}
	return nil
}
