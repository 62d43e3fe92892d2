package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/repository"
	"github.com/bnema/startpage/internal/logging"
)

// ManageEnginesUseCase loads the engine registry from the settings store and
// persists engine edits, removals and default changes.
type ManageEnginesUseCase struct {
	settingsRepo repository.SettingsRepository
	builtins     []entity.Engine
	opts         []engine.Option

	// mu serializes load-modify-save cycles.
	mu sync.Mutex
}

// NewManageEnginesUseCase creates a new engine management use case.
// fallbackNickname overrides the "g" fallback when non-empty.
func NewManageEnginesUseCase(
	settingsRepo repository.SettingsRepository,
	builtins []entity.Engine,
	fallbackNickname string,
) *ManageEnginesUseCase {
	var opts []engine.Option
	if fallbackNickname != "" {
		opts = append(opts, engine.WithFallbackNickname(fallbackNickname))
	}
	return &ManageEnginesUseCase{
		settingsRepo: settingsRepo,
		builtins:     builtins,
		opts:         opts,
	}
}

// Registry returns the live registry for the stored settings.
// A store failure is logged and degrades to the builtin engines.
func (uc *ManageEnginesUseCase) Registry(ctx context.Context) *engine.Registry {
	reg, _, err := uc.load(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("settings unavailable, using builtin engines")
		return engine.NewRegistry(uc.builtins, nil, nil, uc.opts...)
	}
	return reg
}

func (uc *ManageEnginesUseCase) load(ctx context.Context) (*engine.Registry, *entity.Settings, error) {
	settings, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = entity.NewSettings()
	}
	return engine.FromSettings(uc.builtins, settings, uc.opts...), settings, nil
}

// mutate runs fn against a freshly loaded registry and saves the result.
// Nothing is written when fn fails.
func (uc *ManageEnginesUseCase) mutate(ctx context.Context, fn func(*engine.Registry, *entity.Settings) error) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	reg, settings, err := uc.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(reg, settings); err != nil {
		return err
	}
	reg.ApplyTo(settings)
	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// EngineListing is one row of ListEnginesOutput.
type EngineListing struct {
	Engine           entity.Engine
	Builtin          bool
	DefaultSearch    bool
	DefaultSuggest   bool
	Current          bool
	SuggestAvailable bool
}

// ListEnginesOutput contains the live engines in display order.
type ListEnginesOutput struct {
	Engines        []EngineListing
	Deleted        []string
	DefaultSearch  string
	DefaultSuggest string
}

// List returns the live engines with their default flags.
func (uc *ManageEnginesUseCase) List(ctx context.Context) (*ListEnginesOutput, error) {
	reg, settings, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListEnginesOutput{Deleted: reg.Deleted()}
	out.DefaultSearch, _ = reg.DefaultSearchEngine()
	out.DefaultSuggest, _ = reg.DefaultSuggestEngine()
	current := entity.NormalizeNickname(settings.CurrentEngine)

	for _, e := range reg.Engines() {
		out.Engines = append(out.Engines, EngineListing{
			Engine:           e,
			Builtin:          reg.IsBuiltin(e.Nickname),
			DefaultSearch:    e.Nickname == out.DefaultSearch,
			DefaultSuggest:   e.Nickname == out.DefaultSuggest,
			Current:          e.Nickname == current,
			SuggestAvailable: e.HasSuggest(),
		})
	}
	return out, nil
}

// SaveEngineInput contains parameters for adding or editing an engine.
type SaveEngineInput struct {
	Engine entity.Engine
	// PreviousNickname is set when editing; empty when adding.
	PreviousNickname string
}

// Save adds or edits an engine. Validation errors leave the store untouched.
func (uc *ManageEnginesUseCase) Save(ctx context.Context, input SaveEngineInput) error {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("nickname", input.Engine.Nickname).
		Str("previous", input.PreviousNickname).
		Msg("saving engine")

	err := uc.mutate(ctx, func(reg *engine.Registry, _ *entity.Settings) error {
		return reg.Upsert(input.Engine, input.PreviousNickname)
	})
	if err != nil {
		return err
	}

	log.Info().Str("nickname", entity.NormalizeNickname(input.Engine.Nickname)).Msg("engine saved")
	return nil
}

// Remove deletes an engine, tombstoning builtins.
func (uc *ManageEnginesUseCase) Remove(ctx context.Context, nickname string) error {
	log := logging.FromContext(ctx)

	err := uc.mutate(ctx, func(reg *engine.Registry, settings *entity.Settings) error {
		if err := reg.Remove(nickname); err != nil {
			return err
		}
		if entity.NormalizeNickname(settings.CurrentEngine) == entity.NormalizeNickname(nickname) {
			settings.CurrentEngine = ""
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("nickname", nickname).Msg("engine removed")
	return nil
}

// SetDefaultsInput contains the new defaults. Empty fields are left as is.
type SetDefaultsInput struct {
	Search  string
	Suggest string
}

// SetDefaults changes the default search and/or suggestion engine.
// Setting the default search engine also makes it the current engine.
func (uc *ManageEnginesUseCase) SetDefaults(ctx context.Context, input SetDefaultsInput) error {
	log := logging.FromContext(ctx)

	err := uc.mutate(ctx, func(reg *engine.Registry, settings *entity.Settings) error {
		if input.Search != "" {
			if err := reg.SetDefaultSearchEngine(input.Search); err != nil {
				return err
			}
			settings.CurrentEngine = entity.NormalizeNickname(input.Search)
		}
		if input.Suggest != "" {
			if err := reg.SetDefaultSuggestEngine(input.Suggest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("search", input.Search).Str("suggest", input.Suggest).Msg("default engines updated")
	return nil
}

// SetCurrent records the engine last chosen explicitly in the search box.
func (uc *ManageEnginesUseCase) SetCurrent(ctx context.Context, nickname string) error {
	return uc.mutate(ctx, func(reg *engine.Registry, settings *entity.Settings) error {
		if _, ok := reg.Resolve(nickname); !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownEngine, nickname)
		}
		settings.CurrentEngine = entity.NormalizeNickname(nickname)
		return nil
	})
}
