package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/repository"
	"github.com/bnema/startpage/internal/logging"
)

// SettingsExportVersion is the only export format version understood.
const SettingsExportVersion = 1

// ErrUnsupportedExport is returned for files that are not a version 1 export.
var ErrUnsupportedExport = errors.New("invalid settings file format or version")

// SettingsExport is the portable settings file. Every field holds the stored
// JSON text of its setting, not a nested object.
type SettingsExport struct {
	Version               int    `json:"version"`
	CustomEngines         string `json:"customEngines"`
	DeletedBuiltinEngines string `json:"deletedBuiltinEngines"`
	SpeedDialData         string `json:"speedDialData"`
	SpeedDialColumns      string `json:"speedDialColumns"`
	FaviconsCache         string `json:"faviconsCache"`
}

// TransferSettingsUseCase exports and imports the settings store.
type TransferSettingsUseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewTransferSettingsUseCase creates a new settings transfer use case.
func NewTransferSettingsUseCase(settingsRepo repository.SettingsRepository) *TransferSettingsUseCase {
	return &TransferSettingsUseCase{settingsRepo: settingsRepo}
}

// Export returns the current settings as an indented version 1 document.
func (uc *TransferSettingsUseCase) Export(ctx context.Context) ([]byte, error) {
	settings, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = entity.NewSettings()
	}

	custom, err := entity.EncodeCustomEngines(settings.CustomEngines)
	if err != nil {
		return nil, err
	}

	doc := SettingsExport{
		Version:               SettingsExportVersion,
		CustomEngines:         custom,
		DeletedBuiltinEngines: entity.EncodeNicknames(settings.DeletedBuiltins),
		SpeedDialData:         string(entity.OpaqueOr(string(settings.SpeedDial), "[]")),
		SpeedDialColumns:      strconv.Itoa(entity.ClampColumns(settings.Columns)),
		FaviconsCache:         string(entity.OpaqueOr(string(settings.Favicons), "{}")),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import replaces the exported settings with the content of data.
// Engine selections are kept. Nothing is written when data is invalid.
func (uc *TransferSettingsUseCase) Import(ctx context.Context, data []byte) error {
	var doc SettingsExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedExport, err)
	}
	if doc.Version != SettingsExportVersion {
		return fmt.Errorf("%w: version %d", ErrUnsupportedExport, doc.Version)
	}

	custom, err := entity.DecodeCustomEngines(doc.CustomEngines)
	if err != nil {
		return err
	}
	deleted, err := entity.DecodeNicknames(doc.DeletedBuiltinEngines)
	if err != nil {
		return err
	}

	settings, err := uc.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = entity.NewSettings()
	}

	settings.CustomEngines = custom
	settings.DeletedBuiltins = deleted
	settings.SpeedDial = entity.OpaqueOr(doc.SpeedDialData, "[]")
	settings.Columns = entity.DecodeColumns(doc.SpeedDialColumns)
	settings.Favicons = entity.OpaqueOr(doc.FaviconsCache, "{}")

	if err := uc.settingsRepo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	logging.FromContext(ctx).Info().
		Int("custom_engines", len(custom)).
		Int("deleted_builtins", len(deleted)).
		Msg("settings imported")
	return nil
}
