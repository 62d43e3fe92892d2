// Package repository declares the persistence interfaces the start page
// depends on. Implementations live under internal/infrastructure/persistence.
package repository

import (
	"context"

	"github.com/bnema/startpage/internal/domain/entity"
)

// SettingsRepository loads and saves the start page settings blob.
type SettingsRepository interface {
	// Load returns the stored settings.
	// Missing keys come back as their zero values, never as an error.
	Load(ctx context.Context) (*entity.Settings, error)

	// Save writes every field of settings in one transaction.
	Save(ctx context.Context, settings *entity.Settings) error
}
