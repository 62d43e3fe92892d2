package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/domain/entity"
	"github.com/bnema/startpage/internal/domain/repository"
	"github.com/bnema/startpage/internal/logging"
)

// Storage keys. They match the key names of the original browser storage so
// exported data stays interchangeable.
const (
	KeyCustomEngines        = "customSearchEngines_v2"
	KeyDeletedBuiltins      = "deletedBuiltinEngines_v2"
	KeySpeedDial            = "speedDialData_v2"
	KeyColumns              = "speedDialColumns"
	KeyFavicons             = "faviconsCache_v2"
	KeyCurrentEngine        = "currentSearchEngine"
	KeyDefaultSearchEngine  = "defaultSearchEngine"
	KeyDefaultSuggestEngine = "defaultSuggestEngine"
)

const (
	selectSettingsSQL = `SELECT key, value FROM settings`
	upsertSettingSQL  = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

type settingsRepo struct {
	provider port.DatabaseProvider
}

// NewSettingsRepository creates a SQLite-backed settings repository.
func NewSettingsRepository(provider port.DatabaseProvider) repository.SettingsRepository {
	return &settingsRepo{provider: provider}
}

// Load reads every stored key. Missing keys keep their defaults and a
// corrupt value is logged and skipped.
func (r *settingsRepo) Load(ctx context.Context) (*entity.Settings, error) {
	log := logging.FromContext(ctx)

	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}

	s := entity.NewSettings()
	if raw, ok := values[KeyCustomEngines]; ok {
		engines, err := entity.DecodeCustomEngines(raw)
		if err != nil {
			log.Warn().Err(err).Str("key", KeyCustomEngines).Msg("ignoring corrupt custom engines")
		} else {
			s.CustomEngines = engines
		}
	}
	if raw, ok := values[KeyDeletedBuiltins]; ok {
		deleted, err := entity.DecodeNicknames(raw)
		if err != nil {
			log.Warn().Err(err).Str("key", KeyDeletedBuiltins).Msg("ignoring corrupt deleted engine list")
		} else {
			s.DeletedBuiltins = deleted
		}
	}
	if raw, ok := values[KeySpeedDial]; ok {
		s.SpeedDial = entity.OpaqueOr(raw, "[]")
	}
	if raw, ok := values[KeyColumns]; ok {
		s.Columns = entity.DecodeColumns(raw)
	}
	if raw, ok := values[KeyFavicons]; ok {
		s.Favicons = entity.OpaqueOr(raw, "{}")
	}
	s.CurrentEngine = values[KeyCurrentEngine]
	s.DefaultSearchEngine = values[KeyDefaultSearchEngine]
	s.DefaultSuggestEngine = values[KeyDefaultSuggestEngine]

	log.Debug().Int("keys", len(values)).Int("custom_engines", len(s.CustomEngines)).Msg("settings loaded")
	return s, nil
}

// Save writes every key in one transaction.
func (r *settingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	if s == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	custom, err := entity.EncodeCustomEngines(s.CustomEngines)
	if err != nil {
		return err
	}
	values := [][2]string{
		{KeyCustomEngines, custom},
		{KeyDeletedBuiltins, entity.EncodeNicknames(s.DeletedBuiltins)},
		{KeySpeedDial, string(entity.OpaqueOr(string(s.SpeedDial), "[]"))},
		{KeyColumns, strconv.Itoa(entity.ClampColumns(s.Columns))},
		{KeyFavicons, string(entity.OpaqueOr(string(s.Favicons), "{}"))},
		{KeyCurrentEngine, s.CurrentEngine},
		{KeyDefaultSearchEngine, s.DefaultSearchEngine},
		{KeyDefaultSuggestEngine, s.DefaultSuggestEngine},
	}

	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSettingSQL)
	if err != nil {
		return fmt.Errorf("prepare settings upsert: %w", err)
	}
	defer func(stmt *sql.Stmt) { _ = stmt.Close() }(stmt)

	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("write setting %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}

	logging.FromContext(ctx).Debug().Int("custom_engines", len(s.CustomEngines)).Msg("settings saved")
	return nil
}
