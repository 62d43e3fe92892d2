package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

// ErrStoreClosed is returned by DB after Close.
var ErrStoreClosed = errors.New("settings store is closed")

// LazyDB opens the settings store on the first DB call. Commands that never
// read settings (`startpage config path`, `startpage version`) leave no file
// behind. An open failure is remembered and returned to every later caller.
type LazyDB struct {
	path string

	mu      sync.Mutex
	db      *sql.DB
	openErr error
	closed  bool
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB returns a provider for the database file at path.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB returns the shared connection, opening and migrating it on first use.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
		return nil, ErrStoreClosed
	case l.db != nil:
		return l.db, nil
	case l.openErr != nil:
		return nil, l.openErr
	}

	log := logging.FromContext(ctx).With().Str("path", l.path).Logger()
	db, err := NewConnection(ctx, l.path)
	if err != nil {
		l.openErr = fmt.Errorf("open settings store: %w", err)
		log.Error().Err(err).Msg("settings store unavailable")
		return nil, l.openErr
	}
	log.Debug().Msg("settings store opened")
	l.db = db
	return db, nil
}

// Close releases the connection. Later DB calls fail with ErrStoreClosed.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether the store has been opened.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}

// Path returns the database file path.
func (l *LazyDB) Path() string {
	return l.path
}
