// Package sqlite implements the local persistent store of the application on
// top of modernc.org/sqlite: the storage engine, the cached-user session store
// and the settings store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/lifecycle"
	"github.com/anno-app/annoboot/pkg/log"
)

// ErrNotOpen is returned when the store is used before InitDB succeeded.
var ErrNotOpen = errors.New("sqlite: store not open")

const schema = `
CREATE TABLE IF NOT EXISTS app_user (
	id           TEXT PRIMARY KEY,
	email        TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	signed_in_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS app_settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	server_url TEXT NOT NULL DEFAULT '',
	server_id  TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL DEFAULT 0
);`

// Options tunes how the store is opened.
type Options struct {
	// OpenAttempts is how many times InitDB tries to open the database.
	OpenAttempts int

	// RetryInitial and RetryMax bound the backoff between attempts.
	RetryInitial time.Duration
	RetryMax     time.Duration

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		OpenAttempts: 3,
		RetryInitial: lifecycle.DefaultBackoffInitial,
		RetryMax:     lifecycle.DefaultBackoffMax,
		BusyTimeout:  5 * time.Second,
	}
}

// Store is the SQLite-backed local store.
type Store struct {
	path   string
	opts   Options
	logger log.Logger
	now    func() time.Time

	mu sync.RWMutex
	db *sql.DB
}

// New creates a Store for the database file at path. Nothing is opened
// until InitDB.
func New(path string, opts Options, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if opts.OpenAttempts <= 0 {
		opts.OpenAttempts = 1
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}
	return &Store{path: path, opts: opts, logger: logger, now: time.Now}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InitDB opens the database, creating the file and tables if needed.
// Calling it again after success is a no-op.
func (s *Store) InitDB(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	b := lifecycle.NewBackoff(s.opts.RetryInitial, s.opts.RetryMax)
	attempt := 0
	err := lifecycle.Retry(ctx, s.opts.OpenAttempts, b, func(ctx context.Context) error {
		attempt++
		db, err := s.open(ctx)
		if err != nil {
			s.logger.Warn("open database failed",
				log.String("path", s.path),
				log.Int("attempt", attempt),
				log.Err(err),
			)
			return err
		}
		s.db = db
		return nil
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	s.logger.Info("database ready", log.String("path", s.path))
	return nil
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}

	// One connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.opts.BusyTimeout.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return db, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db, nil
}

// RemoveUser deletes the cached signed-in user.
func (s *Store) RemoveUser(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM app_user`)
	if err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("cached user removed", log.Int("rows", int(n)))
	}
	return nil
}

// SaveUser caches u as the signed-in user, replacing any other.
func (s *Store) SaveUser(ctx context.Context, u domain.User) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM app_user`); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO app_user (id, email, display_name, signed_in_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.DisplayName, s.now().Unix(),
	); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return tx.Commit()
}

// CurrentUser returns the cached user, if any.
func (s *Store) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	db, err := s.conn()
	if err != nil {
		return domain.User{}, false, err
	}

	var u domain.User
	err = db.QueryRowContext(ctx, `SELECT id, email, display_name FROM app_user LIMIT 1`).
		Scan(&u.ID, &u.Email, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read user: %w", err)
	}
	return u, true, nil
}

// ReadSettings returns the persisted settings.
// Returns empty settings if none were saved yet.
func (s *Store) ReadSettings(ctx context.Context) (domain.Settings, error) {
	db, err := s.conn()
	if err != nil {
		return domain.Settings{}, err
	}

	var (
		st      domain.Settings
		updated int64
	)
	err = db.QueryRowContext(ctx,
		`SELECT server_url, server_id, updated_at FROM app_settings WHERE id = 1`,
	).Scan(&st.ServerURL, &st.ServerID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if updated > 0 {
		st.UpdatedAt = time.Unix(updated, 0).UTC()
	}
	return st, nil
}

// SaveServer assigns the server endpoint.
func (s *Store) SaveServer(ctx context.Context, ep domain.Endpoint) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO app_settings (id, server_url, server_id, updated_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	server_url = excluded.server_url,
	server_id  = excluded.server_id,
	updated_at = excluded.updated_at`,
		ep.URL, ep.Name, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save server: %w", err)
	}
	return nil
}

var (
	_ ports.StorageEngine = (*Store)(nil)
	_ ports.SessionStore  = (*Store)(nil)
	_ ports.SettingsStore = (*Store)(nil)
)
