package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nhle/itodo/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// All operations are serialized by a single mutex over a single connection.
type SQLiteStore struct {
	mu  sync.Mutex
	db  *sqlx.DB
	now func() time.Time
	loc *time.Location
	log logrus.FieldLogger
}

var _ Store = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock replaces time.Now as the source of timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// WithLocation sets the timezone used to compute "today". Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *SQLiteStore) { s.loc = loc }
}

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *SQLiteStore) { s.log = log }
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode and foreign keys, creates the schema and seeds the
// default list.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: the store lock already serializes access, and an
	// in-memory database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &SQLiteStore{
		db:  db,
		now: time.Now,
		loc: time.UTC,
		log: quiet,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Init applies pending schema migrations and seeds the default list if
// none exists. Both steps are idempotent.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		err := tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM lists WHERE is_default = 1")
		if err != nil {
			return dbErr("counting default lists", err)
		}
		if count > 0 {
			return nil
		}

		color, icon := model.DefaultListColor, model.DefaultListIcon
		list := model.List{
			ID:        uuid.New().String(),
			Name:      model.DefaultListName,
			Color:     &color,
			Icon:      &icon,
			IsDefault: true,
			CreatedAt: s.timestamp(),
			Order:     0,
		}
		if err := insertList(ctx, tx, list); err != nil {
			return err
		}

		s.log.WithField("list_id", list.ID).Info("seeded default list")
		return nil
	})
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations(ctx context.Context) error {
	currentVersion := 0

	var tableCount int
	err := s.db.GetContext(ctx,
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return dbErr("checking schema_version table", err)
	}

	if tableCount > 0 {
		err = s.db.GetContext(ctx, &currentVersion,
			"SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return dbErr("reading schema version", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return dbErr(fmt.Sprintf("applying migration v%d", m.version), err)
		}
		s.log.WithField("version", m.version).Debug("applied schema migration")
	}

	return nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
// Callers must hold s.mu.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbErr("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dbErr("committing transaction", err)
	}
	return nil
}

// timestamp returns the store clock's current time in UTC.
func (s *SQLiteStore) timestamp() time.Time {
	return s.now().UTC()
}

// today returns the current calendar date in the store's location.
func (s *SQLiteStore) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
