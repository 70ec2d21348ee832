// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping: the lazily
// initialized store gateway, SQLite setup (pure Go driver), and schema
// migrations.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/28dev-al/recovery-office-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStoreUnavailable wraps connection failures. Callers must not retry
// internally; retry policy belongs to the caller.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ConnState describes the lifecycle of the store connection.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

// String returns a human-readable connection state.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Store is the process-wide gateway to the record store. The connection is
// opened lazily on first use and reused thereafter; concurrent first-time
// opens collapse to a single underlying connection via a one-shot guard.
//
// The explicit state holder replaces a bare "already connected" boolean so
// tests can construct and discard instances deterministically.
type Store struct {
	path  string
	once  sync.Once
	state atomic.Int32

	db  *gorm.DB
	err error
}

// NewStore returns an unconnected Store for the given SQLite path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// State reports the current connection state.
func (s *Store) State() ConnState { return ConnState(s.state.Load()) }

// DB returns the shared GORM handle, opening and migrating the database on
// first call. Connection failures surface as ErrStoreUnavailable and are
// sticky: once the one-shot init has failed, every subsequent call returns
// the same error and a fresh Store must be created.
func (s *Store) DB() (*gorm.DB, error) {
	s.once.Do(func() {
		s.state.Store(int32(StateConnecting))
		db, err := OpenSQLite(s.path)
		if err == nil {
			err = AutoMigrate(db)
		}
		if err != nil {
			s.err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			s.state.Store(int32(StateDisconnected))
			return
		}
		s.db = db
		s.state.Store(int32(StateConnected))
	})
	return s.db, s.err
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist (instead of the
	// opaque sqlite "out of memory (14)").
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		// Bookings must stay listable after a referenced client or service
		// is deleted, so the associations carry no FK constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all domain entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Client{},
		&domain.Service{},
		&domain.Booking{},
	)
}
