// Package sqlite implements the domain repositories on top of a single
// SQLite database file. Question lists and answer maps are stored as JSON
// documents inside the interview row, so every record is one independently
// readable and writable unit.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kdmarlow/intervue/internal/domain"
	"github.com/kdmarlow/intervue/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and hands out repositories.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all unapplied embedded migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the user repository.
func (d *DB) Users() *UserRepository {
	return NewUserRepository(d)
}

// Interviews returns the interview repository.
func (d *DB) Interviews() *InterviewRepository {
	return NewInterviewRepository(d)
}

// FileStore returns the blob store for resumes and answer videos.
func (d *DB) FileStore() domain.FileStore {
	return &fileStore{db: d.SqlDB}
}
