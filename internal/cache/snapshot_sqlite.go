package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/gallery-go/internal"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSnapshotStore implements SnapshotStore on a SQLite database file
type SQLiteSnapshotStore struct {
	db     *sql.DB
	logger *internal.Logger
}

// NewSQLiteSnapshotStore opens (and creates if needed) the snapshot database at path
func NewSQLiteSnapshotStore(path string, logger *internal.Logger) (*SQLiteSnapshotStore, error) {
	if logger == nil {
		logger = internal.GetLogger()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := initializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug(internal.ComponentStorage, "Snapshot store opened at %s", path)
	return &SQLiteSnapshotStore{db: db, logger: logger}, nil
}

// Initialize database tables
func initializeDatabase(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS query_snapshots (
			resource TEXT NOT NULL,
			operation TEXT NOT NULL,
			params TEXT NOT NULL,
			data TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (resource, operation, params)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create query_snapshots table: %w", err)
	}
	return nil
}

// Load returns the last saved data for key
func (d *SQLiteSnapshotStore) Load(ctx context.Context, key Key) ([]byte, time.Time, bool, error) {
	var data, savedAt string
	err := d.db.QueryRowContext(ctx,
		"SELECT data, saved_at FROM query_snapshots WHERE resource = ? AND operation = ? AND params = ?",
		key.Resource, key.Operation, key.Params,
	).Scan(&data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return []byte(data), t, true, nil
}

// Save stores data for key, replacing any previous snapshot
func (d *SQLiteSnapshotStore) Save(ctx context.Context, key Key, data []byte, savedAt time.Time) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO query_snapshots (resource, operation, params, data, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, key.Resource, key.Operation, key.Params, string(data), savedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Purge removes every snapshot
func (d *SQLiteSnapshotStore) Purge(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM query_snapshots")
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	d.logger.Info(internal.ComponentStorage, "Purged %d snapshots", n)
	return n, nil
}

// Close closes the database connection
func (d *SQLiteSnapshotStore) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
