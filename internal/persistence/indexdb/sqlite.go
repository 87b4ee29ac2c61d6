// Package indexdb keeps a small SQLite read-model of finished builds:
// fingerprint, seed, observed normalization range and the snapshot path.
// It never affects generation; it exists so operators and tools can find
// past builds without decompressing snapshots.
package indexdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

type BuildRow struct {
	Fingerprint    string
	Seed           int64
	GridExtent     int
	SamplesPerTile int
	Tiles          int
	ObservedMin    float64
	ObservedMax    float64
	SnapshotPath   string
	CreatedAt      string
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL keeps append-style writes cheap; NORMAL is enough durability for
	// a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL,
	seed INTEGER NOT NULL,
	grid_extent INTEGER NOT NULL,
	samples_per_tile INTEGER NOT NULL,
	tiles INTEGER NOT NULL,
	observed_min REAL NOT NULL,
	observed_max REAL NOT NULL,
	snapshot_path TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_builds_fingerprint ON builds(fingerprint);
`
	_, err := db.Exec(schema)
	return err
}

// RecordBuild appends one build row. CreatedAt is filled when empty.
func (d *DB) RecordBuild(b BuildRow) error {
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := d.db.Exec(
		`INSERT INTO builds (fingerprint, seed, grid_extent, samples_per_tile, tiles, observed_min, observed_max, snapshot_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Fingerprint, b.Seed, b.GridExtent, b.SamplesPerTile, b.Tiles,
		b.ObservedMin, b.ObservedMax, b.SnapshotPath, b.CreatedAt,
	)
	return err
}

// LatestBuild returns the most recent build, or ok=false when none exist.
func (d *DB) LatestBuild() (BuildRow, bool, error) {
	return d.queryOne(`SELECT fingerprint, seed, grid_extent, samples_per_tile, tiles, observed_min, observed_max, snapshot_path, created_at
		FROM builds ORDER BY id DESC LIMIT 1`)
}

// BuildByFingerprint returns the most recent build for a fingerprint.
func (d *DB) BuildByFingerprint(fp string) (BuildRow, bool, error) {
	return d.queryOne(`SELECT fingerprint, seed, grid_extent, samples_per_tile, tiles, observed_min, observed_max, snapshot_path, created_at
		FROM builds WHERE fingerprint = ? ORDER BY id DESC LIMIT 1`, fp)
}

func (d *DB) queryOne(q string, args ...any) (BuildRow, bool, error) {
	var b BuildRow
	row := d.db.QueryRow(q, args...)
	err := row.Scan(&b.Fingerprint, &b.Seed, &b.GridExtent, &b.SamplesPerTile, &b.Tiles,
		&b.ObservedMin, &b.ObservedMax, &b.SnapshotPath, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return b, false, nil
	}
	if err != nil {
		return b, false, err
	}
	return b, true, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
