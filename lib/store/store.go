// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is the relational accessor for workshop data. It owns
// the SQLite schema for potters, stages, materials, items, item
// material links, and photo rows, and exposes the scoped list/get/
// insert operations the archive subsystem and the surrounding
// application consume.
//
// Every read and write borrows a connection from a [sqlitepool.Pool]
// for the duration of one call — the store never holds a connection
// across calls, so concurrent unrelated writes interleave freely
// (time-inconsistent but individually valid snapshots are an accepted
// property of archive export).
//
// Lookups that miss return [ErrNotFound]. Writes that violate a
// uniqueness or foreign key constraint surface through [IsConstraint]
// — callers branch on the structured SQLite result code, never on
// error message text.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/CruzerUzer/potterytracker/lib/sqlitepool"
)

// ErrNotFound is returned by Get* and *ByName lookups when no row
// matches.
var ErrNotFound = errors.New("store: not found")

// schemaScript creates all workshop tables. Runs once per pooled
// connection; IF NOT EXISTS makes it idempotent.
const schemaScript = `
	CREATE TABLE IF NOT EXISTS potters (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS stages (
		id        INTEGER PRIMARY KEY,
		potter_id INTEGER NOT NULL REFERENCES potters(id),
		name      TEXT NOT NULL,
		position  INTEGER NOT NULL DEFAULT 0,
		UNIQUE (potter_id, name)
	);
	CREATE TABLE IF NOT EXISTS materials (
		id        INTEGER PRIMARY KEY,
		potter_id INTEGER NOT NULL REFERENCES potters(id),
		name      TEXT NOT NULL,
		kind      TEXT NOT NULL,
		notes     TEXT NOT NULL DEFAULT '',
		UNIQUE (potter_id, name, kind)
	);
	CREATE TABLE IF NOT EXISTS items (
		id         INTEGER PRIMARY KEY,
		potter_id  INTEGER NOT NULL REFERENCES potters(id),
		stage_id   INTEGER REFERENCES stages(id),
		name       TEXT NOT NULL,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS item_materials (
		item_id     INTEGER NOT NULL REFERENCES items(id),
		material_id INTEGER NOT NULL REFERENCES materials(id),
		PRIMARY KEY (item_id, material_id)
	);
	CREATE TABLE IF NOT EXISTS photos (
		id          INTEGER PRIMARY KEY,
		potter_id   INTEGER NOT NULL REFERENCES potters(id),
		item_id     INTEGER REFERENCES items(id),
		filename    TEXT NOT NULL,
		caption     TEXT NOT NULL DEFAULT '',
		uploaded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_stages_potter ON stages(potter_id);
	CREATE INDEX IF NOT EXISTS idx_materials_potter ON materials(potter_id);
	CREATE INDEX IF NOT EXISTS idx_items_potter ON items(potter_id);
	CREATE INDEX IF NOT EXISTS idx_photos_potter ON photos(potter_id);
	CREATE INDEX IF NOT EXISTS idx_photos_item ON photos(item_id);
`

// Config holds the parameters for opening a store.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist. ":memory:" works for tests with
	// PoolSize 1.
	Path string

	// PoolSize is the connection pool size. Defaults to 4 if zero or
	// negative.
	PoolSize int

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Store provides workshop row access over a SQLite connection pool.
// Safe for concurrent use.
type Store struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
}

// Open creates the store, opening the pool and installing the schema
// on every connection. The caller must call Close when done.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: cfg.PoolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schemaScript, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close closes the underlying connection pool. Blocks until all
// borrowed connections are returned.
func (s *Store) Close() error {
	return s.pool.Close()
}

// IsConstraint reports whether err is a SQLite constraint violation
// (uniqueness, foreign key, primary key). The check goes through the
// structured result code, not the error text.
func IsConstraint(err error) bool {
	return sqlite.ErrCode(err).ToPrimary() == sqlite.ResultConstraint
}

// nullableID converts an optional row reference to a bind argument:
// nil pointer binds SQL NULL.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// columnNullableID reads an optional row reference from a result
// column: SQL NULL yields a nil pointer.
func columnNullableID(stmt *sqlite.Stmt, column int) *int64 {
	if stmt.ColumnIsNull(column) {
		return nil
	}
	value := stmt.ColumnInt64(column)
	return &value
}

// withConn borrows a connection, runs fn, and returns it. All store
// operations go through this.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer s.pool.Put(conn)
	return fn(conn)
}
