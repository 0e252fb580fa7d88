// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// Pool limits. Traffic is one site owner editing and anonymous visitors
// reading a handful of rows, so a small pool covers concurrent readers
// while WAL keeps them off the single writer.
const (
	maxOpenConns    = 4
	maxIdleConns    = 4
	connMaxIdleTime = 10 * time.Minute
)

// BusyTimeout is how long a connection waits on a locked database.
const BusyTimeout = 5 * time.Second

// connPragmas run on every new connection. busy_timeout is per connection,
// so it must be in the DSN rather than executed once on the pool.
var connPragmas = []string{
	"journal_mode(WAL)",
	fmt.Sprintf("busy_timeout(%d)", BusyTimeout.Milliseconds()),
	"synchronous(NORMAL)",
}

// dsn builds the modernc.org/sqlite data source name for path. Write
// transactions take the lock up front so an import never fails halfway
// on a read-to-write upgrade.
func dsn(path string) string {
	q := url.Values{"_pragma": connPragmas, "_txlock": {"immediate"}}
	return "file:" + path + "?" + q.Encode()
}

// NewDB opens the SQLite database at path.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
