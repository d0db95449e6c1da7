// Package db opens the SQLite database that backs saved designs and quotes.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the design database at dbPath, sets WAL, foreign keys and a
// busy timeout, and validates connectivity.
//
// The pool is capped at one connection. The pragmas below only apply to the
// connection that runs them, and the state store, seed and quote writes all
// go through this single writer. Code holding a *sql.Tx must issue every
// statement on the tx or it will block on the pool.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}
