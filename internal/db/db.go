package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// pragmas are connection-scoped in SQLite, so OpenDB keeps a single
// connection. The busy timeout makes a sync writer and the CLI wait on each
// other instead of failing with SQLITE_BUSY.
var pragmas = []string{
	"journal_mode = WAL",
	"foreign_keys = ON",
	"busy_timeout = 5000",
}

// OpenDB opens the habitus SQLite database at path, creating its directory
// when needed. ":memory:" opens a private in-memory database. Migrations run
// before returning.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %s: %w", p, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
