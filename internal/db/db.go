package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) a local SQLite database file and applies pending migrations.
// It uses versioned .sql files under internal/db/migrations following the pattern:
//
//	0001_name.up.sql / 0001_name.down.sql
//
// Only new migrations are applied. Use RollbackLast to revert the last applied migration.
// Connection pragmas are passed through the DSN so every pooled connection gets them.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = defaultPath
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	d, err := sql.Open("sqlite3", withPragmas(path))
	if err != nil {
		return nil, err
	}
	if isMemory(path) {
		// A shared in-memory database is locked per table, not per file;
		// one connection serialises access instead of failing with SQLITE_LOCKED.
		d.SetMaxOpenConns(1)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := applyMigrations(context.Background(), d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

const defaultPath = "media/clinic.sqlite3"

// withPragmas appends the go-sqlite3 DSN parameters for foreign keys,
// busy timeout, immediate transactions and (for files) WAL journaling.
// BEGIN IMMEDIATE takes the write lock up front, so concurrent
// check-then-insert actions queue on the busy timeout instead of failing
// at their first write.
func withPragmas(path string) string {
	params := []string{"_foreign_keys=1", "_busy_timeout=5000", "_txlock=immediate"}
	if !isMemory(path) {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(path, "file:") && !isMemory(path) {
		path = "file:" + path
	}
	return path + sep + strings.Join(params, "&")
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// ensureDir creates the parent directory of a file database.
func ensureDir(path string) error {
	if isMemory(path) {
		return nil
	}
	p := strings.TrimPrefix(path, "file:")
	if i := strings.Index(p, "?"); i >= 0 {
		p = p[:i]
	}
	dir := filepath.Dir(p)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %s: %w", dir, err)
	}
	return nil
}
