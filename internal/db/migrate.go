package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration pairs the up and down scripts of one schema version.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

var migrationName = regexp.MustCompile(`^(\d{4})_(.+)\.(up|down)\.sql$`)

// noTxMarker at the top of a script runs it outside a transaction.
const noTxMarker = "-- NO_TX"

const (
	createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
	)`
	recordMigration = `INSERT INTO schema_migrations (version) VALUES (?)`
	forgetMigration = `DELETE FROM schema_migrations WHERE version = ?`
)

// Applied returns the versions recorded in schema_migrations in ascending order.
func Applied(d *sql.DB) ([]int, error) {
	ctx := context.Background()
	if _, err := d.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RollbackLast runs the down script of the newest applied version. It is a
// no-op on an empty schema.
func RollbackLast(d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	applied, err := Applied(d)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return nil
	}
	last := applied[len(applied)-1]

	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	for _, m := range migs {
		if m.version == last && m.down != "" {
			return runScript(context.Background(), d, m.down, forgetMigration, last)
		}
	}
	return fmt.Errorf("no down migration for version %04d", last)
}

// loadMigrations reads the embedded scripts, ordered by version.
func loadMigrations() ([]migration, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	byVersion := map[int]*migration{}
	for _, file := range files {
		parts := migrationName.FindStringSubmatch(path.Base(file))
		if parts == nil {
			continue
		}
		version, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", file, err)
		}
		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: parts[2]}
			byVersion[version] = m
		}
		if parts[3] == "up" {
			m.up = file
		} else {
			m.down = file
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// applyMigrations runs every up script newer than the applied set.
func applyMigrations(ctx context.Context, d *sql.DB) error {
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := Applied(d)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	for _, m := range migs {
		if done[m.version] {
			continue
		}
		if m.up == "" {
			return fmt.Errorf("missing up migration for version %04d", m.version)
		}
		if err := runScript(ctx, d, m.up, recordMigration, m.version); err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// runScript executes an embedded script and the bookkeeping statement for
// version, inside one transaction unless the script starts with noTxMarker.
func runScript(ctx context.Context, d *sql.DB, file, bookkeeping string, version int) error {
	raw, err := migrationsFS.ReadFile(file)
	if err != nil {
		return err
	}
	script := string(raw)
	if strings.HasPrefix(strings.TrimSpace(script), noTxMarker) {
		if _, err := d.ExecContext(ctx, script); err != nil {
			return err
		}
		_, err := d.ExecContext(ctx, bookkeeping, version)
		return err
	}
	return WithTx(ctx, d, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, script); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, bookkeeping, version)
		return err
	})
}
