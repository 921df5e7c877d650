package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/econgraph/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// sqlite pragmas: wait on a locked file, WAL for concurrent readers, fsync
// on every commit so a returned mastery write is on disk.
const dsnParams = "_busy_timeout=5000&_journal_mode=WAL&_synchronous=FULL"

// DB is the SQLite handle backing durable records.
type DB struct {
	*sql.DB
	log *logger.Logger
}

// Open opens (or creates) the status database at path and brings its schema
// up to date. Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	log := logger.Default().WithPrefix("db").WithField("path", path)

	sqlDB, err := sql.Open("sqlite3", path+"?"+dsnParams)
	if err != nil {
		log.Error("cannot open status database: %v", err)
		return nil, err
	}
	// A single connection serializes record writes and keeps :memory: alive.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, log: log}
	n, err := db.migrate(context.Background())
	if err != nil {
		log.Error("schema upgrade failed: %v", err)
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info("status database ready (%d migrations applied)", n)
	return db, nil
}

// migrate runs every embedded script not yet recorded in schema_migrations,
// in file-name order, each in its own transaction. It returns how many ran.
func (db *DB) migrate(ctx context.Context) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return 0, err
	}

	done, err := db.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	scripts, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return 0, err
	}
	sort.Strings(scripts)

	ran := 0
	for _, script := range scripts {
		version := script[len("migrations/"):]
		if done[version] {
			continue
		}
		body, err := migrationsFS.ReadFile(script)
		if err != nil {
			return ran, err
		}
		if err := db.runMigration(ctx, version, string(body)); err != nil {
			return ran, fmt.Errorf("migration %s: %w", version, err)
		}
		db.log.Debug("migrated schema to %s", version)
		ran++
	}
	return ran, nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		done[v] = true
	}
	return done, rows.Err()
}

func (db *DB) runMigration(ctx context.Context, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return err
	}
	return tx.Commit()
}

// Ping reports whether the database answers queries.
func (db *DB) Ping(ctx context.Context) error {
	var one int
	return db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}
