package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"quiz-hub/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS

// Migrations returns the schema files shipped with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const createVersionTable = `CREATE TABLE schema_migrations (
    VERSION    VARCHAR2(255) PRIMARY KEY,
    APPLIED_AT TIMESTAMP WITH TIME ZONE NOT NULL
)`

// ORA-00955: name is already used by an existing object
const oraNameInUse = "ORA-00955"

// Migration is one *.up.sql file. Each file holds a single statement without a
// trailing semicolon, since Oracle drivers reject multi-statement execs.
type Migration struct {
	Version string
	SQL     string
}

// LoadMigrations reads every *.up.sql file in fsys, ordered by file name.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		stmt := strings.TrimSpace(string(content))
		stmt = strings.TrimSuffix(stmt, ";")
		if stmt == "" {
			continue
		}
		migrations = append(migrations, Migration{Version: strings.TrimSuffix(name, ".up.sql"), SQL: stmt})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// RunMigrations applies the migrations in fsys that are not yet recorded in
// schema_migrations and returns the versions it applied.
func RunMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) ([]string, error) {
	log := logger.Get()

	if _, err := db.ExecContext(ctx, createVersionTable); err != nil && !strings.Contains(err.Error(), oraNameInUse) {
		return nil, fmt.Errorf("could not create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range migrations {
		if _, done := applied[m.Version]; done {
			continue
		}
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return ran, fmt.Errorf("could not execute migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (VERSION, APPLIED_AT) VALUES (:1, :2)`, m.Version, time.Now()); err != nil {
			return ran, fmt.Errorf("could not record migration %s: %w", m.Version, err)
		}
		log.Info("Executed migration", zap.String("version", m.Version))
		ran = append(ran, m.Version)
	}

	log.Info("Migrations completed successfully", zap.Int("applied", len(ran)))
	return ran, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT VERSION FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("could not scan schema_migrations: %w", err)
		}
		applied[v] = struct{}{}
	}
	return applied, rows.Err()
}
