package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/database"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLockID serialises concurrent migrators via pg_advisory_xact_lock.
const migrationLockID = 74_120_001

// Migrate applies pending embedded migrations in lexical order. Applied
// versions are recorded in schema_migrations, so re-running is a no-op.
func Migrate(ctx context.Context, db *database.DB, log *logger.Logger) (int, error) {
	names, err := migrationNames()
	if err != nil {
		return 0, err
	}

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, name := range names {
		raw, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		var ran bool
		err = db.InTransaction(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return nil
			}
			if _, err := tx.Exec(ctx, string(raw)); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
				return err
			}
			ran = true
			return nil
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		if ran {
			applied++
			log.Info().Str("migration", name).Msg("Migration applied")
		}
	}

	log.Info().Int("applied", applied).Int("total", len(names)).Msg("Migrations complete")
	return applied, nil
}

// Reset drops every table in the public schema and re-applies migrations.
// Callers must gate this on a non-production environment.
func Reset(ctx context.Context, db *database.DB, log *logger.Logger) error {
	if _, err := db.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public`); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	log.Warn().Msg("Database schema dropped")
	_, err := Migrate(ctx, db, log)
	return err
}

func migrationNames() ([]string, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
