package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrationFS embed.FS

const migrationDir = "sql"

// Migrator applies the embedded schema migrations with goose.
type Migrator struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewMigrator creates a new migrator. goose needs a *sql.DB, so one is
// opened on top of the shared pool; closing it does not close the pool.
func NewMigrator(pool *pgxpool.Pool, lgr zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		logger: lgr,
	}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	m.logger.Info().Msg("Applying database migrations...")
	if err := goose.UpContext(ctx, m.db, migrationDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}
	m.logger.Info().Int64("version", version).Msg("Database migrations applied")
	return nil
}

// Close releases the *sql.DB wrapper
func (m *Migrator) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
