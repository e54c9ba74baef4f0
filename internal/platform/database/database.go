// Package database opens the ledger's SQL database and keeps its schema up to date.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/go-sqlx/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// Supported values for Config.Driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrations embed.FS

type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

func dialectFor(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	case DriverPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Open connects to the database and applies any migrations that haven't been run yet,
// so a new database file gets its tables on first use.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	// SQLite only allows one writer, and with more connections the writes start failing with "database is locked".
	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(ctx, db.DB, cfg.Driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs all pending migrations for the driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dialect, err := dialectFor(driver)
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to find migrations for %s: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to set up migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, r := range results {
		slog.Debug("applied migration", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}

	return nil
}
