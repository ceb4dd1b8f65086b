package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// embedded holds the schema for the database-backed admin session store.
//
//go:embed sql/*.sql
var embedded embed.FS

type migrator interface {
	Up() error
	Down() error
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

// sourceFactory opens cfg.Dir when set and the embedded files otherwise.
// The second return value names the source for logs.
var sourceFactory = func(cfg Config) (source.Driver, string, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		src, err := iofs.New(embedded, "sql")
		return src, "embedded", err
	}

	sourceURL, err := fileSourceURL(cfg.Dir)
	if err != nil {
		return nil, "", err
	}
	src, err := (&file.File{}).Open(sourceURL)
	return src, sourceURL, err
}

var migratorFactory = func(src source.Driver, driver database.Driver) (migrator, error) {
	return migrate.NewWithInstance("source", src, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	// Dir overrides the embedded migrations with a directory on disk.
	Dir             string
	MigrationsTable string
	Logger          Logger
}

// fileSourceURL builds a file:// URL with escaped, slash-separated path.
func fileSourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve dir: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absDir)}).String(), nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "up", migrator.Up)
}

// Down reverts every applied migration.
func Down(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "down", migrator.Down)
}

func run(ctx context.Context, db *sql.DB, cfg Config, direction string, step func(migrator) error) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}

	src, sourceName, err := sourceFactory(cfg)
	if err != nil {
		return fmt.Errorf("migrations: source: %w", err)
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(src, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}
	closeOnce := sync.Once{}
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if cfg.Logger != nil {
				if srcErr != nil {
					cfg.Logger.Warn("Migrations source close error", "error", srcErr)
				}
				if dbErr != nil {
					cfg.Logger.Warn("Migrations db close error", "error", dbErr)
				}
			}
		})
	}
	defer closeMigrator()

	if cfg.Logger != nil {
		cfg.Logger.Info("Running SQL migrations", "direction", direction, "source", sourceName, "table", cfg.MigrationsTable)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- step(m)
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only way to interrupt it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if cfg.Logger != nil {
				cfg.Logger.Info("No migrations to apply")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", direction, err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("Migrations applied successfully", "direction", direction)
	}
	return nil
}
