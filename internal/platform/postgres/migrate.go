package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose records applied versions in.
const MigrationTableName = "schema_migrations"

// migrationsDir is the directory inside Migrations holding the SQL files.
const migrationsDir = "migrations"

// Migrations holds the bundled goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// RunMigrations executes a goose command ("up", "down", "reset", "status"
// or "version") against db using the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "migrations", "command", command)

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(Migrations)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	start := time.Now()
	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, db, migrationsDir)
	case "reset":
		err = goose.ResetContext(ctx, db, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db, migrationsDir)
	case "version":
		err = goose.VersionContext(ctx, db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		log.Error("migration command failed", "error", err)
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
