package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/Gunvolt24/orders_api/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"
)

// openMigrator — соединение database/sql (драйвер pgx) и настроенный goose.
func openMigrator(dsn string, out io.Writer) (*sql.DB, error) {
	if out == nil {
		out = io.Discard
	}
	goose.SetLogger(gooseLogger{out: out})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose set dialect: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// Migrate — применяет встроенные миграции (goose up).
func Migrate(ctx context.Context, dsn string, out io.Writer) error {
	db, err := openMigrator(dsn, out)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationStatus — печатает состояние миграций (goose status) в out.
func MigrationStatus(ctx context.Context, dsn string, out io.Writer) error {
	db, err := openMigrator(dsn, out)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}

// gooseLogger — вывод goose в произвольный writer.
type gooseLogger struct {
	out io.Writer
}

func (l gooseLogger) Fatalf(format string, v ...any) { _, _ = fmt.Fprintf(l.out, format, v...) }
func (l gooseLogger) Printf(format string, v ...any) { _, _ = fmt.Fprintf(l.out, format, v...) }
