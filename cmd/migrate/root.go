package main

import (
	"context"
	"io"

	"github.com/Gunvolt24/orders_api/config"
	"github.com/Gunvolt24/orders_api/internal/repo/gormsql"
	"github.com/Gunvolt24/orders_api/internal/repo/postgres"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// migrator — операции миграции; подменяется в тестах.
type migrator struct {
	up     func(ctx context.Context, dsn string, out io.Writer) error
	status func(ctx context.Context, dsn string, out io.Writer) error
	mysql  func(ctx context.Context, dsn string) error
}

var defaultMigrator = migrator{
	up:     postgres.Migrate,
	status: postgres.MigrationStatus,
	mysql:  migrateMySQL,
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultMigrator)
}

func newRootCmdWith(m migrator) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the orders schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (default: ORDER_POSTGRES_DSN / ORDER_MYSQL_DSN)")

	// resolveDSN — флаг приоритетнее конфигурации из окружения.
	resolveDSN := func(mysql bool) (string, error) {
		if dsn != "" {
			return dsn, nil
		}
		_ = godotenv.Load(".env.local")
		cfg, err := config.Load()
		if err != nil {
			return "", err
		}
		if mysql {
			return cfg.MySQL.DSN, nil
		}
		return cfg.Postgres.DSN, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			target, err := resolveDSN(false)
			if err != nil {
				return err
			}
			return m.up(c.Context(), target, c.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print Postgres migration status",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			target, err := resolveDSN(false)
			if err != nil {
				return err
			}
			return m.status(c.Context(), target, c.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mysql",
		Short: "Create or update the MySQL orders table (GORM auto-migrate)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			target, err := resolveDSN(true)
			if err != nil {
				return err
			}
			if err := m.mysql(c.Context(), target); err != nil {
				return err
			}
			c.Println("mysql schema is up to date")
			return nil
		},
	})

	return cmd
}

func migrateMySQL(ctx context.Context, dsn string) error {
	db, err := gormsql.Open(ctx, dsn, 1)
	if err != nil {
		return err
	}
	defer func() { _ = gormsql.Close(db) }()
	return gormsql.AutoMigrate(ctx, db)
}
