//go:build integration

package testutil

import (
	"context"
	"os"

	pgrepo "github.com/Gunvolt24/orders_api/internal/repo/postgres"
)

// ApplyMigrationsGoose применяет встроенные миграции (goose up) к базе контейнера.
func ApplyMigrationsGoose(dsn string) error {
	return pgrepo.Migrate(context.Background(), dsn, os.Stdout)
}
