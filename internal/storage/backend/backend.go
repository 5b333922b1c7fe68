// Package backend picks a storage implementation from a database URL.
package backend

import (
	"context"
	"strings"

	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/hongminglow/expense-tracker-be/internal/storage/postgres"
	"github.com/hongminglow/expense-tracker-be/internal/storage/sqlite"
)

// Open connects to Postgres for postgres:// and postgresql:// URLs and to
// SQLite for everything else. A leading sqlite:// or sqlite: is stripped
// and the remainder is handed to the driver as a path or file: URI.
func Open(ctx context.Context, databaseURL string) (storage.Store, error) {
	url := strings.TrimSpace(databaseURL)
	if IsPostgres(url) {
		return postgres.NewStore(ctx, url)
	}
	return sqlite.NewStore(ctx, sqlitePath(url))
}

// IsPostgres reports whether url selects the Postgres backend.
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func sqlitePath(url string) string {
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
