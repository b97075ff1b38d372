// Package migrations applies the embedded SQL schema with goose.
//
// Both supported backends get their own migration directory because the
// type and default syntax differ between PostgreSQL and SQLite.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Migrate brings the schema of db up to date. The driver selects the
// dialect and migration directory: "postgres" or "sqlite".
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	var dialect, dir string
	switch driver {
	case "postgres":
		dialect, dir = "pgx", "postgres"
	case "sqlite":
		dialect, dir = "sqlite3", "sqlite"
	default:
		return fmt.Errorf("migration error: unknown driver %q", driver)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
