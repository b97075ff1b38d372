// SPDX-License-Identifier: Apache-2.0

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/migrations"
)

// DB wraps the raw connection together with a statement builder configured
// for the active driver's placeholder format ($1 for postgres, ? for
// sqlite).
type DB struct {
	*sql.DB
	builder sq.StatementBuilderType
	driver  string
	logger  *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}
