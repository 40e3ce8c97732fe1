// Package repomanager wires repositories to a database handle and applies
// schema migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamhub/authd/internal/dbx"
	"github.com/streamhub/authd/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
